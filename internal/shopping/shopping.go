// Package shopping builds a user's shopping list from the recipes in their cart.
package shopping

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Line is one aggregated entry of a shopping list.
type Line struct {
	Name   string
	Amount int64
	Unit   string
}

// IngredientRow is one (recipe, ingredient) pair of a recipe in the cart.
type IngredientRow struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

// Source is the storage the aggregator reads from.
type Source interface {
	CartRecipeIDs(ctx context.Context, userID int64) ([]int64, error)
	IngredientRowsForRecipes(ctx context.Context, recipeIDs []int64) ([]IngredientRow, error)
}

// UnitConflictError reports an ingredient name that appears with more than
// one measurement unit in a single aggregation.
type UnitConflictError struct {
	Name  string
	Units []string
}

func (e *UnitConflictError) Error() string {
	return fmt.Sprintf("ingredient %q has conflicting measurement units: %s",
		e.Name, strings.Join(e.Units, ", "))
}

type Aggregator struct {
	source Source
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Aggregate returns the shopping list of userID: one line per ingredient
// name across the recipes in the cart, amounts summed, sorted by name.
// An empty cart yields an empty list.
func (a *Aggregator) Aggregate(ctx context.Context, userID int64) ([]Line, error) {
	recipeIDs, err := a.source.CartRecipeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting cart recipes: %w", err)
	}
	if len(recipeIDs) == 0 {
		return []Line{}, nil
	}

	rows, err := a.source.IngredientRowsForRecipes(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("getting cart ingredients: %w", err)
	}
	return combine(rows)
}

// combine groups rows by ingredient name and sums their amounts.
func combine(rows []IngredientRow) ([]Line, error) {
	byName := make(map[string]*Line, len(rows))
	conflicts := make(map[string][]string)

	for _, row := range rows {
		line, ok := byName[row.Name]
		if !ok {
			byName[row.Name] = &Line{Name: row.Name, Amount: row.Amount, Unit: row.MeasurementUnit}
			continue
		}
		if line.Unit != row.MeasurementUnit {
			units := conflicts[row.Name]
			if len(units) == 0 {
				units = append(units, line.Unit)
			}
			if !slices.Contains(units, row.MeasurementUnit) {
				units = append(units, row.MeasurementUnit)
			}
			conflicts[row.Name] = units
		}
		line.Amount += row.Amount
	}

	if len(conflicts) > 0 {
		names := make([]string, 0, len(conflicts))
		for name := range conflicts {
			names = append(names, name)
		}
		slices.Sort(names)
		units := conflicts[names[0]]
		slices.Sort(units)
		return nil, &UnitConflictError{Name: names[0], Units: units}
	}

	lines := make([]Line, 0, len(byName))
	for _, line := range byName {
		lines = append(lines, *line)
	}
	slices.SortFunc(lines, func(a, b Line) int {
		return strings.Compare(a.Name, b.Name)
	})
	return lines, nil
}
