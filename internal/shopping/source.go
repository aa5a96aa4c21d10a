package shopping

import (
	"context"

	"github.com/matt-dz/foodgram/internal/database"
)

// DatabaseSource reads carts and recipe ingredients through a database.Querier.
type DatabaseSource struct {
	Querier database.Querier
}

var _ Source = DatabaseSource{}

func (s DatabaseSource) CartRecipeIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.Querier.CartRecipeIDs(ctx, userID)
}

func (s DatabaseSource) IngredientRowsForRecipes(ctx context.Context, recipeIDs []int64) ([]IngredientRow, error) {
	rows, err := s.Querier.ListRecipeIngredients(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	out := make([]IngredientRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, IngredientRow{
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          int64(row.Amount),
		})
	}
	return out, nil
}
