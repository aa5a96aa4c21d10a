package database

import (
	"context"
)

const countIngredientsByIDs = `-- name: CountIngredientsByIDs :one
SELECT count(*) FROM ingredients WHERE id = ANY($1::bigint[])
`

func (q *Queries) CountIngredientsByIDs(ctx context.Context, ids []int64) (int64, error) {
	row := q.db.QueryRow(ctx, countIngredientsByIDs, ids)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createIngredient = `-- name: CreateIngredient :one
INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2)
ON CONFLICT (name) DO NOTHING
RETURNING id
`

type CreateIngredientParams struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// CreateIngredient returns pgx.ErrNoRows when an ingredient with the same name exists.
func (q *Queries) CreateIngredient(ctx context.Context, arg CreateIngredientParams) (int64, error) {
	row := q.db.QueryRow(ctx, createIngredient, arg.Name, arg.MeasurementUnit)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getIngredient = `-- name: GetIngredient :one
SELECT id, name, measurement_unit FROM ingredients WHERE id = $1
`

func (q *Queries) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	row := q.db.QueryRow(ctx, getIngredient, id)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

const listIngredients = `-- name: ListIngredients :many
SELECT id, name, measurement_unit FROM ingredients
WHERE $1::text = '' OR lower(name) LIKE lower($1::text) || '%'
ORDER BY name
`

// ListIngredients lists ingredients whose name starts with prefix, ignoring case.
// LIKE wildcards in prefix are escaped by the caller.
func (q *Queries) ListIngredients(ctx context.Context, prefix string) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, listIngredients, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Ingredient{}
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
