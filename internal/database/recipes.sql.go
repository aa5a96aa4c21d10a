package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const recipeRowColumns = `r.id, r.author_id, r.name, r.text, r.image_key, r.cooking_time, r.pub_date,
  u.email, u.username, u.first_name, u.last_name, u.avatar_key,
  EXISTS (SELECT 1 FROM subscriptions s WHERE s.subscriber_id = $1 AND s.author_id = r.author_id),
  EXISTS (SELECT 1 FROM favorites f WHERE f.user_id = $1 AND f.recipe_id = r.id),
  EXISTS (SELECT 1 FROM shopping_cart c WHERE c.user_id = $1 AND c.recipe_id = r.id)`

// recipeFilter expects $1 viewer, $2 author, $3 tag slugs, $4 only favorited, $5 only in cart.
const recipeFilter = `($2::bigint IS NULL OR r.author_id = $2::bigint)
  AND (coalesce(cardinality($3::text[]), 0) = 0 OR EXISTS (
    SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
    WHERE rt.recipe_id = r.id AND t.slug = ANY($3::text[])))
  AND (NOT $4::boolean OR EXISTS (
    SELECT 1 FROM favorites f WHERE f.user_id = $1 AND f.recipe_id = r.id))
  AND (NOT $5::boolean OR EXISTS (
    SELECT 1 FROM shopping_cart c WHERE c.user_id = $1 AND c.recipe_id = r.id))`

func scanRecipeRow(row interface{ Scan(...any) error }) (RecipeRow, error) {
	var i RecipeRow
	err := row.Scan(
		&i.ID,
		&i.AuthorID,
		&i.Name,
		&i.Text,
		&i.ImageKey,
		&i.CookingTime,
		&i.PubDate,
		&i.AuthorEmail,
		&i.AuthorUsername,
		&i.AuthorFirstName,
		&i.AuthorLastName,
		&i.AuthorAvatarKey,
		&i.AuthorIsSubscribed,
		&i.IsFavorited,
		&i.IsInShoppingCart,
	)
	return i, err
}

const countRecipes = `-- name: CountRecipes :one
SELECT count(*) FROM recipes r WHERE ` + recipeFilter + `
`

type RecipeFilterParams struct {
	ViewerID      int64       `json:"viewer_id"`
	AuthorID      pgtype.Int8 `json:"author_id"`
	TagSlugs      []string    `json:"tag_slugs"`
	OnlyFavorited bool        `json:"only_favorited"`
	OnlyInCart    bool        `json:"only_in_cart"`
}

func (q *Queries) CountRecipes(ctx context.Context, arg RecipeFilterParams) (int64, error) {
	row := q.db.QueryRow(ctx, countRecipes,
		arg.ViewerID,
		arg.AuthorID,
		arg.TagSlugs,
		arg.OnlyFavorited,
		arg.OnlyInCart,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listRecipes = `-- name: ListRecipes :many
SELECT ` + recipeRowColumns + `
FROM recipes r
JOIN users u ON u.id = r.author_id
WHERE ` + recipeFilter + `
ORDER BY r.pub_date DESC, r.id DESC
LIMIT $6 OFFSET $7
`

type ListRecipesParams struct {
	RecipeFilterParams
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListRecipes(ctx context.Context, arg ListRecipesParams) ([]RecipeRow, error) {
	rows, err := q.db.Query(ctx, listRecipes,
		arg.ViewerID,
		arg.AuthorID,
		arg.TagSlugs,
		arg.OnlyFavorited,
		arg.OnlyInCart,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []RecipeRow{}
	for rows.Next() {
		i, err := scanRecipeRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRecipe = `-- name: GetRecipe :one
SELECT ` + recipeRowColumns + `
FROM recipes r
JOIN users u ON u.id = r.author_id
WHERE r.id = $2
`

type GetRecipeParams struct {
	ViewerID int64 `json:"viewer_id"`
	ID       int64 `json:"id"`
}

func (q *Queries) GetRecipe(ctx context.Context, arg GetRecipeParams) (RecipeRow, error) {
	return scanRecipeRow(q.db.QueryRow(ctx, getRecipe, arg.ViewerID, arg.ID))
}

const getRecipeAuthor = `-- name: GetRecipeAuthor :one
SELECT author_id FROM recipes WHERE id = $1
`

func (q *Queries) GetRecipeAuthor(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRow(ctx, getRecipeAuthor, id)
	var authorID int64
	err := row.Scan(&authorID)
	return authorID, err
}

const findRecipeID = `-- name: FindRecipeID :one
SELECT id FROM recipes WHERE author_id = $1 AND name = $2
ORDER BY id
LIMIT 1
`

type FindRecipeIDParams struct {
	AuthorID int64  `json:"author_id"`
	Name     string `json:"name"`
}

func (q *Queries) FindRecipeID(ctx context.Context, arg FindRecipeIDParams) (int64, error) {
	row := q.db.QueryRow(ctx, findRecipeID, arg.AuthorID, arg.Name)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getShortRecipe = `-- name: GetShortRecipe :one
SELECT id, name, image_key, cooking_time FROM recipes WHERE id = $1
`

func (q *Queries) GetShortRecipe(ctx context.Context, id int64) (ShortRecipe, error) {
	row := q.db.QueryRow(ctx, getShortRecipe, id)
	var i ShortRecipe
	err := row.Scan(&i.ID, &i.Name, &i.ImageKey, &i.CookingTime)
	return i, err
}

const recipeExists = `-- name: RecipeExists :one
SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)
`

func (q *Queries) RecipeExists(ctx context.Context, id int64) (bool, error) {
	row := q.db.QueryRow(ctx, recipeExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createRecipe = `-- name: CreateRecipe :one
INSERT INTO recipes (author_id, name, text, image_key, cooking_time)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

type CreateRecipeParams struct {
	AuthorID    int64  `json:"author_id"`
	Name        string `json:"name"`
	Text        string `json:"text"`
	ImageKey    string `json:"image_key"`
	CookingTime int32  `json:"cooking_time"`
}

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	row := q.db.QueryRow(ctx, createRecipe,
		arg.AuthorID,
		arg.Name,
		arg.Text,
		arg.ImageKey,
		arg.CookingTime,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateRecipe = `-- name: UpdateRecipe :exec
UPDATE recipes
SET name = $2, text = $3, image_key = $4, cooking_time = $5
WHERE id = $1
`

type UpdateRecipeParams struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Text        string `json:"text"`
	ImageKey    string `json:"image_key"`
	CookingTime int32  `json:"cooking_time"`
}

func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	_, err := q.db.Exec(ctx, updateRecipe,
		arg.ID,
		arg.Name,
		arg.Text,
		arg.ImageKey,
		arg.CookingTime,
	)
	return err
}

const deleteRecipe = `-- name: DeleteRecipe :exec
DELETE FROM recipes WHERE id = $1
`

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteRecipe, id)
	return err
}

const listAuthorRecipes = `-- name: ListAuthorRecipes :many
SELECT id, name, image_key, cooking_time FROM recipes
WHERE author_id = $1
ORDER BY pub_date DESC, id DESC
LIMIT $2
`

type ListAuthorRecipesParams struct {
	AuthorID int64       `json:"author_id"`
	Limit    pgtype.Int4 `json:"limit"`
}

// ListAuthorRecipes returns every recipe of the author when Limit is NULL.
func (q *Queries) ListAuthorRecipes(ctx context.Context, arg ListAuthorRecipesParams) ([]ShortRecipe, error) {
	rows, err := q.db.Query(ctx, listAuthorRecipes, arg.AuthorID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ShortRecipe{}
	for rows.Next() {
		var i ShortRecipe
		if err := rows.Scan(&i.ID, &i.Name, &i.ImageKey, &i.CookingTime); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countAuthorRecipes = `-- name: CountAuthorRecipes :one
SELECT count(*) FROM recipes WHERE author_id = $1
`

func (q *Queries) CountAuthorRecipes(ctx context.Context, authorID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countAuthorRecipes, authorID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const addRecipeIngredient = `-- name: AddRecipeIngredient :exec
INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, position)
VALUES ($1, $2, $3, $4)
`

type AddRecipeIngredientParams struct {
	RecipeID     int64 `json:"recipe_id"`
	IngredientID int64 `json:"ingredient_id"`
	Amount       int32 `json:"amount"`
	Position     int32 `json:"position"`
}

func (q *Queries) AddRecipeIngredient(ctx context.Context, arg AddRecipeIngredientParams) error {
	_, err := q.db.Exec(ctx, addRecipeIngredient,
		arg.RecipeID,
		arg.IngredientID,
		arg.Amount,
		arg.Position,
	)
	return err
}

const deleteRecipeIngredients = `-- name: DeleteRecipeIngredients :exec
DELETE FROM recipe_ingredients WHERE recipe_id = $1
`

func (q *Queries) DeleteRecipeIngredients(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, deleteRecipeIngredients, recipeID)
	return err
}

const listRecipeIngredients = `-- name: ListRecipeIngredients :many
SELECT ri.recipe_id, ri.ingredient_id, i.name, i.measurement_unit, ri.amount
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE ri.recipe_id = ANY($1::bigint[])
ORDER BY ri.recipe_id, ri.position, i.name
`

func (q *Queries) ListRecipeIngredients(ctx context.Context, recipeIDs []int64) ([]RecipeIngredientRow, error) {
	rows, err := q.db.Query(ctx, listRecipeIngredients, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []RecipeIngredientRow{}
	for rows.Next() {
		var i RecipeIngredientRow
		if err := rows.Scan(
			&i.RecipeID,
			&i.IngredientID,
			&i.Name,
			&i.MeasurementUnit,
			&i.Amount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const addRecipeTag = `-- name: AddRecipeTag :exec
INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)
`

type AddRecipeTagParams struct {
	RecipeID int64 `json:"recipe_id"`
	TagID    int64 `json:"tag_id"`
}

func (q *Queries) AddRecipeTag(ctx context.Context, arg AddRecipeTagParams) error {
	_, err := q.db.Exec(ctx, addRecipeTag, arg.RecipeID, arg.TagID)
	return err
}

const deleteRecipeTags = `-- name: DeleteRecipeTags :exec
DELETE FROM recipe_tags WHERE recipe_id = $1
`

func (q *Queries) DeleteRecipeTags(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, deleteRecipeTags, recipeID)
	return err
}

const listRecipeTags = `-- name: ListRecipeTags :many
SELECT rt.recipe_id, t.id, t.name, t.slug
FROM recipe_tags rt
JOIN tags t ON t.id = rt.tag_id
WHERE rt.recipe_id = ANY($1::bigint[])
ORDER BY rt.recipe_id, t.name
`

func (q *Queries) ListRecipeTags(ctx context.Context, recipeIDs []int64) ([]RecipeTagRow, error) {
	rows, err := q.db.Query(ctx, listRecipeTags, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []RecipeTagRow{}
	for rows.Next() {
		var i RecipeTagRow
		if err := rows.Scan(&i.RecipeID, &i.TagID, &i.Name, &i.Slug); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
