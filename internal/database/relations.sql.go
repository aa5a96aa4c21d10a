package database

import (
	"context"
)

type UserRecipeParams struct {
	UserID   int64 `json:"user_id"`
	RecipeID int64 `json:"recipe_id"`
}

const addFavorite = `-- name: AddFavorite :execrows
INSERT INTO favorites (user_id, recipe_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

// AddFavorite returns the number of inserted rows; zero means the recipe was already a favorite.
func (q *Queries) AddFavorite(ctx context.Context, arg UserRecipeParams) (int64, error) {
	result, err := q.db.Exec(ctx, addFavorite, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const removeFavorite = `-- name: RemoveFavorite :execrows
DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2
`

func (q *Queries) RemoveFavorite(ctx context.Context, arg UserRecipeParams) (int64, error) {
	result, err := q.db.Exec(ctx, removeFavorite, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const addToCart = `-- name: AddToCart :execrows
INSERT INTO shopping_cart (user_id, recipe_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

// AddToCart returns the number of inserted rows; zero means the recipe was already in the cart.
func (q *Queries) AddToCart(ctx context.Context, arg UserRecipeParams) (int64, error) {
	result, err := q.db.Exec(ctx, addToCart, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const removeFromCart = `-- name: RemoveFromCart :execrows
DELETE FROM shopping_cart WHERE user_id = $1 AND recipe_id = $2
`

func (q *Queries) RemoveFromCart(ctx context.Context, arg UserRecipeParams) (int64, error) {
	result, err := q.db.Exec(ctx, removeFromCart, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const cartRecipeIDs = `-- name: CartRecipeIDs :many
SELECT recipe_id FROM shopping_cart WHERE user_id = $1 ORDER BY recipe_id
`

func (q *Queries) CartRecipeIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := q.db.Query(ctx, cartRecipeIDs, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []int64{}
	for rows.Next() {
		var recipeID int64
		if err := rows.Scan(&recipeID); err != nil {
			return nil, err
		}
		items = append(items, recipeID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type SubscriptionParams struct {
	SubscriberID int64 `json:"subscriber_id"`
	AuthorID     int64 `json:"author_id"`
}

const subscribe = `-- name: Subscribe :execrows
INSERT INTO subscriptions (subscriber_id, author_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

func (q *Queries) Subscribe(ctx context.Context, arg SubscriptionParams) (int64, error) {
	result, err := q.db.Exec(ctx, subscribe, arg.SubscriberID, arg.AuthorID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const unsubscribe = `-- name: Unsubscribe :execrows
DELETE FROM subscriptions WHERE subscriber_id = $1 AND author_id = $2
`

func (q *Queries) Unsubscribe(ctx context.Context, arg SubscriptionParams) (int64, error) {
	result, err := q.db.Exec(ctx, unsubscribe, arg.SubscriberID, arg.AuthorID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countSubscriptions = `-- name: CountSubscriptions :one
SELECT count(*) FROM subscriptions WHERE subscriber_id = $1
`

func (q *Queries) CountSubscriptions(ctx context.Context, subscriberID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countSubscriptions, subscriberID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listSubscriptions = `-- name: ListSubscriptions :many
SELECT ` + userRowColumns + `
FROM subscriptions sub
JOIN users u ON u.id = sub.author_id
WHERE sub.subscriber_id = $1
ORDER BY u.username
LIMIT $2 OFFSET $3
`

type ListSubscriptionsParams struct {
	SubscriberID int64 `json:"subscriber_id"`
	Limit        int32 `json:"limit"`
	Offset       int32 `json:"offset"`
}

func (q *Queries) ListSubscriptions(ctx context.Context, arg ListSubscriptionsParams) ([]UserRow, error) {
	rows, err := q.db.Query(ctx, listSubscriptions, arg.SubscriberID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []UserRow{}
	for rows.Next() {
		i, err := scanUserRow(rows)
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
