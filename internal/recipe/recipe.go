// Package recipe assembles the API representations of recipes and their
// authors from database rows.
package recipe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matt-dz/foodgram/internal/database"
)

// URLResolver turns a stored object key into a public URL.
type URLResolver interface {
	URL(key string) string
}

type Author struct {
	Email        string  `json:"email"`
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

type Recipe struct {
	ID               int64        `json:"id"`
	Tags             []Tag        `json:"tags"`
	Author           Author       `json:"author"`
	Ingredients      []Ingredient `json:"ingredients"`
	IsFavorited      bool         `json:"is_favorited"`
	IsInShoppingCart bool         `json:"is_in_shopping_cart"`
	Name             string       `json:"name"`
	Image            string       `json:"image"`
	Text             string       `json:"text"`
	CookingTime      int32        `json:"cooking_time"`
}

type ShortRecipe struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int32  `json:"cooking_time"`
}

// Subscription is an author followed by the viewer, with a preview of their
// recipes.
type Subscription struct {
	Author
	Recipes      []ShortRecipe `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

func resolve(urls URLResolver, key string) string {
	if urls == nil || key == "" {
		return key
	}
	return urls.URL(key)
}

func avatar(urls URLResolver, key pgtype.Text) *string {
	if !key.Valid || key.String == "" {
		return nil
	}
	url := resolve(urls, key.String)
	return &url
}

func NewAuthor(row database.UserRow, urls URLResolver) Author {
	return Author{
		Email:        row.Email,
		ID:           row.ID,
		Username:     row.Username,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		IsSubscribed: row.IsSubscribed,
		Avatar:       avatar(urls, row.AvatarKey),
	}
}

func NewShortRecipe(row database.ShortRecipe, urls URLResolver) ShortRecipe {
	return ShortRecipe{
		ID:          row.ID,
		Name:        row.Name,
		Image:       resolve(urls, row.ImageKey),
		CookingTime: row.CookingTime,
	}
}

func authorOf(row database.RecipeRow, urls URLResolver) Author {
	return NewAuthor(database.UserRow{
		ID:           row.AuthorID,
		Email:        row.AuthorEmail,
		Username:     row.AuthorUsername,
		FirstName:    row.AuthorFirstName,
		LastName:     row.AuthorLastName,
		AvatarKey:    row.AuthorAvatarKey,
		IsSubscribed: row.AuthorIsSubscribed,
	}, urls)
}

// Load builds the full representation of rows, fetching tags and
// ingredients for all of them in two queries. The result keeps the order of
// rows.
func Load(ctx context.Context, q database.Querier, urls URLResolver, rows []database.RecipeRow) ([]Recipe, error) {
	recipes := make([]Recipe, 0, len(rows))
	if len(rows) == 0 {
		return recipes, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	tagRows, err := q.ListRecipeTags(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing recipe tags: %w", err)
	}
	tags := make(map[int64][]Tag, len(rows))
	for _, t := range tagRows {
		tags[t.RecipeID] = append(tags[t.RecipeID], Tag{ID: t.TagID, Name: t.Name, Slug: t.Slug})
	}

	ingredientRows, err := q.ListRecipeIngredients(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing recipe ingredients: %w", err)
	}
	ingredients := make(map[int64][]Ingredient, len(rows))
	for _, i := range ingredientRows {
		ingredients[i.RecipeID] = append(ingredients[i.RecipeID], Ingredient{
			ID:              i.IngredientID,
			Name:            i.Name,
			MeasurementUnit: i.MeasurementUnit,
			Amount:          i.Amount,
		})
	}

	for _, row := range rows {
		r := Recipe{
			ID:               row.ID,
			Tags:             tags[row.ID],
			Author:           authorOf(row, urls),
			Ingredients:      ingredients[row.ID],
			IsFavorited:      row.IsFavorited,
			IsInShoppingCart: row.IsInShoppingCart,
			Name:             row.Name,
			Image:            resolve(urls, row.ImageKey),
			Text:             row.Text,
			CookingTime:      row.CookingTime,
		}
		if r.Tags == nil {
			r.Tags = []Tag{}
		}
		if r.Ingredients == nil {
			r.Ingredients = []Ingredient{}
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}

// LoadOne is Load for a single row.
func LoadOne(ctx context.Context, q database.Querier, urls URLResolver, row database.RecipeRow) (Recipe, error) {
	recipes, err := Load(ctx, q, urls, []database.RecipeRow{row})
	if err != nil {
		return Recipe{}, err
	}
	return recipes[0], nil
}

// LoadSubscription attaches up to recipesLimit recipes of author, or all of
// them when recipesLimit is not valid.
func LoadSubscription(
	ctx context.Context, q database.Querier, urls URLResolver, author database.UserRow, recipesLimit pgtype.Int4,
) (Subscription, error) {
	rows, err := q.ListAuthorRecipes(ctx, database.ListAuthorRecipesParams{
		AuthorID: author.ID,
		Limit:    recipesLimit,
	})
	if err != nil {
		return Subscription{}, fmt.Errorf("listing author recipes: %w", err)
	}
	count, err := q.CountAuthorRecipes(ctx, author.ID)
	if err != nil {
		return Subscription{}, fmt.Errorf("counting author recipes: %w", err)
	}

	sub := Subscription{
		Author:       NewAuthor(author, urls),
		Recipes:      make([]ShortRecipe, 0, len(rows)),
		RecipesCount: count,
	}
	for _, row := range rows {
		sub.Recipes = append(sub.Recipes, NewShortRecipe(row, urls))
	}
	return sub, nil
}
