package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64              `json:"id"`
	Email        string             `json:"email"`
	Username     string             `json:"username"`
	FirstName    string             `json:"first_name"`
	LastName     string             `json:"last_name"`
	PasswordHash string             `json:"password_hash"`
	Role         Role               `json:"role"`
	AvatarKey    pgtype.Text        `json:"avatar_key"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

// UserRow is a user as seen by a viewer.
type UserRow struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	AvatarKey    pgtype.Text `json:"avatar_key"`
	IsSubscribed bool        `json:"is_subscribed"`
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
}

// RecipeRow is a recipe joined with its author and the viewer's relations to both.
type RecipeRow struct {
	ID                 int64              `json:"id"`
	AuthorID           int64              `json:"author_id"`
	Name               string             `json:"name"`
	Text               string             `json:"text"`
	ImageKey           string             `json:"image_key"`
	CookingTime        int32              `json:"cooking_time"`
	PubDate            pgtype.Timestamptz `json:"pub_date"`
	AuthorEmail        string             `json:"author_email"`
	AuthorUsername     string             `json:"author_username"`
	AuthorFirstName    string             `json:"author_first_name"`
	AuthorLastName     string             `json:"author_last_name"`
	AuthorAvatarKey    pgtype.Text        `json:"author_avatar_key"`
	AuthorIsSubscribed bool               `json:"author_is_subscribed"`
	IsFavorited        bool               `json:"is_favorited"`
	IsInShoppingCart   bool               `json:"is_in_shopping_cart"`
}

type ShortRecipe struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ImageKey    string `json:"image_key"`
	CookingTime int32  `json:"cooking_time"`
}

type RecipeIngredientRow struct {
	RecipeID        int64  `json:"recipe_id"`
	IngredientID    int64  `json:"ingredient_id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

type RecipeTagRow struct {
	RecipeID int64  `json:"recipe_id"`
	TagID    int64  `json:"tag_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
}
