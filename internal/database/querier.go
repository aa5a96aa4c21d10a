package database

import (
	"context"
)

type Querier interface {
	AddFavorite(ctx context.Context, arg UserRecipeParams) (int64, error)
	AddRecipeIngredient(ctx context.Context, arg AddRecipeIngredientParams) error
	AddRecipeTag(ctx context.Context, arg AddRecipeTagParams) error
	AddToCart(ctx context.Context, arg UserRecipeParams) (int64, error)
	CartRecipeIDs(ctx context.Context, userID int64) ([]int64, error)
	CountAuthorRecipes(ctx context.Context, authorID int64) (int64, error)
	CountIngredientsByIDs(ctx context.Context, ids []int64) (int64, error)
	CountRecipes(ctx context.Context, arg RecipeFilterParams) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID int64) (int64, error)
	CountTagsByIDs(ctx context.Context, ids []int64) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CreateIngredient(ctx context.Context, arg CreateIngredientParams) (int64, error)
	CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error)
	CreateTag(ctx context.Context, arg CreateTagParams) (int64, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (int64, error)
	DeleteRecipe(ctx context.Context, id int64) error
	DeleteRecipeIngredients(ctx context.Context, recipeID int64) error
	DeleteRecipeTags(ctx context.Context, recipeID int64) error
	FindRecipeID(ctx context.Context, arg FindRecipeIDParams) (int64, error)
	GetAdminCount(ctx context.Context) (int64, error)
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)
	GetRecipe(ctx context.Context, arg GetRecipeParams) (RecipeRow, error)
	GetRecipeAuthor(ctx context.Context, id int64) (int64, error)
	GetShortRecipe(ctx context.Context, id int64) (ShortRecipe, error)
	GetTag(ctx context.Context, id int64) (Tag, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserProfile(ctx context.Context, arg GetUserProfileParams) (UserRow, error)
	ListAuthorRecipes(ctx context.Context, arg ListAuthorRecipesParams) ([]ShortRecipe, error)
	ListIngredients(ctx context.Context, prefix string) ([]Ingredient, error)
	ListRecipeIngredients(ctx context.Context, recipeIDs []int64) ([]RecipeIngredientRow, error)
	ListRecipeTags(ctx context.Context, recipeIDs []int64) ([]RecipeTagRow, error)
	ListRecipes(ctx context.Context, arg ListRecipesParams) ([]RecipeRow, error)
	ListSubscriptions(ctx context.Context, arg ListSubscriptionsParams) ([]UserRow, error)
	ListTags(ctx context.Context) ([]Tag, error)
	ListUsers(ctx context.Context, arg ListUsersParams) ([]UserRow, error)
	RecipeExists(ctx context.Context, id int64) (bool, error)
	RemoveFavorite(ctx context.Context, arg UserRecipeParams) (int64, error)
	RemoveFromCart(ctx context.Context, arg UserRecipeParams) (int64, error)
	Subscribe(ctx context.Context, arg SubscriptionParams) (int64, error)
	Unsubscribe(ctx context.Context, arg SubscriptionParams) (int64, error)
	UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error
	UpdateUserAvatar(ctx context.Context, arg UpdateUserAvatarParams) error
	UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error
}

var _ Querier = (*Queries)(nil)
