package recipes

import (
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
)

type IngredientAmount struct {
	ID     int64 `json:"id" validate:"gte=1"`
	Amount int32 `json:"amount" validate:"gte=1"`
}

type CreateRecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int64            `json:"tags" validate:"required,min=1,unique,dive,gte=1"`
	Image       string             `json:"image" validate:"required"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int32              `json:"cooking_time" validate:"gte=1"`
}

// UpdateRecipeRequest replaces every field of a recipe. The image is kept
// when omitted.
type UpdateRecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int64            `json:"tags" validate:"required,min=1,unique,dive,gte=1"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int32              `json:"cooking_time" validate:"gte=1"`
}

type GetLinkResponse struct {
	ShortLink string `json:"short-link"`
}

func ingredientIDs(items []IngredientAmount) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// recipeFilter reads the list filters from r. Favorite and cart filters only
// apply to authenticated viewers.
func recipeFilter(r *http.Request) (database.RecipeFilterParams, bool) {
	viewerID := token.UserIDFromCtx(r.Context())
	filter := database.RecipeFilterParams{
		ViewerID:      viewerID,
		TagSlugs:      r.URL.Query()["tags"],
		OnlyFavorited: viewerID != 0 && request.QueryFlag(r, "is_favorited"),
		OnlyInCart:    viewerID != 0 && request.QueryFlag(r, "is_in_shopping_cart"),
	}
	if raw := r.URL.Query().Get("author"); raw != "" {
		author, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || author < 1 {
			return database.RecipeFilterParams{}, false
		}
		filter.AuthorID = pgtype.Int8{Int64: author, Valid: true}
	}
	return filter, true
}
