package recipes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/recipe"
)

type relationFunc func(database.Querier, context.Context, database.UserRecipeParams) (int64, error)

// relation is a per-user recipe list such as favorites or the shopping cart.
type relation struct {
	name       string
	add        relationFunc
	remove     relationFunc
	present    apiError.ErrorCode
	presentMsg string
	absent     apiError.ErrorCode
	absentMsg  string
}

var (
	favorites = relation{
		name:       "favorites",
		add:        database.Querier.AddFavorite,
		remove:     database.Querier.RemoveFavorite,
		present:    apiError.AlreadyFavorited,
		presentMsg: "recipe is already in favorites",
		absent:     apiError.NotFavorited,
		absentMsg:  "recipe is not in favorites",
	}
	cart = relation{
		name:       "shopping cart",
		add:        database.Querier.AddToCart,
		remove:     database.Querier.RemoveFromCart,
		present:    apiError.AlreadyInCart,
		presentMsg: "recipe is already in the shopping cart",
		absent:     apiError.NotInCart,
		absentMsg:  "recipe is not in the shopping cart",
	}
)

func (rel relation) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	recipeID, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	short, err := env.Database.GetShortRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "recipe not found", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "adding recipe", slog.String("relation", rel.name))
	inserted, err := rel.add(env.Database, ctx, database.UserRecipeParams{UserID: userID, RecipeID: recipeID})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to add recipe", slog.String("relation", rel.name), slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if inserted == 0 {
		env.Logger.ErrorContext(ctx, "recipe already present", slog.String("relation", rel.name))
		_ = apiError.EncodeError(w, rel.present, rel.presentMsg, requestID)
		return
	}

	if err := json.EncodeJSON(w, http.StatusCreated, recipe.NewShortRecipe(short, env.FileStore)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

func (rel relation) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	recipeID, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	exists, err := env.Database.RecipeExists(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !exists {
		env.Logger.ErrorContext(ctx, "recipe not found", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "removing recipe", slog.String("relation", rel.name))
	removed, err := rel.remove(env.Database, ctx, database.UserRecipeParams{UserID: userID, RecipeID: recipeID})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to remove recipe", slog.String("relation", rel.name), slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if removed == 0 {
		env.Logger.ErrorContext(ctx, "recipe not present", slog.String("relation", rel.name))
		_ = apiError.EncodeError(w, rel.absent, rel.absentMsg, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddFavorite godoc
//
//	@Summary	Add a recipe to favorites.
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	201	{object}	recipe.ShortRecipe
//	@Failure	400	{object}	apiError.Error	"Already a favorite"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id}/favorite [post]
func HandleAddFavorite(w http.ResponseWriter, r *http.Request) { favorites.handleAdd(w, r) }

// HandleRemoveFavorite godoc
//
//	@Summary	Remove a recipe from favorites.
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe ID"
//	@Success	204	"Removed"
//	@Failure	400	{object}	apiError.Error	"Not a favorite"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id}/favorite [delete]
func HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) { favorites.handleRemove(w, r) }

// HandleAddToCart godoc
//
//	@Summary	Add a recipe to the shopping cart.
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	201	{object}	recipe.ShortRecipe
//	@Failure	400	{object}	apiError.Error	"Already in the cart"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id}/shopping_cart [post]
func HandleAddToCart(w http.ResponseWriter, r *http.Request) { cart.handleAdd(w, r) }

// HandleRemoveFromCart godoc
//
//	@Summary	Remove a recipe from the shopping cart.
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe ID"
//	@Success	204	"Removed"
//	@Failure	400	{object}	apiError.Error	"Not in the cart"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id}/shopping_cart [delete]
func HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) { cart.handleRemove(w, r) }
