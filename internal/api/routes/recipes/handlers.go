// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/pagination"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/form"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/recipe"
)

var errReferenceNotFound = errors.New("referenced object does not exist")

// checkReferences returns FieldErrors when an ingredient or tag id does not
// exist.
func checkReferences(ctx context.Context, q database.Querier, ingredients, tags []int64) error {
	fields := request.FieldErrors{}

	count, err := q.CountIngredientsByIDs(ctx, ingredients)
	if err != nil {
		return err
	}
	if count != int64(len(ingredients)) {
		fields["ingredients"] = errReferenceNotFound.Error()
	}

	count, err = q.CountTagsByIDs(ctx, tags)
	if err != nil {
		return err
	}
	if count != int64(len(tags)) {
		fields["tags"] = errReferenceNotFound.Error()
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

func writeRelations(ctx context.Context, q database.Querier, recipeID int64, ingredients []IngredientAmount, tags []int64) error {
	for i, item := range ingredients {
		err := q.AddRecipeIngredient(ctx, database.AddRecipeIngredientParams{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
			Position:     int32(i),
		})
		if err != nil {
			return err
		}
	}
	for _, tagID := range tags {
		if err := q.AddRecipeTag(ctx, database.AddRecipeTagParams{RecipeID: recipeID, TagID: tagID}); err != nil {
			return err
		}
	}
	return nil
}

func encodeFieldsOrInternal(w http.ResponseWriter, err error, requestID string) {
	var fields request.FieldErrors
	if errors.As(err, &fields) {
		_ = apiError.EncodeFieldErrors(w, fields, requestID)
		return
	}
	_ = apiError.EncodeInternalError(w, requestID)
}

// storeImage decodes a data URI image and writes it to the file store.
func storeImage(ctx context.Context, env *env.Env, dataURI string) (string, error) {
	image, err := form.DecodeImage(dataURI)
	if err != nil {
		return "", request.FieldErrors{"image": err.Error()}
	}
	key := filestore.NewRecipeImageKey(image.Suffix)
	if err := env.FileStore.Put(ctx, key, image.Data, image.MimeType); err != nil {
		return "", err
	}
	return key, nil
}

func writeRecipe(w http.ResponseWriter, r *http.Request, status int, recipeID int64) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	row, err := env.Database.GetRecipe(ctx, database.GetRecipeParams{
		ViewerID: token.UserIDFromCtx(ctx),
		ID:       recipeID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "recipe not found", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp, err := recipe.LoadOne(ctx, env.Database, env.FileStore, row)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to load recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := json.EncodeJSON(w, status, resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleListRecipes godoc
//
//	@Summary		List recipes.
//	@Description	Lists recipes newest first. The favorite and cart filters are
//	@Description	ignored for anonymous callers.
//	@Tags			Recipes
//	@Produce		json
//	@Param			page				query		int			false	"Page number"
//	@Param			limit				query		int			false	"Page size"
//	@Param			author				query		int			false	"Author ID"
//	@Param			tags				query		[]string	false	"Tag slugs"	collectionFormat(multi)
//	@Param			is_favorited		query		int			false	"Only favorites (1)"
//	@Param			is_in_shopping_cart	query		int			false	"Only recipes in the cart (1)"
//	@Success		200					{object}	pagination.Page[recipe.Recipe]
//	@Failure		400					{object}	apiError.Error	"Invalid query"
//	@Failure		404					{object}	apiError.Error	"Page out of range"
//	@Failure		500					{object}	apiError.Error	"Internal server error"
//	@Router			/api/recipes [get]
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	params, err := pagination.Parse(r.URL.Query())
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid pagination", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}
	filter, ok := recipeFilter(r)
	if !ok {
		env.Logger.ErrorContext(ctx, "invalid author filter")
		_ = apiError.EncodeError(w, apiError.BadRequest, "author should be a positive integer", requestID)
		return
	}

	count, err := env.Database.CountRecipes(ctx, filter)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !params.InRange(count) {
		env.Logger.ErrorContext(ctx, "page out of range", slog.Int("page", int(params.Page)))
		_ = apiError.EncodeError(w, apiError.NotFound, "invalid page", requestID)
		return
	}

	rows, err := env.Database.ListRecipes(ctx, database.ListRecipesParams{
		RecipeFilterParams: filter,
		Limit:              params.Limit,
		Offset:             params.Offset(),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	recipes, err := recipe.Load(ctx, env.Database, env.FileStore, rows)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to load recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	page := pagination.New(r, env.Config.HostOrigin, params, count, recipes)
	if err := json.EncodeJSON(w, http.StatusOK, page); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleGetRecipe godoc
//
//	@Summary	Get a recipe.
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	200	{object}	recipe.Recipe
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/recipes/{id} [get]
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestid.String(ctx))
		return
	}
	writeRecipe(w, r, http.StatusOK, id)
}

// HandleCreateRecipe godoc
//
//	@Summary		Create a recipe.
//	@Description	The image is a base64 data URI. Ingredients and tags must exist
//	@Description	and must not repeat.
//	@Tags			Recipes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateRecipeRequest	true	"Recipe"
//	@Success		201		{object}	recipe.Recipe
//	@Failure		400		{object}	apiError.Error	"Validation error"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Security		TokenAuth
//	@Router			/api/recipes [post]
func HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	var req CreateRecipeRequest
	env.Logger.DebugContext(ctx, "reading request body")
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = request.EncodeError(w, err, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "checking ingredients and tags")
	if err := checkReferences(ctx, env.Database, ingredientIDs(req.Ingredients), req.Tags); err != nil {
		env.Logger.ErrorContext(ctx, "invalid references", slog.Any("error", err))
		encodeFieldsOrInternal(w, err, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "storing image")
	imageKey, err := storeImage(ctx, env, req.Image)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to store image", slog.Any("error", err))
		encodeFieldsOrInternal(w, err, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating recipe")
	var recipeID int64
	err = env.Database.InTx(ctx, func(q database.Querier) error {
		id, err := q.CreateRecipe(ctx, database.CreateRecipeParams{
			AuthorID:    userID,
			Name:        req.Name,
			Text:        req.Text,
			ImageKey:    imageKey,
			CookingTime: req.CookingTime,
		})
		if err != nil {
			return err
		}
		recipeID = id
		return writeRelations(ctx, q, id, req.Ingredients, req.Tags)
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create recipe", slog.Any("error", err))
		if err := env.FileStore.Delete(ctx, imageKey); err != nil {
			env.Logger.WarnContext(ctx, "failed to delete orphaned image", slog.Any("error", err))
		}
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeRecipe(w, r, http.StatusCreated, recipeID)
}

// authorize loads the recipe's author and rejects callers who are not the
// author. It reports whether the handler should continue.
func authorize(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return 0, false
	}

	authorID, err := env.Database.GetRecipeAuthor(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "recipe not found", slog.Int64("recipe-id", id))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return 0, false
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe author", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return 0, false
	}
	if authorID != token.UserIDFromCtx(ctx) {
		env.Logger.ErrorContext(ctx, "user does not own recipe", slog.Int64("recipe-id", id))
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "you do not have permission to change this recipe", requestID)
		return 0, false
	}
	return id, true
}

// HandleUpdateRecipe godoc
//
//	@Summary	Update a recipe.
//	@Tags		Recipes
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Recipe ID"
//	@Param		request	body		UpdateRecipeRequest	true	"Recipe"
//	@Success	200		{object}	recipe.Recipe
//	@Failure	400		{object}	apiError.Error	"Validation error"
//	@Failure	401		{object}	apiError.Error	"Unauthorized"
//	@Failure	403		{object}	apiError.Error	"Not the author"
//	@Failure	404		{object}	apiError.Error	"Recipe not found"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id} [patch]
func HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	recipeID, ok := authorize(w, r)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = request.EncodeError(w, err, requestID)
		return
	}
	if err := checkReferences(ctx, env.Database, ingredientIDs(req.Ingredients), req.Tags); err != nil {
		env.Logger.ErrorContext(ctx, "invalid references", slog.Any("error", err))
		encodeFieldsOrInternal(w, err, requestID)
		return
	}

	current, err := env.Database.GetShortRecipe(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	imageKey := current.ImageKey
	if req.Image != "" {
		imageKey, err = storeImage(ctx, env, req.Image)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to store image", slog.Any("error", err))
			encodeFieldsOrInternal(w, err, requestID)
			return
		}
	}

	env.Logger.DebugContext(ctx, "updating recipe")
	err = env.Database.InTx(ctx, func(q database.Querier) error {
		err := q.UpdateRecipe(ctx, database.UpdateRecipeParams{
			ID:          recipeID,
			Name:        req.Name,
			Text:        req.Text,
			ImageKey:    imageKey,
			CookingTime: req.CookingTime,
		})
		if err != nil {
			return err
		}
		if err := q.DeleteRecipeIngredients(ctx, recipeID); err != nil {
			return err
		}
		if err := q.DeleteRecipeTags(ctx, recipeID); err != nil {
			return err
		}
		return writeRelations(ctx, q, recipeID, req.Ingredients, req.Tags)
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update recipe", slog.Any("error", err))
		if imageKey != current.ImageKey {
			_ = env.FileStore.Delete(ctx, imageKey)
		}
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if imageKey != current.ImageKey {
		if err := env.FileStore.Delete(ctx, current.ImageKey); err != nil {
			env.Logger.WarnContext(ctx, "failed to delete replaced image", slog.Any("error", err))
		}
	}

	writeRecipe(w, r, http.StatusOK, recipeID)
}

// HandleDeleteRecipe godoc
//
//	@Summary	Delete a recipe.
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe ID"
//	@Success	204	"Recipe deleted"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	403	{object}	apiError.Error	"Not the author"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	TokenAuth
//	@Router		/api/recipes/{id} [delete]
func HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	recipeID, ok := authorize(w, r)
	if !ok {
		return
	}

	current, err := env.Database.GetShortRecipe(ctx, recipeID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := env.Database.DeleteRecipe(ctx, recipeID); err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := env.FileStore.Delete(ctx, current.ImageKey); err != nil {
		env.Logger.WarnContext(ctx, "failed to delete recipe image", slog.Any("error", err))
	}
	w.WriteHeader(http.StatusNoContent)
}
