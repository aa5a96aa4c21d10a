// Package ingredients contains handlers for the ingredient resource.
package ingredients

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
)

type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func newIngredient(i database.Ingredient) Ingredient {
	return Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so prefix matches literally.
func EscapeLike(prefix string) string {
	return likeEscaper.Replace(prefix)
}

// HandleListIngredients godoc
//
//	@Summary		List ingredients.
//	@Description	Lists ingredients, optionally filtered by a case-insensitive name prefix.
//	@Tags			Ingredients
//	@Produce		json
//	@Param			name	query		string	false	"Name prefix"
//	@Success		200		{array}		Ingredient
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Router			/api/ingredients [get]
func HandleListIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	prefix := EscapeLike(strings.TrimSpace(r.URL.Query().Get("name")))
	rows, err := env.Database.ListIngredients(ctx, prefix)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	ingredients := make([]Ingredient, 0, len(rows))
	for _, i := range rows {
		ingredients = append(ingredients, newIngredient(i))
	}
	if err := json.EncodeJSON(w, http.StatusOK, ingredients); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleGetIngredient godoc
//
//	@Summary	Get an ingredient.
//	@Tags		Ingredients
//	@Produce	json
//	@Param		id	path		int	true	"Ingredient ID"
//	@Success	200	{object}	Ingredient
//	@Failure	404	{object}	apiError.Error	"Ingredient not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/ingredients/{id} [get]
func HandleGetIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid ingredient id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	}

	ingredient, err := env.Database.GetIngredient(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "ingredient not found", slog.Int64("ingredient-id", id))
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := json.EncodeJSON(w, http.StatusOK, newIngredient(ingredient)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
