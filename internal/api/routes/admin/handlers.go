// Package admin contains handlers for the admin endpoints
package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/recipe"
)

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type CreateIngredientRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=50"`
}

type CreateIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// HandleCreateTag godoc
//
//	@Summary		Create a tag.
//	@Description	Tag slugs are unique.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTagRequest	true	"Tag"
//	@Success		201		{object}	recipe.Tag
//	@Failure		400		{object}	apiError.Error	"Validation error"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		403		{object}	apiError.Error	"Not an admin"
//	@Failure		409		{object}	apiError.Error	"Slug already in use"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Security		TokenAuth
//	@Router			/api/admin/tags [post]
func HandleCreateTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	var req CreateTagRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = request.EncodeError(w, err, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating tag", slog.String("slug", req.Slug))
	id, err := env.Database.CreateTag(ctx, database.CreateTagParams{Name: req.Name, Slug: req.Slug})
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "tag slug in use", slog.String("slug", req.Slug))
		_ = apiError.EncodeError(w, apiError.TagConflict, "a tag with this slug already exists", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := json.EncodeJSON(w, http.StatusCreated, recipe.Tag{ID: id, Name: req.Name, Slug: req.Slug}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleCreateIngredient godoc
//
//	@Summary		Create an ingredient.
//	@Description	Ingredient names are unique so that shopping lists never mix
//	@Description	units for one name.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateIngredientRequest	true	"Ingredient"
//	@Success		201		{object}	CreateIngredientResponse
//	@Failure		400		{object}	apiError.Error	"Validation error"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		403		{object}	apiError.Error	"Not an admin"
//	@Failure		409		{object}	apiError.Error	"Name already in use"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Security		TokenAuth
//	@Router			/api/admin/ingredients [post]
func HandleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	var req CreateIngredientRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = request.EncodeError(w, err, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating ingredient", slog.String("name", req.Name))
	id, err := env.Database.CreateIngredient(ctx, database.CreateIngredientParams{
		Name:            req.Name,
		MeasurementUnit: req.MeasurementUnit,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "ingredient name in use", slog.String("name", req.Name))
		_ = apiError.EncodeError(w, apiError.IngredientConflict, "an ingredient with this name already exists", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp := CreateIngredientResponse{ID: id, Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := json.EncodeJSON(w, http.StatusCreated, resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
