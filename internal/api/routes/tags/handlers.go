// Package tags contains handlers for the tag resource.
package tags

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/recipe"
)

// HandleListTags godoc
//
//	@Summary	List tags.
//	@Tags		Tags
//	@Produce	json
//	@Success	200	{array}		recipe.Tag
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags [get]
func HandleListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	rows, err := env.Database.ListTags(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list tags", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	tags := make([]recipe.Tag, 0, len(rows))
	for _, t := range rows {
		tags = append(tags, recipe.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	if err := json.EncodeJSON(w, http.StatusOK, tags); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleGetTag godoc
//
//	@Summary	Get a tag.
//	@Tags		Tags
//	@Produce	json
//	@Param		id	path		int	true	"Tag ID"
//	@Success	200	{object}	recipe.Tag
//	@Failure	404	{object}	apiError.Error	"Tag not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags/{id} [get]
func HandleGetTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid tag id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	}

	tag, err := env.Database.GetTag(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "tag not found", slog.Int64("tag-id", id))
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := json.EncodeJSON(w, http.StatusOK, recipe.Tag{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
