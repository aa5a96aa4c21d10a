package recipes

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/shortlink"
)

// HandleGetLink godoc
//
//	@Summary	Get the short link of a recipe.
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe ID"
//	@Success	200	{object}	GetLinkResponse
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/recipes/{id}/get-link [get]
func HandleGetLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	exists, err := env.Database.RecipeExists(ctx, id)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to check recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !exists {
		env.Logger.ErrorContext(ctx, "recipe not found", slog.Int64("recipe-id", id))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	resp := GetLinkResponse{ShortLink: shortlink.URL(env.Config.HostOrigin, uint64(id))}
	if err := json.EncodeJSON(w, http.StatusOK, resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleShortLink godoc
//
//	@Summary		Follow a recipe short link.
//	@Description	Redirects to the recipe page. Malformed tokens are rejected with
//	@Description	invalid_short_link, well-formed tokens of missing recipes with
//	@Description	recipe_not_found.
//	@Tags			Recipes
//	@Param			token	path	string	true	"Short link token"
//	@Success		302		"Redirect to /recipes/{id}/"
//	@Failure		400		{object}	apiError.Error	"Malformed token"
//	@Failure		404		{object}	apiError.Error	"Recipe not found"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Router			/s/{token} [get]
func HandleShortLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	raw := chi.URLParam(r, "token")
	id, err := shortlink.Decode(raw)
	if errors.Is(err, shortlink.ErrInvalidToken) {
		env.Logger.ErrorContext(ctx, "invalid short link", slog.String("token", raw))
		metrics.RecordShortLink(metrics.ShortLinkInvalid)
		_ = apiError.EncodeError(w, apiError.InvalidShortLink, "invalid short link", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode short link", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	exists := false
	if id > 0 && id <= math.MaxInt64 {
		exists, err = env.Database.RecipeExists(ctx, int64(id))
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to check recipe", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
	}
	if !exists {
		env.Logger.ErrorContext(ctx, "short link target not found", slog.Uint64("recipe-id", id))
		metrics.RecordShortLink(metrics.ShortLinkMissing)
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	metrics.RecordShortLink(metrics.ShortLinkResolved)
	http.Redirect(w, r, "/recipes/"+strconv.FormatUint(id, 10)+"/", http.StatusFound)
}
