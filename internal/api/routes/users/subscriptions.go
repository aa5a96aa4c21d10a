package users

import (
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
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/recipe"
)

// HandleListSubscriptions godoc
//
//	@Summary	List the authors the current user follows.
//	@Tags		Users
//	@Produce	json
//	@Param		page			query		int	false	"Page number"
//	@Param		limit			query		int	false	"Page size"
//	@Param		recipes_limit	query		int	false	"Recipes shown per author"
//	@Success	200				{object}	pagination.Page[recipe.Subscription]
//	@Failure	400				{object}	apiError.Error	"Invalid query"
//	@Failure	401				{object}	apiError.Error	"Unauthorized"
//	@Failure	500				{object}	apiError.Error	"Internal server error"
//	@Security	TokenAuth
//	@Router		/api/users/subscriptions [get]
func HandleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	params, err := pagination.Parse(r.URL.Query())
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid pagination", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}
	limit, ok := recipesLimit(r.URL.Query().Get("recipes_limit"))
	if !ok {
		env.Logger.ErrorContext(ctx, "invalid recipes_limit")
		_ = apiError.EncodeError(w, apiError.BadRequest, "recipes_limit should be a non-negative integer", requestID)
		return
	}

	count, err := env.Database.CountSubscriptions(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !params.InRange(count) {
		env.Logger.ErrorContext(ctx, "page out of range", slog.Int("page", int(params.Page)))
		_ = apiError.EncodeError(w, apiError.NotFound, "invalid page", requestID)
		return
	}

	authors, err := env.Database.ListSubscriptions(ctx, database.ListSubscriptionsParams{
		SubscriberID: userID,
		Limit:        params.Limit,
		Offset:       params.Offset(),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	subs := make([]recipe.Subscription, 0, len(authors))
	for _, author := range authors {
		sub, err := recipe.LoadSubscription(ctx, env.Database, env.FileStore, author, limit)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to load subscription", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		subs = append(subs, sub)
	}

	page := pagination.New(r, env.Config.HostOrigin, params, count, subs)
	if err := json.EncodeJSON(w, http.StatusOK, page); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleSubscribe godoc
//
//	@Summary	Follow an author.
//	@Tags		Users
//	@Produce	json
//	@Param		id				path		int	true	"Author ID"
//	@Param		recipes_limit	query		int	false	"Recipes shown"
//	@Success	201				{object}	recipe.Subscription
//	@Failure	400				{object}	apiError.Error	"Already subscribed or self subscription"
//	@Failure	401				{object}	apiError.Error	"Unauthorized"
//	@Failure	404				{object}	apiError.Error	"User not found"
//	@Failure	500				{object}	apiError.Error	"Internal server error"
//	@Security	TokenAuth
//	@Router		/api/users/{id}/subscribe [post]
func HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	authorID, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}
	limit, ok := recipesLimit(r.URL.Query().Get("recipes_limit"))
	if !ok {
		env.Logger.ErrorContext(ctx, "invalid recipes_limit")
		_ = apiError.EncodeError(w, apiError.BadRequest, "recipes_limit should be a non-negative integer", requestID)
		return
	}

	author, err := env.Database.GetUserProfile(ctx, database.GetUserProfileParams{ViewerID: userID, ID: authorID})
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "author not found", slog.Int64("author-id", authorID))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get author", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if authorID == userID {
		env.Logger.ErrorContext(ctx, "attempted self subscription")
		_ = apiError.EncodeError(w, apiError.SelfSubscription, "you cannot subscribe to yourself", requestID)
		return
	}

	inserted, err := env.Database.Subscribe(ctx, database.SubscriptionParams{SubscriberID: userID, AuthorID: authorID})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to subscribe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if inserted == 0 {
		env.Logger.ErrorContext(ctx, "already subscribed", slog.Int64("author-id", authorID))
		_ = apiError.EncodeError(w, apiError.AlreadySubscribed, "you are already subscribed to this user", requestID)
		return
	}

	author.IsSubscribed = true
	sub, err := recipe.LoadSubscription(ctx, env.Database, env.FileStore, author, limit)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to load subscription", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := json.EncodeJSON(w, http.StatusCreated, sub); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleUnsubscribe godoc
//
//	@Summary	Stop following an author.
//	@Tags		Users
//	@Param		id	path	int	true	"Author ID"
//	@Success	204	"Unsubscribed"
//	@Failure	400	{object}	apiError.Error	"Not subscribed"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	TokenAuth
//	@Router		/api/users/{id}/subscribe [delete]
func HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	authorID, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}

	if _, err := env.Database.GetUserByID(ctx, authorID); errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "author not found", slog.Int64("author-id", authorID))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get author", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	removed, err := env.Database.Unsubscribe(ctx, database.SubscriptionParams{SubscriberID: userID, AuthorID: authorID})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to unsubscribe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if removed == 0 {
		env.Logger.ErrorContext(ctx, "not subscribed", slog.Int64("author-id", authorID))
		_ = apiError.EncodeError(w, apiError.NotSubscribed, "you are not subscribed to this user", requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
