// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/golang-jwt/jwt/v5"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/role"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:         slog.LevelInfo,
		RecoverPanics: true,
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			if id := requestid.ExtractRequestID(r.Context()); id != 0 {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := requestid.New()
		ctx := log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID))
		ctx = requestid.InjectRequestID(ctx, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Cors allows the configured origins to call the API with credentials.
func Cors(cfg config.Server) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

// RateLimit limits each client IP to requests per window. A zero limit
// disables rate limiting.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			env.EnvFromCtx(ctx).Logger.WarnContext(ctx, "rate limit exceeded")
			_ = apiError.EncodeError(w, apiError.TooManyRequests, "too many requests", requestid.String(ctx))
		}),
	)
}

// Authenticate attaches the caller to the request context when an access
// token is present. Requests without a token continue anonymously; requests
// with a bad token are rejected.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		env := env.EnvFromCtx(ctx)
		requestID := requestid.String(ctx)

		raw, err := token.FromRequest(r, env)
		if errors.Is(err, token.ErrNoAuthHeader) && r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		} else if err != nil {
			env.Logger.ErrorContext(ctx, "malformed authorization header", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		claims, err := token.ValidateAccessToken(env, raw)
		if errors.Is(err, jwt.ErrTokenExpired) {
			env.Logger.ErrorContext(ctx, "access token expired", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.ExpiredAccessToken, "access token expired", requestID)
			return
		} else if errors.Is(err, token.ErrNoAppSecret) {
			env.Logger.ErrorContext(ctx, "app secret not configured")
			_ = apiError.EncodeInternalError(w, requestID)
			return
		} else if err != nil {
			env.Logger.ErrorContext(ctx, "invalid access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to extract subject from jwt", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		ctx = token.UserWithCtx(ctx, token.User{ID: userID, Role: role.Parse(claims.Role)})
		ctx = log.AppendCtx(ctx, slog.Int64("user-id", userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects anonymous callers and callers below required.
// It must run after Authenticate.
func RequireRole(required role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			env := env.EnvFromCtx(ctx)
			requestID := requestid.String(ctx)

			user, err := token.UserFromCtx(ctx)
			if err != nil {
				env.Logger.DebugContext(ctx, "anonymous request to protected route")
				_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "authentication credentials were not provided", requestID)
				return
			}
			if !user.Role.Allows(required) {
				env.Logger.ErrorContext(ctx, "insufficient permissions",
					slog.String("role", user.Role.String()), slog.String("required", required.String()))
				_ = apiError.EncodeError(w, apiError.InsufficientPermissions, "insufficient permissions", requestID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser is RequireRole(role.RoleUser).
func RequireUser(next http.Handler) http.Handler {
	return RequireRole(role.RoleUser)(next)
}
