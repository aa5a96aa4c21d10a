// Package api sets up and starts the API
// server with routing, middleware, and Swagger documentation.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/matt-dz/foodgram/docs"
	"github.com/matt-dz/foodgram/internal/api/middleware"
	"github.com/matt-dz/foodgram/internal/api/routes/admin"
	"github.com/matt-dz/foodgram/internal/api/routes/auth"
	"github.com/matt-dz/foodgram/internal/api/routes/ingredients"
	"github.com/matt-dz/foodgram/internal/api/routes/ping"
	"github.com/matt-dz/foodgram/internal/api/routes/recipes"
	"github.com/matt-dz/foodgram/internal/api/routes/tags"
	"github.com/matt-dz/foodgram/internal/api/routes/users"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/role"
)

const (
	// login and signup get a tighter budget than the rest of the API.
	authRateLimitRequests = 10
	authRateLimitWindow   = time.Minute

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func addDocs(r chi.Router) {
	swagger := httpSwagger.Handler(
		httpSwagger.URL("/api/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Mount("/api/swagger", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Handle preflight
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if req.Method == http.MethodGet {
			swagger.ServeHTTP(w, req)
			return
		}

		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
}

func addRoutes(router chi.Router) {
	authLimit := middleware.RateLimit(authRateLimitRequests, authRateLimitWindow)

	router.Get("/s/{token}", recipes.HandleShortLink)

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)

		r.Route("/auth/token", func(r chi.Router) {
			r.With(authLimit).Post("/login", auth.HandleLogin)
			r.With(middleware.RequireUser).Post("/logout", auth.HandleLogout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.HandleListUsers)
			r.With(authLimit).Post("/", users.HandleSignup)
			r.Get("/{id}", users.HandleGetUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/me", users.HandleMe)
				r.Put("/me/avatar", users.HandleSetAvatar)
				r.Delete("/me/avatar", users.HandleDeleteAvatar)
				r.Post("/set_password", users.HandleSetPassword)
				r.Get("/subscriptions", users.HandleListSubscriptions)
				r.Post("/{id}/subscribe", users.HandleSubscribe)
				r.Delete("/{id}/subscribe", users.HandleUnsubscribe)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.HandleListTags)
			r.Get("/{id}", tags.HandleGetTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ingredients.HandleListIngredients)
			r.Get("/{id}", ingredients.HandleGetIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.HandleListRecipes)
			r.Get("/{id}", recipes.HandleGetRecipe)
			r.Get("/{id}/get-link", recipes.HandleGetLink)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", recipes.HandleCreateRecipe)
				r.Get("/download_shopping_cart", recipes.HandleDownloadShoppingCart)
				r.Patch("/{id}", recipes.HandleUpdateRecipe)
				r.Delete("/{id}", recipes.HandleDeleteRecipe)
				r.Post("/{id}/favorite", recipes.HandleAddFavorite)
				r.Delete("/{id}/favorite", recipes.HandleRemoveFavorite)
				r.Post("/{id}/shopping_cart", recipes.HandleAddToCart)
				r.Delete("/{id}/shopping_cart", recipes.HandleRemoveFromCart)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(role.RoleAdmin))
			r.Post("/tags", admin.HandleCreateTag)
			r.Post("/ingredients", admin.HandleCreateIngredient)
		})
	})
}

// NewRouter builds the HTTP handler serving the API, short links, metrics,
// docs and, for the local file store, uploaded files.
func NewRouter(env *env.Env) http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.StripSlashes)
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.Cors(env.Config.Server))
	router.Use(metrics.Middleware)

	router.Handle("/metrics", metrics.Handler())
	addDocs(router)

	if local, ok := env.FileStore.(*filestore.Local); ok {
		prefix := local.URLPrefix()
		router.Mount(prefix, local.FileServer().Handler(prefix))
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(env.Config.Server.RateLimitRequests, env.Config.Server.RateLimitWindow))
		r.Use(middleware.Authenticate)
		addRoutes(r)
	})
	return router
}

// Start godoc
//
//	@title						Foodgram API
//	@version					1.0
//	@description				API Server for the Foodgram recipe sharing application.
//
//	@securityDefinitions.apikey	TokenAuth
//	@in							header
//	@name						Authorization
//	@description				"Token <jwt>" or "Bearer <jwt>".
//
//	@BasePath					/
func Start(ctx context.Context, env *env.Env) error {
	addr := fmt.Sprintf(":%d", env.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(env),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		env.Logger.InfoContext(ctx, "listening", slog.String("addr", addr))
		env.Logger.InfoContext(ctx, "swagger UI available at /api/swagger/index.html")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	env.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
