// Package env carries the application-wide dependencies handed to every
// request handler.
package env

import (
	"context"
	"log/slog"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/log"
)

type Env struct {
	Logger    *slog.Logger
	Database  *database.Database
	FileStore filestore.FileStore
	Config    *config.Config
}

func New(logger *slog.Logger, db *database.Database, fs filestore.FileStore, cfg *config.Config) *Env {
	if logger == nil {
		logger = log.NullLogger()
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	return &Env{
		Logger:    logger,
		Database:  db,
		FileStore: fs,
		Config:    cfg,
	}
}

// Null returns an Env with a discarding logger and no backing services.
func Null() *Env {
	return New(nil, nil, nil, nil)
}

type envKeyType struct{}

var envKey envKeyType

func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx returns the Env stored in ctx, or Null() when there is none.
func EnvFromCtx(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey).(*Env); ok && env != nil {
		return env
	}
	return Null()
}
