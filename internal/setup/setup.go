// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/http"
	"github.com/matt-dz/foodgram/internal/role"
)

// Database connects to Postgres and applies pending migrations.
func Database(ctx context.Context, conf *config.Config) (*database.Database, error) {
	pool, err := pgxpool.New(ctx, conf.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return database.NewDatabase(pool), nil
}

// FileStore builds the file store selected by conf.FileStore.Backend. Remote
// backends talk through a retrying HTTP client.
func FileStore(ctx context.Context, conf *config.Config, logger *slog.Logger) (filestore.FileStore, error) {
	fsConf := conf.FileStore
	httpOpts := http.Options{Logger: logger}

	switch fsConf.Backend {
	case config.BackendLocal:
		volume, err := filepath.Abs(fsConf.Volume)
		if err != nil {
			return nil, fmt.Errorf("resolving volume path: %w", err)
		}
		return filestore.NewLocal(volume, fsConf.URLPrefix, conf.HostOrigin), nil

	case config.BackendMinio:
		store, err := filestore.NewMinio(filestore.MinioConfig{
			Endpoint:  fsConf.Endpoint,
			Bucket:    fsConf.Bucket,
			Region:    fsConf.Region,
			AccessKey: fsConf.AccessKey,
			SecretKey: fsConf.SecretKey,
			UseSSL:    fsConf.UseSSL,
			PublicURL: fsConf.PublicURL,
			Transport: http.NewTransport(httpOpts),
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx, fsConf.Region); err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendS3:
		return filestore.NewS3(filestore.S3Config{
			Endpoint:   fsConf.Endpoint,
			Bucket:     fsConf.Bucket,
			Region:     fsConf.Region,
			AccessKey:  fsConf.AccessKey,
			SecretKey:  fsConf.SecretKey,
			PublicURL:  fsConf.PublicURL,
			HTTPClient: http.NewStandardClient(httpOpts),
		}), nil
	}
	return nil, fmt.Errorf("unknown filestore backend: %q", fsConf.Backend)
}

// Admin creates the configured admin account unless an admin already
// exists. Requires env.Database.
func Admin(ctx context.Context, env *env.Env) error {
	admin := env.Config.Admin
	if !admin.Enabled() {
		env.Logger.InfoContext(ctx, "admin not configured, skipping admin setup")
		return nil
	}

	count, err := env.Database.GetAdminCount(ctx)
	if err != nil {
		return fmt.Errorf("getting admin count: %w", err)
	}
	if count > 0 {
		env.Logger.InfoContext(ctx, "admin already setup, skipping setup")
		return nil
	}

	hash, err := argon2id.EncodeHash(string(admin.Password), argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	_, err = env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        strings.TrimSpace(admin.Email),
		Username:     admin.Username,
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		PasswordHash: hash,
		Role:         role.RoleAdmin.ToDB(),
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	env.Logger.InfoContext(ctx, "successfully setup admin", slog.String("username", admin.Username))
	return nil
}
