package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseUint16(key string) (uint16, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s (%q): %w", key, raw, err)
	}
	return uint16(v), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		Env:        os.Getenv("ENV"),
		HostOrigin: os.Getenv("HOST_ORIGIN"),
		LogLevel:   strings.ToLower(os.Getenv("LOG_LEVEL")),
		AppSecret: AppSecret{
			Path:    os.Getenv("APP_SECRET_PATH"),
			Version: os.Getenv("APP_SECRET_VERSION"),
		},
		Database: Database{
			Host:     os.Getenv("DATABASE_HOST"),
			Database: os.Getenv("DATABASE"),
			User:     os.Getenv("DATABASE_USER"),
			Password: os.Getenv("DATABASE_PASSWORD"),
		},
		FileStore: FileStore{
			Backend:   FileStoreBackend(os.Getenv("FILESTORE_BACKEND")),
			Volume:    os.Getenv("FILESTORE_VOLUME"),
			URLPrefix: os.Getenv("FILESTORE_URL_PREFIX"),
			PublicURL: os.Getenv("FILESTORE_PUBLIC_URL"),
			Endpoint:  os.Getenv("FILESTORE_ENDPOINT"),
			Bucket:    os.Getenv("FILESTORE_BUCKET"),
			Region:    os.Getenv("FILESTORE_REGION"),
			Keys: Keys{
				AccessKey: os.Getenv("FILESTORE_ACCESS_KEY"),
				SecretKey: os.Getenv("FILESTORE_SECRET_KEY"),
			},
		},
		Admin: Admin{
			Username:  os.Getenv("ADMIN_USERNAME"),
			Email:     os.Getenv("ADMIN_EMAIL"),
			Password:  AdminPassword(os.Getenv("ADMIN_PASSWORD")),
			FirstName: os.Getenv("ADMIN_FIRST_NAME"),
			LastName:  os.Getenv("ADMIN_LAST_NAME"),
		},
		Server: Server{
			CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		},
		ShoppingList: ShoppingList{
			FontPath: os.Getenv("SHOPPING_LIST_FONT_PATH"),
			Title:    os.Getenv("SHOPPING_LIST_TITLE"),
		},
	}

	if secret := os.Getenv("APP_SECRET"); secret != "" {
		val := AppSecretValue(secret)
		conf.AppSecret.Value = &val
	}

	var err error
	if conf.Database.Port, err = parseUint16("DATABASE_PORT"); err != nil {
		return conf, err
	}
	if conf.Server.Port, err = parseUint16("PORT"); err != nil {
		return conf, err
	}

	useSSL := loadWithDefault("FILESTORE_USE_SSL", "false")
	if conf.FileStore.UseSSL, err = strconv.ParseBool(useSSL); err != nil {
		return conf, fmt.Errorf("invalid FILESTORE_USE_SSL (%q): %w", useSSL, err)
	}

	if raw := os.Getenv("RATE_LIMIT_REQUESTS"); raw != "" {
		if conf.Server.RateLimitRequests, err = strconv.Atoi(raw); err != nil {
			return conf, fmt.Errorf("invalid RATE_LIMIT_REQUESTS (%q): %w", raw, err)
		}
	}
	if raw := os.Getenv("RATE_LIMIT_WINDOW"); raw != "" {
		if conf.Server.RateLimitWindow, err = time.ParseDuration(raw); err != nil {
			return conf, fmt.Errorf("invalid RATE_LIMIT_WINDOW (%q): %w", raw, err)
		}
	}

	if err := finalize(&conf); err != nil {
		return conf, err
	}
	return conf, nil
}
