// Package config loads the server configuration from a YAML file or the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-dz/foodgram/internal/password"
)

const (
	defaultConfigPath = "/data/foodgram.yaml"
	configPathEnv     = "FOODGRAM_CONFIG"
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

type FileStoreBackend string

const (
	BackendLocal FileStoreBackend = "local"
	BackendMinio FileStoreBackend = "minio"
	BackendS3    FileStoreBackend = "s3"
)

func (b FileStoreBackend) Validate() error {
	switch b {
	case BackendLocal, BackendMinio, BackendS3:
		return nil
	}
	return fmt.Errorf("unknown filestore backend: %q", b)
}

type AdminPassword string

func (a AdminPassword) Validate() error {
	return password.ValidatePassword(string(a))
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

// URL returns the postgres connection string.
func (d Database) URL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Database,
	}
	return u.String()
}

type Keys struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=AccessKey SecretKey"`
}

type FileStore struct {
	Backend   FileStoreBackend `yaml:"backend" validate:"validateFn"`
	Volume    string           `yaml:"volume" validate:"required_if=Backend local"`
	URLPrefix string           `yaml:"url_prefix" validate:"required_if=Backend local"`
	PublicURL string           `yaml:"public_url" validate:"omitempty,url"`
	Endpoint  string           `yaml:"endpoint" validate:"required_if=Backend minio"`
	Bucket    string           `yaml:"bucket" validate:"required_unless=Backend local"`
	Region    string           `yaml:"region"`
	UseSSL    bool             `yaml:"use_ssl"`
	Keys      `yaml:",inline"`
}

type Admin struct {
	Username  string        `yaml:"username" validate:"omitempty,max=150"`
	Email     string        `yaml:"email" validate:"omitempty,email"`
	Password  AdminPassword `yaml:"password" validate:"omitempty,validateFn"`
	FirstName string        `yaml:"first_name"`
	LastName  string        `yaml:"last_name"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Username Email Password FirstName LastName"`
}

// Enabled reports whether an admin account should be bootstrapped.
func (a Admin) Enabled() bool {
	return a.Email != ""
}

type Server struct {
	Port              uint16        `yaml:"port"`
	CORSOrigins       []string      `yaml:"cors_origins" validate:"dive,required"`
	RateLimitRequests int           `yaml:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window" validate:"gte=0"`
}

type ShoppingList struct {
	FontPath string `yaml:"font_path" validate:"omitempty,filepath"`
	Title    string `yaml:"title"`
}

type Config struct {
	AppSecret    AppSecret    `yaml:"app_secret"`
	Database     Database     `yaml:"database"`
	FileStore    FileStore    `yaml:"filestore"`
	Admin        Admin        `yaml:"admin"`
	Server       Server       `yaml:"server"`
	ShoppingList ShoppingList `yaml:"shopping_list"`
	HostOrigin   string       `yaml:"host_origin" validate:"url"`
	Env          string       `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
	LogLevel     string       `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

func setDefaults(config *Config) {
	if config.AppSecret.Path == "" {
		config.AppSecret.Path = "/data/secret"
	}
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.HostOrigin == "" {
		config.HostOrigin = "http://localhost:8080"
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.FileStore.Backend == "" {
		config.FileStore.Backend = BackendLocal
	}
	if config.FileStore.Backend == BackendLocal {
		if config.FileStore.Volume == "" {
			config.FileStore.Volume = "/data/files"
		}
		if config.FileStore.URLPrefix == "" {
			config.FileStore.URLPrefix = "/media"
		}
	}
	if config.FileStore.Backend == BackendS3 && config.FileStore.Region == "" {
		config.FileStore.Region = "us-east-1"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.RateLimitRequests == 0 {
		config.Server.RateLimitRequests = 100
	}
	if config.Server.RateLimitWindow == 0 {
		config.Server.RateLimitWindow = time.Minute
	}
	if len(config.Server.CORSOrigins) == 0 {
		config.Server.CORSOrigins = []string{config.HostOrigin}
	}
	if config.ShoppingList.Title == "" {
		config.ShoppingList.Title = "Shopping list:"
	}
}

func finalize(config *Config) error {
	setDefaults(config)

	if err := newValidator().Struct(config); err != nil {
		return formatValidationError(err)
	}

	if err := loadAppSecret(config); err != nil {
		return fmt.Errorf("loading app secret: %w", err)
	}
	return nil
}

func loadConfigFromFile(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := finalize(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return !f.IsDir()
}

// LoadConfig reads the YAML file named by FOODGRAM_CONFIG (default
// /data/foodgram.yaml) and falls back to environment variables when no file
// exists.
func LoadConfig() (Config, error) {
	path := loadWithDefault(configPathEnv, defaultConfigPath)
	if configFileExists(path) {
		return loadConfigFromFile(path)
	}
	if os.Getenv(configPathEnv) != "" {
		return Config{}, fmt.Errorf("config file %q: %w", path, os.ErrNotExist)
	}
	return loadConfigFromEnv()
}
