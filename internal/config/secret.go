package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
)

const (
	appSecretBytes     = 32
	appSecretFilePerms = 0o600
)

type AppSecretValue string

func (a *AppSecretValue) Validate() error {
	if a == nil {
		return errors.New("secret should not be nil")
	}
	if len(*a) < appSecretBytes {
		return fmt.Errorf("secret should be at least %d bytes", appSecretBytes)
	}
	return nil
}

// AppSecret signs access tokens. Version is written to the token's kid header
// so a rotated secret invalidates older tokens.
type AppSecret struct {
	Value   *AppSecretValue `yaml:"value" validate:"omitempty,validateFn"`
	Path    string          `yaml:"path" validate:"omitempty,filepath"`
	Version string          `yaml:"version"`
}

func newAppSecret() (string, error) {
	secret := make([]byte, appSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("creating app secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(secret), nil
}

// loadAppSecret fills in the secret from AppSecret.Path, generating and
// persisting a new one when the file does not exist yet.
func loadAppSecret(config *Config) error {
	if config.AppSecret.Value != nil {
		return nil
	}

	info, err := os.Lstat(config.AppSecret.Path)
	if errors.Is(err, os.ErrNotExist) {
		secret, err := writeNewSecret(config.AppSecret.Path)
		if err != nil {
			return err
		}
		val := AppSecretValue(secret)
		config.AppSecret.Value = &val
		return nil
	} else if err != nil {
		return fmt.Errorf("checking secret path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("expected file, got directory at %q", config.AppSecret.Path)
	}
	data, err := os.ReadFile(config.AppSecret.Path)
	if err != nil {
		return fmt.Errorf("reading secret file: %w", err)
	}
	val := AppSecretValue(data)
	if err := val.Validate(); err != nil {
		return fmt.Errorf("secret file %q: %w", config.AppSecret.Path, err)
	}
	config.AppSecret.Value = &val
	return nil
}

func writeNewSecret(path string) (string, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, appSecretFilePerms)
	if err != nil {
		return "", fmt.Errorf("creating secret file: %w", err)
	}
	defer func() { _ = file.Close() }()

	secret, err := newAppSecret()
	if err != nil {
		return "", err
	}
	if _, err := file.WriteString(secret); err != nil {
		return "", fmt.Errorf("writing secret file: %w", err)
	}
	return secret, nil
}
