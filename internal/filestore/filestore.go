// Package filestore stores uploaded images on the local disk or in an
// S3-compatible object store and turns object keys into public URLs.
package filestore

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	recipesDir = "recipes"
	avatarsDir = "avatars"
)

// FileStore stores objects by key. Keys are slash separated and relative,
// e.g. "recipes/01J9....png".
type FileStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// NewRecipeImageKey returns a fresh key for a recipe image.
func NewRecipeImageKey(suffix string) string {
	return path.Join(recipesDir, ulid.Make().String()+suffix)
}

// NewAvatarKey returns a fresh key for a user's avatar.
func NewAvatarKey(userID int64, suffix string) string {
	return path.Join(avatarsDir, strconv.FormatInt(userID, 10), ulid.Make().String()+suffix)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

func wrapKeyErr(op, key string, err error) error {
	return fmt.Errorf("%s %q: %w", op, key, err)
}
