// Package fileserver stores and serves media files on the local disk.
package fileserver

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	directoryPerms = 0o755
	filePerms      = 0o644
)

var ErrInvalidPath = errors.New("invalid path")

// topLevelDirectories are the only directories files may be written under.
var topLevelDirectories = []string{"recipes", "avatars"}

type FileServer struct {
	baseDir string
}

func New(baseDir string) *FileServer {
	return &FileServer{
		baseDir: baseDir,
	}
}

func (f *FileServer) BaseDirectory() string {
	return f.baseDir
}

// cleanPath resolves path against baseDir and fails with ErrInvalidPath when
// the result escapes baseDir.
func cleanPath(baseDir, path string) (string, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidPath, path)
	}

	full := filepath.Join(absBase, filepath.Clean(path))
	rel, err := filepath.Rel(absBase, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes the base directory", ErrInvalidPath, path)
	}
	return full, nil
}

func (f *FileServer) resolve(key string) (string, error) {
	full, err := cleanPath(f.baseDir, key)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(f.baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}
	rel, err := filepath.Rel(absBase, full)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	top, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	for _, dir := range topLevelDirectories {
		if top == dir && rel != dir {
			return full, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not under an allowed directory", ErrInvalidPath, key)
}

// Write stores data at key, creating parent directories as needed.
func (f *FileServer) Write(key string, data []byte) (n int, err error) {
	fullpath, err := f.resolve(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullpath), directoryPerms); err != nil {
		return 0, fmt.Errorf("creating parent directories: %w", err)
	}

	file, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerms)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = file.Close() }()

	n, err = file.Write(data)
	if err != nil {
		return n, fmt.Errorf("writing file: %w", err)
	}
	return n, nil
}

// Delete removes the file at key. Deleting a missing file is not an error.
func (f *FileServer) Delete(key string) error {
	fullpath, err := f.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullpath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// Handler serves the stored files under urlPrefix. Directory listings are
// not served.
func (f *FileServer) Handler(urlPrefix string) http.Handler {
	files := http.FileServer(http.Dir(f.baseDir))
	return http.StripPrefix(strings.TrimRight(urlPrefix, "/"), http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			files.ServeHTTP(w, r)
		}))
}
