package fileserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newTestFileServer(t *testing.T) (*FileServer, string) {
	t.Helper()
	base := t.TempDir()
	return New(base), base
}

func TestCleanPath_Valid(t *testing.T) {
	baseDir := filepath.Join("testdata", "base")
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		t.Fatalf("filepath.Abs() error = %v", err)
	}

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"simple relative path", "recipes/foo.png", filepath.Join("recipes", "foo.png")},
		{"path with dot segments", "./recipes/./foo.png", filepath.Join("recipes", "foo.png")},
		{"inner dot-dot staying inside", "recipes/2025/../foo.png", filepath.Join("recipes", "foo.png")},
		{"empty path resolves to base", "", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanPath(baseDir, tt.path)
			if err != nil {
				t.Fatalf("cleanPath() returned unexpected error: %v", err)
			}
			want := filepath.Join(absBase, tt.expected)
			if got != want {
				t.Fatalf("cleanPath() = %q, want %q", got, want)
			}
		})
	}
}

func TestCleanPath_Invalid(t *testing.T) {
	baseDir := t.TempDir()
	tests := []string{
		"../etc/passwd",
		"recipes/../../secret",
		"..",
		"/etc/passwd",
	}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			got, err := cleanPath(baseDir, path)
			if err == nil {
				t.Fatalf("cleanPath(%q) = %q, expected error", path, got)
			}
			if !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("cleanPath(%q) error = %v, want ErrInvalidPath", path, err)
			}
		})
	}
}

func TestWriteAndDelete(t *testing.T) {
	fs, base := newTestFileServer(t)
	data := []byte("image data")

	n, err := fs.Write("recipes/abc.png", data)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(data) {
		t.Errorf("Write() n = %d, want %d", n, len(data))
	}

	stored, err := os.ReadFile(filepath.Join(base, "recipes", "abc.png"))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(stored) != string(data) {
		t.Errorf("stored data = %q, want %q", stored, data)
	}

	if err := fs.Delete("recipes/abc.png"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "recipes", "abc.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file still exists after Delete(), stat error = %v", err)
	}
	if err := fs.Delete("recipes/abc.png"); err != nil {
		t.Errorf("Delete() of a missing file error = %v", err)
	}
}

func TestWriteNested(t *testing.T) {
	fs, base := newTestFileServer(t)
	if _, err := fs.Write("avatars/7/me.jpg", []byte("x")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "avatars", "7", "me.jpg")); err != nil {
		t.Errorf("nested file not created: %v", err)
	}
}

func TestWriteRejectsDisallowedPaths(t *testing.T) {
	fs, _ := newTestFileServer(t)
	tests := []string{
		"other/abc.png",
		"abc.png",
		"recipes",
		"../recipes/abc.png",
	}
	for _, key := range tests {
		if _, err := fs.Write(key, []byte("x")); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Write(%q) error = %v, want ErrInvalidPath", key, err)
		}
	}
}

func TestHandler(t *testing.T) {
	fs, _ := newTestFileServer(t)
	if _, err := fs.Write("recipes/abc.txt", []byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	handler := fs.Handler("/media/")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/recipes/abc.txt", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET file status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "hello" {
		t.Errorf("GET file body = %q, want %q", rec.Body.String(), "hello")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/recipes/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET directory status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
