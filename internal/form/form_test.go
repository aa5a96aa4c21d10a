package form

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

// A 1x1 transparent PNG.
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecodeImage(t *testing.T) {
	file, err := DecodeImage("data:image/png;base64," + pixelPNG)
	if err != nil {
		t.Fatalf("DecodeImage() error = %v", err)
	}
	if file.MimeType != "image/png" || file.Suffix != ".png" {
		t.Errorf("DecodeImage() = %s %s, want image/png .png", file.MimeType, file.Suffix)
	}
	if file.Size != int64(len(file.Data)) || file.Size == 0 {
		t.Errorf("Size = %d, len(Data) = %d", file.Size, len(file.Data))
	}
}

func TestDecodeImageSniffsType(t *testing.T) {
	// declared jpeg, actually png
	file, err := DecodeImage("data:image/jpeg;base64," + pixelPNG)
	if err != nil {
		t.Fatalf("DecodeImage() error = %v", err)
	}
	if file.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", file.MimeType)
	}
}

func TestDecodeImageErrors(t *testing.T) {
	text := base64.StdEncoding.EncodeToString([]byte("just some text"))
	tests := []struct {
		name string
		uri  string
		want error
	}{
		{"no comma", "data:image/png;base64", ErrInvalidDataURI},
		{"not a data uri", "http://example.com/a.png", ErrInvalidDataURI},
		{"not base64 encoded", "data:image/png," + pixelPNG, ErrInvalidDataURI},
		{"bad payload", "data:image/png;base64,@@@", ErrInvalidDataURI},
		{"empty payload", "data:image/png;base64,", ErrInvalidDataURI},
		{"text payload", "data:image/png;base64," + text, ErrUnsupportedMimeType},
		{"too large", "data:image/png;base64," + strings.Repeat("A", MaxImageSize*2), ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeImage(tt.uri); !errors.Is(err, tt.want) {
				t.Errorf("DecodeImage() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestImage(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(pixelPNG)
	if err != nil {
		t.Fatal(err)
	}
	file, err := Image(data)
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if file.Suffix != ".png" || file.Size != int64(len(data)) {
		t.Errorf("Image() = %s %d", file.Suffix, file.Size)
	}

	if _, err := Image([]byte("plain text")); !errors.Is(err, ErrUnsupportedMimeType) {
		t.Errorf("Image(text) error = %v, want %v", err, ErrUnsupportedMimeType)
	}
	if _, err := Image(make([]byte, MaxImageSize+1)); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("Image(large) error = %v, want %v", err, ErrImageTooLarge)
	}
}
