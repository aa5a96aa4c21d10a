// Package form decodes images sent inline in JSON bodies as base64 data URIs
// and validates raw image files.
package form

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	magicNumberSeek = 512
	MaxImageSize    = 10 << 20
)

var mimeTypeSuffix = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrInvalidDataURI      = errors.New("invalid data uri")
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrImageTooLarge       = errors.New("image too large")
)

type File struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

// DecodeImage decodes a "data:image/<type>;base64,<payload>" URI. The
// declared type is ignored; the content type is sniffed from the payload.
func DecodeImage(uri string) (*File, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURI
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return nil, ErrInvalidDataURI
	}
	return Image(data)
}

// Image validates raw image bytes, sniffing the content type.
func Image(data []byte) (*File, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	suffix, ok := mimeTypeSuffix[contentType]
	if !ok {
		return nil, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	return &File{
		Size:     int64(len(data)),
		Data:     data,
		Suffix:   suffix,
		MimeType: contentType,
	}, nil
}
