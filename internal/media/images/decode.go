package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrInvalidImage is returned when an upload is not a decodable png, jpeg, gif or webp image.
var ErrInvalidImage = errors.New("invalid image")

// ErrImageTooLarge is returned when a decoded upload exceeds the configured size.
var ErrImageTooLarge = errors.New("image too large")

// formats maps decoder names to file extensions and content types.
var formats = map[string]struct {
	ext         string
	contentType string
}{
	"png":  {"png", "image/png"},
	"jpeg": {"jpg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
	"webp": {"webp", "image/webp"},
}

// Upload is a decoded image submitted by a client.
type Upload struct {
	Data        []byte
	Format      string
	Ext         string
	ContentType string
	Image       image.Image
}

// Decode parses a "data:image/<type>;base64,<payload>" URI or a bare base64 payload.
// maxSize limits the decoded byte length; zero disables the check.
func Decode(raw string, maxSize int) (*Upload, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("%w: expected a base64 data URI", ErrInvalidImage)
		}
		if !strings.HasPrefix(header, "data:image/") {
			return nil, fmt.Errorf("%w: not an image data URI", ErrInvalidImage)
		}
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: bad base64: %v", ErrInvalidImage, err)
		}
	}

	if maxSize > 0 && len(data) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrImageTooLarge, len(data), maxSize)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	f, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidImage, format)
	}

	return &Upload{
		Data:        data,
		Format:      format,
		Ext:         f.ext,
		ContentType: f.contentType,
		Image:       img,
	}, nil
}
