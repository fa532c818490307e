package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/nfnt/resize"
)

const thumbnailQuality = 85

// Thumbnail scales img to fit within size x size, preserving aspect ratio, and encodes it as JPEG.
// Images already within bounds are re-encoded without scaling.
func Thumbnail(img image.Image, size uint) ([]byte, error) {
	scaled := resize.Thumbnail(size, size, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
