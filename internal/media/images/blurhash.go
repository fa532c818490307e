package images

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
	"github.com/nfnt/resize"
)

// blurHashSize is the target size for BlurHash computation.
// A 64px thumbnail gives a near-identical hash in a fraction of the time.
const blurHashSize = 64

// ComputeBlurHash generates a BlurHash placeholder string for an image.
// Uses 4x3 components, which yields a ~20-30 character hash.
func ComputeBlurHash(img image.Image) (string, error) {
	thumbnail := resize.Thumbnail(blurHashSize, blurHashSize, img, resize.NearestNeighbor)

	hash, err := blurhash.Encode(4, 3, thumbnail)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}

	return hash, nil
}
