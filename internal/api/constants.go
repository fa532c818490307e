package api

// Cache-Control header values.
const (
	// CacheMedia applies to stored images. Keys are content-addressed, so
	// an object never changes once written.
	CacheMedia = "public, max-age=604800, immutable"
	// CacheNoStore applies to per-user downloads.
	CacheNoStore = "no-store"
)
