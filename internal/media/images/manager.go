package images

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Key prefixes for stored media.
const (
	RecipePrefix = "recipes"
	AvatarPrefix = "avatars"
)

// DefaultAvatarSize is the bounding box avatars are scaled into.
const DefaultAvatarSize = 256

// Manager turns client uploads into stored media objects.
type Manager struct {
	storage    Storage
	maxSize    int
	avatarSize uint
	logger     *slog.Logger
}

// NewManager creates a Manager. maxSize bounds decoded uploads in bytes (zero for unlimited).
func NewManager(storage Storage, maxSize int, avatarSize uint, logger *slog.Logger) *Manager {
	if avatarSize == 0 {
		avatarSize = DefaultAvatarSize
	}
	return &Manager{
		storage:    storage,
		maxSize:    maxSize,
		avatarSize: avatarSize,
		logger:     logger,
	}
}

// StoredImage is the result of saving a recipe image.
type StoredImage struct {
	Key      string
	BlurHash string
}

// Decode validates an upload without storing it.
func (m *Manager) Decode(raw string) (*Upload, error) {
	return Decode(raw, m.maxSize)
}

// SaveRecipeImage stores the original upload and computes its placeholder hash.
func (m *Manager) SaveRecipeImage(ctx context.Context, upload *Upload) (*StoredImage, error) {
	key := fmt.Sprintf("%s/%s.%s", RecipePrefix, uuid.NewString(), upload.Ext)

	if err := m.storage.Save(ctx, key, upload.Data, upload.ContentType); err != nil {
		return nil, fmt.Errorf("save recipe image: %w", err)
	}

	hash, err := ComputeBlurHash(upload.Image)
	if err != nil {
		// The placeholder is optional; the image itself is stored.
		m.logger.Warn("failed to compute blurhash", "key", key, "error", err)
	}

	return &StoredImage{Key: key, BlurHash: hash}, nil
}

// SaveAvatar scales the upload to the avatar size and stores it as JPEG.
func (m *Manager) SaveAvatar(ctx context.Context, upload *Upload) (string, error) {
	data, err := Thumbnail(upload.Image, m.avatarSize)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.jpg", AvatarPrefix, uuid.NewString())
	if err := m.storage.Save(ctx, key, data, "image/jpeg"); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}
	return key, nil
}

// Delete removes a stored object. Failures are logged and returned.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := m.storage.Delete(ctx, key); err != nil {
		m.logger.Warn("failed to delete media", "key", key, "error", err)
		return err
	}
	return nil
}

// URL returns the public URL for a stored key, or "" for an empty key.
func (m *Manager) URL(key string) string {
	return m.storage.URL(key)
}
