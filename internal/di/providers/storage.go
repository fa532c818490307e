package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/foodgram/foodgram-server/internal/config"
	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/media/images"
)

// ProvideImageStorage provides the media backend selected by configuration.
func ProvideImageStorage(i do.Injector) (images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Media.Backend {
	case config.MediaBackendS3:
		// URLs point at the bucket's public endpoint; /media/* is not mounted.
		storage, err := images.NewS3Storage(context.Background(), images.S3Config{
			Bucket:    cfg.Media.S3Bucket,
			Region:    cfg.Media.S3Region,
			Endpoint:  cfg.Media.S3Endpoint,
			AccessKey: cfg.Media.S3AccessKey,
			SecretKey: cfg.Media.S3SecretKey,
			PublicURL: cfg.Media.S3PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 media storage: %w", err)
		}
		log.Info("media storage initialized", "backend", "s3", "bucket", cfg.Media.S3Bucket)
		return storage, nil

	default:
		// Served by the API server under /media/*.
		storage, err := images.NewFileStorage(cfg.MediaPath(), cfg.MediaURL())
		if err != nil {
			return nil, fmt.Errorf("file media storage: %w", err)
		}
		log.Info("media storage initialized", "backend", "filesystem", "path", cfg.MediaPath())
		return storage, nil
	}
}

// ProvideImageManager provides the image manager used for recipe images and avatars.
func ProvideImageManager(i do.Injector) (*images.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storage := do.MustInvoke[images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewManager(storage, cfg.Media.MaxImageSize, cfg.Media.AvatarSize, log.Component("images")), nil
}
