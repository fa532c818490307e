package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

// TagService serves tag reference data.
type TagService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store *sqlite.Store, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: logger}
}

// List returns every tag ordered by name.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Get returns a tag by ID.
func (s *TagService) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("tag %d not found", id)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}
