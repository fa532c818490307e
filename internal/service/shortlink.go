package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/id"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

// maxCodeAttempts bounds retries when a generated code collides.
const maxCodeAttempts = 5

// ShortLinkService issues one stable short code per recipe and resolves codes
// to frontend recipe URLs. Resolved codes are kept in an LRU cache.
type ShortLinkService struct {
	store       *sqlite.Store
	cache       *lru.Cache
	publicURL   string
	frontendURL string
	logger      *slog.Logger
}

// NewShortLinkService creates a new short link service.
func NewShortLinkService(store *sqlite.Store, cacheSize int, publicURL, frontendURL string, logger *slog.Logger) (*ShortLinkService, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create short link cache: %w", err)
	}
	return &ShortLinkService{
		store:       store,
		cache:       cache,
		publicURL:   strings.TrimRight(publicURL, "/"),
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}, nil
}

// GetOrCreate returns the recipe's short link, creating it on first use.
func (s *ShortLinkService) GetOrCreate(ctx context.Context, recipeID int64) (*domain.ShortLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists, err := s.store.RecipeExists(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("check recipe: %w", err)
	}
	if !exists {
		return nil, domainerrors.NotFoundf("recipe %d not found", recipeID)
	}

	link, err := s.store.GetShortLinkByRecipe(ctx, recipeID)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get short link: %w", err)
	}

	for range maxCodeAttempts {
		code, err := id.ShortCode()
		if err != nil {
			return nil, fmt.Errorf("generate short code: %w", err)
		}

		link = &domain.ShortLink{Code: code, RecipeID: recipeID, CreatedAt: time.Now()}
		err = s.store.CreateShortLink(ctx, link)
		if err == nil {
			s.cache.Add(code, recipeID)
			s.logger.Debug("short link created", "code", code, "recipe_id", recipeID)
			return link, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("create short link: %w", err)
		}

		// Either the code collided or a concurrent request linked the recipe first.
		if existing, getErr := s.store.GetShortLinkByRecipe(ctx, recipeID); getErr == nil {
			return existing, nil
		}
	}

	return nil, domainerrors.Internal("could not allocate a unique short code")
}

// ShortURL returns the public redirect URL for a code.
func (s *ShortLinkService) ShortURL(code string) string {
	return s.publicURL + "/s/" + code
}

// Resolve returns the frontend URL of the recipe a code points to.
func (s *ShortLinkService) Resolve(ctx context.Context, code string) (string, error) {
	if cached, ok := s.cache.Get(code); ok {
		return s.recipeURL(cached.(int64)), nil
	}

	link, err := s.store.GetShortLink(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domainerrors.NotFound("short link not found")
		}
		return "", fmt.Errorf("get short link: %w", err)
	}

	s.cache.Add(code, link.RecipeID)
	return s.recipeURL(link.RecipeID), nil
}

func (s *ShortLinkService) recipeURL(recipeID int64) string {
	return s.frontendURL + "/recipes/" + strconv.FormatInt(recipeID, 10)
}
