package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/normalize"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

const (
	// minFuzzyQuery is the shortest query that also gets fuzzy matches.
	minFuzzyQuery = 3
	// maxFuzzyMatches caps fuzzy matches appended after prefix matches.
	maxFuzzyMatches = 10
)

// IngredientService serves ingredient reference data.
type IngredientService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(store *sqlite.Store, logger *slog.Logger) *IngredientService {
	return &IngredientService{store: store, logger: logger}
}

// ingredientNames implements fuzzy.Source over folded ingredient names.
type ingredientNames []*domain.Ingredient

func (n ingredientNames) String(i int) string { return normalize.Fold(n[i].Name) }
func (n ingredientNames) Len() int            { return len(n) }

// List returns ingredients ordered by name. A non-empty name keeps only
// ingredients whose name starts with it, ignoring case, followed by the
// closest fuzzy matches among the rest.
func (s *IngredientService) List(ctx context.Context, name string) ([]*domain.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}

	name = normalize.Clean(name)
	if name == "" {
		return all, nil
	}

	prefixed := make([]*domain.Ingredient, 0)
	var rest ingredientNames
	for _, ing := range all {
		if normalize.HasFoldedPrefix(ing.Name, name) {
			prefixed = append(prefixed, ing)
		} else {
			rest = append(rest, ing)
		}
	}

	if len([]rune(name)) < minFuzzyQuery || len(rest) == 0 {
		return prefixed, nil
	}

	matches := fuzzy.FindFrom(normalize.Fold(name), rest)
	for i, m := range matches {
		if i == maxFuzzyMatches {
			break
		}
		prefixed = append(prefixed, rest[m.Index])
	}

	return prefixed, nil
}

// Get returns an ingredient by ID.
func (s *IngredientService) Get(ctx context.Context, id int64) (*domain.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("ingredient %d not found", id)
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}
