package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodgram/foodgram-server/internal/search"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

// SearchService bridges the recipe full-text index with the data store.
// A nil *SearchService, or one without an index, indexes nothing and finds nothing.
type SearchService struct {
	index  *search.SearchIndex
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *sqlite.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

func (s *SearchService) enabled() bool {
	return s != nil && s.index != nil
}

// Search returns the IDs of recipes matching q, best match first.
func (s *SearchService) Search(ctx context.Context, q string) ([]int64, error) {
	if !s.enabled() {
		return []int64{}, nil
	}
	return s.index.Search(ctx, q, 0)
}

// IndexRecipe loads a recipe with its associations and (re)indexes it.
func (s *SearchService) IndexRecipe(ctx context.Context, recipeID int64) error {
	if !s.enabled() {
		return nil
	}

	r, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("load recipe %d: %w", recipeID, err)
	}
	ids := []int64{recipeID}
	tags, err := s.store.RecipeTags(ctx, ids)
	if err != nil {
		return fmt.Errorf("load recipe tags: %w", err)
	}
	ingredients, err := s.store.RecipeIngredients(ctx, ids)
	if err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}

	if err := s.index.IndexDocument(search.NewRecipeDocument(r, tags[recipeID], ingredients[recipeID])); err != nil {
		return fmt.Errorf("index recipe %d: %w", recipeID, err)
	}

	s.logger.Debug("indexed recipe", "id", recipeID, "name", r.Name)
	return nil
}

// DeleteRecipe removes a recipe from the index.
func (s *SearchService) DeleteRecipe(recipeID int64) error {
	if !s.enabled() {
		return nil
	}
	return s.index.DeleteDocument(recipeID)
}

// DocumentCount returns the number of indexed recipes.
func (s *SearchService) DocumentCount() (uint64, error) {
	if !s.enabled() {
		return 0, nil
	}
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the index from every stored recipe.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	if !s.enabled() {
		return nil
	}

	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return err
	}

	recipes, err := s.store.ListAllRecipes(ctx)
	if err != nil {
		return fmt.Errorf("list recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	tags, err := s.store.RecipeTags(ctx, ids)
	if err != nil {
		return fmt.Errorf("load recipe tags: %w", err)
	}
	ingredients, err := s.store.RecipeIngredients(ctx, ids)
	if err != nil {
		return fmt.Errorf("load recipe ingredients: %w", err)
	}

	docs := make([]*search.RecipeDocument, len(recipes))
	for i, r := range recipes {
		docs[i] = search.NewRecipeDocument(r, tags[r.ID], ingredients[r.ID])
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index recipes: %w", err)
	}

	s.logger.Info("indexed recipes", "count", len(docs))
	return nil
}

// SyncIfStale rebuilds the index when its document count differs from the recipe count.
func (s *SearchService) SyncIfStale(ctx context.Context) error {
	if !s.enabled() {
		return nil
	}

	indexed, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count indexed recipes: %w", err)
	}
	stored, err := s.store.CountRecipes(ctx)
	if err != nil {
		return fmt.Errorf("count recipes: %w", err)
	}

	if indexed == uint64(stored) {
		s.logger.Debug("search index up to date", "documents", indexed)
		return nil
	}

	s.logger.Info("search index out of sync", "indexed", indexed, "recipes", stored)
	return s.ReindexAll(ctx)
}
