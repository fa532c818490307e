package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

// RecipeService creates, edits, deletes and lists recipes.
type RecipeService struct {
	store  *sqlite.Store
	media  *images.Manager
	views  *ViewService
	search *SearchService
	logger *slog.Logger
}

// NewRecipeService creates a new recipe service. search may be nil.
func NewRecipeService(
	store *sqlite.Store,
	media *images.Manager,
	views *ViewService,
	search *SearchService,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{
		store:  store,
		media:  media,
		views:  views,
		search: search,
		logger: logger,
	}
}

// RecipeRequest is a recipe payload as written by its author.
type RecipeRequest struct {
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	Image       string                    `json:"image,omitempty"` // base64 data URI
	CookingTime int                       `json:"cooking_time"`
	Tags        []int64                   `json:"tags"`
	Ingredients []domain.RecipeIngredient `json:"ingredients"`
}

// RecipeListParams filters and paginates a recipe listing.
type RecipeListParams struct {
	Tags             []string
	AuthorID         int64
	IsFavorited      bool
	IsInShoppingCart bool
	Search           string
	Page             store.PageParams
}

// Create validates the payload, stores the image and writes the recipe
// with its tags and ingredients in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID int64, req RecipeRequest) (*domain.RecipeView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Nothing is written until the whole payload is valid.
	in, err := s.validateRecipe(ctx, req, true)
	if err != nil {
		return nil, err
	}

	// The image goes first; a failed insert removes it again.
	stored, err := s.media.SaveRecipeImage(ctx, in.upload)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		AuthorID:      authorID,
		Name:          in.name,
		Text:          in.text,
		Image:         stored.Key,
		ImageBlurHash: stored.BlurHash,
		CookingTime:   in.cookingTime,
	}
	recipe.InitTimestamps()

	if err := s.store.CreateRecipe(ctx, recipe, in.tagIDs, in.items); err != nil {
		s.discardImage(ctx, stored.Key)
		return nil, mapRecipeStoreError(err)
	}

	// Search lags the database on failure; the stale check on boot catches up.
	s.reindex(ctx, recipe.ID)
	s.logger.Info("recipe created", "recipe_id", recipe.ID, "author_id", authorID, "name", recipe.Name)

	return s.views.Recipe(ctx, authorID, recipe)
}

// Update replaces a recipe's fields, tags and ingredients. Only the author
// may update; the image is kept when the payload carries none.
func (s *RecipeService) Update(ctx context.Context, recipeID, editorID int64, req RecipeRequest) (*domain.RecipeView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !recipe.IsAuthor(editorID) {
		return nil, domainerrors.Forbidden("only the author can modify this recipe")
	}

	in, err := s.validateRecipe(ctx, req, false)
	if err != nil {
		return nil, err
	}

	// Omitted image keeps the current one.
	oldImage := ""
	if in.upload != nil {
		stored, err := s.media.SaveRecipeImage(ctx, in.upload)
		if err != nil {
			return nil, err
		}
		oldImage = recipe.Image
		recipe.Image = stored.Key
		recipe.ImageBlurHash = stored.BlurHash
	}

	recipe.Name = in.name
	recipe.Text = in.text
	recipe.CookingTime = in.cookingTime
	recipe.Touch()

	if err := s.store.UpdateRecipe(ctx, recipe, in.tagIDs, in.items); err != nil {
		// Drop the upload that never got committed.
		if oldImage != "" {
			s.discardImage(ctx, recipe.Image)
		}
		return nil, mapRecipeStoreError(err)
	}

	// Old image only goes once the new one is committed.
	if oldImage != "" {
		s.discardImage(ctx, oldImage)
	}

	s.reindex(ctx, recipe.ID)
	s.logger.Info("recipe updated", "recipe_id", recipe.ID, "editor_id", editorID)

	return s.views.Recipe(ctx, editorID, recipe)
}

// Delete removes a recipe and everything attached to it. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, recipeID, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !recipe.IsAuthor(userID) {
		return domainerrors.Forbidden("only the author can modify this recipe")
	}

	if err := s.store.DeleteRecipe(ctx, recipeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("recipe %d not found", recipeID)
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	s.discardImage(ctx, recipe.Image)
	if err := s.search.DeleteRecipe(recipeID); err != nil {
		s.logger.Warn("failed to remove recipe from search index", "recipe_id", recipeID, "error", err)
	}

	s.logger.Info("recipe deleted", "recipe_id", recipeID, "user_id", userID)
	return nil
}

// Get returns a recipe as seen by viewerID (zero for anonymous).
func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID int64) (*domain.RecipeView, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.views.Recipe(ctx, viewerID, recipe)
}

// List returns a page of recipes, newest first, as seen by viewerID.
// The favorite and cart filters only apply to authenticated viewers.
func (s *RecipeService) List(ctx context.Context, viewerID int64, params RecipeListParams) (store.Page[*domain.RecipeView], error) {
	if err := ctx.Err(); err != nil {
		return store.Page[*domain.RecipeView]{}, err
	}

	filter := store.RecipeFilter{
		TagSlugs: params.Tags,
		AuthorID: params.AuthorID,
		ViewerID: viewerID,
	}
	// Anonymous viewers have no favorites or cart to filter on.
	if viewerID != 0 {
		filter.FavoritedOnly = params.IsFavorited
		filter.InCartOnly = params.IsInShoppingCart
	}

	if params.Search != "" {
		ids, err := s.search.Search(ctx, params.Search)
		if err != nil {
			return store.Page[*domain.RecipeView]{}, fmt.Errorf("search recipes: %w", err)
		}
		// An empty hit list yields an empty page, not an unfiltered one.
		filter.RecipeIDs = ids
	}

	page, err := s.store.ListRecipes(ctx, filter, params.Page)
	if err != nil {
		return store.Page[*domain.RecipeView]{}, fmt.Errorf("list recipes: %w", err)
	}

	views, err := s.views.Recipes(ctx, viewerID, page.Items)
	if err != nil {
		return store.Page[*domain.RecipeView]{}, err
	}

	return store.Page[*domain.RecipeView]{
		Items:      views,
		Total:      page.Total,
		PageParams: page.PageParams,
	}, nil
}

func (s *RecipeService) getRecipe(ctx context.Context, recipeID int64) (*domain.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("recipe %d not found", recipeID)
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) reindex(ctx context.Context, recipeID int64) {
	if err := s.search.IndexRecipe(ctx, recipeID); err != nil {
		s.logger.Warn("failed to index recipe", "recipe_id", recipeID, "error", err)
	}
}

func (s *RecipeService) discardImage(ctx context.Context, key string) {
	if err := s.media.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete recipe image", "key", key, "error", err)
	}
}

// mapRecipeStoreError converts constraint violations that slipped past
// validation (a tag or ingredient deleted concurrently) to domain errors.
func mapRecipeStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("recipe not found")
	case errors.Is(err, store.ErrInvalidReference):
		return domainerrors.Validation("recipe references a tag or ingredient that no longer exists").WithCause(err)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.FieldError(domainerrors.CodeDuplicateIngredients, "ingredients", "duplicate ingredient ids")
	case errors.Is(err, store.ErrConstraint):
		return domainerrors.FieldError(domainerrors.CodeInvalidAmount, "ingredients",
			fmt.Sprintf("amount must be at least %d", domain.MinAmount))
	}
	return fmt.Errorf("save recipe: %w", err)
}
