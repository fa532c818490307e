package service

import (
	"context"
	"fmt"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

// ViewService assembles viewer-relative read models: recipes with their
// tags, ingredients, author and flags, and user profiles with is_subscribed.
// A zero viewerID is an anonymous viewer for whom every flag is false.
type ViewService struct {
	store *sqlite.Store
}

// NewViewService creates a new view assembler.
func NewViewService(store *sqlite.Store) *ViewService {
	return &ViewService{store: store}
}

// Recipe assembles a single recipe view.
func (s *ViewService) Recipe(ctx context.Context, viewerID int64, r *domain.Recipe) (*domain.RecipeView, error) {
	views, err := s.Recipes(ctx, viewerID, []*domain.Recipe{r})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Recipes assembles views for recipes, preserving their order.
func (s *ViewService) Recipes(ctx context.Context, viewerID int64, recipes []*domain.Recipe) ([]*domain.RecipeView, error) {
	views := make([]*domain.RecipeView, 0, len(recipes))
	if len(recipes) == 0 {
		return views, nil
	}

	recipeIDs := make([]int64, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	seenAuthors := make(map[int64]bool)
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if !seenAuthors[r.AuthorID] {
			seenAuthors[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	tags, err := s.store.RecipeTags(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load recipe tags: %w", err)
	}
	ingredients, err := s.store.RecipeIngredients(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load recipe ingredients: %w", err)
	}
	authors, err := s.store.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load recipe authors: %w", err)
	}
	following, err := s.store.MembershipTargets(ctx, domain.MembershipFollow, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	favorited, err := s.store.MembershipTargets(ctx, domain.MembershipFavorite, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	inCart, err := s.store.MembershipTargets(ctx, domain.MembershipShoppingCart, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load shopping cart: %w", err)
	}

	for _, r := range recipes {
		view := &domain.RecipeView{
			Recipe:           *r,
			Tags:             tags[r.ID],
			Ingredients:      ingredients[r.ID],
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		}
		if view.Tags == nil {
			view.Tags = []domain.Tag{}
		}
		if view.Ingredients == nil {
			view.Ingredients = []domain.IngredientAmount{}
		}
		if author, ok := authors[r.AuthorID]; ok {
			view.Author = domain.UserProfile{User: *author, IsSubscribed: following[author.ID]}
		}
		views = append(views, view)
	}

	return views, nil
}

// Profiles assembles profiles for users, preserving their order.
func (s *ViewService) Profiles(ctx context.Context, viewerID int64, users []*domain.User) ([]domain.UserProfile, error) {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	following, err := s.store.MembershipTargets(ctx, domain.MembershipFollow, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	profiles := make([]domain.UserProfile, len(users))
	for i, u := range users {
		profiles[i] = domain.UserProfile{User: *u, IsSubscribed: following[u.ID]}
	}
	return profiles, nil
}

// Subscriptions assembles subscription views for followed authors with up to
// recipesLimit of their newest recipes. A negative limit includes every recipe.
func (s *ViewService) Subscriptions(ctx context.Context, viewerID int64, authors []*domain.User, recipesLimit int) ([]domain.Subscription, error) {
	profiles, err := s.Profiles(ctx, viewerID, authors)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.store.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	subs := make([]domain.Subscription, len(authors))
	for i, a := range authors {
		recipes, err := s.store.ListRecipesByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("list recipes of user %d: %w", a.ID, err)
		}
		summaries := make([]domain.RecipeSummary, len(recipes))
		for j, r := range recipes {
			summaries[j] = r.Summary()
		}
		subs[i] = domain.Subscription{
			UserProfile:  profiles[i],
			Recipes:      summaries,
			RecipesCount: counts[a.ID],
		}
	}
	return subs, nil
}
