package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

// MembershipService toggles favorites, shopping cart entries and follows.
// Uniqueness is enforced by the database: an insert either succeeds or
// reports a duplicate, with no read-before-write.
type MembershipService struct {
	store  *sqlite.Store
	views  *ViewService
	logger *slog.Logger
}

// NewMembershipService creates a new membership service.
func NewMembershipService(store *sqlite.Store, views *ViewService, logger *slog.Logger) *MembershipService {
	return &MembershipService{store: store, views: views, logger: logger}
}

// Add puts targetID into the user's collection of the given kind.
func (s *MembershipService) Add(ctx context.Context, kind domain.MembershipKind, userID, targetID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !kind.Valid() {
		return domainerrors.Validationf("unknown collection %q", kind)
	}
	if kind == domain.MembershipFollow && userID == targetID {
		return domainerrors.ErrSelfReferenceNotAllowed.WithDetails(map[string]string{"author": "you cannot subscribe to yourself"})
	}

	if err := s.ensureTarget(ctx, kind, targetID); err != nil {
		return err
	}

	m := &domain.Membership{
		Kind:      kind,
		UserID:    userID,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddMembership(ctx, m); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domainerrors.ErrDuplicateMembership.WithDetails(map[string]string{kindField(kind): duplicateMessage(kind)})
		case errors.Is(err, store.ErrConstraint):
			return domainerrors.ErrSelfReferenceNotAllowed.WithDetails(map[string]string{"author": "you cannot subscribe to yourself"})
		case errors.Is(err, store.ErrInvalidReference):
			return targetNotFound(kind, targetID)
		}
		return fmt.Errorf("add %s: %w", kind, err)
	}

	s.logger.Debug("membership added", "kind", kind, "user_id", userID, "target_id", targetID)
	return nil
}

// Remove takes targetID out of the user's collection. Removing an absent
// entry fails with MEMBERSHIP_NOT_FOUND.
func (s *MembershipService) Remove(ctx context.Context, kind domain.MembershipKind, userID, targetID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !kind.Valid() {
		return domainerrors.Validationf("unknown collection %q", kind)
	}

	if err := s.ensureTarget(ctx, kind, targetID); err != nil {
		return err
	}

	if err := s.store.RemoveMembership(ctx, kind, userID, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.ErrMembershipNotFound.WithDetails(map[string]string{kindField(kind): missingMessage(kind)})
		}
		return fmt.Errorf("remove %s: %w", kind, err)
	}

	s.logger.Debug("membership removed", "kind", kind, "user_id", userID, "target_id", targetID)
	return nil
}

// AddRecipe adds a recipe to favorites or the shopping cart and returns its short projection.
func (s *MembershipService) AddRecipe(ctx context.Context, kind domain.MembershipKind, userID, recipeID int64) (*domain.RecipeSummary, error) {
	if !kind.TargetsRecipe() {
		return nil, domainerrors.Validationf("%q does not hold recipes", kind)
	}
	if err := s.Add(ctx, kind, userID, recipeID); err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	summary := recipe.Summary()
	return &summary, nil
}

// Follow subscribes the user to an author and returns the subscription view.
func (s *MembershipService) Follow(ctx context.Context, userID, authorID int64, recipesLimit int) (*domain.Subscription, error) {
	if err := s.Add(ctx, domain.MembershipFollow, userID, authorID); err != nil {
		return nil, err
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	subs, err := s.views.Subscriptions(ctx, userID, []*domain.User{author}, recipesLimit)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user subscribed", "user_id", userID, "author_id", authorID)
	return &subs[0], nil
}

// Unfollow removes a subscription.
func (s *MembershipService) Unfollow(ctx context.Context, userID, authorID int64) error {
	return s.Remove(ctx, domain.MembershipFollow, userID, authorID)
}

// Subscriptions returns a page of the authors the user follows.
func (s *MembershipService) Subscriptions(ctx context.Context, userID int64, params store.PageParams, recipesLimit int) (store.Page[domain.Subscription], error) {
	page, err := s.store.ListFollowing(ctx, userID, params)
	if err != nil {
		return store.Page[domain.Subscription]{}, fmt.Errorf("list subscriptions: %w", err)
	}

	subs, err := s.views.Subscriptions(ctx, userID, page.Items, recipesLimit)
	if err != nil {
		return store.Page[domain.Subscription]{}, err
	}

	return store.Page[domain.Subscription]{
		Items:      subs,
		Total:      page.Total,
		PageParams: page.PageParams,
	}, nil
}

func (s *MembershipService) ensureTarget(ctx context.Context, kind domain.MembershipKind, targetID int64) error {
	var (
		exists bool
		err    error
	)
	if kind.TargetsRecipe() {
		exists, err = s.store.RecipeExists(ctx, targetID)
	} else {
		exists, err = s.store.UserExists(ctx, targetID)
	}
	if err != nil {
		return fmt.Errorf("check %s target: %w", kind, err)
	}
	if !exists {
		return targetNotFound(kind, targetID)
	}
	return nil
}

func targetNotFound(kind domain.MembershipKind, targetID int64) error {
	if kind.TargetsRecipe() {
		return domainerrors.NotFoundf("recipe %d not found", targetID)
	}
	return domainerrors.NotFoundf("user %d not found", targetID)
}

func kindField(kind domain.MembershipKind) string {
	if kind.TargetsRecipe() {
		return "recipe"
	}
	return "author"
}

func duplicateMessage(kind domain.MembershipKind) string {
	switch kind {
	case domain.MembershipFavorite:
		return "recipe is already in favorites"
	case domain.MembershipShoppingCart:
		return "recipe is already in the shopping cart"
	default:
		return "you are already subscribed to this user"
	}
}

func missingMessage(kind domain.MembershipKind) string {
	switch kind {
	case domain.MembershipFavorite:
		return "recipe is not in favorites"
	case domain.MembershipShoppingCart:
		return "recipe is not in the shopping cart"
	default:
		return "you are not subscribed to this user"
	}
}
