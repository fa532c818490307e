package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

// ShoppingListService aggregates the ingredients of a user's shopping cart.
type ShoppingListService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewShoppingListService creates a new shopping list service.
func NewShoppingListService(store *sqlite.Store, logger *slog.Logger) *ShoppingListService {
	return &ShoppingListService{store: store, logger: logger}
}

// Build sums ingredient amounts over every recipe in the user's cart,
// grouped by name and measurement unit.
func (s *ShoppingListService) Build(ctx context.Context, userID int64) (*domain.ShoppingList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := s.store.ShoppingListLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, domainerrors.ErrEmptyCart
	}

	s.logger.Debug("shopping list built", "user_id", userID, "lines", len(lines))
	return &domain.ShoppingList{Lines: lines}, nil
}
