package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/domain"
)

// registerCollectionRoutes registers favorite and shopping cart membership routes.
func (s *Server) registerCollectionRoutes() {
	for _, c := range []struct {
		kind domain.MembershipKind
		path string
		name string
		tag  string
	}{
		{domain.MembershipFavorite, "/favorite", "Favorite", "Favorites"},
		{domain.MembershipShoppingCart, "/shopping_cart", "ShoppingCart", "Shopping cart"},
	} {
		huma.Register(s.api, huma.Operation{
			OperationID:   "add" + c.name,
			Method:        http.MethodPost,
			Path:          apiPrefix + "/recipes/{id}" + c.path,
			Summary:       "Add recipe to " + c.tag,
			Tags:          []string{c.tag},
			DefaultStatus: http.StatusCreated,
			Security:      []map[string][]string{{"token": {}}},
		}, s.addToCollection(c.kind))

		huma.Register(s.api, huma.Operation{
			OperationID:   "remove" + c.name,
			Method:        http.MethodDelete,
			Path:          apiPrefix + "/recipes/{id}" + c.path,
			Summary:       "Remove recipe from " + c.tag,
			Tags:          []string{c.tag},
			DefaultStatus: http.StatusNoContent,
			Security:      []map[string][]string{{"token": {}}},
		}, s.removeFromCollection(c.kind))
	}
}

// === DTOs ===

// RecipeShortOutput wraps a short recipe response for Huma.
type RecipeShortOutput struct {
	Body RecipeShortResponse
}

// === Handlers ===

func (s *Server) addToCollection(kind domain.MembershipKind) func(context.Context, *RecipeIDInput) (*RecipeShortOutput, error) {
	return func(ctx context.Context, input *RecipeIDInput) (*RecipeShortOutput, error) {
		userID, err := GetUserID(ctx)
		if err != nil {
			return nil, err
		}

		summary, err := s.services.Membership.AddRecipe(ctx, kind, userID, input.ID)
		if err != nil {
			return nil, err
		}
		return &RecipeShortOutput{Body: s.recipeShortResponse(*summary)}, nil
	}
}

func (s *Server) removeFromCollection(kind domain.MembershipKind) func(context.Context, *RecipeIDInput) (*struct{}, error) {
	return func(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
		userID, err := GetUserID(ctx)
		if err != nil {
			return nil, err
		}
		return nil, s.services.Membership.Remove(ctx, kind, userID, input.ID)
	}
}
