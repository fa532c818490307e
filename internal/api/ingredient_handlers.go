package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerIngredientRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listIngredients",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/ingredients",
		Summary:     "List ingredients",
		Description: "Returns ingredients. name filters by case-insensitive prefix, followed by close fuzzy matches.",
		Tags:        []string{"Ingredients"},
	}, s.handleListIngredients)

	huma.Register(s.api, huma.Operation{
		OperationID: "getIngredient",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/ingredients/{id}",
		Summary:     "Get ingredient",
		Tags:        []string{"Ingredients"},
	}, s.handleGetIngredient)
}

// === DTOs ===

// ListIngredientsInput contains the optional name filter.
type ListIngredientsInput struct {
	Name string `query:"name" doc:"Name prefix"`
}

// ListIngredientsOutput contains the ingredient list.
type ListIngredientsOutput struct {
	Body []IngredientResponse
}

// GetIngredientInput identifies an ingredient.
type GetIngredientInput struct {
	ID int64 `path:"id" doc:"Ingredient ID"`
}

// IngredientOutput wraps an ingredient response for Huma.
type IngredientOutput struct {
	Body IngredientResponse
}

// === Handlers ===

func (s *Server) handleListIngredients(ctx context.Context, input *ListIngredientsInput) (*ListIngredientsOutput, error) {
	ingredients, err := s.services.Ingredient.List(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	resp := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		resp[i] = ingredientResponse(ing)
	}
	return &ListIngredientsOutput{Body: resp}, nil
}

func (s *Server) handleGetIngredient(ctx context.Context, input *GetIngredientInput) (*IngredientOutput, error) {
	ing, err := s.services.Ingredient.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &IngredientOutput{Body: ingredientResponse(ing)}, nil
}
