package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/recipes",
		Summary:     "List recipes",
		Description: "Returns a page of recipes, newest first. Favorite and cart filters apply to authenticated users only.",
		Tags:        []string{"Recipes"},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          apiPrefix + "/recipes",
		Summary:       "Create recipe",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"token": {}}},
		Middlewares:   huma.Middlewares{s.readOnlyOrAuthenticated},
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/recipes/{id}",
		Summary:     "Get recipe",
		Tags:        []string{"Recipes"},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPatch,
		Path:        apiPrefix + "/recipes/{id}",
		Summary:     "Update recipe",
		Description: "Replaces the recipe's fields, tags and ingredients. The image is optional.",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"token": {}}},
		Middlewares: huma.Middlewares{s.authorOrReadOnly},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceRecipe",
		Method:      http.MethodPut,
		Path:        apiPrefix + "/recipes/{id}",
		Summary:     "Replace recipe",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"token": {}}},
		Middlewares: huma.Middlewares{s.authorOrReadOnly},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteRecipe",
		Method:        http.MethodDelete,
		Path:          apiPrefix + "/recipes/{id}",
		Summary:       "Delete recipe",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"token": {}}},
		Middlewares:   huma.Middlewares{s.authorOrReadOnly},
	}, s.handleDeleteRecipe)
}

// === DTOs ===

// RecipeIngredientRequest is one ingredient line of a recipe payload.
type RecipeIngredientRequest struct {
	ID     int64 `json:"id,omitempty" doc:"Ingredient ID"`
	Amount int   `json:"amount,omitempty" doc:"Amount, at least 1"`
}

// RecipeRequest is the recipe payload for create and update.
// Fields are optional in the schema so that missing values surface as
// the specific validation codes.
type RecipeRequest struct {
	Name        string                    `json:"name,omitempty" doc:"Recipe name, at most 256 characters"`
	Text        string                    `json:"text,omitempty" doc:"Description, Markdown or HTML"`
	Image       string                    `json:"image,omitempty" doc:"data:image/<type>;base64,<payload>"`
	CookingTime int                       `json:"cooking_time,omitempty" doc:"Cooking time in minutes, 1 to 1440"`
	Tags        []int64                   `json:"tags,omitempty" doc:"Tag IDs"`
	Ingredients []RecipeIngredientRequest `json:"ingredients,omitempty" doc:"Ingredients with amounts"`
}

func (r RecipeRequest) toService() service.RecipeRequest {
	ingredients := make([]domain.RecipeIngredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = domain.RecipeIngredient{IngredientID: ing.ID, Amount: ing.Amount}
	}
	return service.RecipeRequest{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		Tags:        r.Tags,
		Ingredients: ingredients,
	}
}

// ListRecipesInput contains filters and pagination for listing recipes.
type ListRecipesInput struct {
	PageInput
	Tags             []string `query:"tags,explode" doc:"Tag slugs; a recipe matches if it has any of them"`
	Author           int64    `query:"author" doc:"Author user ID"`
	IsFavorited      string   `query:"is_favorited" enum:"0,1,true,false" doc:"Only the requester's favorites"`
	IsInShoppingCart string   `query:"is_in_shopping_cart" enum:"0,1,true,false" doc:"Only recipes in the requester's cart"`
	Search           string   `query:"search" doc:"Full-text query over name, text, tags and ingredients"`
}

// query rebuilds the filter part of the request for pagination links.
func (in *ListRecipesInput) query() url.Values {
	q := url.Values{}
	for _, t := range in.Tags {
		q.Add("tags", t)
	}
	if in.Author != 0 {
		q.Set("author", strconv.FormatInt(in.Author, 10))
	}
	if in.IsFavorited != "" {
		q.Set("is_favorited", in.IsFavorited)
	}
	if in.IsInShoppingCart != "" {
		q.Set("is_in_shopping_cart", in.IsInShoppingCart)
	}
	if in.Search != "" {
		q.Set("search", in.Search)
	}
	return q
}

// RecipePageOutput wraps a page of recipes for Huma.
type RecipePageOutput struct {
	Body PageResponse[RecipeResponse]
}

// CreateRecipeInput wraps the recipe payload for Huma.
type CreateRecipeInput struct {
	Body RecipeRequest
}

// RecipeOutput wraps a recipe response for Huma.
type RecipeOutput struct {
	Body RecipeResponse
}

// RecipeIDInput identifies a recipe.
type RecipeIDInput struct {
	ID int64 `path:"id" doc:"Recipe ID"`
}

// UpdateRecipeInput identifies a recipe and carries its new contents.
type UpdateRecipeInput struct {
	ID   int64 `path:"id" doc:"Recipe ID"`
	Body RecipeRequest
}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*RecipePageOutput, error) {
	page, err := s.services.Recipe.List(ctx, viewerID(ctx), service.RecipeListParams{
		Tags:             input.Tags,
		AuthorID:         input.Author,
		IsFavorited:      truthy(input.IsFavorited),
		IsInShoppingCart: truthy(input.IsInShoppingCart),
		Search:           strings.TrimSpace(input.Search),
		Page:             input.params(),
	})
	if err != nil {
		return nil, err
	}

	return &RecipePageOutput{
		Body: pageResponse(s, "/recipes", input.query(), page, s.recipeResponse),
	}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Recipe.Create(ctx, userID, input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: s.recipeResponse(view)}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *RecipeIDInput) (*RecipeOutput, error) {
	view, err := s.services.Recipe.Get(ctx, viewerID(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: s.recipeResponse(view)}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Recipe.Update(ctx, input.ID, userID, input.Body.toService())
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: s.recipeResponse(view)}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *RecipeIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return nil, s.services.Recipe.Delete(ctx, input.ID, userID)
}

// truthy reports whether a boolean query flag is set.
func truthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}
