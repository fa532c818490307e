package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerShortLinkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipeLink",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/recipes/{id}/get-link",
		Summary:     "Get short link",
		Description: "Returns the recipe's stable short link, creating it on first request",
		Tags:        []string{"Recipes"},
	}, s.handleGetRecipeLink)

	huma.Register(s.api, huma.Operation{
		OperationID:   "resolveShortLink",
		Method:        http.MethodGet,
		Path:          "/s/{code}",
		Summary:       "Follow short link",
		Description:   "Redirects to the recipe page of the frontend",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusFound,
	}, s.handleResolveShortLink)
}

// === DTOs ===

// ShortLinkResponse carries the absolute short URL.
type ShortLinkResponse struct {
	ShortLink string `json:"short-link" doc:"Absolute short URL"`
}

// ShortLinkOutput wraps the short link for Huma.
type ShortLinkOutput struct {
	Body ShortLinkResponse
}

// ResolveShortLinkInput carries the short code.
type ResolveShortLinkInput struct {
	Code string `path:"code" maxLength:"16" doc:"Short code"`
}

// RedirectOutput is a redirect to Location.
type RedirectOutput struct {
	Location string `header:"Location"`
}

// === Handlers ===

func (s *Server) handleGetRecipeLink(ctx context.Context, input *RecipeIDInput) (*ShortLinkOutput, error) {
	link, err := s.services.ShortLink.GetOrCreate(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ShortLinkOutput{Body: ShortLinkResponse{ShortLink: s.services.ShortLink.ShortURL(link.Code)}}, nil
}

func (s *Server) handleResolveShortLink(ctx context.Context, input *ResolveShortLinkInput) (*RedirectOutput, error) {
	target, err := s.services.ShortLink.Resolve(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	return &RedirectOutput{Location: target}, nil
}
