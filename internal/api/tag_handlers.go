package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/tags",
		Summary:     "List tags",
		Description: "Returns every tag. Not paginated.",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/tags/{id}",
		Summary:     "Get tag",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)
}

// === DTOs ===

// ListTagsOutput contains the tag list.
type ListTagsOutput struct {
	Body []TagResponse
}

// GetTagInput identifies a tag.
type GetTagInput struct {
	ID int64 `path:"id" doc:"Tag ID"`
}

// TagOutput wraps a tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tag.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = tagResponse(*t)
	}
	return &ListTagsOutput{Body: resp}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagOutput, error) {
	tag, err := s.services.Tag.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: tagResponse(*tag)}, nil
}
