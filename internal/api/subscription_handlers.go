package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSubscriptionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSubscriptions",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/users/subscriptions",
		Summary:     "List subscriptions",
		Description: "Returns the authors the current user follows, each with their newest recipes",
		Tags:        []string{"Subscriptions"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleListSubscriptions)

	huma.Register(s.api, huma.Operation{
		OperationID:   "subscribe",
		Method:        http.MethodPost,
		Path:          apiPrefix + "/users/{id}/subscribe",
		Summary:       "Follow author",
		Tags:          []string{"Subscriptions"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"token": {}}},
	}, s.handleSubscribe)

	huma.Register(s.api, huma.Operation{
		OperationID:   "unsubscribe",
		Method:        http.MethodDelete,
		Path:          apiPrefix + "/users/{id}/subscribe",
		Summary:       "Unfollow author",
		Tags:          []string{"Subscriptions"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"token": {}}},
	}, s.handleUnsubscribe)
}

// === DTOs ===

// ListSubscriptionsInput contains pagination and the per-author recipe cap.
type ListSubscriptionsInput struct {
	PageInput
	RecipesLimit int `query:"recipes_limit" default:"-1" minimum:"-1" doc:"Recipes per author, -1 for all"`
}

// SubscriptionPageOutput wraps a page of subscriptions for Huma.
type SubscriptionPageOutput struct {
	Body PageResponse[SubscriptionResponse]
}

// SubscribeInput identifies the author to follow.
type SubscribeInput struct {
	ID           int64 `path:"id" doc:"Author user ID"`
	RecipesLimit int   `query:"recipes_limit" default:"-1" minimum:"-1" doc:"Recipes to include, -1 for all"`
}

// SubscriptionOutput wraps a subscription response for Huma.
type SubscriptionOutput struct {
	Body SubscriptionResponse
}

// UnsubscribeInput identifies the author to unfollow.
type UnsubscribeInput struct {
	ID int64 `path:"id" doc:"Author user ID"`
}

// === Handlers ===

func (s *Server) handleListSubscriptions(ctx context.Context, input *ListSubscriptionsInput) (*SubscriptionPageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Membership.Subscriptions(ctx, userID, input.params(), input.RecipesLimit)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if input.RecipesLimit >= 0 {
		query.Set("recipes_limit", strconv.Itoa(input.RecipesLimit))
	}
	return &SubscriptionPageOutput{
		Body: pageResponse(s, "/users/subscriptions", query, page, s.subscriptionResponse),
	}, nil
}

func (s *Server) handleSubscribe(ctx context.Context, input *SubscribeInput) (*SubscriptionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	sub, err := s.services.Membership.Follow(ctx, userID, input.ID, input.RecipesLimit)
	if err != nil {
		return nil, err
	}
	return &SubscriptionOutput{Body: s.subscriptionResponse(*sub)}, nil
}

func (s *Server) handleUnsubscribe(ctx context.Context, input *UnsubscribeInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return nil, s.services.Membership.Unfollow(ctx, userID, input.ID)
}
