package api

import (
	"net/url"
	"strconv"

	"github.com/foodgram/foodgram-server/internal/color"
	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/store"
)

// UserResponse is a user profile as rendered to clients.
type UserResponse struct {
	ID           int64   `json:"id" doc:"User ID"`
	Email        string  `json:"email" doc:"Email address"`
	Username     string  `json:"username" doc:"Unique username"`
	FirstName    string  `json:"first_name" doc:"First name"`
	LastName     string  `json:"last_name" doc:"Last name"`
	IsSubscribed bool    `json:"is_subscribed" doc:"Whether the requester follows this user"`
	Avatar       *string `json:"avatar" doc:"Absolute avatar URL, null when unset"`
	AvatarColor  string  `json:"avatar_color" doc:"Placeholder color for users without an avatar"`
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID   int64  `json:"id" doc:"Tag ID"`
	Name string `json:"name" doc:"Tag name"`
	Slug string `json:"slug" doc:"URL-safe slug"`
}

// IngredientResponse contains ingredient data in API responses.
type IngredientResponse struct {
	ID              int64  `json:"id" doc:"Ingredient ID"`
	Name            string `json:"name" doc:"Ingredient name"`
	MeasurementUnit string `json:"measurement_unit" doc:"Measurement unit"`
}

// RecipeIngredientResponse is an ingredient with the amount a recipe needs.
type RecipeIngredientResponse struct {
	ID              int64  `json:"id" doc:"Ingredient ID"`
	Name            string `json:"name" doc:"Ingredient name"`
	MeasurementUnit string `json:"measurement_unit" doc:"Measurement unit"`
	Amount          int    `json:"amount" doc:"Amount in the measurement unit"`
}

// RecipeResponse is a full recipe as seen by the requester.
type RecipeResponse struct {
	ID               int64                      `json:"id" doc:"Recipe ID"`
	Tags             []TagResponse              `json:"tags" doc:"Recipe tags"`
	Author           UserResponse               `json:"author" doc:"Recipe author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients" doc:"Ingredients with amounts"`
	IsFavorited      bool                       `json:"is_favorited" doc:"Whether the requester favorited the recipe"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart" doc:"Whether the recipe is in the requester's cart"`
	Name             string                     `json:"name" doc:"Recipe name"`
	Image            string                     `json:"image" doc:"Absolute image URL"`
	ImageBlurHash    string                     `json:"image_blurhash,omitempty" doc:"BlurHash placeholder for the image"`
	Text             string                     `json:"text" doc:"Description"`
	CookingTime      int                        `json:"cooking_time" doc:"Cooking time in minutes"`
}

// RecipeShortResponse is the compact recipe form used by favorites, cart and subscriptions.
type RecipeShortResponse struct {
	ID          int64  `json:"id" doc:"Recipe ID"`
	Name        string `json:"name" doc:"Recipe name"`
	Image       string `json:"image" doc:"Absolute image URL"`
	CookingTime int    `json:"cooking_time" doc:"Cooking time in minutes"`
}

// SubscriptionResponse is a followed author with a preview of their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes" doc:"Newest recipes, capped by recipes_limit"`
	RecipesCount int                   `json:"recipes_count" doc:"Total number of the author's recipes"`
}

// PageResponse is the paginated list envelope.
type PageResponse[T any] struct {
	Count    int     `json:"count" doc:"Total number of matching items"`
	Next     *string `json:"next" doc:"URL of the next page, null on the last page"`
	Previous *string `json:"previous" doc:"URL of the previous page, null on the first page"`
	Results  []T     `json:"results" doc:"Items on this page"`
}

// PageInput contains page-number pagination parameters.
type PageInput struct {
	Page  int `query:"page" minimum:"1" default:"1" doc:"1-based page number"`
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"6" doc:"Items per page"`
}

// params converts the input into store pagination parameters.
func (p PageInput) params() store.PageParams {
	params := store.PageParams{Page: p.Page, Limit: p.Limit}
	params.Validate()
	return params
}

func (s *Server) userResponse(p domain.UserProfile) UserResponse {
	resp := UserResponse{
		ID:           p.ID,
		Email:        p.Email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		IsSubscribed: p.IsSubscribed,
		AvatarColor:  color.ForUser(p.ID),
	}
	if p.Avatar != "" {
		avatar := s.media.URL(p.Avatar)
		resp.Avatar = &avatar
	}
	return resp
}

func tagResponse(t domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func ingredientResponse(i *domain.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func (s *Server) recipeResponse(v *domain.RecipeView) RecipeResponse {
	tags := make([]TagResponse, len(v.Tags))
	for i, t := range v.Tags {
		tags[i] = tagResponse(t)
	}
	ingredients := make([]RecipeIngredientResponse, len(v.Ingredients))
	for i, ing := range v.Ingredients {
		ingredients[i] = RecipeIngredientResponse{
			ID:              ing.ID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Amount:          ing.Amount,
		}
	}

	return RecipeResponse{
		ID:               v.ID,
		Tags:             tags,
		Author:           s.userResponse(v.Author),
		Ingredients:      ingredients,
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             v.Name,
		Image:            s.media.URL(v.Image),
		ImageBlurHash:    v.ImageBlurHash,
		Text:             v.Text,
		CookingTime:      v.CookingTime,
	}
}

func (s *Server) recipeShortResponse(r domain.RecipeSummary) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       s.media.URL(r.Image),
		CookingTime: r.CookingTime,
	}
}

func (s *Server) subscriptionResponse(sub domain.Subscription) SubscriptionResponse {
	recipes := make([]RecipeShortResponse, len(sub.Recipes))
	for i, r := range sub.Recipes {
		recipes[i] = s.recipeShortResponse(r)
	}
	return SubscriptionResponse{
		UserResponse: s.userResponse(sub.UserProfile),
		Recipes:      recipes,
		RecipesCount: sub.RecipesCount,
	}
}

// pageResponse builds the paginated envelope. query carries the filters of
// the current request and is reused for the next and previous links.
func pageResponse[T, U any](s *Server, path string, query url.Values, page store.Page[T], fn func(T) U) PageResponse[U] {
	results := make([]U, len(page.Items))
	for i, item := range page.Items {
		results[i] = fn(item)
	}

	resp := PageResponse[U]{Count: page.Total, Results: results}
	if page.HasNext() {
		next := s.pageLink(path, query, page.Page+1, page.Limit)
		resp.Next = &next
	}
	if page.HasPrevious() {
		prev := s.pageLink(path, query, page.Page-1, page.Limit)
		resp.Previous = &prev
	}
	return resp
}

func (s *Server) pageLink(path string, query url.Values, page, limit int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return s.publicURL + apiPrefix + path + "?" + q.Encode()
}
