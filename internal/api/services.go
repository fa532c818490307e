package api

import (
	"github.com/foodgram/foodgram-server/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Auth         *service.AuthService
	User         *service.UserService
	Tag          *service.TagService
	Ingredient   *service.IngredientService
	Recipe       *service.RecipeService
	Membership   *service.MembershipService
	ShoppingList *service.ShoppingListService
	ShortLink    *service.ShortLinkService
	Search       *service.SearchService // optional
}
