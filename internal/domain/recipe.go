package domain

// Recipe limits.
const (
	MinCookingTime    = 1
	MaxCookingTime    = 1440
	MinAmount         = 1
	RecipeNameMaxSize = 256
)

// Recipe is an authored recipe without its associations.
type Recipe struct {
	Timestamps
	ID            int64  `json:"id"`
	AuthorID      int64  `json:"author_id"`
	Name          string `json:"name"`
	Text          string `json:"text"`
	Image         string `json:"image"` // media key
	ImageBlurHash string `json:"image_blurhash,omitempty"`
	CookingTime   int    `json:"cooking_time"`
}

// IsAuthor reports whether userID authored the recipe.
func (r *Recipe) IsAuthor(userID int64) bool {
	return userID != 0 && r.AuthorID == userID
}

// Summary returns the short projection used by favorites, cart and subscriptions.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// RecipeIngredient is one (ingredient, amount) row of a recipe as written.
type RecipeIngredient struct {
	IngredientID int64 `json:"id"`
	Amount       int   `json:"amount"`
}

// RecipeSummary is the short recipe projection: id, name, image and cooking time.
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeView is a fully assembled recipe as seen by a viewer.
type RecipeView struct {
	Recipe
	Author           UserProfile        `json:"author"`
	Tags             []Tag              `json:"tags"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
}
