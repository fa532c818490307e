package domain

import "time"

// ShortLink maps a short code to a recipe. Each recipe has at most one code.
type ShortLink struct {
	Code      string    `json:"code"`
	RecipeID  int64     `json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}
