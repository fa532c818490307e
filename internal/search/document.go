// Package search provides full-text recipe search using Bleve.
// Recipe names, texts, ingredient names and tag names are denormalized
// into a single document per recipe.
package search

import (
	"strconv"

	"github.com/foodgram/foodgram-server/internal/domain"
)

// RecipeDocument is the structure stored in the Bleve index.
type RecipeDocument struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Text        string   `json:"text,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	AuthorID    int64    `json:"author_id"`
}

// NewRecipeDocument builds the index document for a recipe.
func NewRecipeDocument(r *domain.Recipe, tags []domain.Tag, ingredients []domain.IngredientAmount) *RecipeDocument {
	doc := &RecipeDocument{
		ID:       DocumentID(r.ID),
		Name:     r.Name,
		Text:     r.Text,
		AuthorID: r.AuthorID,
	}
	for _, t := range tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	for _, ing := range ingredients {
		doc.Ingredients = append(doc.Ingredients, ing.Name)
	}
	return doc
}

// DocumentID returns the index document ID for a recipe ID.
func DocumentID(recipeID int64) string {
	return strconv.FormatInt(recipeID, 10)
}

// ToMap converts the document to a map so field names match the mapping.
func (d *RecipeDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":        d.ID,
		"name":      d.Name,
		"author_id": float64(d.AuthorID),
	}
	if d.Text != "" {
		m["text"] = d.Text
	}
	if len(d.Ingredients) > 0 {
		m["ingredients"] = d.Ingredients
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}
