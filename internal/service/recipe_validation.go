package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/normalize"
)

// validatedRecipe is a recipe payload that passed every check.
// upload is nil when an update keeps the current image.
type validatedRecipe struct {
	name        string
	text        string
	cookingTime int
	tagIDs      []int64
	items       []domain.RecipeIngredient
	upload      *images.Upload
}

// validateRecipe checks a recipe payload in a fixed order and returns the
// first violation as a field-keyed error. Nothing is written.
func (s *RecipeService) validateRecipe(ctx context.Context, req RecipeRequest, creating bool) (*validatedRecipe, error) {
	if err := s.validateTags(ctx, req.Tags); err != nil {
		return nil, err
	}
	if err := s.validateIngredients(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	out := &validatedRecipe{
		cookingTime: req.CookingTime,
		tagIDs:      req.Tags,
		items:       req.Ingredients,
	}

	// Required on create, optional on update.
	switch {
	case strings.TrimSpace(req.Image) != "":
		upload, err := s.media.Decode(req.Image)
		if err != nil {
			return nil, domainerrors.FieldError(domainerrors.CodeValidation, "image", imageErrorMessage(err))
		}
		out.upload = upload
	case creating:
		return nil, domainerrors.FieldError(domainerrors.CodeEmptyImage, "image", "image is required")
	}

	if req.CookingTime < domain.MinCookingTime || req.CookingTime > domain.MaxCookingTime {
		return nil, domainerrors.FieldError(domainerrors.CodeInvalidCookingTime, "cooking_time",
			fmt.Sprintf("cooking time must be between %d and %d minutes", domain.MinCookingTime, domain.MaxCookingTime))
	}

	// Name and text come last.
	out.name = normalize.StripHTML(normalize.Clean(req.Name))
	if out.name == "" {
		return nil, domainerrors.FieldError(domainerrors.CodeValidation, "name", "is required")
	}
	if utf8.RuneCountInString(out.name) > domain.RecipeNameMaxSize {
		return nil, domainerrors.FieldError(domainerrors.CodeValidation, "name",
			fmt.Sprintf("must not exceed %d characters", domain.RecipeNameMaxSize))
	}

	// HTML bodies are stored as Markdown.
	out.text = normalize.RecipeText(normalize.Clean(req.Text))
	if out.text == "" {
		return nil, domainerrors.FieldError(domainerrors.CodeValidation, "text", "is required")
	}

	return out, nil
}

func (s *RecipeService) validateTags(ctx context.Context, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return domainerrors.FieldError(domainerrors.CodeEmptyTags, "tags", "at least one tag is required")
	}

	// Duplicates first, then existence in one query.
	seen := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			return domainerrors.FieldError(domainerrors.CodeDuplicateTags, "tags", "duplicate tag ids")
		}
		seen[id] = true
	}

	existing, err := s.store.ExistingTagIDs(ctx, tagIDs)
	if err != nil {
		return fmt.Errorf("check tags: %w", err)
	}
	for _, id := range tagIDs {
		if !existing[id] {
			return domainerrors.FieldError(domainerrors.CodeUnknownTag, "tags", fmt.Sprintf("tag %d does not exist", id))
		}
	}
	return nil
}

func (s *RecipeService) validateIngredients(ctx context.Context, items []domain.RecipeIngredient) error {
	if len(items) == 0 {
		return domainerrors.FieldError(domainerrors.CodeEmptyIngredients, "ingredients", "at least one ingredient is required")
	}

	ids := make([]int64, len(items))
	seen := make(map[int64]bool, len(items))
	for i, item := range items {
		if seen[item.IngredientID] {
			return domainerrors.FieldError(domainerrors.CodeDuplicateIngredients, "ingredients", "duplicate ingredient ids")
		}
		seen[item.IngredientID] = true
		ids[i] = item.IngredientID
	}

	existing, err := s.store.ExistingIngredientIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("check ingredients: %w", err)
	}
	for _, id := range ids {
		if !existing[id] {
			return domainerrors.FieldError(domainerrors.CodeUnknownIngredient, "ingredients",
				fmt.Sprintf("ingredient %d does not exist", id))
		}
	}

	for _, item := range items {
		if item.Amount < domain.MinAmount {
			return domainerrors.FieldError(domainerrors.CodeInvalidAmount, "ingredients",
				fmt.Sprintf("amount must be at least %d", domain.MinAmount))
		}
	}
	return nil
}
