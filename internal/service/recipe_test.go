package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/store"
)

type recipeFixture struct {
	env    *testEnv
	author *domain.User
	tag    *domain.Tag
	flour  *domain.Ingredient
	sugar  *domain.Ingredient
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	env := newTestEnv(t)
	return &recipeFixture{
		env:    env,
		author: env.registerUser(t, "chef"),
		tag:    env.seedTag(t, "Breakfast", "breakfast"),
		flour:  env.seedIngredient(t, "flour", "g"),
		sugar:  env.seedIngredient(t, "sugar", "g"),
	}
}

func (f *recipeFixture) request(t *testing.T) RecipeRequest {
	t.Helper()
	return validRecipe(t, []int64{f.tag.ID}, []domain.RecipeIngredient{
		{IngredientID: f.flour.ID, Amount: 200},
		{IngredientID: f.sugar.ID, Amount: 10},
	})
}

func TestRecipeService_Create(t *testing.T) {
	f := newRecipeFixture(t)

	view := f.env.createRecipe(t, f.author.ID, f.request(t))

	assert.NotZero(t, view.ID)
	assert.Equal(t, "Pancakes", view.Name)
	assert.Equal(t, f.author.ID, view.Author.ID)
	assert.False(t, view.Author.IsSubscribed)
	assert.NotEmpty(t, view.Image)
	assert.FileExists(t, filepath.Join(f.env.mediaPath, view.Image))
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "breakfast", view.Tags[0].Slug)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, "flour", view.Ingredients[0].Name)
	assert.Equal(t, 200, view.Ingredients[0].Amount)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
}

func TestRecipeService_CreateValidation(t *testing.T) {
	f := newRecipeFixture(t)

	tests := []struct {
		name   string
		mutate func(r *RecipeRequest)
		want   *domainerrors.Error
		field  string
	}{
		{"no tags", func(r *RecipeRequest) { r.Tags = nil }, domainerrors.ErrEmptyTags, "tags"},
		{"duplicate tags", func(r *RecipeRequest) { r.Tags = []int64{f.tag.ID, f.tag.ID} }, domainerrors.ErrDuplicateTags, "tags"},
		{"unknown tag", func(r *RecipeRequest) { r.Tags = []int64{999} }, domainerrors.ErrUnknownTag, "tags"},
		{"no ingredients", func(r *RecipeRequest) { r.Ingredients = nil }, domainerrors.ErrEmptyIngredients, "ingredients"},
		{"duplicate ingredient", func(r *RecipeRequest) {
			r.Ingredients = []domain.RecipeIngredient{
				{IngredientID: f.flour.ID, Amount: 1},
				{IngredientID: f.flour.ID, Amount: 2},
			}
		}, domainerrors.ErrDuplicateIngredients, "ingredients"},
		{"unknown ingredient", func(r *RecipeRequest) {
			r.Ingredients = []domain.RecipeIngredient{{IngredientID: 999, Amount: 1}}
		}, domainerrors.ErrUnknownIngredient, "ingredients"},
		{"zero amount", func(r *RecipeRequest) {
			r.Ingredients = []domain.RecipeIngredient{{IngredientID: f.flour.ID, Amount: 0}}
		}, domainerrors.ErrInvalidAmount, "ingredients"},
		{"missing image", func(r *RecipeRequest) { r.Image = "" }, domainerrors.ErrEmptyImage, "image"},
		{"undecodable image", func(r *RecipeRequest) { r.Image = "data:image/png;base64,bm90IGFuIGltYWdl" }, domainerrors.ErrValidation, "image"},
		{"zero cooking time", func(r *RecipeRequest) { r.CookingTime = 0 }, domainerrors.ErrInvalidCookingTime, "cooking_time"},
		{"cooking time over a day", func(r *RecipeRequest) { r.CookingTime = 1441 }, domainerrors.ErrInvalidCookingTime, "cooking_time"},
		{"blank name", func(r *RecipeRequest) { r.Name = "  " }, domainerrors.ErrValidation, "name"},
		{"blank text", func(r *RecipeRequest) { r.Text = "" }, domainerrors.ErrValidation, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(t)
			tt.mutate(&req)

			_, err := f.env.recipes.Create(context.Background(), f.author.ID, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var de *domainerrors.Error
			require.ErrorAs(t, err, &de)
			assert.Contains(t, de.Details, tt.field)
		})
	}

	count, err := f.env.store.CountRecipes(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "rejected payloads must not persist anything")
}

func TestRecipeService_CookingTimeBounds(t *testing.T) {
	f := newRecipeFixture(t)

	for _, minutes := range []int{1, 1440} {
		req := f.request(t)
		req.CookingTime = minutes
		view := f.env.createRecipe(t, f.author.ID, req)
		assert.Equal(t, minutes, view.CookingTime)
	}
}

func TestRecipeService_DuplicateIngredientPersistsNothing(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	req := f.request(t)
	req.Ingredients = []domain.RecipeIngredient{
		{IngredientID: f.flour.ID, Amount: 1},
		{IngredientID: f.flour.ID, Amount: 2},
	}

	_, err := f.env.recipes.Create(ctx, f.author.ID, req)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateIngredients)

	count, err := f.env.store.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	entries, err := os.ReadDir(f.env.mediaPath)
	require.NoError(t, err)
	assert.Empty(t, entries, "no image may be stored for a rejected recipe")
}

func TestRecipeService_CleansNameAndText(t *testing.T) {
	f := newRecipeFixture(t)

	req := f.request(t)
	req.Name = "<b>Crêpes</b>"
	req.Text = "<p>Whisk <strong>well</strong></p>"
	view := f.env.createRecipe(t, f.author.ID, req)

	assert.Equal(t, "Crêpes", view.Name)
	assert.Equal(t, "Whisk **well**", view.Text)
}

func TestRecipeService_UpdateReplacesAssociations(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	lunch := f.env.seedTag(t, "Lunch", "lunch")
	eggs := f.env.seedIngredient(t, "eggs", "pcs")

	created := f.env.createRecipe(t, f.author.ID, f.request(t))
	oldImage := created.Image

	update := f.request(t)
	update.Name = "Omelette"
	update.Tags = []int64{lunch.ID}
	update.Ingredients = []domain.RecipeIngredient{{IngredientID: eggs.ID, Amount: 3}}

	updated, err := f.env.recipes.Update(ctx, created.ID, f.author.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Omelette", updated.Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, lunch.ID, updated.Tags[0].ID)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, eggs.ID, updated.Ingredients[0].ID)
	assert.Equal(t, 3, updated.Ingredients[0].Amount)

	assert.NotEqual(t, oldImage, updated.Image)
	assert.NoFileExists(t, filepath.Join(f.env.mediaPath, oldImage))
	assert.FileExists(t, filepath.Join(f.env.mediaPath, updated.Image))
}

func TestRecipeService_UpdateKeepsImageWhenOmitted(t *testing.T) {
	f := newRecipeFixture(t)

	created := f.env.createRecipe(t, f.author.ID, f.request(t))

	update := f.request(t)
	update.Image = ""
	updated, err := f.env.recipes.Update(context.Background(), created.ID, f.author.ID, update)
	require.NoError(t, err)
	assert.Equal(t, created.Image, updated.Image)
}

func TestRecipeService_UpdateByNonAuthor(t *testing.T) {
	f := newRecipeFixture(t)
	stranger := f.env.registerUser(t, "stranger")

	created := f.env.createRecipe(t, f.author.ID, f.request(t))

	update := f.request(t)
	update.Name = "Hijacked"
	_, err := f.env.recipes.Update(context.Background(), created.ID, stranger.ID, update)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	got, err := f.env.recipes.Get(context.Background(), 0, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
}

func TestRecipeService_UpdateUnknown(t *testing.T) {
	f := newRecipeFixture(t)
	_, err := f.env.recipes.Update(context.Background(), 404, f.author.ID, f.request(t))
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRecipeService_Delete(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	stranger := f.env.registerUser(t, "stranger")

	created := f.env.createRecipe(t, f.author.ID, f.request(t))

	err := f.env.recipes.Delete(ctx, created.ID, stranger.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, f.env.recipes.Delete(ctx, created.ID, f.author.ID))
	assert.NoFileExists(t, filepath.Join(f.env.mediaPath, created.Image))

	_, err = f.env.recipes.Get(ctx, 0, created.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	ids, err := f.env.search.Search(ctx, "pancakes")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRecipeService_ListFilters(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	reader := f.env.registerUser(t, "reader")
	dinner := f.env.seedTag(t, "Dinner", "dinner")

	pancakes := f.env.createRecipe(t, f.author.ID, f.request(t))

	soup := f.request(t)
	soup.Name = "Tomato soup"
	soup.Tags = []int64{dinner.ID}
	soupView := f.env.createRecipe(t, f.author.ID, soup)

	_, err := f.env.memberships.AddRecipe(ctx, domain.MembershipFavorite, reader.ID, soupView.ID)
	require.NoError(t, err)

	t.Run("all newest first", func(t *testing.T) {
		page, err := f.env.recipes.List(ctx, 0, RecipeListParams{Page: store.DefaultPageParams()})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		require.Len(t, page.Items, 2)
		assert.Equal(t, soupView.ID, page.Items[0].ID)
	})

	t.Run("by tag", func(t *testing.T) {
		page, err := f.env.recipes.List(ctx, 0, RecipeListParams{Tags: []string{"breakfast"}, Page: store.DefaultPageParams()})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, pancakes.ID, page.Items[0].ID)
	})

	t.Run("favorited for viewer", func(t *testing.T) {
		page, err := f.env.recipes.List(ctx, reader.ID, RecipeListParams{IsFavorited: true, Page: store.DefaultPageParams()})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, soupView.ID, page.Items[0].ID)
		assert.True(t, page.Items[0].IsFavorited)
	})

	t.Run("favorited ignored for anonymous", func(t *testing.T) {
		page, err := f.env.recipes.List(ctx, 0, RecipeListParams{IsFavorited: true, Page: store.DefaultPageParams()})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		for _, item := range page.Items {
			assert.False(t, item.IsFavorited)
		}
	})

	t.Run("full-text search", func(t *testing.T) {
		page, err := f.env.recipes.List(ctx, 0, RecipeListParams{Search: "tomato", Page: store.DefaultPageParams()})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, soupView.ID, page.Items[0].ID)
	})

	t.Run("search without hits", func(t *testing.T) {
		page, err := f.env.recipes.List(ctx, 0, RecipeListParams{Search: "lasagna", Page: store.DefaultPageParams()})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.Total)
	})
}
