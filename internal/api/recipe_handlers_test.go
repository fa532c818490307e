package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipes_CreateAndGet(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, authHeader := ts.signUp(t, "chef")
	tag := ts.seedTag(t, "Breakfast", "breakfast")
	flour := ts.seedIngredient(t, "flour", "g")

	created := ts.createRecipe(t, authHeader, recipeBody(t, "Pancakes", tag.ID, item(flour.ID, 200)))
	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, "chef", created.Author.Username)
	assert.True(t, strings.HasPrefix(created.Image, testPublicURL+"/media/"), created.Image)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, 200, created.Ingredients[0].Amount)
	assert.Equal(t, "g", created.Ingredients[0].MeasurementUnit)

	resp := ts.api.Get(fmt.Sprintf("/api/v1/recipes/%d", created.ID))
	require.Equal(t, http.StatusOK, resp.Code)
	var got RecipeResponse
	decode(t, resp, &got)
	assert.Equal(t, created.ID, got.ID)
	assert.False(t, got.IsFavorited)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "breakfast", got.Tags[0].Slug)
}

func TestRecipes_CreateValidation(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, authHeader := ts.signUp(t, "chef")
	tag := ts.seedTag(t, "Breakfast", "breakfast")
	flour := ts.seedIngredient(t, "flour", "g")

	tests := []struct {
		name   string
		mutate func(map[string]any)
		code   string
	}{
		{"no tags", func(b map[string]any) { delete(b, "tags") }, "EMPTY_TAGS"},
		{"no ingredients", func(b map[string]any) { b["ingredients"] = []map[string]any{} }, "EMPTY_INGREDIENTS"},
		{"duplicate ingredients", func(b map[string]any) {
			b["ingredients"] = []map[string]any{item(flour.ID, 1), item(flour.ID, 2)}
		}, "DUPLICATE_INGREDIENTS"},
		{"unknown ingredient", func(b map[string]any) { b["ingredients"] = []map[string]any{item(999, 1)} }, "UNKNOWN_INGREDIENT"},
		{"zero amount", func(b map[string]any) { b["ingredients"] = []map[string]any{item(flour.ID, 0)} }, "INVALID_AMOUNT"},
		{"no image", func(b map[string]any) { delete(b, "image") }, "EMPTY_IMAGE"},
		{"too slow", func(b map[string]any) { b["cooking_time"] = 1441 }, "INVALID_COOKING_TIME"},
		{"long name", func(b map[string]any) { b["name"] = strings.Repeat("n", 300) }, "VALIDATION"},
		{"long name and no tags", func(b map[string]any) {
			b["name"] = strings.Repeat("n", 300)
			delete(b, "tags")
		}, "EMPTY_TAGS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := recipeBody(t, "Pancakes", tag.ID, item(flour.ID, 100))
			tt.mutate(body)

			resp := ts.api.Post("/api/v1/recipes", authHeader, body)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}

	resp := ts.api.Get("/api/v1/recipes")
	var page PageResponse[RecipeResponse]
	decode(t, resp, &page)
	assert.Equal(t, 0, page.Count)
}

func TestRecipes_Permissions(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, author := ts.signUp(t, "author")
	_, stranger := ts.signUp(t, "stranger")
	tag := ts.seedTag(t, "Breakfast", "breakfast")
	flour := ts.seedIngredient(t, "flour", "g")

	recipe := ts.createRecipe(t, author, recipeBody(t, "Pancakes", tag.ID, item(flour.ID, 200)))
	path := fmt.Sprintf("/api/v1/recipes/%d", recipe.ID)
	update := recipeBody(t, "Waffles", tag.ID, item(flour.ID, 300))
	delete(update, "image")

	resp := ts.api.Post("/api/v1/recipes", recipeBody(t, "Anonymous", tag.ID, item(flour.ID, 1)))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Patch(path, update)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Patch(path, stranger, update)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)

	resp = ts.api.Delete(path, stranger)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Patch(path, author, update)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var updated RecipeResponse
	decode(t, resp, &updated)
	assert.Equal(t, "Waffles", updated.Name)
	assert.Equal(t, recipe.Image, updated.Image)
	assert.Equal(t, 300, updated.Ingredients[0].Amount)

	resp = ts.api.Patch("/api/v1/recipes/999", author, update)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete(path, author)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get(path)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRecipes_UpdateIsFullReplace(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, author := ts.signUp(t, "author")
	tag := ts.seedTag(t, "Breakfast", "breakfast")
	flour := ts.seedIngredient(t, "flour", "g")

	recipe := ts.createRecipe(t, author, recipeBody(t, "Pancakes", tag.ID, item(flour.ID, 200)))
	path := fmt.Sprintf("/api/v1/recipes/%d", recipe.ID)

	for _, field := range []string{"tags", "ingredients", "name", "text", "cooking_time"} {
		t.Run(field, func(t *testing.T) {
			update := recipeBody(t, "Waffles", tag.ID, item(flour.ID, 300))
			delete(update, "image")
			delete(update, field)

			resp := ts.api.Put(path, author, update)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
		})
	}

	resp := ts.api.Get(path)
	require.Equal(t, http.StatusOK, resp.Code)
	var current RecipeResponse
	decode(t, resp, &current)
	assert.Equal(t, "Pancakes", current.Name)
	assert.Equal(t, 200, current.Ingredients[0].Amount)
}

func TestRecipes_ListFiltersAndPagination(t *testing.T) {
	ts := setupTestServer(t, Options{})
	authorID, author := ts.signUp(t, "author")
	_, reader := ts.signUp(t, "reader")
	breakfast := ts.seedTag(t, "Breakfast", "breakfast")
	dinner := ts.seedTag(t, "Dinner", "dinner")
	flour := ts.seedIngredient(t, "flour", "g")

	first := ts.createRecipe(t, author, recipeBody(t, "Pancakes", breakfast.ID, item(flour.ID, 200)))
	ts.createRecipe(t, author, recipeBody(t, "Tomato soup", dinner.ID, item(flour.ID, 10)))
	ts.createRecipe(t, author, recipeBody(t, "Omelette", breakfast.ID, item(flour.ID, 5)))

	resp := ts.api.Get("/api/v1/recipes?limit=2")
	require.Equal(t, http.StatusOK, resp.Code)
	var page PageResponse[RecipeResponse]
	decode(t, resp, &page)
	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Omelette", page.Results[0].Name)
	require.NotNil(t, page.Next)
	assert.Nil(t, page.Previous)

	resp = ts.api.Get("/api/v1/recipes?tags=dinner")
	decode(t, resp, &page)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "Tomato soup", page.Results[0].Name)

	resp = ts.api.Get("/api/v1/recipes?tags=dinner&tags=breakfast")
	decode(t, resp, &page)
	assert.Equal(t, 3, page.Count)

	resp = ts.api.Get(fmt.Sprintf("/api/v1/recipes?author=%d", authorID))
	decode(t, resp, &page)
	assert.Equal(t, 3, page.Count)

	resp = ts.api.Get("/api/v1/recipes?search=tomato")
	decode(t, resp, &page)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "Tomato soup", page.Results[0].Name)

	resp = ts.api.Post(fmt.Sprintf("/api/v1/recipes/%d/favorite", first.ID), reader)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/recipes?is_favorited=1", reader)
	decode(t, resp, &page)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "Pancakes", page.Results[0].Name)
	assert.True(t, page.Results[0].IsFavorited)

	// Anonymous viewers cannot filter by favorites.
	resp = ts.api.Get("/api/v1/recipes?is_favorited=1")
	decode(t, resp, &page)
	assert.Equal(t, 3, page.Count)
}

func TestCollections(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, author := ts.signUp(t, "author")
	_, reader := ts.signUp(t, "reader")
	tag := ts.seedTag(t, "Breakfast", "breakfast")
	flour := ts.seedIngredient(t, "flour", "g")
	recipe := ts.createRecipe(t, author, recipeBody(t, "Pancakes", tag.ID, item(flour.ID, 200)))
	favorite := fmt.Sprintf("/api/v1/recipes/%d/favorite", recipe.ID)

	t.Run("requires authentication", func(t *testing.T) {
		resp := ts.api.Post(favorite)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)

		resp = ts.api.Get("/api/v1/recipes?is_favorited=1", reader)
		var page PageResponse[RecipeResponse]
		decode(t, resp, &page)
		assert.Equal(t, 0, page.Count)
	})

	t.Run("add once", func(t *testing.T) {
		resp := ts.api.Post(favorite, reader)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
		var short RecipeShortResponse
		decode(t, resp, &short)
		assert.Equal(t, recipe.ID, short.ID)
		assert.Equal(t, 20, short.CookingTime)

		resp = ts.api.Post(favorite, reader)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "DUPLICATE_MEMBERSHIP", decodeError(t, resp).Code)
	})

	t.Run("remove once", func(t *testing.T) {
		resp := ts.api.Delete(favorite, reader)
		assert.Equal(t, http.StatusNoContent, resp.Code)

		resp = ts.api.Delete(favorite, reader)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "MEMBERSHIP_NOT_FOUND", decodeError(t, resp).Code)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/recipes/999/shopping_cart", reader)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestShoppingCartDownload(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, author := ts.signUp(t, "author")
	tag := ts.seedTag(t, "Breakfast", "breakfast")
	flour := ts.seedIngredient(t, "flour", "g")
	sugar := ts.seedIngredient(t, "sugar", "g")

	resp := ts.api.Get("/api/v1/recipes/download_shopping_cart", author)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "EMPTY_CART", decodeError(t, resp).Code)

	a := ts.createRecipe(t, author, recipeBody(t, "Pancakes", tag.ID, item(flour.ID, 200), item(sugar.ID, 10)))
	b := ts.createRecipe(t, author, recipeBody(t, "Bread", tag.ID, item(flour.ID, 50)))
	for _, id := range []int64{a.ID, b.ID} {
		resp = ts.api.Post(fmt.Sprintf("/api/v1/recipes/%d/shopping_cart", id), author)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	resp = ts.api.Get("/api/v1/recipes/download_shopping_cart", author)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "shopping_cart.txt")
	assert.Equal(t, "Shopping list:\n\n1) flour - 250 g\n2) sugar - 10 g\n", resp.Body.String())

	resp = ts.api.Get("/api/v1/recipes/download_shopping_cart")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSubscriptions(t *testing.T) {
	ts := setupTestServer(t, Options{})
	authorID, author := ts.signUp(t, "author")
	readerID, reader := ts.signUp(t, "reader")
	tag := ts.seedTag(t, "Breakfast", "breakfast")
	flour := ts.seedIngredient(t, "flour", "g")
	for _, name := range []string{"One", "Two", "Three"} {
		ts.createRecipe(t, author, recipeBody(t, name, tag.ID, item(flour.ID, 1)))
	}
	subscribe := fmt.Sprintf("/api/v1/users/%d/subscribe", authorID)

	resp := ts.api.Post(fmt.Sprintf("/api/v1/users/%d/subscribe", readerID), reader)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "SELF_REFERENCE_NOT_ALLOWED", decodeError(t, resp).Code)

	resp = ts.api.Post(subscribe+"?recipes_limit=2", reader)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var sub SubscriptionResponse
	decode(t, resp, &sub)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, 3, sub.RecipesCount)
	require.Len(t, sub.Recipes, 2)
	assert.Equal(t, "Three", sub.Recipes[0].Name)

	resp = ts.api.Post(subscribe, reader)
	assert.Equal(t, "DUPLICATE_MEMBERSHIP", decodeError(t, resp).Code)

	resp = ts.api.Get("/api/v1/users/subscriptions?recipes_limit=1", reader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var page PageResponse[SubscriptionResponse]
	decode(t, resp, &page)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "author", page.Results[0].Username)
	assert.Len(t, page.Results[0].Recipes, 1)

	resp = ts.api.Delete(subscribe, reader)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/users/subscriptions", reader)
	decode(t, resp, &page)
	assert.Equal(t, 0, page.Count)
}

func TestShortLinks(t *testing.T) {
	ts := setupTestServer(t, Options{})
	_, author := ts.signUp(t, "author")
	tag := ts.seedTag(t, "Breakfast", "breakfast")
	flour := ts.seedIngredient(t, "flour", "g")
	recipe := ts.createRecipe(t, author, recipeBody(t, "Pancakes", tag.ID, item(flour.ID, 1)))

	resp := ts.api.Get(fmt.Sprintf("/api/v1/recipes/%d/get-link", recipe.ID))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var link ShortLinkResponse
	decode(t, resp, &link)
	require.True(t, strings.HasPrefix(link.ShortLink, testPublicURL+"/s/"), link.ShortLink)

	resp = ts.api.Get(fmt.Sprintf("/api/v1/recipes/%d/get-link", recipe.ID))
	var again ShortLinkResponse
	decode(t, resp, &again)
	assert.Equal(t, link.ShortLink, again.ShortLink)

	code := strings.TrimPrefix(link.ShortLink, testPublicURL)
	resp = ts.api.Get(code)
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, fmt.Sprintf("%s/recipes/%d", testFrontendURL, recipe.ID), resp.Header().Get("Location"))

	resp = ts.api.Get("/s/missing1")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/recipes/999/get-link")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.api.Get("/api/v1/tags")

	resp := ts.api.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "foodgram_http_requests_total")
}
