package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/auth"
	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/search"
	"github.com/foodgram/foodgram-server/internal/service"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
	"github.com/foodgram/foodgram-server/internal/validation"
)

const (
	testPublicURL   = "http://api.test"
	testFrontendURL = "http://app.test"
)

// testServer is a fully wired server over a temporary sqlite store.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	storage, err := images.NewFileStorage(filepath.Join(dir, "media"), testPublicURL+"/media")
	require.NoError(t, err)
	media := images.NewManager(storage, 5<<20, 64, logger)

	index, err := search.NewSearchIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	tokens, err := auth.NewTokenService(strings.Repeat("cd", 32), time.Hour)
	require.NoError(t, err)

	v := validation.New()
	views := service.NewViewService(st)
	searchSvc := service.NewSearchService(index, st, logger)
	sessions := service.NewSessionService(st, tokens, logger)
	shortLinks, err := service.NewShortLinkService(st, 16, testPublicURL, testFrontendURL, logger)
	require.NoError(t, err)

	services := &Services{
		Auth:         service.NewAuthService(st, tokens, sessions, v, logger),
		User:         service.NewUserService(st, media, v, views, logger),
		Tag:          service.NewTagService(st, logger),
		Ingredient:   service.NewIngredientService(st, logger),
		Recipe:       service.NewRecipeService(st, media, views, searchSvc, logger),
		Membership:   service.NewMembershipService(st, views, logger),
		ShoppingList: service.NewShoppingListService(st, logger),
		ShortLink:    shortLinks,
		Search:       searchSvc,
	}

	opts.PublicURL = testPublicURL
	srv := NewServer(st, services, media, NewMetrics(), opts, logger)
	t.Cleanup(srv.Close)

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.API()),
		store:  st,
	}
}

// register creates an account through the API and returns its id.
func (ts *testServer) register(t *testing.T, username string) int64 {
	t.Helper()
	resp := ts.api.Post("/api/v1/users", map[string]any{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, 201, resp.Code, resp.Body.String())

	var body RegisteredUserResponse
	decode(t, resp, &body)
	return body.ID
}

// login returns an Authorization header for username.
func (ts *testServer) login(t *testing.T, username string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/auth/token/login", map[string]any{
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, 200, resp.Code, resp.Body.String())

	var body TokenResponse
	decode(t, resp, &body)
	require.NotEmpty(t, body.AuthToken)
	return "Authorization: Token " + body.AuthToken
}

// signUp registers and logs in, returning the user id and Authorization header.
func (ts *testServer) signUp(t *testing.T, username string) (int64, string) {
	t.Helper()
	id := ts.register(t, username)
	return id, ts.login(t, username)
}

func (ts *testServer) seedTag(t *testing.T, name, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name, Slug: slug}
	require.NoError(t, ts.store.CreateTag(context.Background(), tag))
	return tag
}

func (ts *testServer) seedIngredient(t *testing.T, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, ts.store.CreateIngredient(context.Background(), ing))
	return ing
}

// createRecipe posts a recipe and returns the response.
func (ts *testServer) createRecipe(t *testing.T, authHeader string, body map[string]any) RecipeResponse {
	t.Helper()
	resp := ts.api.Post("/api/v1/recipes", authHeader, body)
	require.Equal(t, 201, resp.Code, resp.Body.String())

	var recipe RecipeResponse
	decode(t, resp, &recipe)
	return recipe
}

func recipeBody(t *testing.T, name string, tagID int64, items ...map[string]any) map[string]any {
	t.Helper()
	return map[string]any{
		"name":         name,
		"text":         "Mix everything and fry.",
		"image":        testImage(t),
		"cooking_time": 20,
		"tags":         []int64{tagID},
		"ingredients":  items,
	}
}

func item(id int64, amount int) map[string]any {
	return map[string]any{"id": id, "amount": amount}
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), v), resp.Body.String())
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	decode(t, resp, &apiErr)
	return apiErr
}

// testImage returns a small PNG as a data URI.
func testImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: 80, B: uint8(y * 32), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
