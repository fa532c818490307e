package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/auth"
	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/search"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
	"github.com/foodgram/foodgram-server/internal/validation"
)

// testEnv wires every service against a temporary sqlite store, file media
// storage and search index.
type testEnv struct {
	store       *sqlite.Store
	media       *images.Manager
	mediaPath   string
	views       *ViewService
	search      *SearchService
	users       *UserService
	recipes     *RecipeService
	memberships *MembershipService
	shopping    *ShoppingListService
	sessions    *SessionService
	auth        *AuthService
	tokens      *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	mediaPath := filepath.Join(dir, "media")
	storage, err := images.NewFileStorage(mediaPath, "http://localhost:8080/media")
	require.NoError(t, err)
	media := images.NewManager(storage, 5<<20, 64, logger)

	index, err := search.NewSearchIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), time.Hour)
	require.NoError(t, err)

	v := validation.New()
	views := NewViewService(st)
	searchSvc := NewSearchService(index, st, logger)
	sessions := NewSessionService(st, tokens, logger)

	return &testEnv{
		store:       st,
		media:       media,
		mediaPath:   mediaPath,
		views:       views,
		search:      searchSvc,
		users:       NewUserService(st, media, v, views, logger),
		recipes:     NewRecipeService(st, media, views, searchSvc, logger),
		memberships: NewMembershipService(st, views, logger),
		shopping:    NewShoppingListService(st, logger),
		sessions:    sessions,
		auth:        NewAuthService(st, tokens, sessions, v, logger),
		tokens:      tokens,
	}
}

// registerUser creates an account with password "password123".
func (e *testEnv) registerUser(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) seedTag(t *testing.T, name, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name, Slug: slug}
	require.NoError(t, e.store.CreateTag(context.Background(), tag))
	return tag
}

func (e *testEnv) seedIngredient(t *testing.T, name, unit string) *domain.Ingredient {
	t.Helper()
	ing := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, e.store.CreateIngredient(context.Background(), ing))
	return ing
}

// createRecipe writes a recipe through the service and fails the test on error.
func (e *testEnv) createRecipe(t *testing.T, authorID int64, req RecipeRequest) *domain.RecipeView {
	t.Helper()
	view, err := e.recipes.Create(context.Background(), authorID, req)
	require.NoError(t, err)
	return view
}

// testImage returns a small PNG as a data URI.
func testImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: 120, B: uint8(y * 32), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// validRecipe returns a payload that passes every check.
func validRecipe(t *testing.T, tagIDs []int64, items []domain.RecipeIngredient) RecipeRequest {
	t.Helper()
	return RecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix everything and fry.",
		Image:       testImage(t),
		CookingTime: 20,
		Tags:        tagIDs,
		Ingredients: items,
	}
}
