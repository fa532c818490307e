package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/store"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "cook")

	assert.NotZero(t, user.ID)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestUserService_RegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "cook")

	tests := []struct {
		name     string
		email    string
		username string
	}{
		{"same username", "other@example.com", "cook"},
		{"same email", "cook@example.com", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Register(context.Background(), RegisterRequest{
				Email:     tt.email,
				Username:  tt.username,
				FirstName: "A",
				LastName:  "B",
				Password:  "password123",
			})
			assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
		})
	}
}

func TestUserService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"bad email", RegisterRequest{Email: "nope", Username: "cook", FirstName: "A", LastName: "B", Password: "password123"}, "email"},
		{"bad username", RegisterRequest{Email: "a@b.com", Username: "co ok!", FirstName: "A", LastName: "B", Password: "password123"}, "username"},
		{"short password", RegisterRequest{Email: "a@b.com", Username: "cook", FirstName: "A", LastName: "B", Password: "short"}, "password"},
		{"missing first name", RegisterRequest{Email: "a@b.com", Username: "cook", LastName: "B", Password: "password123"}, "first_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Register(context.Background(), tt.req)
			require.ErrorIs(t, err, domainerrors.ErrValidation)

			var de *domainerrors.Error
			require.ErrorAs(t, err, &de)
			assert.Contains(t, de.Details, tt.field)
		})
	}
}

func TestUserService_UpdateMe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "cook")
	env.registerUser(t, "taken")

	first := "Julia"
	updated, err := env.users.UpdateMe(ctx, user.ID, UpdateMeRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Julia", updated.FirstName)
	assert.Equal(t, "User", updated.LastName)

	taken := "taken"
	_, err = env.users.UpdateMe(ctx, user.ID, UpdateMeRequest{Username: &taken})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestUserService_SetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "cook")

	err := env.users.SetPassword(ctx, user.ID, SetPasswordRequest{CurrentPassword: "wrong-one", NewPassword: "newpassword1"})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Details, "current_password")

	require.NoError(t, env.users.SetPassword(ctx, user.ID, SetPasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1"}))

	_, err = env.auth.Login(ctx, LoginRequest{Email: "cook@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, LoginRequest{Email: "cook@example.com", Password: "newpassword1"})
	assert.NoError(t, err)
}

func TestUserService_Avatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "cook")

	_, err := env.users.SetAvatar(ctx, user.ID, "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	first, err := env.users.SetAvatar(ctx, user.ID, testImage(t))
	require.NoError(t, err)
	require.NotEmpty(t, first.Avatar)
	firstKey := first.Avatar
	assert.FileExists(t, filepath.Join(env.mediaPath, firstKey))

	second, err := env.users.SetAvatar(ctx, user.ID, testImage(t))
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, second.Avatar)
	assert.NoFileExists(t, filepath.Join(env.mediaPath, firstKey))

	require.NoError(t, env.users.DeleteAvatar(ctx, user.ID))
	assert.NoFileExists(t, filepath.Join(env.mediaPath, second.Avatar))

	got, err := env.users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Avatar)
}

func TestUserService_ListProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	viewer := env.registerUser(t, "viewer")
	author := env.registerUser(t, "author")

	_, err := env.memberships.Follow(ctx, viewer.ID, author.ID, 3)
	require.NoError(t, err)

	page, err := env.users.ListProfiles(ctx, viewer.ID, store.DefaultPageParams())
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.False(t, page.Items[0].IsSubscribed)
	assert.True(t, page.Items[1].IsSubscribed)

	anon, err := env.users.ListProfiles(ctx, 0, store.DefaultPageParams())
	require.NoError(t, err)
	for _, p := range anon.Items {
		assert.False(t, p.IsSubscribed)
	}
}

func TestUserService_GetUnknown(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Get(context.Background(), 42)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
