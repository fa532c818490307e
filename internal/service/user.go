package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgram/foodgram-server/internal/auth"
	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
	"github.com/foodgram/foodgram-server/internal/validation"
)

// UserService manages accounts: registration, profiles, passwords and avatars.
type UserService struct {
	store     *sqlite.Store
	media     *images.Manager
	validator *validation.Validator
	views     *ViewService
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	store *sqlite.Store,
	media *images.Manager,
	validator *validation.Validator,
	views *ViewService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		store:     store,
		media:     media,
		validator: validator,
		views:     views,
		logger:    logger,
	}
}

// RegisterRequest contains the fields of a new account.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=150"`
}

// Register creates a new account with the default role.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, mapUserStoreError(err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Get returns the account with the given ID.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("user %d not found", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Profile returns the user as seen by viewerID.
func (s *UserService) Profile(ctx context.Context, viewerID, id int64) (*domain.UserProfile, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	profiles, err := s.views.Profiles(ctx, viewerID, []*domain.User{user})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

// ListProfiles returns a page of users as seen by viewerID.
func (s *UserService) ListProfiles(ctx context.Context, viewerID int64, params store.PageParams) (store.Page[domain.UserProfile], error) {
	page, err := s.store.ListUsers(ctx, params)
	if err != nil {
		return store.Page[domain.UserProfile]{}, fmt.Errorf("list users: %w", err)
	}

	profiles, err := s.views.Profiles(ctx, viewerID, page.Items)
	if err != nil {
		return store.Page[domain.UserProfile]{}, err
	}

	return store.Page[domain.UserProfile]{
		Items:      profiles,
		Total:      page.Total,
		PageParams: page.PageParams,
	}, nil
}

// UpdateMeRequest contains optional profile changes. Nil fields are left as is.
type UpdateMeRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Username  *string `json:"username,omitempty" validate:"omitempty,max=150,username"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=150"`
}

// UpdateMe applies profile changes to the caller's account.
func (s *UserService) UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trimPtr(req.Email)
	trimPtr(req.Username)
	trimPtr(req.FirstName)
	trimPtr(req.LastName)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, mapUserStoreError(err)
	}
	return user, nil
}

// SetPasswordRequest changes the caller's password.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=150"`
}

// SetPassword replaces the password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, userID int64, req SetPasswordRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domainerrors.FieldError(domainerrors.CodeValidation, "current_password", "current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// SetAvatar stores a new avatar from a base64 image and replaces the old one.
func (s *UserService) SetAvatar(ctx context.Context, userID int64, raw string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, domainerrors.FieldError(domainerrors.CodeValidation, "avatar", "avatar is required")
	}

	upload, err := s.media.Decode(raw)
	if err != nil {
		return nil, domainerrors.FieldError(domainerrors.CodeValidation, "avatar", imageErrorMessage(err))
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := s.media.SaveAvatar(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}

	old := user.Avatar
	user.Avatar = key
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		_ = s.media.Delete(ctx, key)
		return nil, fmt.Errorf("update avatar: %w", err)
	}

	if err := s.media.Delete(ctx, old); err != nil {
		s.logger.Warn("failed to delete old avatar", "user_id", userID, "key", old, "error", err)
	}
	return user, nil
}

// DeleteAvatar removes the caller's avatar. Removing a missing avatar is a no-op.
func (s *UserService) DeleteAvatar(ctx context.Context, userID int64) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}

	old := user.Avatar
	user.Avatar = ""
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("clear avatar: %w", err)
	}

	if err := s.media.Delete(ctx, old); err != nil {
		s.logger.Warn("failed to delete avatar", "user_id", userID, "key", old, "error", err)
	}
	return nil
}

// mapUserStoreError converts uniqueness violations to domain errors.
func mapUserStoreError(err error) error {
	var storeErr *store.Error
	if errors.Is(err, store.ErrAlreadyExists) && errors.As(err, &storeErr) {
		return domainerrors.AlreadyExists(storeErr.Message)
	}
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("user not found")
	}
	return fmt.Errorf("save user: %w", err)
}

// imageErrorMessage returns a client-facing message for an upload error.
func imageErrorMessage(err error) string {
	if errors.Is(err, images.ErrImageTooLarge) {
		return "image is too large"
	}
	return "must be a base64 encoded png, jpeg, gif or webp image"
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
