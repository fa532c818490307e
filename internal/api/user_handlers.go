package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "registerUser",
		Method:        http.MethodPost,
		Path:          apiPrefix + "/users",
		Summary:       "Register",
		Description:   "Creates a new account",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/users",
		Summary:     "List users",
		Description: "Returns a page of user profiles",
		Tags:        []string{"Users"},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/users/me",
		Summary:     "Get current user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        apiPrefix + "/users/me",
		Summary:     "Update current user",
		Description: "Updates email, username or names of the current user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleUpdateCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "setAvatar",
		Method:      http.MethodPut,
		Path:        apiPrefix + "/users/me/avatar",
		Summary:     "Set avatar",
		Description: "Replaces the current user's avatar with a base64 encoded image",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"token": {}}},
	}, s.handleSetAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteAvatar",
		Method:        http.MethodDelete,
		Path:          apiPrefix + "/users/me/avatar",
		Summary:       "Delete avatar",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"token": {}}},
	}, s.handleDeleteAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID:   "setPassword",
		Method:        http.MethodPost,
		Path:          apiPrefix + "/users/set_password",
		Summary:       "Change password",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"token": {}}},
	}, s.handleSetPassword)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/users/{id}",
		Summary:     "Get user",
		Description: "Returns a user profile with is_subscribed for the requester",
		Tags:        []string{"Users"},
	}, s.handleGetUser)
}

// === DTOs ===

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Email     string `json:"email" doc:"Email address"`
	Username  string `json:"username" doc:"Unique username"`
	FirstName string `json:"first_name" doc:"First name"`
	LastName  string `json:"last_name" doc:"Last name"`
	Password  string `json:"password" doc:"Password, at least 8 characters"`
}

// RegisterInput wraps the registration request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// RegisteredUserResponse is the account created by registration.
type RegisteredUserResponse struct {
	ID        int64  `json:"id" doc:"User ID"`
	Email     string `json:"email" doc:"Email address"`
	Username  string `json:"username" doc:"Unique username"`
	FirstName string `json:"first_name" doc:"First name"`
	LastName  string `json:"last_name" doc:"Last name"`
}

// RegisterOutput wraps the registration response for Huma.
type RegisterOutput struct {
	Body RegisteredUserResponse
}

// ListUsersInput contains pagination parameters for listing users.
type ListUsersInput struct {
	PageInput
}

// UserPageOutput wraps a page of users for Huma.
type UserPageOutput struct {
	Body PageResponse[UserResponse]
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// GetUserInput identifies a user.
type GetUserInput struct {
	ID int64 `path:"id" doc:"User ID"`
}

// UpdateCurrentUserRequest contains optional profile changes.
type UpdateCurrentUserRequest struct {
	Email     *string `json:"email,omitempty" doc:"Email address"`
	Username  *string `json:"username,omitempty" doc:"Unique username"`
	FirstName *string `json:"first_name,omitempty" doc:"First name"`
	LastName  *string `json:"last_name,omitempty" doc:"Last name"`
}

// UpdateCurrentUserInput wraps the profile update for Huma.
type UpdateCurrentUserInput struct {
	Body UpdateCurrentUserRequest
}

// SetAvatarRequest carries a base64 image.
type SetAvatarRequest struct {
	Avatar string `json:"avatar,omitempty" doc:"data:image/<type>;base64,<payload>"`
}

// SetAvatarInput wraps the avatar request for Huma.
type SetAvatarInput struct {
	Body SetAvatarRequest
}

// AvatarResponse carries the stored avatar URL.
type AvatarResponse struct {
	Avatar string `json:"avatar" doc:"Absolute avatar URL"`
}

// AvatarOutput wraps the avatar response for Huma.
type AvatarOutput struct {
	Body AvatarResponse
}

// SetPasswordRequest changes the current user's password.
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" doc:"New password"`
	CurrentPassword string `json:"current_password" doc:"Current password"`
}

// SetPasswordInput wraps the password change for Huma.
type SetPasswordInput struct {
	Body SetPasswordRequest
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	user, err := s.services.User.Register(ctx, service.RegisterRequest{
		Email:     input.Body.Email,
		Username:  input.Body.Username,
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
		Password:  input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{Body: RegisteredUserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}}, nil
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*UserPageOutput, error) {
	page, err := s.services.User.ListProfiles(ctx, viewerID(ctx), input.params())
	if err != nil {
		return nil, err
	}

	return &UserPageOutput{Body: pageResponse(s, "/users", nil, page, s.userResponse)}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	profile, err := s.services.User.Profile(ctx, viewerID(ctx), input.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: s.userResponse(*profile)}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: s.userResponse(domain.UserProfile{User: *user})}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateCurrentUserInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateMe(ctx, userID, service.UpdateMeRequest{
		Email:     input.Body.Email,
		Username:  input.Body.Username,
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
	})
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: s.userResponse(domain.UserProfile{User: *user})}, nil
}

func (s *Server) handleSetAvatar(ctx context.Context, input *SetAvatarInput) (*AvatarOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.SetAvatar(ctx, userID, input.Body.Avatar)
	if err != nil {
		return nil, err
	}
	return &AvatarOutput{Body: AvatarResponse{Avatar: s.media.URL(user.Avatar)}}, nil
}

func (s *Server) handleDeleteAvatar(ctx context.Context, _ *struct{}) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return nil, s.services.User.DeleteAvatar(ctx, userID)
}

func (s *Server) handleSetPassword(ctx context.Context, input *SetPasswordInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return nil, s.services.User.SetPassword(ctx, userID, service.SetPasswordRequest{
		CurrentPassword: input.Body.CurrentPassword,
		NewPassword:     input.Body.NewPassword,
	})
}
