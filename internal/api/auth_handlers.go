package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/foodgram/foodgram-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        apiPrefix + "/auth/token/login",
		Summary:     "Obtain token",
		Description: "Exchanges email and password for an auth token",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.loginRateLimit},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          apiPrefix + "/auth/token/logout",
		Summary:       "Revoke token",
		Description:   "Revokes the session behind the presented token",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"token": {}}},
	}, s.handleLogout)
}

// === DTOs ===

// LoginRequest is the request body for token login.
type LoginRequest struct {
	Email    string `json:"email" maxLength:"254" doc:"Account email"`
	Password string `json:"password" maxLength:"150" doc:"Account password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
	UserAgent     string `header:"User-Agent"`
	Body          LoginRequest
}

// TokenResponse carries the issued token.
type TokenResponse struct {
	AuthToken string `json:"auth_token" doc:"Token to send as \"Authorization: Token <auth_token>\""`
}

// TokenOutput wraps the token response for Huma.
type TokenOutput struct {
	Body TokenResponse
}

// === Handlers ===

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*TokenOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		IPAddress: extractIP(input.XForwardedFor, input.XRealIP),
		UserAgent: input.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	return &TokenOutput{Body: TokenResponse{AuthToken: resp.AuthToken}}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*struct{}, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Auth.Logout(ctx, getSessionID(ctx)); err != nil {
		return nil, err
	}
	return nil, nil
}

// extractIP returns the first forwarded client address, falling back to X-Real-IP.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		for i := 0; i < len(xForwardedFor); i++ {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}
	return xRealIP
}
