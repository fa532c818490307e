package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	sessionIDKey ctxKey = "sessionID"
)

// tokenSchemes are the accepted Authorization header prefixes.
var tokenSchemes = []string{"Token ", "Bearer "}

// GetUserID returns the authenticated user ID from context.
// Returns 401 error if user is not authenticated.
func GetUserID(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok || userID == 0 {
		return 0, domainerrors.Unauthorized("authentication credentials were not provided")
	}
	return userID, nil
}

// viewerID returns the authenticated user ID, or zero for anonymous requests.
func viewerID(ctx context.Context) int64 {
	userID, _ := ctx.Value(userIDKey).(int64)
	return userID
}

// getSessionID returns the session behind the request token.
func getSessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionIDKey).(string)
	return sessionID
}

func withUser(ctx context.Context, user *domain.User, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, user.ID)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// authMiddleware validates "Token <key>" or "Bearer <key>" headers and stores
// the user in context. Requests without a valid token continue anonymously;
// handlers use GetUserID to require authentication.
func authMiddleware(auth *service.AuthService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, claims, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				if !isCredentialError(err) {
					// Session or user lookup failed; the token was never judged.
					logger.Error("token verification failed", "path", r.URL.Path, "error", err)
					writeInternalError(w)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user, claims.SessionID)))
		})
	}
}

// isCredentialError reports whether err rejects the token itself.
func isCredentialError(err error) bool {
	return errors.Is(err, domainerrors.ErrUnauthorized) || errors.Is(err, domainerrors.ErrTokenExpired)
}

// writeInternalError renders the generic 500 body outside of a huma operation.
func writeInternalError(w http.ResponseWriter) {
	body := internalError()
	w.Header().Set("Content-Type", body.ContentType(""))
	w.WriteHeader(body.GetStatus())
	_ = json.NewEncoder(w).Encode(body)
}

func extractToken(header string) (string, bool) {
	for _, scheme := range tokenSchemes {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):]), true
		}
	}
	return "", false
}
