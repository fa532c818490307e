package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foodgram/foodgram-server/internal/auth"
	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/id"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

// touchInterval throttles last-seen writes for busy sessions.
const touchInterval = time.Minute

// SessionService handles session lifecycle. Every issued token is bound to a
// session row; deleting the row revokes the token.
type SessionService struct {
	store        *sqlite.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewSessionService creates a new session management service.
func NewSessionService(store *sqlite.Store, tokenService *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// CreateSession records a session for userID and returns a token bound to it.
func (s *SessionService) CreateSession(ctx context.Context, userID int64, ipAddress, userAgent string) (string, *domain.Session, error) {
	sessionID, err := id.Generate("session")
	if err != nil {
		return "", nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:         sessionID,
		UserID:     userID,
		ExpiresAt:  now.Add(s.tokenService.TokenDuration()),
		CreatedAt:  now,
		LastSeenAt: now,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.tokenService.GenerateAccessToken(userID, sessionID)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}

	return token, session, nil
}

// ValidateSession returns the live session with the given ID.
// Expired sessions are deleted on sight.
func (s *SessionService) ValidateSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("session has been revoked")
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	now := time.Now()
	if session.IsExpired(now) {
		if err := s.store.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to delete expired session", "session_id", sessionID, "error", err)
		}
		return nil, domainerrors.TokenExpired("session expired")
	}

	if now.Sub(session.LastSeenAt) > touchInterval {
		if err := s.store.TouchSession(ctx, sessionID, now); err != nil {
			s.logger.Warn("failed to touch session", "session_id", sessionID, "error", err)
		} else {
			session.LastSeenAt = now
		}
	}

	return session, nil
}

// DeleteSession revokes a session. Deleting an unknown session is not an error.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes every expired session and returns how many were removed.
func (s *SessionService) CleanupExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired sessions removed", "count", n)
	}
	return n, nil
}
