package api

import (
	"net"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
)

// loginRateLimit rejects login attempts from a client address that exceeded
// the configured rate. RealIP runs earlier, so RemoteAddr already honours
// X-Forwarded-For and X-Real-IP.
func (s *Server) loginRateLimit(ctx huma.Context, next func(huma.Context)) {
	if s.loginLimiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx.RemoteAddr())
	if !s.loginLimiter.Allow(key) {
		s.logger.Warn("rate limit exceeded", "ip", key, "path", ctx.URL().Path)
		s.writeError(ctx, &domainerrors.Error{
			Code:    domainerrors.CodeTooManyRequests,
			Message: "too many requests, please try again later",
		})
		return
	}
	next(ctx)
}

// clientIP strips the port from a remote address.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
