package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

// SessionKey is the echo.Context key holding the request's domain.Session.
const SessionKey = "session"

// Authenticator turns a bearer token into a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Session, error)
}

// Session resolves the bearer token, if any, and stores the resulting
// session in the context. Missing or invalid tokens yield the anonymous
// session; gating is left to RequireView and the handlers.
func Session(auth Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := domain.AnonymousSession()

			if token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
				s, err := auth.Authenticate(c.Request().Context(), token)
				if err != nil {
					log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
				} else {
					sess = s
				}
			}

			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by Session, or the anonymous one.
func SessionFrom(c echo.Context) domain.Session {
	if s, ok := c.Get(SessionKey).(domain.Session); ok {
		return s
	}
	return domain.AnonymousSession()
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
