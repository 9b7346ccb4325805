package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/notification"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/core/querysync"
)

const defaultRevocationTTL = 24 * time.Hour

// AuthService forwards credentials to the remote API and turns the bearer
// tokens it issues into sessions. Tokens are HS256 JWTs signed with the secret
// shared with the remote API; the username travels in "sub" (or "username")
// and the role in "role".
type AuthService struct {
	api       ports.AuthAPI
	tokens    ports.TokenStore
	stores    *notification.Registry
	cache     *querysync.Client
	jwtSecret []byte
	log       zerolog.Logger
}

// NewAuthService returns the auth use cases. A nil TokenStore disables logout
// revocation.
func NewAuthService(
	api ports.AuthAPI,
	tokens ports.TokenStore,
	stores *notification.Registry,
	cache *querysync.Client,
	jwtSecret string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		api:       api,
		tokens:    tokens,
		stores:    stores,
		cache:     cache,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return domain.AuthResult{}, domain.ErrInvalidCredentials
	}

	res, err := s.api.Login(ctx, creds)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("login: %w", err)
	}
	if err := checkAuthResult(res); err != nil {
		return domain.AuthResult{}, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user", res.User.Username).Str("role", res.User.Role.String()).Msg("user logged in")
	return res, nil
}

func (s *AuthService) RegisterCityManager(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	reg.Role = domain.RoleCityManager
	return s.register(ctx, reg)
}

func (s *AuthService) RegisterServiceProviderAdmin(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	reg.Role = domain.RoleServiceProviderAdmin
	return s.register(ctx, reg)
}

func (s *AuthService) register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	if strings.TrimSpace(reg.Username) == "" || reg.Password == "" {
		return domain.AuthResult{}, fmt.Errorf("register: %w: username and password are required", domain.ErrInvalidArgument)
	}

	res, err := s.api.Register(ctx, reg)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("register: %w", err)
	}
	if err := checkAuthResult(res); err != nil {
		return domain.AuthResult{}, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user", res.User.Username).Str("role", reg.Role.String()).Msg("user registered")
	return res, nil
}

func checkAuthResult(res domain.AuthResult) error {
	if res.Token == "" {
		return errors.New("remote api returned no token")
	}
	if !res.User.Role.Valid() {
		return fmt.Errorf("%w: remote api returned no role", domain.ErrInvalidArgument)
	}
	return nil
}

// Authenticate validates token and rebuilds the session it stands for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.AnonymousSession(), fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	username, _ := claims["sub"].(string)
	if username == "" {
		username, _ = claims["username"].(string)
	}
	roleName, _ := claims["role"].(string)
	role, err := domain.ParseRole(roleName)
	if username == "" || err != nil {
		return domain.AnonymousSession(), fmt.Errorf("%w: token lacks identity claims", domain.ErrUnauthenticated)
	}

	if s.tokens != nil {
		revoked, err := s.tokens.IsRevoked(ctx, token)
		if err != nil {
			// A revocation store outage must not lock every user out.
			s.log.Warn().Err(err).Msg("revocation check failed, accepting token")
		} else if revoked {
			return domain.AnonymousSession(), domain.ErrTokenRevoked
		}
	}

	return domain.NewSession(username, role, token)
}

func (s *AuthService) parse(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Logout revokes the session's token until it expires and forgets every
// cache entry and the notification feed held for the user.
func (s *AuthService) Logout(ctx context.Context, sess domain.Session) error {
	if !sess.Authenticated() {
		return domain.ErrUnauthenticated
	}

	if s.tokens != nil {
		ttl := defaultRevocationTTL
		if claims, err := s.parse(sess.Token()); err == nil {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				ttl = time.Until(exp.Time)
			}
		}
		if ttl > 0 {
			if err := s.tokens.Revoke(ctx, sess.Token(), ttl); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
		}
	}

	s.stores.Drop(sess.Username())
	s.cache.Forget(sess.Username())
	s.log.Info().Str("user", sess.Username()).Msg("user logged out")
	return nil
}
