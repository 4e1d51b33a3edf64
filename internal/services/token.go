package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sparklab/ideahub-backend/internal/pkg/apperr"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
	"github.com/sparklab/ideahub-backend/internal/types"
)

// TokenTTL is fixed at one day; it also drives the cookie max-age.
const TokenTTL = 24 * time.Hour

// DefaultJWTSecret is only used when JWT_SECRET is unset. Every deployment
// that relies on it shares a guessable key; production must supply its own.
const DefaultJWTSecret = "ad989da5e56528c46ceb00a81378a9f5fd90defd1a4fda7ab39dd1ca1d93ba02"

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed identity tokens. Stateless: a
// pure function over the secret key.
type TokenService interface {
	Issue(user *types.User) (string, error)
	Verify(tokenString string) (*Claims, error)
}

type tokenService struct {
	log    *logger.Logger
	secret []byte
}

func NewTokenService(log *logger.Logger, secret string) TokenService {
	serviceLog := log.With("service", "TokenService")
	if secret == "" {
		secret = DefaultJWTSecret
		serviceLog.Warn("JWT_SECRET not set, falling back to the embedded default key")
	}
	return &tokenService{log: serviceLog, secret: []byte(secret)}
}

func (ts *tokenService) Issue(user *types.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// Verify returns claims for a well-signed unexpired token. Malformed,
// expired, or mis-signed tokens all come back as ErrUnauthorized; nothing
// panics or leaks past this boundary.
func (ts *tokenService) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: invalid subject", apperr.ErrUnauthorized)
	}
	return claims, nil
}
