package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hyeonwook/anonboard/internal/model"
)

const tokenIssuer = "anonboard"

// SessionTTL is how long an issued token stays valid. The auth cookie uses
// the same lifetime.
const SessionTTL = 24 * time.Hour

// TokenService signs and validates the HS256 session tokens carried in the
// auth cookie. A token holds the user id as subject plus the nickname and
// role code, so guards can authorize without a database lookup.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Claims is the token payload. RoleCode carries the "01"/"02" storage code;
// the enumerated model.Role exists only on either side of the wire.
type Claims struct {
	Nickname string `json:"nickname"`
	RoleCode string `json:"role"`
	jwt.RegisteredClaims
}

// Role maps the stored role code back to the enumerated type. Unknown codes
// degrade to member.
func (c *Claims) Role() model.Role {
	role, err := model.ParseRoleCode(c.RoleCode)
	if err != nil {
		return model.RoleMember
	}
	return role
}

// Generate creates and signs a session token for the given user.
func (s *TokenService) Generate(user *model.User) (string, error) {
	return s.GenerateWithDuration(user, SessionTTL)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests to
// mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(user *model.User, d time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		Nickname: user.Nickname,
		RoleCode: user.Role.Code(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns its claims.
// The signing method is pinned to HS256 and the issuer to this app.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return c, nil
}
