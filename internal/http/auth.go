package http

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"temple/internal/core"
)

const identityKey = "identity"

// Claims is the token payload: the username as subject plus the role.
type Claims struct {
	Role core.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and checks HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// RandomSecret generates a signing key for installations that did not
// configure one. Tokens then last until the process restarts.
func RandomSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Issue signs a token for id, valid for the issuer's TTL.
func (t *TokenIssuer) Issue(id core.Identity) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse validates a token and returns the identity it carries.
func (t *TokenIssuer) Parse(raw string) (core.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return core.Identity{}, fmt.Errorf("%w: %v", core.ErrAuth, err)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return core.Identity{}, fmt.Errorf("%w: incomplete token claims", core.ErrAuth)
	}
	return core.Identity{Username: claims.Subject, Role: claims.Role}, nil
}

// requireAuth rejects requests without a valid bearer token and stores the
// caller's identity on the context.
func requireAuth(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			raw, ok = strings.CutPrefix(header, "bearer ")
		}
		if !ok || strings.TrimSpace(raw) == "" {
			Failure(http.StatusUnauthorized, "authentication required").Abort(c)
			return
		}

		id, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			_ = c.Error(err)
			Failure(http.StatusUnauthorized, "invalid or expired token").Abort(c)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// requireRole lets only callers with role through. It must run after
// requireAuth.
func requireRole(role core.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identityFrom(c)
		if err != nil {
			Failure(http.StatusUnauthorized, "authentication required").Abort(c)
			return
		}
		if id.Role != role {
			Failure(http.StatusForbidden, fmt.Sprintf("%s role required", role)).Abort(c)
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) (core.Identity, error) {
	v, ok := c.Get(identityKey)
	if !ok {
		return core.Identity{}, errors.New("no identity on context")
	}
	id, ok := v.(core.Identity)
	if !ok {
		return core.Identity{}, errors.New("identity has unexpected type")
	}
	return id, nil
}
