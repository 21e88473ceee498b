// Package httpauth guards the optional HTTP front end with a single
// pre-shared bearer token, issued as a short-lived JWT.
//
// Adapted from internal/auth/service.go's Claims/generateTokens/
// ValidateToken shape and internal/auth/middleware.go's RequireAuth gin
// middleware, trimmed of the multi-tenant user/company/role model and
// the GORM-backed session store: this front end has one operator
// identity, not a user directory.
package httpauth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/shuttlefleet/routeopt/pkg/errors"
)

// Claims is the JWT payload issued by Authenticate.
type Claims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies bearer tokens against a single bcrypt-hashed
// pre-shared secret (there is no user directory: this API has exactly
// one operator identity).
type Issuer struct {
	jwtSecret  []byte
	secretHash []byte
	ttl        time.Duration
}

// NewIssuer hashes plaintextSecret with bcrypt and returns an Issuer
// that signs tokens with jwtSigningKey and accepts them for ttl.
func NewIssuer(jwtSigningKey, plaintextSecret string, ttl time.Duration) (*Issuer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash operator secret: %w", err)
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Issuer{jwtSecret: []byte(jwtSigningKey), secretHash: hash, ttl: ttl}, nil
}

// Authenticate checks candidateSecret against the stored hash and, if
// it matches, issues a signed token.
func (iss *Issuer) Authenticate(candidateSecret string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(iss.secretHash, []byte(candidateSecret)); err != nil {
		return "", apperrors.NewUnauthorizedError("invalid operator secret")
	}

	now := time.Now()
	claims := &Claims{
		Subject: "operator",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(iss.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(iss.jwtSecret)
}

// Validate parses and verifies tokenString, returning its claims.
func (iss *Issuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return iss.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.NewUnauthorizedError("invalid token claims")
	}
	return claims, nil
}

// RequireBearer is gin middleware rejecting requests without a valid
// "Authorization: Bearer <token>" header.
func RequireBearer(iss *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		claims, err := iss.Validate(strings.TrimPrefix(header, prefix))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}
