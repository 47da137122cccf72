package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shandysiswandi/mediflow/internal/pkg/clock"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
)

var (
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")
	ErrSigningKeyTooShort   = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")
	ErrTokenExpired         = errors.New("JWT token has expired")
	ErrInvalidToken         = errors.New("invalid token")
)

// JWT issues and verifies customer access tokens.
type JWT interface {
	Generate(customerID int64, phone string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type authContextKey struct{}

// Config defines the inputs for NewHS512.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	Clock     clock.Clocker
	UUID      uid.StringID
}

// Claims carries the customer the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	CustomerID int64  `json:"customer_id,string"`
	Phone      string `json:"phone"`
}

// GetAuth returns the claims stored by SetAuth, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authContextKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authContextKey{}, clm)
}
