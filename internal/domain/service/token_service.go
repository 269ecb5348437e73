package service

import (
	"errors"

	"gatehouse/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned by Verify for every verification failure:
// structural corruption, signature mismatch or expiry. Callers must not be
// able to tell these cases apart.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims defines the payload embedded in an access token.
// The user ID travels in the registered subject claim.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim into the user's UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenService defines the interface for issuing and verifying access tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue creates a signed, time-limited token for the given user and role.
	Issue(userID uuid.UUID, role entity.Role) (string, error)

	// Verify checks the signature and expiration of a token string and
	// returns its claims. Any failure yields ErrInvalidToken.
	Verify(tokenString string) (*Claims, error)
}
