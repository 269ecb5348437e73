package entity

import "github.com/google/uuid"

// Principal is the verified identity derived from an access token.
// It lives for a single request and is never persisted.
type Principal struct {
	UserID uuid.UUID // The authenticated user's ID, taken from the token's subject claim.
	Role   Role      // The role claimed by the token, used for route-level authorization.
}
