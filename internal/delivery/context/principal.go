package context

import (
	"context"

	"gatehouse/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyPrincipal is the key for storing the authenticated principal in context.
const KeyPrincipal ContextKey = "principal"

// WithPrincipal returns a new context carrying the verified identity.
// The principal lives only for the duration of the request.
func WithPrincipal(ctx context.Context, principal entity.Principal) context.Context {
	return context.WithValue(ctx, KeyPrincipal, principal)
}

// GetPrincipal extracts the principal from a standard context.Context.
func GetPrincipal(ctx context.Context) (entity.Principal, bool) {
	principal, ok := ctx.Value(KeyPrincipal).(entity.Principal)

	return principal, ok
}

// PrincipalFrom extracts the principal from the request context of an
// echo.Context. It only succeeds after the authentication middleware ran.
func PrincipalFrom(c echo.Context) (entity.Principal, bool) {
	return GetPrincipal(c.Request().Context())
}
