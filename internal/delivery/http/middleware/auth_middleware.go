package middleware

import (
	"strings"

	ctxutil "gatehouse/internal/delivery/context"
	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer token and attaches the verified identity
// to the request context. Every rejection returns the same unauthenticated
// error, so a caller cannot tell a missing header from a forged token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainerrors.ErrUnauthenticated
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.ErrUnauthenticated
		}

		claims, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			return domainerrors.ErrUnauthenticated
		}

		userID, err := claims.UserID()
		if err != nil {
			return domainerrors.ErrUnauthenticated
		}

		principal := entity.Principal{
			UserID: userID,
			Role:   entity.Role(claims.Role),
		}

		req := c.Request()
		c.SetRequest(req.WithContext(ctxutil.WithPrincipal(req.Context(), principal)))

		return next(c)
	}
}

// RequireRole is a middleware factory that lets through only principals whose
// role is in the allowed set. It must be used AFTER Authenticate.
func (m *AuthMiddleware) RequireRole(allowed ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := ctxutil.PrincipalFrom(c)
			if !ok {
				return domainerrors.ErrUnauthenticated
			}

			if !entity.Roles(allowed).Contains(principal.Role) {
				return domainerrors.ErrForbidden
			}

			return next(c)
		}
	}
}
