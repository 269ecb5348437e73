package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	ctxutil "gatehouse/internal/delivery/context"
	"gatehouse/internal/domain/entity"
	"gatehouse/internal/domain/service"
	mockSvc "gatehouse/internal/mocks/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e.HTTPErrorHandler = NewErrorMiddleware(logger).HandleHTTPError

	return e
}

func claimsFor(userID uuid.UUID, role entity.Role) *service.Claims {
	return &service.Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
		},
	}
}

func TestAuthMiddleware_Authenticate_RejectionsLookIdentical(t *testing.T) {
	tokenSvc := mockSvc.NewMockTokenService(t)
	tokenSvc.EXPECT().Verify("forged-token").Return(nil, service.ErrInvalidToken).Maybe()

	e := newTestEcho()
	am := NewAuthMiddleware(tokenSvc)
	e.GET("/private/user", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, am.Authenticate)

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a bearer token", header: "Basic Zm9vOmJhcg=="},
		{name: "bearer with empty token", header: "Bearer "},
		{name: "forged token", header: "Bearer forged-token"},
	}

	var bodies []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private/user", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "UNAUTHENTICATED")
			bodies = append(bodies, rec.Body.String())
		})
	}

	// Every rejection carries the exact same body, so the response gives no
	// hint about which check failed.
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
}

func TestAuthMiddleware_Authenticate_AttachesPrincipal(t *testing.T) {
	userID := uuid.New()
	tokenSvc := mockSvc.NewMockTokenService(t)
	tokenSvc.EXPECT().Verify("good-token").Return(claimsFor(userID, entity.RoleUser), nil)

	e := newTestEcho()
	am := NewAuthMiddleware(tokenSvc)

	var seen entity.Principal
	e.GET("/private/user", func(c echo.Context) error {
		principal, ok := ctxutil.PrincipalFrom(c)
		require.True(t, ok)
		seen = principal

		return c.NoContent(http.StatusOK)
	}, am.Authenticate)

	req := httptest.NewRequest(http.MethodGet, "/private/user", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, seen.UserID)
	assert.Equal(t, entity.RoleUser, seen.Role)
}

func TestAuthMiddleware_Authenticate_BadSubjectInClaims(t *testing.T) {
	tokenSvc := mockSvc.NewMockTokenService(t)
	tokenSvc.EXPECT().Verify("odd-token").Return(&service.Claims{
		Role: entity.RoleUser.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "not-a-uuid",
		},
	}, nil)

	e := newTestEcho()
	am := NewAuthMiddleware(tokenSvc)
	e.GET("/private/user", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, am.Authenticate)

	req := httptest.NewRequest(http.MethodGet, "/private/user", nil)
	req.Header.Set("Authorization", "Bearer odd-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHENTICATED")
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()

	tokenSvc := mockSvc.NewMockTokenService(t)
	tokenSvc.EXPECT().Verify("admin-token").Return(claimsFor(adminID, entity.RoleAdmin), nil).Maybe()
	tokenSvc.EXPECT().Verify("user-token").Return(claimsFor(userID, entity.RoleUser), nil).Maybe()

	e := newTestEcho()
	am := NewAuthMiddleware(tokenSvc)
	e.GET("/private/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, am.Authenticate, am.RequireRole(entity.RoleAdmin))

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private/admin", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("authenticated user without the role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private/admin", nil)
		req.Header.Set("Authorization", "Bearer user-token")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "FORBIDDEN")
	})

	t.Run("no token at all is unauthenticated, not forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private/admin", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
