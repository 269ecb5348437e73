package handler

import (
	"log/slog"
	"net/http"

	ctxutil "gatehouse/internal/delivery/context"
	"gatehouse/internal/delivery/http/response"
	domainerrors "gatehouse/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PrivateHandlerParams holds dependencies for PrivateHandler, injected by Fx.
type PrivateHandlerParams struct {
	fx.In

	Logger *slog.Logger
}

// PrivateHandler serves the role-gated areas. The interesting work happens in
// the auth middleware; these handlers just report who got through.
type PrivateHandler struct {
	logger *slog.Logger
}

// NewPrivateHandler is the constructor for PrivateHandler.
func NewPrivateHandler(params PrivateHandlerParams) *PrivateHandler {
	return &PrivateHandler{logger: params.Logger}
}

// UserArea is reachable by any authenticated principal.
func (h *PrivateHandler) UserArea(c echo.Context) error {
	principal, ok := ctxutil.PrincipalFrom(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"user_id": principal.UserID.String(),
		"role":    principal.Role.String(),
	}, "Welcome to the user area")
}

// AdminArea is reachable only by principals with the admin role.
func (h *PrivateHandler) AdminArea(c echo.Context) error {
	principal, ok := ctxutil.PrincipalFrom(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"user_id": principal.UserID.String(),
		"role":    principal.Role.String(),
	}, "Welcome to the admin area")
}
