// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"gatehouse/internal/delivery/http/middleware"
	"gatehouse/internal/delivery/http/router/handler"
	"gatehouse/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	PrivateHandler *handler.PrivateHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	privateHandler *handler.PrivateHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		privateHandler: params.PrivateHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
	}

	// Private routes require a valid access token
	privateGroup := e.Group("/private")
	privateGroup.Use(r.authMiddleware.Authenticate)
	{
		privateGroup.GET("/user", r.privateHandler.UserArea)

		// The admin area additionally requires the admin role
		adminGroup := privateGroup.Group("/admin")
		adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
		adminGroup.GET("", r.privateHandler.AdminArea)
	}
}
