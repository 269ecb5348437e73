package middleware

import (
	"log/slog"

	ctxutil "gatehouse/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware tags every request with an id and a request-scoped
// logger so downstream log lines can be correlated.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

// NewRequestIDMiddleware creates a new request ID middleware
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{logger: logger}
}

// Handle propagates the caller's X-Request-Id or generates one, echoes it on
// the response, and stores it with a scoped logger in the request context.
func (m *RequestIDMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(ctxutil.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctxutil.SetRequestID(c, requestID)
		c.Response().Header().Set(ctxutil.HeaderXRequestID, requestID)

		ctx := ctxutil.WithRequestID(c.Request().Context(), requestID)
		ctx = ctxutil.WithLogger(ctx, m.logger.With(slog.String("request_id", requestID)))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
