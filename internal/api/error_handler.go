package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MattStellino/TrackIt/internal/core/domain"
)

// errorEnvelope is the canonical error body for all API errors:
// {"success": false, "message": "...", "errors": [...]?}
type errorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the consistent {"success": false, ...} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorEnvelope) {
	// Validation failures carry field messages through to the client.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorEnvelope{
			Message: "validation failed",
			Errors:  ve.Messages,
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorEnvelope{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorEnvelope{Message: "invalid credentials"}
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusUnauthorized, errorEnvelope{Message: "account is disabled"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorEnvelope{Message: "invalid or expired token"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorEnvelope{Message: "user not found"}
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound, errorEnvelope{Message: "transaction not found"}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, errorEnvelope{Message: "email already registered"}
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, errorEnvelope{Message: "too many requests, please try again later"}
	}

	// Unexpected error: log the real cause with request context, return a
	// generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorEnvelope{Message: "internal server error"}
}
