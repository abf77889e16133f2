package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MattStellino/TrackIt/internal/api/metrics"
	"github.com/MattStellino/TrackIt/internal/core/domain"
	"github.com/MattStellino/TrackIt/internal/ratelimit"
)

// RateLimit enforces a fixed-window quota of max requests per window per
// client IP for a single call class. Classes are counted independently.
// When the counter store fails the request is let through: limiting is
// advisory and must not take the API down with it.
func RateLimit(store ratelimit.CounterStore, class string, max int, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := class + ":" + c.RealIP()

			count, err := store.Incr(c.Request().Context(), key, window)
			if err != nil {
				log.Warn().Err(err).Str("class", class).Msg("rate limit check failed, allowing request")
				return next(c)
			}
			if count > int64(max) {
				metrics.RateLimitedTotal.WithLabelValues(class).Inc()
				return domain.ErrRateLimited
			}

			return next(c)
		}
	}
}
