package middleware

import (
	"net/http"

	"portal/internal/infra/ratelimit"

	"github.com/labstack/echo/v4"
)

// IPごとの固定ウィンドウレートリミット。auth系のルートに付ける。
// ストアが落ちているときは落とさず通す（認証自体は別で守られている）。
func RateLimit(limiter ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				c.Logger().Errorf("rate limiter error: %v", err)
				return next(c)
			}
			if !ok {
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}
			return next(c)
		}
	}
}
