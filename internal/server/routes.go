package server

import (
	"net/http"

	"portal/internal/handler"
	"portal/internal/token"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	tokens *token.Service,
	authH *handler.AuthHandler,
	paymentH *handler.PaymentHandler,
	billingH *handler.BillingHandler,
	authLimit echo.MiddlewareFunc,
) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	authH.RegisterRoutes(e, tokens, authLimit)
	paymentH.RegisterRoutes(e, tokens)
	billingH.RegisterRoutes(e)
}
