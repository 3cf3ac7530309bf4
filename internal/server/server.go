package server

import (
	"net/http"

	"portal/internal/config"
	"portal/internal/handler"
	"portal/internal/token"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はechoを組み立てて全ルートを登録する。
func New(
	cfg config.Config,
	tokens *token.Service,
	authH *handler.AuthHandler,
	paymentH *handler.PaymentHandler,
	billingH *handler.BillingHandler,
	authLimit echo.MiddlewareFunc,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	RegisterRoutes(e, tokens, authH, paymentH, billingH, authLimit)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
