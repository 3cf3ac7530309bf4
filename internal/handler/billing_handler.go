package handler

import (
	"net/http"

	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /billing の公開API
type BillingHandler struct {
	uc *usecase.BillingUsecase
}

// DI
func NewBillingHandler(uc *usecase.BillingUsecase) *BillingHandler {
	return &BillingHandler{uc: uc}
}

func (h *BillingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/billing")
	g.GET("/packages", h.listPackages)
}

// GET /billing/packages
func (h *BillingHandler) listPackages(c echo.Context) error {
	pkgs, err := h.uc.ListPackages(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    pkgs,
		"total":   len(pkgs),
	})
}
