package handler

import (
	"net/http"
	"net/url"

	"portal/internal/middleware"
	"portal/internal/token"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /payment のHTTP。全ルート要認証。
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, tokens *token.Service) {
	g := e.Group("/api/v1/payment")
	g.Use(middleware.AuthJWT(tokens))

	g.POST("/create", h.create)
	g.GET("/session", h.session)
	g.POST("/verify", h.verify)
	g.DELETE("/delete/:code", h.delete)
}

// POST /payment/create
func (h *PaymentHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateSession(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: out})
}

// GET /payment/session
// アクティブなセッションがなければdata: nullで200を返す。
func (h *PaymentHandler) session(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetActiveSession(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	if out == nil {
		return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "no active payment session"})
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: out})
}

type verifyRequest struct {
	TransactionCode string `json:"transactionCode"`
}

// POST /payment/verify
// 銀行明細と突合する。未一致は200のsuccess:false（クライアントはポーリングして再試行する）。
func (h *PaymentHandler) verify(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Reconcile(c.Request().Context(), userID, req.TransactionCode)
	if err != nil {
		return writeError(c, err)
	}

	if !out.Matched {
		return c.JSON(http.StatusOK, echo.Map{
			"success": false,
			"error":   "payment not found in bank records",
			"debug": echo.Map{
				"searchCode":     out.SearchCode,
				"expectedAmount": out.ExpectedAmount,
				"statementCount": out.StatementCount,
			},
		})
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "payment verified successfully",
		Data:    out,
	})
}

// DELETE /payment/delete/:code
// 既に消えていても200（冪等）。
func (h *PaymentHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	code, err := url.PathUnescape(c.Param("code"))
	if err != nil || code == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid transaction code"})
	}

	if err := h.uc.DeleteSession(c.Request().Context(), userID, code); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "transaction deleted"})
}
