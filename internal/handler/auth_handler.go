package handler

import (
	"net/http"
	"time"

	"portal/internal/config"
	"portal/internal/middleware"
	"portal/internal/token"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /auth のHTTP
type AuthHandler struct {
	uc           *usecase.AuthUsecase
	tokens       *token.Service
	accessTTL    time.Duration
	refreshTTL   time.Duration
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, tokens *token.Service, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		tokens:       tokens,
		accessTTL:    cfg.AccessTokenTTL,
		refreshTTL:   cfg.RefreshTokenTTL,
		cookieSecure: cfg.IsProduction(),
	}
}

// /auth/* を登録。login/registerにはレートリミットを付ける。
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, tokens *token.Service, limit echo.MiddlewareFunc) {
	g := e.Group("/api/v1/auth")

	g.POST("/login", h.login, limit)
	g.POST("/register", h.register, limit)
	g.POST("/refresh", h.refresh)

	authed := g.Group("", middleware.AuthJWT(tokens))
	authed.POST("/logout", h.logout)
	authed.POST("/change-password", h.changePassword)
	authed.GET("/me", h.me)
}

// POST /auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), req, c.RealIP())
	if err != nil {
		return writeError(c, err)
	}

	//tokenはHTTP-only cookieで返す
	setAuthCookie(c, "access_token", out.AccessToken, h.accessTTL, h.cookieSecure)
	setAuthCookie(c, "refresh_token", out.RefreshToken, h.refreshTTL, h.cookieSecure)

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: out.User})
}

// POST /auth/logout
// usecaseが失敗してもcookieは必ず消す。
func (h *AuthHandler) logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	err := h.uc.Logout(c.Request().Context(), userID)

	clearAuthCookie(c, "access_token", h.cookieSecure)
	clearAuthCookie(c, "refresh_token", h.cookieSecure)

	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "logout success"})
}

// POST /auth/refresh
// refresh cookieを検証して新しいaccess cookieだけを発行する。
func (h *AuthHandler) refresh(c echo.Context) error {
	cookie, err := c.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
	}

	access, err := h.uc.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return writeError(c, err)
	}

	setAuthCookie(c, "access_token", access, h.accessTTL, h.cookieSecure)

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "token refreshed"})
}

// POST /auth/change-password
func (h *AuthHandler) changePassword(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.ChangePassword(c.Request().Context(), userID, req); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "password changed"})
}

// POST /auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	user, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: user})
}

// GET /auth/me
func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	user, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: user})
}
