package middleware

import (
	"net/http"

	"portal/internal/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"  // int64
	CtxUsernameKey = "username" // string
)

// accesstoken（cookie）の検証ミドルウェア。
// 署名と期限だけを見る。token_versionの照合はrefresh時にusecaseがやる
// （ここでDBを引かないのは低レイテンシ優先の意図的なトレードオフ）。
func AuthJWT(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//cookieからaccesstokenを取得
			cookie, err := c.Cookie("access_token")
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTをパースして検証する
			claims, err := tokens.VerifyAccessToken(cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if claims.UserID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxUsernameKey, claims.Username)

			return next(c)
		}
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Success: false, Error: msg}
}
