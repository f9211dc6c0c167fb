package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// RequireOperator はLoadOperatorの後に置く。
// 未ログインならonDeniedに任せる（nilなら401のJSON）。
func RequireOperator(onDenied echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Operator(c) == "" {
				if onDenied != nil {
					return onDenied(c)
				}
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			return next(c)
		}
	}
}
