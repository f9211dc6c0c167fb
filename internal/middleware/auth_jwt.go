package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	CtxOperatorKey = "operator" // string（メール）

	// ブラウザはCookie、APIクライアントはAuthorizationヘッダで送る
	TokenCookieName = "inv_token"
)

// JWTを検証してsubjectを返す約束
type TokenParser interface {
	Parse(raw string) (string, error)
}

// LoadOperator はトークンがあれば検証してcontextにオペレーターを入れる。
// トークンが無い・不正でも止めない（止めるのはRequireOperator）。
func LoadOperator(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				if ck, err := c.Cookie(TokenCookieName); err == nil {
					raw = strings.TrimSpace(ck.Value)
				}
			}
			if raw == "" {
				return next(c)
			}

			operator, err := parser.Parse(raw)
			if err != nil || operator == "" {
				return next(c)
			}

			//contextへ保存
			c.Set(CtxOperatorKey, operator)
			return next(c)
		}
	}
}

// Authorization: Bearer xxx を抜く
func bearerToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return ""
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Operator はcontextのオペレーター（未ログインなら空）
func Operator(c echo.Context) string {
	s, _ := c.Get(CtxOperatorKey).(string)
	return s
}
