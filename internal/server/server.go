package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"inventory/internal/handler"
	"inventory/internal/middleware"
	"inventory/internal/web"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// CSRFトークンの欠落・不一致
var errCSRF = errors.New("csrf token missing or invalid")

const sessionExpiredMessage = "Your session has expired. Please reload the page and try again."

func csrfError(err error, c echo.Context) error {
	return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token").SetInternal(errors.Join(errCSRF, err))
}

// Options はルーティング以外でサーバーが必要とする部品
type Options struct {
	Log          *zap.Logger
	Parser       middleware.TokenParser
	Counter      middleware.Counter // nilならレート制限なし
	LoginLimit   middleware.RateLimitConfig
	CookieSecure bool
	Ping         func(ctx context.Context) error // /health 用（nil可）
}

// New はミドルウェアとルートを組んだechoを返す
func New(h Handlers, opt Options) (*echo.Echo, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = errorHandler(opt.Log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(opt.Log))
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:_csrf,header:X-CSRF-Token",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   opt.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
		//APIはCookieではなくBearerで送るので対象外
		Skipper: func(c echo.Context) bool {
			return isAPI(c.Request().URL.Path)
		},
		ErrorHandler: csrfError,
	}))
	e.Use(middleware.LoadOperator(opt.Parser))

	RegisterRoutes(e, h, opt)
	return e, nil
}

func isAPI(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// errorHandler は未処理のエラーをHTMLのエラーページ（/apiはJSON）にする
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "Something went wrong. Please try again."
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch status {
			case http.StatusNotFound:
				msg = "Page not found."
			case http.StatusBadRequest:
				msg = "Bad request."
			case http.StatusForbidden:
				msg = "You are not allowed to do that."
			case http.StatusMethodNotAllowed:
				msg = "Method not allowed."
			case http.StatusRequestEntityTooLarge:
				msg = "Request too large."
			}
		}
		if errors.Is(err, errCSRF) {
			msg = sessionExpiredMessage
		}
		if status >= http.StatusInternalServerError {
			log.Error("unhandled error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}

		var werr error
		if isAPI(c.Request().URL.Path) {
			werr = c.JSON(status, handler.ErrorResponse{Error: strings.ToLower(http.StatusText(status))})
		} else {
			werr = handler.RenderErrorPage(c, status, msg)
		}
		if werr != nil {
			log.Error("write error response", zap.Error(werr))
		}
	}
}

// Start はctxが終わるまでサービスし、終わったらgracefulに止める
func Start(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("http server stopped")
	return nil
}
