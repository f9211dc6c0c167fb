package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mwErrorResponse struct {
	Error string `json:"error"`
}

// "good" だけ通すパーサ
type stubParser struct{}

func (stubParser) Parse(raw string) (string, error) {
	if raw == "good" {
		return "ops@example.com", nil
	}
	return "", errors.New("invalid token")
}

func newGuardedEcho() *echo.Echo {
	e := echo.New()
	e.Use(LoadOperator(stubParser{}))
	e.POST("/guarded", func(c echo.Context) error {
		return c.String(http.StatusOK, Operator(c))
	}, RequireOperator(nil))
	e.GET("/public", func(c echo.Context) error {
		return c.String(http.StatusOK, "op="+Operator(c))
	})
	return e
}

func TestRequireOperator_NoToken(t *testing.T) {
	e := newGuardedEcho()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body mwErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unauthorized", body.Error)
}

func TestRequireOperator_BearerHeader(t *testing.T) {
	e := newGuardedEcho()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@example.com", rec.Body.String())
}

func TestRequireOperator_Cookie(t *testing.T) {
	e := newGuardedEcho()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "good"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireOperator_BadToken(t *testing.T) {
	e := newGuardedEcho()
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOperator_CustomDenied(t *testing.T) {
	e := echo.New()
	e.Use(LoadOperator(stubParser{}))
	e.POST("/form", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		RequireOperator(func(c echo.Context) error {
			return c.Redirect(http.StatusSeeOther, "/login")
		}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/form", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestLoadOperator_PublicRouteStillServed(t *testing.T) {
	e := newGuardedEcho()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "op=", rec.Body.String())
}

// Redisの代わり
type fakeCounter struct {
	counts    map[string]int64
	expires   map[string]time.Duration
	err       error
	expireErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if f.expireErr != nil {
		return redis.NewBoolResult(false, f.expireErr)
	}
	if _, ok := f.expires[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func newLimitedEcho(t *testing.T, counter Counter) *echo.Echo {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		RateLimit(counter, RateLimitConfig{Prefix: "login:", Limit: 2, Period: time.Minute}, zaptest.NewLogger(t)))
	return e
}

func postLogin(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	counter := newFakeCounter()
	e := newLimitedEcho(t, counter)

	assert.Equal(t, http.StatusNoContent, postLogin(e).Code)
	assert.Equal(t, http.StatusNoContent, postLogin(e).Code)

	rec := postLogin(e)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, time.Minute, counter.expires["login:10.0.0.1"])
}

// 初回の期限付けに失敗しても、次の呼び出しで期限が付く
func TestRateLimit_ExpireRetriedAfterFailure(t *testing.T) {
	counter := newFakeCounter()
	counter.expireErr = errors.New("i/o timeout")
	e := newLimitedEcho(t, counter)

	assert.Equal(t, http.StatusNoContent, postLogin(e).Code)
	_, ok := counter.expires["login:10.0.0.1"]
	assert.False(t, ok)

	counter.expireErr = nil
	assert.Equal(t, http.StatusNoContent, postLogin(e).Code)
	assert.Equal(t, time.Minute, counter.expires["login:10.0.0.1"])

	//一度付いた期限は延びない
	counter.expires["login:10.0.0.1"] = 30 * time.Second
	postLogin(e)
	assert.Equal(t, 30*time.Second, counter.expires["login:10.0.0.1"])
}

func TestRateLimit_PassThroughWhenRedisDown(t *testing.T) {
	counter := newFakeCounter()
	counter.err = errors.New("dial tcp: connection refused")
	e := newLimitedEcho(t, counter)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, postLogin(e).Code)
	}
}

func TestRateLimit_NilCounter(t *testing.T) {
	e := newLimitedEcho(t, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, postLogin(e).Code)
	}
}
