package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/storefront/internal/app"
	"github.com/odyssey-erp/storefront/internal/auth"
	"github.com/odyssey-erp/storefront/internal/products"
	"github.com/odyssey-erp/storefront/internal/token"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func newRouter(t *testing.T, db app.Pinger) http.Handler {
	t.Helper()
	t.Setenv("STOREFRONT_TEST_MODE", "1")
	app.RefreshTestMode()

	tokens := token.NewService("test-secret-test-secret", time.Hour)
	gate := auth.NewMiddleware(tokens)
	authHandler := auth.NewHandler(nil, auth.NewService(auth.NewRepository(nil), tokens, 4), gate)
	productsHandler := products.NewHandler(nil, products.NewService(products.NewRepository(nil)))

	return app.NewRouter(app.RouterParams{
		AuthHandler:     authHandler,
		AuthMiddleware:  gate,
		ProductsHandler: productsHandler,
		DB:              db,
	})
}

func TestHealthOK(t *testing.T) {
	router := newRouter(t, stubPinger{})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestHealthDBError(t *testing.T) {
	router := newRouter(t, stubPinger{err: errors.New("connection refused")})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusInternalServerError, res.Code)
	require.JSONEq(t, `{"status":"db_error"}`, res.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	router := newRouter(t, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "*", res.Header().Get("Access-Control-Allow-Origin"))

	// Preflight requests are answered without reaching the handlers.
	pre := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	pre.Header.Set("Origin", "https://shop.example.com")
	pre.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, pre)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "*", res.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, res.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestUnmatchedRoute(t *testing.T) {
	router := newRouter(t, stubPinger{})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	require.Equal(t, http.StatusNotFound, res.Code)
	require.JSONEq(t, `{"error":"Not found"}`, res.Body.String())
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router := newRouter(t, stubPinger{})

	for _, path := range []string{"/api/products", "/api/auth/me"} {
		res := httptest.NewRecorder()
		router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, res.Code, "path %s", path)
	}
}
