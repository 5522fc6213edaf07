package products

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/storefront/internal/auth"
	"github.com/odyssey-erp/storefront/internal/shared"
	"github.com/odyssey-erp/storefront/internal/token"
)

func newProductsRouter(t *testing.T) (http.Handler, *token.Service) {
	t.Helper()
	tokens := token.NewService("test-secret-test-secret", time.Hour)
	handler := NewHandler(nil, NewService(newMemoryRepo()))

	r := chi.NewRouter()
	r.Route("/api/products", func(r chi.Router) {
		r.Use(auth.NewMiddleware(tokens).RequireAuth)
		handler.MountRoutes(r)
	})
	return r, tokens
}

func bearerFor(t *testing.T, tokens *token.Service, ident shared.Identity) string {
	t.Helper()
	signed, err := tokens.Issue(token.Claims{UserID: ident.UserID, Email: ident.Email, Role: ident.Role})
	require.NoError(t, err)
	return signed
}

func request(t *testing.T, router http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func createVia(t *testing.T, router http.Handler, bearer, payload string) Product {
	t.Helper()
	res := request(t, router, http.MethodPost, "/api/products", payload, bearer)
	require.Equal(t, http.StatusCreated, res.Code)
	var body struct {
		Item Product `json:"item"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body.Item
}

func TestProductsRequireAuth(t *testing.T) {
	router, _ := newProductsRouter(t)

	res := request(t, router, http.MethodGet, "/api/products", "", "")
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestCreateAndGetProduct(t *testing.T) {
	router, tokens := newProductsRouter(t)
	bearer := bearerFor(t, tokens, ownerA)

	item := createVia(t, router, bearer,
		`{"name":"Widget","sku":"W-1","description":"A widget","price":9.5,"stock":4}`)
	require.Equal(t, ownerA.UserID, item.OwnerID)
	require.True(t, item.IsActive)

	res := request(t, router, http.MethodGet, "/api/products/1", "", bearer)
	require.Equal(t, http.StatusOK, res.Code)

	again := request(t, router, http.MethodGet, "/api/products/1", "", bearer)
	require.Equal(t, res.Body.String(), again.Body.String())
}

func TestCreateValidation(t *testing.T) {
	router, tokens := newProductsRouter(t)
	bearer := bearerFor(t, tokens, ownerA)

	res := request(t, router, http.MethodPost, "/api/products",
		`{"name":"","sku":"","price":-1}`, bearer)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), `"error"`)
}

func TestCreateRequiresPrice(t *testing.T) {
	router, tokens := newProductsRouter(t)
	bearer := bearerFor(t, tokens, ownerA)

	res := request(t, router, http.MethodPost, "/api/products",
		`{"name":"Widget","sku":"W-1"}`, bearer)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), `"price"`)

	// An explicit zero price is valid, only an absent one is not.
	res = request(t, router, http.MethodPost, "/api/products",
		`{"name":"Widget","sku":"W-1","price":0}`, bearer)
	require.Equal(t, http.StatusCreated, res.Code)
}

func TestCreateConflict(t *testing.T) {
	router, tokens := newProductsRouter(t)
	bearerA := bearerFor(t, tokens, ownerA)
	bearerB := bearerFor(t, tokens, ownerB)

	createVia(t, router, bearerA, `{"name":"Widget","sku":"X","price":1}`)

	res := request(t, router, http.MethodPost, "/api/products",
		`{"name":"Widget again","sku":"X","price":1}`, bearerA)
	require.Equal(t, http.StatusConflict, res.Code)
	require.JSONEq(t, `{"error":"SKU already exists"}`, res.Body.String())

	res = request(t, router, http.MethodPost, "/api/products",
		`{"name":"Other owner","sku":"X","price":1}`, bearerB)
	require.Equal(t, http.StatusCreated, res.Code)
}

func TestGetForbiddenVersusNotFound(t *testing.T) {
	router, tokens := newProductsRouter(t)
	bearerA := bearerFor(t, tokens, ownerA)
	bearerB := bearerFor(t, tokens, ownerB)

	createVia(t, router, bearerA, `{"name":"Widget","sku":"X","price":1}`)

	res := request(t, router, http.MethodGet, "/api/products/999", "", bearerB)
	require.Equal(t, http.StatusNotFound, res.Code)

	res = request(t, router, http.MethodGet, "/api/products/1", "", bearerB)
	require.Equal(t, http.StatusForbidden, res.Code)
	require.JSONEq(t, `{"error":"Forbidden"}`, res.Body.String())
}

func TestUpdateMergeViaHTTP(t *testing.T) {
	router, tokens := newProductsRouter(t)
	bearer := bearerFor(t, tokens, ownerA)

	item := createVia(t, router, bearer,
		`{"name":"Widget","sku":"W-1","description":"desc","price":5,"stock":2,"isActive":false}`)

	res := request(t, router, http.MethodPut, "/api/products/1", `{"price":10}`, bearer)
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Item Product `json:"item"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, 10.0, body.Item.Price)
	require.Equal(t, item.Name, body.Item.Name)
	require.Equal(t, item.SKU, body.Item.SKU)
	require.Equal(t, item.Description, body.Item.Description)
	require.Equal(t, item.Stock, body.Item.Stock)
	require.Equal(t, item.IsActive, body.Item.IsActive)
}

func TestUpdateEmptyBody(t *testing.T) {
	router, tokens := newProductsRouter(t)
	bearer := bearerFor(t, tokens, ownerA)

	item := createVia(t, router, bearer, `{"name":"Widget","sku":"W-1","price":5,"stock":2}`)

	// An empty body is an empty partial update: nothing changes.
	res := request(t, router, http.MethodPut, "/api/products/1", "", bearer)
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Item Product `json:"item"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, item.Name, body.Item.Name)
	require.Equal(t, item.SKU, body.Item.SKU)
	require.Equal(t, item.Price, body.Item.Price)
	require.Equal(t, item.Stock, body.Item.Stock)
	require.Equal(t, item.IsActive, body.Item.IsActive)
}

func TestDeleteThenGet(t *testing.T) {
	router, tokens := newProductsRouter(t)
	bearer := bearerFor(t, tokens, ownerA)

	createVia(t, router, bearer, `{"name":"Widget","sku":"X","price":1}`)

	res := request(t, router, http.MethodDelete, "/api/products/1", "", bearer)
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"ok":true}`, res.Body.String())

	res = request(t, router, http.MethodGet, "/api/products/1", "", bearer)
	require.Equal(t, http.StatusNotFound, res.Code)
}

func TestListScopingViaHTTP(t *testing.T) {
	router, tokens := newProductsRouter(t)
	bearerA := bearerFor(t, tokens, ownerA)
	bearerB := bearerFor(t, tokens, ownerB)
	bearerAdmin := bearerFor(t, tokens, admin)

	createVia(t, router, bearerA, `{"name":"A1","sku":"A-1","price":1}`)
	createVia(t, router, bearerB, `{"name":"B1","sku":"B-1","price":1}`)

	var body struct {
		Items []Product `json:"items"`
	}

	res := request(t, router, http.MethodGet, "/api/products", "", bearerA)
	require.Equal(t, http.StatusOK, res.Code)
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, "A-1", body.Items[0].SKU)

	res = request(t, router, http.MethodGet, "/api/products", "", bearerAdmin)
	require.Equal(t, http.StatusOK, res.Code)
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
}
