package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/blob"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) (http.Handler, *Handler) {
	t.Helper()
	products := make([]catalog.Product, 0, 12)
	for i := int64(1); i <= 12; i++ {
		products = append(products, catalog.Product{ID: i, Title: "Item", Category: "misc", Price: 10, Stock: 20})
	}
	products[0] = catalog.Product{ID: 1, Title: "Mascara", Brand: "Essence", Category: "beauty", Price: 100, DiscountPercentage: 10, Stock: 50}
	products[2].Stock = 3
	products[11].Stock = 0

	authSvc := auth.NewService(blob.NewMemory())
	authSvc.Cost = bcrypt.MinCost
	c := cart.New()
	h := &Handler{
		Catalog:  catalog.NewPaginator(catalog.New(products), 10),
		Cart:     c,
		Auth:     authSvc,
		Checkout: checkout.NewService(c, nil, "storefront-test"),
	}
	r := NewRouter()
	h.Register(r)
	return r, h
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductsPaginateAndSearch(t *testing.T) {
	r, _ := newTestRouter(t)

	page := decode[catalog.Page](t, do(t, r, http.MethodGet, "/products", nil))
	assert.Len(t, page.Products, 10)
	assert.True(t, page.HasMore)
	assert.Equal(t, 12, page.Total)

	rec := do(t, r, http.MethodPost, "/products/more", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	more := decode[map[string]any](t, rec)
	assert.Equal(t, true, more["advanced"])
	assert.Equal(t, false, more["has_more"])

	found := decode[catalog.Page](t, do(t, r, http.MethodGet, "/products?q=ESSENCE", nil))
	require.Len(t, found.Products, 1)
	assert.Equal(t, int64(1), found.Products[0].ID)
}

func TestGetProduct(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.InDelta(t, 90.0, body["discounted_price"], 1e-9)
	assert.Equal(t, "90.00", body["price_display"])

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/products/999", nil).Code)
}

func TestCartFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/cart/items", AddItemReq{ProductID: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, r, http.MethodPost, "/cart/items", AddItemReq{ProductID: 1})
	v := decode[cartView](t, rec)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 2, v.Count)
	assert.Equal(t, "2", v.Badge)
	assert.Equal(t, "180.00", v.TotalDisplay)

	v = decode[cartView](t, do(t, r, http.MethodPost, "/cart/items/1/decrease", nil))
	assert.Equal(t, 1, v.Count)
	v = decode[cartView](t, do(t, r, http.MethodPost, "/cart/items/1/decrease", nil))
	assert.Empty(t, v.Lines)

	do(t, r, http.MethodPost, "/cart/items", AddItemReq{ProductID: 2, Quantity: 11})
	v = decode[cartView](t, do(t, r, http.MethodGet, "/cart", nil))
	assert.Equal(t, "9+", v.Badge)

	v = decode[cartView](t, do(t, r, http.MethodDelete, "/cart", nil))
	assert.Zero(t, v.Count)
}

func TestAddItemRejectsBadInput(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/cart/items", AddItemReq{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "product_id")

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/cart/items", AddItemReq{ProductID: 404}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/cart/items/abc/increase", nil).Code)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterLoginLogout(t *testing.T) {
	r, _ := newTestRouter(t)

	confirm := "secret1"
	rec := do(t, r, http.MethodPost, "/auth/register", RegisterReq{Name: "Ana", Email: "Ana@Example.com", Password: "secret1", ConfirmPassword: &confirm})
	require.Equal(t, http.StatusCreated, rec.Code)
	u := decode[auth.SafeUser](t, rec)
	assert.Equal(t, "ana@example.com", u.Email)

	s := decode[sessionResp](t, do(t, r, http.MethodGet, "/auth/session", nil))
	assert.True(t, s.Authenticated)

	rec = do(t, r, http.MethodPost, "/auth/register", RegisterReq{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "An account with this email already exists")

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPost, "/auth/logout", nil).Code)
	s = decode[sessionResp](t, do(t, r, http.MethodGet, "/auth/session", nil))
	assert.False(t, s.Authenticated)

	rec = do(t, r, http.MethodPost, "/auth/login", LoginReq{Email: "ana@example.com", Password: "wrong12"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")

	rec = do(t, r, http.MethodPost, "/auth/login", LoginReq{Email: " ANA@example.com ", Password: "secret1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	other := "different"
	rec := do(t, r, http.MethodPost, "/auth/register", RegisterReq{Name: "A", Email: "bad", Password: "123", ConfirmPassword: &other})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[map[string]map[string]string](t, rec)
	assert.Equal(t, map[string]string{
		"name":             "Name must be at least 2 characters",
		"email":            "Please enter a valid email address",
		"password":         "Password must be at least 6 characters",
		"confirm_password": "Passwords do not match",
	}, body["errors"])
}

func TestCheckout(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusConflict, do(t, r, http.MethodPost, "/checkout", nil).Code)

	do(t, r, http.MethodPost, "/cart/items", AddItemReq{ProductID: 1, Quantity: 2})
	rec := do(t, r, http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Customer", body["customer_name"])
	assert.Equal(t, "FREE", body["delivery_display"])
	assert.Equal(t, "180.00", body["total_display"])
	assert.Equal(t, "cash_on_delivery", body["payment_method"])

	v := decode[cartView](t, do(t, r, http.MethodGet, "/cart", nil))
	assert.Zero(t, v.Count)
}

func TestAddItemRespectsStock(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/cart/items", AddItemReq{ProductID: 12})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "out of stock")

	v := decode[cartView](t, do(t, r, http.MethodPost, "/cart/items", AddItemReq{ProductID: 3, Quantity: 8}))
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 3, v.Lines[0].Quantity)
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 1, clampQuantity(0, 5))
	assert.Equal(t, 4, clampQuantity(4, 5))
	assert.Equal(t, 5, clampQuantity(9, 5))
}
