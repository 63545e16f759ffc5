package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkade-dev/storefront-api/internal/apperr"
	"github.com/arkade-dev/storefront-api/internal/auth"
	"github.com/arkade-dev/storefront-api/internal/catalog"
	"github.com/arkade-dev/storefront-api/internal/orders"
	"github.com/arkade-dev/storefront-api/internal/payments"
)

type fakeSessions map[string]auth.Identity

func (f fakeSessions) Get(ctx context.Context, token string) (auth.Identity, error) {
	who, ok := f[token]
	if !ok {
		return auth.Identity{}, auth.ErrNoSession
	}
	return who, nil
}

type stubCatalog map[string]catalog.Product

func (s stubCatalog) FindByID(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := s[id]
	if !ok {
		return catalog.Product{}, apperr.NotFoundf("no product with id %s", id)
	}
	return p, nil
}

type stubStore struct {
	mu     sync.Mutex
	orders map[string]orders.Order
}

func (s *stubStore) Insert(ctx context.Context, o orders.Order) (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	s.orders[o.ID] = o
	return o, nil
}

func (s *stubStore) FindByID(ctx context.Context, id string) (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return orders.Order{}, apperr.NotFoundf("no order with id %s", id)
	}
	return o, nil
}

func (s *stubStore) FindAll(ctx context.Context) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]orders.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *stubStore) FindByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []orders.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubStore) UpdatePayment(ctx context.Context, id, paymentIntentID string, status orders.Status) (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return orders.Order{}, apperr.NotFoundf("no order with id %s", id)
	}
	o.PaymentIntentID = paymentIntentID
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	s.orders[id] = o
	return o, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := &orders.Service{
		Pricer: &orders.Pricer{Catalog: stubCatalog{
			"P1": {ID: "P1", Name: "armchair", PriceCents: 500, Image: "/img/armchair.jpg"},
		}},
		Payments:    payments.NewFake(),
		Store:       &stubStore{orders: make(map[string]orders.Order)},
		ServiceName: "test",
	}
	sessions := fakeSessions{
		"tok-alice": {UserID: "u-alice", Role: auth.RoleUser},
		"tok-bob":   {UserID: "u-bob", Role: auth.RoleUser},
		"tok-admin": {UserID: "u-admin", Role: auth.RoleAdmin},
	}
	oh := &OrdersHandler{Service: svc}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(SessionAuth(sessions))
		oh.Register(r)
		r.With(RequireAdmin).Get("/orders", oh.ListAll)
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestOrdersRequireSession(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/orders", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodPost, "/orders", "tok-expired", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrderEndpoint(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/orders", "tok-alice",
		`{"items":[{"product_id":"P1","quantity":1,"price":1}],"tax":5,"shipping_fee":10}`)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.NotEmpty(t, body["client_secret"])
	order := body["order"].(map[string]any)
	// server-side pricing: the client's "price":1 had no effect
	assert.Equal(t, float64(500), order["subtotal"])
	assert.Equal(t, float64(515), order["total"])
	assert.Equal(t, "pending", order["status"])
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/orders", "tok-alice",
		`{"items":[{"product_id":"P1","quantity":1}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "please provide tax and shipping fee", decode(t, w)["message"])

	w = doJSON(t, h, http.MethodPost, "/orders", "tok-alice",
		`{"items":[],"tax":5,"shipping_fee":10}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no cart items provided", decode(t, w)["message"])
}

func TestCreateOrderEndpointUnknownProduct(t *testing.T) {
	h := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/orders", "tok-alice",
		`{"items":[{"product_id":"P-missing","quantity":1}],"tax":5,"shipping_fee":10}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode(t, w)["message"], "P-missing")
}

func createOrderAs(t *testing.T, h http.Handler, token string) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/orders", token,
		`{"items":[{"product_id":"P1","quantity":1}],"tax":5,"shipping_fee":10}`)
	require.Equal(t, http.StatusCreated, w.Code)
	return decode(t, w)["order"].(map[string]any)["id"].(string)
}

func TestGetOrderEndpointOwnership(t *testing.T) {
	h := newTestRouter(t)
	id := createOrderAs(t, h, "tok-alice")

	w := doJSON(t, h, http.MethodGet, "/orders/"+id, "tok-alice", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/orders/"+id, "tok-bob", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, h, http.MethodGet, "/orders/"+id, "tok-admin", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/orders/does-not-exist", "tok-alice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkPaidEndpoint(t *testing.T) {
	h := newTestRouter(t)
	id := createOrderAs(t, h, "tok-alice")

	w := doJSON(t, h, http.MethodPatch, "/orders/"+id, "tok-alice",
		`{"payment_intent_id":"pi_confirmed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "pi_confirmed", body["payment_intent"])
	order := body["order"].(map[string]any)
	assert.Equal(t, "paid", order["status"])

	w = doJSON(t, h, http.MethodPatch, "/orders/missing", "tok-alice",
		`{"payment_intent_id":"pi_x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderCollectionEndpoints(t *testing.T) {
	h := newTestRouter(t)
	createOrderAs(t, h, "tok-alice")
	createOrderAs(t, h, "tok-bob")

	// the collection is admin-only
	w := doJSON(t, h, http.MethodGet, "/orders", "tok-alice", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, h, http.MethodGet, "/orders", "tok-admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])

	w = doJSON(t, h, http.MethodGet, "/orders/mine", "tok-alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}
