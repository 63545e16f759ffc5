package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkade-dev/storefront-api/internal/apperr"
	"github.com/arkade-dev/storefront-api/internal/auth"
	"github.com/arkade-dev/storefront-api/internal/payments"
)

type memStore struct {
	mu        sync.Mutex
	orders    map[string]Order
	insertErr error
}

func newMemStore() *memStore {
	return &memStore{orders: make(map[string]Order)}
}

func (m *memStore) Insert(ctx context.Context, o Order) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return Order{}, m.insertErr
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = o
	return o, nil
}

func (m *memStore) FindByID(ctx context.Context, id string) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return Order{}, apperr.NotFoundf("no order with id %s", id)
	}
	return o, nil
}

func (m *memStore) FindAll(ctx context.Context) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *memStore) FindByUser(ctx context.Context, userID string) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) UpdatePayment(ctx context.Context, id, paymentIntentID string, status Status) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return Order{}, apperr.NotFoundf("no order with id %s", id)
	}
	o.PaymentIntentID = paymentIntentID
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	m.orders[id] = o
	return o, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

var (
	alice = auth.Identity{UserID: "u-alice", Role: auth.RoleUser}
	bob   = auth.Identity{UserID: "u-bob", Role: auth.RoleUser}
	admin = auth.Identity{UserID: "u-admin", Role: auth.RoleAdmin}
)

func i64(v int64) *int64 { return &v }

func newTestService(store *memStore, pay *payments.Fake) *Service {
	return &Service{
		Pricer:      &Pricer{Catalog: &fakeCatalog{products: testProducts()}},
		Payments:    pay,
		Store:       store,
		ServiceName: "test",
	}
}

func TestCreateOrderComputesTotalsServerSide(t *testing.T) {
	store := newMemStore()
	pay := payments.NewFake()
	svc := newTestService(store, pay)

	o, err := svc.Create(context.Background(), CreateInput{
		Items:            []CartItem{{ProductID: "P1", Quantity: 1}},
		TaxCents:         i64(5),
		ShippingFeeCents: i64(10),
	}, alice)
	require.NoError(t, err)

	assert.Equal(t, int64(500), o.SubtotalCents)
	assert.Equal(t, int64(515), o.TotalCents)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(500), o.Items[0].UnitPriceCents)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, alice.UserID, o.UserID)
	assert.NotEmpty(t, o.ClientSecret)
	assert.NotEmpty(t, o.PaymentIntentID)
	assert.Equal(t, 1, store.count())
	assert.Equal(t, 1, pay.Created())
}

func TestCreateOrderEmptyCart(t *testing.T) {
	store := newMemStore()
	pay := payments.NewFake()
	svc := newTestService(store, pay)

	_, err := svc.Create(context.Background(), CreateInput{
		TaxCents:         i64(5),
		ShippingFeeCents: i64(10),
	}, alice)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "no cart items provided", ve.Message)
	assert.Equal(t, 0, store.count())
	assert.Equal(t, 0, pay.Created())
}

func TestCreateOrderRequiresTaxAndShippingFee(t *testing.T) {
	store := newMemStore()
	pay := payments.NewFake()
	svc := newTestService(store, pay)

	cart := []CartItem{{ProductID: "P1", Quantity: 1}}
	for _, in := range []CreateInput{
		{Items: cart, ShippingFeeCents: i64(10)},
		{Items: cart, TaxCents: i64(5)},
		{Items: cart},
	} {
		_, err := svc.Create(context.Background(), in, alice)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "please provide tax and shipping fee", ve.Message)
	}
	assert.Equal(t, 0, store.count())
	assert.Equal(t, 0, pay.Created())
}

func TestCreateOrderUnknownProductPersistsNothing(t *testing.T) {
	store := newMemStore()
	pay := payments.NewFake()
	svc := newTestService(store, pay)

	_, err := svc.Create(context.Background(), CreateInput{
		Items: []CartItem{
			{ProductID: "P1", Quantity: 1},
			{ProductID: "P-missing", Quantity: 1},
		},
		TaxCents:         i64(5),
		ShippingFeeCents: i64(10),
	}, alice)

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Message, "P-missing")
	assert.Equal(t, 0, store.count())
	assert.Equal(t, 0, pay.Created())
}

func TestCreateOrderPaymentFailurePersistsNothing(t *testing.T) {
	store := newMemStore()
	pay := payments.NewFake()
	pay.CreateErr = errors.New("gateway down")
	svc := newTestService(store, pay)

	_, err := svc.Create(context.Background(), CreateInput{
		Items:            []CartItem{{ProductID: "P1", Quantity: 1}},
		TaxCents:         i64(5),
		ShippingFeeCents: i64(10),
	}, alice)

	require.Error(t, err)
	assert.Equal(t, 0, store.count())
}

func TestCreateOrderPersistFailureVoidsIntent(t *testing.T) {
	store := newMemStore()
	store.insertErr = errors.New("db down")
	pay := payments.NewFake()
	svc := newTestService(store, pay)

	_, err := svc.Create(context.Background(), CreateInput{
		Items:            []CartItem{{ProductID: "P1", Quantity: 1}},
		TaxCents:         i64(5),
		ShippingFeeCents: i64(10),
	}, alice)

	require.Error(t, err)
	assert.Equal(t, 1, pay.Created())
	assert.Equal(t, 0, pay.Outstanding())
}

func createFor(t *testing.T, svc *Service, who auth.Identity) Order {
	t.Helper()
	o, err := svc.Create(context.Background(), CreateInput{
		Items:            []CartItem{{ProductID: "P1", Quantity: 2}},
		TaxCents:         i64(50),
		ShippingFeeCents: i64(99),
	}, who)
	require.NoError(t, err)
	return o
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc := newTestService(newMemStore(), payments.NewFake())
	o := createFor(t, svc, alice)

	got, err := svc.Get(context.Background(), o.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = svc.Get(context.Background(), o.ID, bob)
	var ae *apperr.AuthorizationError
	require.ErrorAs(t, err, &ae)

	_, err = svc.Get(context.Background(), o.ID, admin)
	require.NoError(t, err)
}

func TestGetUnknownOrder(t *testing.T) {
	svc := newTestService(newMemStore(), payments.NewFake())

	_, err := svc.Get(context.Background(), "nope", alice)
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Message, "nope")
}

func TestListMineFiltersByOwner(t *testing.T) {
	svc := newTestService(newMemStore(), payments.NewFake())
	createFor(t, svc, alice)
	createFor(t, svc, alice)
	createFor(t, svc, bob)

	mine, err := svc.ListMine(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, alice.UserID, o.UserID)
	}

	all, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMarkPaid(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, payments.NewFake())
	o := createFor(t, svc, alice)

	paid, err := svc.MarkPaid(context.Background(), o.ID, "pi_confirmed", alice)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paid.Status)
	assert.Equal(t, "pi_confirmed", paid.PaymentIntentID)
	assert.Equal(t, o.ID, paid.ID) // same record, mutated in place
	assert.Equal(t, 1, store.count())

	// idempotent: a second confirmation leaves it paid
	again, err := svc.MarkPaid(context.Background(), o.ID, "pi_confirmed", alice)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, again.Status)
	assert.Equal(t, 1, store.count())
}

func TestMarkPaidEnforcesOwnership(t *testing.T) {
	svc := newTestService(newMemStore(), payments.NewFake())
	o := createFor(t, svc, alice)

	_, err := svc.MarkPaid(context.Background(), o.ID, "pi_x", bob)
	var ae *apperr.AuthorizationError
	require.ErrorAs(t, err, &ae)

	got, err := svc.Get(context.Background(), o.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	svc := newTestService(newMemStore(), payments.NewFake())

	_, err := svc.MarkPaid(context.Background(), "o-404", "pi_x", alice)
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Message, "o-404")
}

func TestMarkPaidRequiresIntentID(t *testing.T) {
	svc := newTestService(newMemStore(), payments.NewFake())
	o := createFor(t, svc, alice)

	_, err := svc.MarkPaid(context.Background(), o.ID, "", alice)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestMarkPaidRejectsFailedOrders(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, payments.NewFake())
	o := createFor(t, svc, alice)
	store.orders[o.ID] = withStatus(store.orders[o.ID], StatusFailed)

	_, err := svc.MarkPaid(context.Background(), o.ID, "pi_x", alice)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func withStatus(o Order, s Status) Order {
	o.Status = s
	return o
}
