package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/models"
	"jewelmart-backend/internal/order"
	"jewelmart-backend/internal/outbox"
	"jewelmart-backend/internal/payment"
)

type stubPayments struct {
	fail    bool
	created int
}

func (s *stubPayments) CreateIntent(_ context.Context, orderID primitive.ObjectID, _ int64) (payment.Intent, error) {
	if s.fail {
		return payment.Intent{}, fmt.Errorf("processor timeout")
	}
	s.created++
	return payment.Intent{ID: "pi_" + orderID.Hex(), ClientSecret: "secret"}, nil
}

type fixture struct {
	ledger   *inventory.Memory
	orders   *order.Service
	payments *stubPayments
	events   *outbox.Recorder

	user    primitive.ObjectID
	addr    primitive.ObjectID
	ringA   primitive.ObjectID
	chainB  primitive.ObjectID
	orderer *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledger:   inventory.NewMemory(),
		orders:   order.NewService(order.NewMemoryRepository()),
		payments: &stubPayments{},
		events:   outbox.NewRecorder(),
		user:     primitive.NewObjectID(),
		addr:     primitive.NewObjectID(),
		ringA:    primitive.NewObjectID(),
		chainB:   primitive.NewObjectID(),
	}
	f.ledger.Seed(f.ringA, 3, 5)
	f.ledger.Seed(f.chainB, 1, 5)
	f.orderer = NewOrchestrator(f.ledger, f.orders, f.payments, f.events)
	return f
}

func (f *fixture) request(items ...models.OrderItem) Request {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}
	return Request{UserID: f.user, Items: items, TotalAmount: total, AddressID: f.addr}
}

func TestCheckoutHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.orderer.Checkout(ctx, f.request(
		models.OrderItem{ProductID: f.ringA, Quantity: 2, Price: 100000},
		models.OrderItem{ProductID: f.chainB, Quantity: 1, Price: 50000},
	))
	require.NoError(t, err)

	assert.Equal(t, 1, f.ledger.Stock(f.ringA))
	assert.Equal(t, 0, f.ledger.Stock(f.chainB))
	assert.Equal(t, models.OrderPending, res.Order.Status)
	assert.Equal(t, models.PaymentPending, res.Order.PaymentStatus)
	assert.Equal(t, int64(250000), res.Order.TotalAmount)
	assert.NotEmpty(t, res.IntentID)
	assert.NotEmpty(t, res.ClientSecret)

	recs := f.events.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, outbox.EventOrderCreated, recs[0].EventType)
}

func TestCheckoutInsufficientStockHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// qty 5 wanted, stock is 3.
	_, err := f.orderer.Checkout(ctx, f.request(
		models.OrderItem{ProductID: f.ringA, Quantity: 5, Price: 100000},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Len(t, stockErr.Details, 1)

	assert.Equal(t, 3, f.ledger.Stock(f.ringA))
	orders, err := f.orders.ListForUser(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.events.Records())
}

func TestCheckoutPartialFailureReleasesCommittedStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// A has stock for 2, B only has 1 but 2 are wanted. Whatever the
	// commit order, no partial commit may survive.
	_, err := f.orderer.Checkout(ctx, f.request(
		models.OrderItem{ProductID: f.ringA, Quantity: 2, Price: 100000},
		models.OrderItem{ProductID: f.chainB, Quantity: 2, Price: 50000},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	assert.Equal(t, 3, f.ledger.Stock(f.ringA))
	assert.Equal(t, 1, f.ledger.Stock(f.chainB))
	orders, err := f.orders.ListForUser(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutInvalidTotalReleasesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := f.request(models.OrderItem{ProductID: f.ringA, Quantity: 2, Price: 100000})
	req.TotalAmount = 150000 // does not match 200000

	_, err := f.orderer.Checkout(ctx, req)
	assert.ErrorIs(t, err, order.ErrInvalidOrder)
	assert.Equal(t, 3, f.ledger.Stock(f.ringA))
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.orderer.Checkout(ctx, Request{UserID: f.user, AddressID: f.addr})
	assert.ErrorIs(t, err, order.ErrInvalidOrder)
}

func TestCheckoutPaymentSetupFailureKeepsOrderAndStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.payments.fail = true

	res, err := f.orderer.Checkout(ctx, f.request(
		models.OrderItem{ProductID: f.ringA, Quantity: 2, Price: 100000},
	))
	require.Error(t, err)

	var setupErr *PaymentSetupError
	require.ErrorAs(t, err, &setupErr)
	assert.False(t, setupErr.OrderID.IsZero())
	assert.Equal(t, setupErr.OrderID, res.Order.ID)

	// Stock stays committed, the order stays pending for follow-up.
	assert.Equal(t, 1, f.ledger.Stock(f.ringA))
	got, err := f.orders.Get(ctx, setupErr.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)
	assert.Equal(t, models.PaymentPending, got.PaymentStatus)
}

func TestCheckoutUnknownProductFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.orderer.Checkout(ctx, f.request(
		models.OrderItem{ProductID: primitive.NewObjectID(), Quantity: 1, Price: 100},
	))
	assert.ErrorIs(t, err, inventory.ErrProductNotFound)
	assert.Equal(t, 3, f.ledger.Stock(f.ringA))
}

// Concurrent checkouts fighting over the last units: stock never goes
// negative and exactly the affordable number of orders is created.
func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const attempts = 10
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := f.orderer.Checkout(ctx, f.request(
				models.OrderItem{ProductID: f.ringA, Quantity: 1, Price: 100000},
			))
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < attempts; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else if !errors.Is(err, inventory.ErrInsufficientStock) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 0, f.ledger.Stock(f.ringA))

	orders, err := f.orders.ListForUser(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}
