package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/cart"
	"jewelmart-backend/internal/catalog"
	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/models"
	"jewelmart-backend/internal/order"
	"jewelmart-backend/internal/outbox"
)

type fakeProcessor struct {
	created    int
	failCreate bool
}

func (f *fakeProcessor) CreateIntent(_ context.Context, _ int64, _, _ string) (Intent, error) {
	if f.failCreate {
		return Intent{}, fmt.Errorf("processor unavailable")
	}
	f.created++
	return Intent{ID: fmt.Sprintf("pi_%d", f.created), ClientSecret: fmt.Sprintf("pi_%d_secret", f.created)}, nil
}

// VerifyWebhook treats the literal signature "valid" as authentic and
// decodes the payload as an Event, standing in for Stripe's HMAC check.
func (f *fakeProcessor) VerifyWebhook(payload []byte, sigHeader string) (Event, error) {
	if sigHeader != "valid" {
		return Event{}, ErrInvalidSignature
	}
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

type fixture struct {
	orders    *order.Service
	carts     *cart.Service
	ledger    *inventory.Memory
	events    *outbox.Recorder
	processor *fakeProcessor

	user primitive.ObjectID
	ring primitive.ObjectID
}

func newFixture(t *testing.T, releaseOnFailure bool) (*Coordinator, *fixture) {
	t.Helper()
	f := &fixture{
		orders:    order.NewService(order.NewMemoryRepository()),
		ledger:    inventory.NewMemory(),
		events:    outbox.NewRecorder(),
		processor: &fakeProcessor{},
		user:      primitive.NewObjectID(),
		ring:      primitive.NewObjectID(),
	}
	f.ledger.Seed(f.ring, 10, 5)
	products := catalog.NewMemory()
	f.carts = cart.NewService(cart.NewMemory(), f.ledger, products)
	c := NewCoordinator(f.orders, f.carts, f.ledger, f.processor, f.events, releaseOnFailure)
	return c, f
}

func (f *fixture) placeOrder(t *testing.T) models.Order {
	t.Helper()
	o, err := f.orders.Create(context.Background(), f.user,
		[]models.OrderItem{{ProductID: f.ring, Quantity: 2, Price: 100000}}, 200000, primitive.NewObjectID())
	require.NoError(t, err)
	return o
}

func succeededPayload(t *testing.T, orderID primitive.ObjectID, intentID string) []byte {
	t.Helper()
	data, err := json.Marshal(Event{Type: EventIntentSucceeded, IntentID: intentID, OrderID: orderID.Hex()})
	require.NoError(t, err)
	return data
}

func TestCreateIntentValidations(t *testing.T) {
	ctx := context.Background()
	c, f := newFixture(t, false)
	o := f.placeOrder(t)

	_, err := c.CreateIntent(ctx, o.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = c.CreateIntent(ctx, primitive.NewObjectID(), 200000)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	_, err = f.orders.MarkPaymentResult(ctx, o.ID, models.PaymentPaid, models.OrderProcessing, "")
	require.NoError(t, err)
	_, err = c.CreateIntent(ctx, o.ID, 200000)
	assert.ErrorIs(t, err, ErrOrderAlreadyPaid)
}

func TestCreateIntentAttachesReference(t *testing.T) {
	ctx := context.Background()
	c, f := newFixture(t, false)
	o := f.placeOrder(t)

	intent, err := c.CreateIntent(ctx, o.ID, 200000)
	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.NotEmpty(t, intent.ClientSecret)

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_1", got.PaymentIntentID)
}

func TestCreateIntentRetryOverwritesReference(t *testing.T) {
	ctx := context.Background()
	c, f := newFixture(t, false)
	o := f.placeOrder(t)

	_, err := c.CreateIntent(ctx, o.ID, 200000)
	require.NoError(t, err)
	_, err = c.CreateIntent(ctx, o.ID, 200000)
	require.NoError(t, err)

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_2", got.PaymentIntentID)
}

func TestWebhookInvalidSignatureMutatesNothing(t *testing.T) {
	ctx := context.Background()
	c, f := newFixture(t, false)
	o := f.placeOrder(t)

	err := c.HandleWebhook(ctx, succeededPayload(t, o.ID, "pi_1"), "forged")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, got.PaymentStatus)
	assert.Equal(t, models.OrderPending, got.Status)
	assert.Len(t, got.StatusHistory, 1)
	assert.Empty(t, f.events.Records())
}

func TestWebhookSucceededMarksPaidAndClearsCart(t *testing.T) {
	ctx := context.Background()
	c, f := newFixture(t, false)
	o := f.placeOrder(t)

	_, err := f.carts.Add(ctx, f.user, f.ring, 1)
	require.NoError(t, err)

	require.NoError(t, c.HandleWebhook(ctx, succeededPayload(t, o.ID, "pi_1"), "valid"))

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, models.OrderProcessing, got.Status)
	assert.NotNil(t, got.PaidAt)

	userCart, err := f.carts.Get(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, userCart.Items)

	recs := f.events.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, outbox.EventPaymentSucceeded, recs[0].EventType)
}

func TestWebhookSucceededIsIdempotentAcrossRedelivery(t *testing.T) {
	ctx := context.Background()
	c, f := newFixture(t, false)
	o := f.placeOrder(t)

	payload := succeededPayload(t, o.ID, "pi_1")
	require.NoError(t, c.HandleWebhook(ctx, payload, "valid"))
	require.NoError(t, c.HandleWebhook(ctx, payload, "valid"))

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	entries := 0
	for _, e := range got.StatusHistory {
		if e.Status == models.OrderProcessing {
			entries++
		}
	}
	assert.Equal(t, 1, entries)
	assert.Len(t, f.events.Records(), 1)
}

func TestWebhookFailedKeepsStockByDefault(t *testing.T) {
	ctx := context.Background()
	c, f := newFixture(t, false)
	o := f.placeOrder(t)

	// Checkout committed 2 units before the order existed.
	require.NoError(t, f.ledger.Commit(ctx, f.ring, 2))

	payload, err := json.Marshal(Event{Type: EventIntentFailed, IntentID: "pi_1", OrderID: o.ID.Hex()})
	require.NoError(t, err)
	require.NoError(t, c.HandleWebhook(ctx, payload, "valid"))

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, got.PaymentStatus)
	assert.Equal(t, models.OrderPaymentFailed, got.Status)
	assert.Equal(t, 8, f.ledger.Stock(f.ring))
}

func TestWebhookFailedReleasesStockWhenPolicyEnabled(t *testing.T) {
	ctx := context.Background()
	c, f := newFixture(t, true)
	o := f.placeOrder(t)

	require.NoError(t, f.ledger.Commit(ctx, f.ring, 2))

	payload, err := json.Marshal(Event{Type: EventIntentFailed, IntentID: "pi_1", OrderID: o.ID.Hex()})
	require.NoError(t, err)
	require.NoError(t, c.HandleWebhook(ctx, payload, "valid"))
	assert.Equal(t, 10, f.ledger.Stock(f.ring))

	// Redelivery must not release twice.
	require.NoError(t, c.HandleWebhook(ctx, payload, "valid"))
	assert.Equal(t, 10, f.ledger.Stock(f.ring))
}

func TestWebhookIgnoresUnhandledEventTypes(t *testing.T) {
	ctx := context.Background()
	c, f := newFixture(t, false)
	o := f.placeOrder(t)

	payload, err := json.Marshal(Event{Type: "payment_intent.created", OrderID: o.ID.Hex()})
	require.NoError(t, err)
	require.NoError(t, c.HandleWebhook(ctx, payload, "valid"))

	got, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, got.PaymentStatus)
}
