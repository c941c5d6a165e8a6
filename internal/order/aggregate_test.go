package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/models"
)

func item(price int64, qty int) models.OrderItem {
	return models.OrderItem{ProductID: primitive.NewObjectID(), Quantity: qty, Price: price}
}

func TestCreateValidOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	user := primitive.NewObjectID()
	addr := primitive.NewObjectID()

	o, err := svc.Create(ctx, user, []models.OrderItem{item(10000, 2), item(5000, 1)}, 25000, addr)
	require.NoError(t, err)

	assert.False(t, o.ID.IsZero())
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, models.PaymentPending, o.PaymentStatus)
	assert.Equal(t, int64(25000), o.TotalAmount)
	require.Len(t, o.StatusHistory, 1)
	assert.Equal(t, models.OrderPending, o.StatusHistory[0].Status)
}

func TestCreateRejectsTotalMismatch(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	// items = [{price:100, qty:2}], total 150 -> rejected
	_, err := svc.Create(ctx, primitive.NewObjectID(), []models.OrderItem{item(100, 2)}, 150, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestCreateRejectsEmptyItems(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	_, err := svc.Create(ctx, primitive.NewObjectID(), nil, 0, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestCreateRejectsZeroQuantity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	_, err := svc.Create(ctx, primitive.NewObjectID(), []models.OrderItem{item(100, 0)}, 0, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestAppendStatusFollowsTransitionTable(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	o, err := svc.Create(ctx, primitive.NewObjectID(), []models.OrderItem{item(100, 1)}, 100, primitive.NewObjectID())
	require.NoError(t, err)

	o, err = svc.AppendStatus(ctx, o.ID, models.OrderProcessing, "payment confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, o.Status)
	assert.Len(t, o.StatusHistory, 2)

	o, err = svc.AppendStatus(ctx, o.ID, models.OrderShipped, "left warehouse")
	require.NoError(t, err)
	o, err = svc.AppendStatus(ctx, o.ID, models.OrderDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, o.Status)
	assert.Len(t, o.StatusHistory, 4)
}

func TestAppendStatusRejectsIllegalTransition(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	o, err := svc.Create(ctx, primitive.NewObjectID(), []models.OrderItem{item(100, 1)}, 100, primitive.NewObjectID())
	require.NoError(t, err)

	_, err = svc.AppendStatus(ctx, o.ID, models.OrderDelivered, "")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = svc.AppendStatus(ctx, o.ID, "confirmed", "")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// History untouched by rejected transitions.
	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, got.StatusHistory, 1)
}

func TestAppendStatusSameStatusLogsDuplicateEntry(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	o, err := svc.Create(ctx, primitive.NewObjectID(), []models.OrderItem{item(100, 1)}, 100, primitive.NewObjectID())
	require.NoError(t, err)

	o, err = svc.AppendStatus(ctx, o.ID, models.OrderPending, "re-applied")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Len(t, o.StatusHistory, 2)
}

func TestAttachPaymentIntentOverwrites(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	o, err := svc.Create(ctx, primitive.NewObjectID(), []models.OrderItem{item(100, 1)}, 100, primitive.NewObjectID())
	require.NoError(t, err)

	require.NoError(t, svc.AttachPaymentIntent(ctx, o.ID, "pi_first"))
	require.NoError(t, svc.AttachPaymentIntent(ctx, o.ID, "pi_second"))

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_second", got.PaymentIntentID)

	err = svc.AttachPaymentIntent(ctx, primitive.NewObjectID(), "pi_x")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMarkPaymentResultIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	o, err := svc.Create(ctx, primitive.NewObjectID(), []models.OrderItem{item(100, 1)}, 100, primitive.NewObjectID())
	require.NoError(t, err)

	applied, err := svc.MarkPaymentResult(ctx, o.ID, models.PaymentPaid, models.OrderProcessing, "payment succeeded")
	require.NoError(t, err)
	assert.True(t, applied)

	// Replayed terminal event: no second history entry.
	applied, err = svc.MarkPaymentResult(ctx, o.ID, models.PaymentPaid, models.OrderProcessing, "payment succeeded")
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, models.OrderProcessing, got.Status)
	assert.NotNil(t, got.PaidAt)

	entries := 0
	for _, e := range got.StatusHistory {
		if e.Status == models.OrderProcessing {
			entries++
		}
	}
	assert.Equal(t, 1, entries)
}

func TestMarkPaymentResultFailed(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	o, err := svc.Create(ctx, primitive.NewObjectID(), []models.OrderItem{item(100, 1)}, 100, primitive.NewObjectID())
	require.NoError(t, err)

	applied, err := svc.MarkPaymentResult(ctx, o.ID, models.PaymentFailed, models.OrderPaymentFailed, "card declined")
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, got.PaymentStatus)
	assert.Equal(t, models.OrderPaymentFailed, got.Status)
	assert.Nil(t, got.PaidAt)
}
