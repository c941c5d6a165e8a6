package payment

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/cart"
	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/logging"
	"jewelmart-backend/internal/models"
	"jewelmart-backend/internal/order"
	"jewelmart-backend/internal/outbox"
)

type Coordinator struct {
	orders    *order.Service
	carts     *cart.Service
	ledger    inventory.Ledger
	processor Processor
	events    outbox.Publisher

	// releaseStockOnFailure gives committed stock back when the
	// processor reports a terminal failure. Off by default: the order is
	// left pending_failed with stock held for manual follow-up.
	releaseStockOnFailure bool
}

func NewCoordinator(orders *order.Service, carts *cart.Service, ledger inventory.Ledger, processor Processor, events outbox.Publisher, releaseStockOnFailure bool) *Coordinator {
	return &Coordinator{
		orders:                orders,
		carts:                 carts,
		ledger:                ledger,
		processor:             processor,
		events:                events,
		releaseStockOnFailure: releaseStockOnFailure,
	}
}

// CreateIntent mints an external payment intent for the order and
// attaches the reference. If the attach fails after the external call
// succeeded, the external intent is orphaned; the error is returned and
// the client retries the checkout from scratch rather than repairing.
func (c *Coordinator) CreateIntent(ctx context.Context, orderID primitive.ObjectID, amountPaise int64) (Intent, error) {
	if amountPaise <= 0 {
		return Intent{}, ErrInvalidAmount
	}
	o, err := c.orders.Get(ctx, orderID)
	if err != nil {
		return Intent{}, err
	}
	if o.PaymentStatus == models.PaymentPaid {
		return Intent{}, ErrOrderAlreadyPaid
	}

	intent, err := c.processor.CreateIntent(ctx, amountPaise, orderID.Hex(), o.UserID.Hex())
	if err != nil {
		return Intent{}, err
	}
	if err := c.orders.AttachPaymentIntent(ctx, orderID, intent.ID); err != nil {
		logging.Log(logging.Fields{Service: "payment", OrderID: orderID.Hex(), Step: "attach_intent", Status: "error", Message: err.Error()})
		return Intent{}, fmt.Errorf("attaching intent %s: %w", intent.ID, err)
	}
	logging.Log(logging.Fields{Service: "payment", OrderID: orderID.Hex(), Step: "create_intent", Status: "ok", Message: intent.ID})
	return intent, nil
}

// HandleWebhook reconciles a processor delivery onto the order. The
// signature is the only authentication; verification failure must reach
// the HTTP layer as a non-2xx so the processor redelivers. Duplicate
// deliveries are absorbed by MarkPaymentResult's idempotency.
func (c *Coordinator) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := c.processor.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch ev.Type {
	case EventIntentSucceeded:
		return c.paymentSucceeded(ctx, ev)
	case EventIntentFailed:
		return c.paymentFailed(ctx, ev)
	default:
		// Unhandled event types are acknowledged so the processor stops
		// redelivering them.
		return nil
	}
}

func (c *Coordinator) paymentSucceeded(ctx context.Context, ev Event) error {
	orderID, err := primitive.ObjectIDFromHex(ev.OrderID)
	if err != nil {
		return fmt.Errorf("webhook carries bad order id %q: %w", ev.OrderID, err)
	}
	applied, err := c.orders.MarkPaymentResult(ctx, orderID, models.PaymentPaid, models.OrderProcessing, "Payment succeeded")
	if err != nil {
		return err
	}
	if !applied {
		logging.Log(logging.Fields{Service: "payment", OrderID: ev.OrderID, Step: "webhook", Status: "duplicate", Message: ev.IntentID})
		return nil
	}

	o, err := c.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if _, err := c.carts.Clear(ctx, o.UserID); err != nil {
		// The order is already paid; a failed cart clear is not worth a
		// processor redelivery.
		logging.Log(logging.Fields{Service: "payment", OrderID: ev.OrderID, UserID: o.UserID.Hex(), Step: "clear_cart", Status: "error", Message: err.Error()})
	}
	if err := c.events.Publish(ctx, outbox.TopicOrderEvents, ev.OrderID, outbox.EventPaymentSucceeded, o); err != nil {
		logging.Log(logging.Fields{Service: "payment", OrderID: ev.OrderID, Step: "publish", Status: "error", Message: err.Error()})
	}
	logging.Log(logging.Fields{Service: "payment", OrderID: ev.OrderID, Step: "webhook", Status: "paid", Message: ev.IntentID})
	return nil
}

func (c *Coordinator) paymentFailed(ctx context.Context, ev Event) error {
	orderID, err := primitive.ObjectIDFromHex(ev.OrderID)
	if err != nil {
		return fmt.Errorf("webhook carries bad order id %q: %w", ev.OrderID, err)
	}
	applied, err := c.orders.MarkPaymentResult(ctx, orderID, models.PaymentFailed, models.OrderPaymentFailed, "Payment failed")
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	if c.releaseStockOnFailure {
		o, err := c.orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := c.ledger.Release(ctx, item.ProductID, item.Quantity); err != nil {
				logging.Log(logging.Fields{Service: "payment", OrderID: ev.OrderID, ProductID: item.ProductID.Hex(), Step: "release_stock", Status: "error", Message: err.Error()})
			}
		}
	}
	if err := c.events.Publish(ctx, outbox.TopicOrderEvents, ev.OrderID, outbox.EventPaymentFailed, map[string]string{"orderId": ev.OrderID, "intentId": ev.IntentID}); err != nil {
		logging.Log(logging.Fields{Service: "payment", OrderID: ev.OrderID, Step: "publish", Status: "error", Message: err.Error()})
	}
	logging.Log(logging.Fields{Service: "payment", OrderID: ev.OrderID, Step: "webhook", Status: "failed", Message: ev.IntentID})
	return nil
}
