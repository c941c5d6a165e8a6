// Package checkout turns a cart into an order plus a payment handle.
// It is a single request-scoped pipeline, not a long-lived state
// machine: the Order document is the durable record of progress, and
// the outbox carries the events.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/logging"
	"jewelmart-backend/internal/models"
	"jewelmart-backend/internal/order"
	"jewelmart-backend/internal/outbox"
	"jewelmart-backend/internal/payment"
)

// PaymentSetupError means the order exists and its stock is committed,
// but no payment intent could be minted. It carries the order id so the
// client resumes against that order instead of submitting a duplicate.
type PaymentSetupError struct {
	OrderID primitive.ObjectID
	Err     error
}

func (e *PaymentSetupError) Error() string {
	return fmt.Sprintf("payment setup failed for order %s: %v", e.OrderID.Hex(), e.Err)
}

func (e *PaymentSetupError) Unwrap() error { return e.Err }

// StockError reports which products could not be committed.
type StockError struct {
	Details []string
}

func (e *StockError) Error() string {
	return "insufficient stock"
}

func (e *StockError) Unwrap() error { return inventory.ErrInsufficientStock }

// IntentCreator is the slice of the payment coordinator checkout needs.
type IntentCreator interface {
	CreateIntent(ctx context.Context, orderID primitive.ObjectID, amountPaise int64) (payment.Intent, error)
}

type Request struct {
	UserID      primitive.ObjectID
	Items       []models.OrderItem
	TotalAmount int64
	AddressID   primitive.ObjectID
}

type Result struct {
	Order        models.Order
	IntentID     string
	ClientSecret string
}

type Orchestrator struct {
	ledger   inventory.Ledger
	orders   *order.Service
	payments IntentCreator
	events   outbox.Publisher
}

func NewOrchestrator(ledger inventory.Ledger, orders *order.Service, payments IntentCreator, events outbox.Publisher) *Orchestrator {
	return &Orchestrator{ledger: ledger, orders: orders, payments: payments, events: events}
}

// Checkout runs the pipeline: validate, commit stock, create the order,
// mint the payment intent. Compensation policy:
//   - validation failure: no side effects
//   - partial commit failure: every commit of this attempt is released
//   - order creation failure: every commit of this attempt is released
//   - intent failure: stock stays committed, order stays pending, the
//     caller gets a PaymentSetupError with the order id
func (o *Orchestrator) Checkout(ctx context.Context, req Request) (Result, error) {
	if len(req.Items) == 0 {
		return Result{}, fmt.Errorf("%w: no items", order.ErrInvalidOrder)
	}

	// Fixed commit order across requests keeps two concurrent checkouts
	// touching the same products from interleaving in opposite orders.
	items := append([]models.OrderItem{}, req.Items...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.Hex() < items[j].ProductID.Hex()
	})

	// VALIDATING: reads only.
	var details []string
	for _, item := range items {
		avail, err := o.ledger.CheckAvailability(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return Result{}, err
		}
		if !avail.Available {
			details = append(details, fmt.Sprintf("%s: requested %d, only %d available", item.ProductID.Hex(), item.Quantity, avail.CurrentStock))
		}
	}
	if len(details) > 0 {
		return Result{}, &StockError{Details: details}
	}

	// COMMITTING: stock moved line by line; a short line undoes the rest.
	committed := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if err := o.ledger.Commit(ctx, item.ProductID, item.Quantity); err != nil {
			o.releaseAll(ctx, committed)
			if errors.Is(err, inventory.ErrInsufficientStock) {
				return Result{}, &StockError{Details: []string{
					fmt.Sprintf("%s: stock changed during checkout", item.ProductID.Hex()),
				}}
			}
			return Result{}, err
		}
		committed = append(committed, item)
	}

	// ORDER_CREATING: a failed commit can no longer produce an order,
	// and a failed order must give the stock back.
	created, err := o.orders.Create(ctx, req.UserID, req.Items, req.TotalAmount, req.AddressID)
	if err != nil {
		o.releaseAll(ctx, committed)
		return Result{}, err
	}
	if err := o.events.Publish(ctx, outbox.TopicOrderEvents, created.ID.Hex(), outbox.EventOrderCreated, created); err != nil {
		logging.Log(logging.Fields{Service: "checkout", OrderID: created.ID.Hex(), Step: "publish", Status: "error", Message: err.Error()})
	}

	// INTENT_CREATING: stock is deliberately kept on failure; the order
	// is the recovery signal.
	intent, err := o.payments.CreateIntent(ctx, created.ID, created.TotalAmount)
	if err != nil {
		logging.Log(logging.Fields{Service: "checkout", OrderID: created.ID.Hex(), Step: "create_intent", Status: "error", Message: err.Error()})
		return Result{Order: created}, &PaymentSetupError{OrderID: created.ID, Err: err}
	}

	logging.Log(logging.Fields{Service: "checkout", OrderID: created.ID.Hex(), UserID: req.UserID.Hex(), Step: "awaiting_payment", Status: "ok"})
	return Result{Order: created, IntentID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// releaseAll reverses this attempt's commits, most recent first.
func (o *Orchestrator) releaseAll(ctx context.Context, committed []models.OrderItem) {
	for i := len(committed) - 1; i >= 0; i-- {
		item := committed[i]
		if err := o.ledger.Release(ctx, item.ProductID, item.Quantity); err != nil {
			logging.Log(logging.Fields{Service: "checkout", ProductID: item.ProductID.Hex(), Step: "release", Status: "error", Message: err.Error()})
		}
	}
}
