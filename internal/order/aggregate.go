// Package order is the aggregate for a finalized purchase: immutable
// line items and total, a status lifecycle guarded by a transition
// table, and an append-only history. It never touches stock; committing
// stock before creating the order is the checkout orchestrator's job.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/models"
)

var (
	ErrInvalidOrder      = errors.New("invalid order")
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Repository is the storage surface. ApplyPaymentResult must be
// conditional on the current payment status so that at-least-once
// webhook delivery cannot append duplicate history entries.
type Repository interface {
	Insert(ctx context.Context, o *models.Order) (primitive.ObjectID, error)
	Find(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	PushStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, entry models.StatusEntry) error
	SetPaymentIntent(ctx context.Context, id primitive.ObjectID, intentID string) error
	ApplyPaymentResult(ctx context.Context, id primitive.ObjectID, ps models.PaymentStatus, status models.OrderStatus, entry models.StatusEntry, paidAt *time.Time) (bool, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates and persists a new order. The total must equal the
// sum of line subtotals exactly; prices are snapshots in paise.
func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, items []models.OrderItem, totalAmount int64, addressID primitive.ObjectID) (models.Order, error) {
	if len(items) == 0 {
		return models.Order{}, fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	var sum int64
	for _, item := range items {
		if item.Quantity < 1 {
			return models.Order{}, fmt.Errorf("%w: quantity below 1 for product %s", ErrInvalidOrder, item.ProductID.Hex())
		}
		if item.Price < 0 {
			return models.Order{}, fmt.Errorf("%w: negative price for product %s", ErrInvalidOrder, item.ProductID.Hex())
		}
		sum += item.Price * int64(item.Quantity)
	}
	if sum != totalAmount {
		return models.Order{}, fmt.Errorf("%w: total %d does not match line items %d", ErrInvalidOrder, totalAmount, sum)
	}

	now := s.now().UTC()
	o := models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     totalAmount,
		ShippingAddress: addressID,
		PaymentStatus:   models.PaymentPending,
		Status:          models.OrderPending,
		StatusHistory: []models.StatusEntry{
			{Status: models.OrderPending, Timestamp: now, Note: "Order created"},
		},
		LastModified: now,
		CreatedAt:    now,
	}
	id, err := s.repo.Insert(ctx, &o)
	if err != nil {
		return models.Order{}, err
	}
	o.ID = id
	return o, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.repo.Find(ctx, id)
}

func (s *Service) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.repo.FindByUser(ctx, userID)
}

// AppendStatus moves the order to a new status if the transition table
// allows it, recording a history entry. Re-applying the current status
// is a logged no-op.
func (s *Service) AppendStatus(ctx context.Context, orderID primitive.ObjectID, status models.OrderStatus, note string) (models.Order, error) {
	if !ValidStatus(status) {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, status)
	}
	o, err := s.repo.Find(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if !CanTransition(o.Status, status) {
		return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, status)
	}
	entry := models.StatusEntry{Status: status, Timestamp: s.now().UTC(), Note: note}
	if err := s.repo.PushStatus(ctx, orderID, status, entry); err != nil {
		return models.Order{}, err
	}
	return s.repo.Find(ctx, orderID)
}

// AttachPaymentIntent records the external intent reference, replacing
// any prior one.
func (s *Service) AttachPaymentIntent(ctx context.Context, orderID primitive.ObjectID, intentID string) error {
	return s.repo.SetPaymentIntent(ctx, orderID, intentID)
}

// MarkPaymentResult sets payment status and order status together with
// one history entry. Returns false without writing anything when the
// payment status already matches, which is what makes replayed webhook
// deliveries harmless.
func (s *Service) MarkPaymentResult(ctx context.Context, orderID primitive.ObjectID, ps models.PaymentStatus, status models.OrderStatus, note string) (bool, error) {
	now := s.now().UTC()
	entry := models.StatusEntry{Status: status, Timestamp: now, Note: note}
	var paidAt *time.Time
	if ps == models.PaymentPaid {
		paidAt = &now
	}
	return s.repo.ApplyPaymentResult(ctx, orderID, ps, status, entry, paidAt)
}
