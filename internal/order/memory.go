package order

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/models"
)

// MemoryRepository mirrors the conditional-update semantics of the mongo
// repository under a mutex, for tests and database-free runs.
type MemoryRepository struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (r *MemoryRepository) Insert(_ context.Context, o *models.Order) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *o
	stored.ID = id
	stored.Items = append([]models.OrderItem{}, o.Items...)
	stored.StatusHistory = append([]models.StatusEntry{}, o.StatusHistory...)
	r.orders[id] = &stored
	return id, nil
}

func (r *MemoryRepository) Find(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *MemoryRepository) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *MemoryRepository) PushStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, entry models.StatusEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, entry)
	o.LastModified = entry.Timestamp
	return nil
}

func (r *MemoryRepository) SetPaymentIntent(_ context.Context, id primitive.ObjectID, intentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.PaymentIntentID = intentID
	o.LastModified = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) ApplyPaymentResult(_ context.Context, id primitive.ObjectID, ps models.PaymentStatus, status models.OrderStatus, entry models.StatusEntry, paidAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return false, ErrOrderNotFound
	}
	if o.PaymentStatus == ps {
		return false, nil
	}
	o.PaymentStatus = ps
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, entry)
	o.LastModified = entry.Timestamp
	if paidAt != nil {
		t := *paidAt
		o.PaidAt = &t
	}
	return true, nil
}

func cloneOrder(o *models.Order) models.Order {
	out := *o
	out.Items = append([]models.OrderItem{}, o.Items...)
	out.StatusHistory = append([]models.StatusEntry{}, o.StatusHistory...)
	if o.PaidAt != nil {
		t := *o.PaidAt
		out.PaidAt = &t
	}
	return out
}
