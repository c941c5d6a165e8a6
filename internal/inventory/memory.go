package inventory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryRecord struct {
	stock             int
	lowStockThreshold int
}

// Memory is a mutex-guarded Ledger used in tests and anywhere a ledger
// is needed without a database. Same commit semantics as Mongo: the
// check and the decrement happen under one lock.
type Memory struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*memoryRecord
}

func NewMemory() *Memory {
	return &Memory{products: make(map[primitive.ObjectID]*memoryRecord)}
}

func (m *Memory) Seed(productID primitive.ObjectID, stock, lowStockThreshold int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[productID] = &memoryRecord{stock: stock, lowStockThreshold: lowStockThreshold}
}

func (m *Memory) CheckAvailability(_ context.Context, productID primitive.ObjectID, quantity int) (Availability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.products[productID]
	if !ok {
		return Availability{}, ErrProductNotFound
	}
	return Availability{
		Available:    rec.stock >= quantity,
		CurrentStock: rec.stock,
		StockStatus:  string(Status(rec.stock, rec.lowStockThreshold)),
	}, nil
}

func (m *Memory) Commit(_ context.Context, productID primitive.ObjectID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	if rec.stock < quantity {
		return ErrInsufficientStock
	}
	rec.stock -= quantity
	return nil
}

func (m *Memory) Release(_ context.Context, productID primitive.ObjectID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	rec.stock += quantity
	return nil
}

// Stock reports the current count, for assertions.
func (m *Memory) Stock(productID primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.products[productID]
	if !ok {
		return 0
	}
	return rec.stock
}
