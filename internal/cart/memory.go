package cart

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/models"
)

// Memory backs tests and local runs without a database.
type Memory struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID][]models.CartItem
}

func NewMemory() *Memory {
	return &Memory{carts: make(map[primitive.ObjectID][]models.CartItem)}
}

func (m *Memory) Get(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := append([]models.CartItem{}, m.carts[userID]...)
	return models.Cart{UserID: userID, Items: items}, nil
}

func (m *Memory) Put(_ context.Context, userID primitive.ObjectID, items []models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = append([]models.CartItem{}, items...)
	return nil
}
