// Package inventory is the sole authority for committed stock. Cart
// contents and reservations are advisory; only Commit and Release move
// the stock count.
package inventory

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/models"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
)

type Availability struct {
	Available    bool   `json:"isAvailable"`
	CurrentStock int    `json:"currentStock"`
	StockStatus  string `json:"stockStatus"`
}

type Ledger interface {
	// CheckAvailability is a read with no side effects. It reflects the
	// latest committed stock, not cart contents.
	CheckAvailability(ctx context.Context, productID primitive.ObjectID, quantity int) (Availability, error)

	// Commit decrements stock by quantity iff at least that much is
	// available, atomically per product. Returns ErrInsufficientStock
	// with stock untouched otherwise.
	Commit(ctx context.Context, productID primitive.ObjectID, quantity int) error

	// Release returns quantity units to stock. Used as compensation when
	// a step after a commit fails, and for restocking.
	Release(ctx context.Context, productID primitive.ObjectID, quantity int) error
}

// Status derives the stock status from the count and threshold. It is
// computed on every read and never persisted, so it cannot drift from
// the count.
func Status(stock, lowStockThreshold int) models.StockStatus {
	switch {
	case stock <= 0:
		return models.OutOfStock
	case stock <= lowStockThreshold:
		return models.LowStock
	default:
		return models.InStock
	}
}

// StockMessage is the storefront copy for a given stock level.
func StockMessage(stock, lowStockThreshold int) string {
	switch Status(stock, lowStockThreshold) {
	case models.OutOfStock:
		return "Out of stock"
	case models.LowStock:
		return "Only a few left!"
	default:
		return "In stock"
	}
}
