// Package catalog is product CRUD and browse. Stock counts live here in
// the products collection, but only the inventory ledger may move them.
package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/models"
)

// Filters narrows a product listing. StockStatus filters on the derived
// status, so it is applied after the fetch rather than persisted.
type Filters struct {
	Recipients  []string
	Categories  []string
	Jewellery   []string
	StockStatus models.StockStatus
	SortBy      string
}

type Catalog interface {
	List(ctx context.Context, f Filters) ([]models.Product, error)
	Find(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Create(ctx context.Context, p models.Product) (models.Product, error)
}

// FilterByStockStatus keeps only products whose derived status matches.
func FilterByStockStatus(products []models.Product, status models.StockStatus) []models.Product {
	if status == "" {
		return products
	}
	out := products[:0]
	for _, p := range products {
		if inventory.Status(p.Stock, p.StockSettings.LowStockThreshold) == status {
			out = append(out, p)
		}
	}
	return out
}
