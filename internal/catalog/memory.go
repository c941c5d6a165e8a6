package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/models"
)

type Memory struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func NewMemory() *Memory {
	return &Memory{products: make(map[primitive.ObjectID]models.Product)}
}

func (m *Memory) List(_ context.Context, f Filters) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if !matches(p.Recipient, f.Recipients) || !matches(p.Category, f.Categories) || !matches(p.Jewellery, f.Jewellery) {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out, f.SortBy)
	return FilterByStockStatus(out, f.StockStatus), nil
}

func (m *Memory) Find(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return models.Product{}, inventory.ErrProductNotFound
	}
	return p, nil
}

func (m *Memory) Create(_ context.Context, p models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.StockSettings.LowStockThreshold == 0 {
		p.StockSettings.LowStockThreshold = 5
	}
	m.products[p.ID] = p
	return p, nil
}

func matches(value string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if w == value {
			return true
		}
	}
	return false
}

func sortProducts(products []models.Product, sortBy string) {
	less := func(i, j int) bool { return products[i].Price < products[j].Price }
	switch sortBy {
	case "price-hightolow":
		less = func(i, j int) bool { return products[i].Price > products[j].Price }
	case "title-atoz":
		less = func(i, j int) bool { return products[i].ProductName < products[j].ProductName }
	case "title-ztoa":
		less = func(i, j int) bool { return products[i].ProductName > products[j].ProductName }
	case "stock-lowtohigh":
		less = func(i, j int) bool { return products[i].Stock < products[j].Stock }
	case "stock-hightolow":
		less = func(i, j int) bool { return products[i].Stock > products[j].Stock }
	}
	sort.Slice(products, less)
}
