package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jewelmart-backend/internal/models"
)

func seed(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	ctx := context.Background()
	for _, p := range []models.Product{
		{ProductName: "Gold Ring", Recipient: "her", Category: "gold", Jewellery: "ring", Price: 250000, Stock: 10, StockSettings: models.StockSettings{LowStockThreshold: 5}},
		{ProductName: "Silver Chain", Recipient: "him", Category: "silver", Jewellery: "chain", Price: 80000, Stock: 3, StockSettings: models.StockSettings{LowStockThreshold: 5}},
		{ProductName: "Pearl Earrings", Recipient: "her", Category: "pearl", Jewellery: "earrings", Price: 120000, Stock: 0, StockSettings: models.StockSettings{LowStockThreshold: 5}},
	} {
		_, err := m.Create(ctx, p)
		require.NoError(t, err)
	}
	return m
}

func TestListSortsByPriceByDefault(t *testing.T) {
	m := seed(t)
	products, err := m.List(context.Background(), Filters{})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Silver Chain", products[0].ProductName)
	assert.Equal(t, "Gold Ring", products[2].ProductName)
}

func TestListFiltersByRecipient(t *testing.T) {
	m := seed(t)
	products, err := m.List(context.Background(), Filters{Recipients: []string{"her"}})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestListFiltersByDerivedStockStatus(t *testing.T) {
	m := seed(t)

	low, err := m.List(context.Background(), Filters{StockStatus: models.LowStock})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Silver Chain", low[0].ProductName)

	out, err := m.List(context.Background(), Filters{StockStatus: models.OutOfStock})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Pearl Earrings", out[0].ProductName)
}

func TestCreateDefaultsLowStockThreshold(t *testing.T) {
	m := NewMemory()
	p, err := m.Create(context.Background(), models.Product{ProductName: "Bangle", Stock: 7})
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockSettings.LowStockThreshold)
}
