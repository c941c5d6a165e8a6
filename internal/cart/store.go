// Package cart holds the per-user shopping cart. The cart is advisory:
// it is never the source of truth for stock, and checkout re-validates
// every line against the inventory ledger before committing anything.
package cart

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("item not found in cart")
)

// Store is the persistence surface: read a user's cart, write back the
// full item list. An absent cart reads as an empty one.
type Store interface {
	Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	Put(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) error
}

// ProductReader is the slice of the catalog the cart needs for advisory
// stock checks and for populating responses.
type ProductReader interface {
	Find(ctx context.Context, productID primitive.ObjectID) (models.Product, error)
}

type Service struct {
	store    Store
	ledger   inventory.Ledger
	products ProductReader
}

func NewService(store Store, ledger inventory.Ledger, products ProductReader) *Service {
	return &Service{store: store, ledger: ledger, products: products}
}

func (s *Service) Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	return s.store.Get(ctx, userID)
}

// Add puts quantity more units of a product in the cart. The stock check
// here is advisory only; the ledger enforces the real limit at checkout.
func (s *Service) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, ErrInvalidQuantity
	}
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}

	desired := quantity
	idx := -1
	for i, item := range c.Items {
		if item.ProductID == productID {
			desired += item.Quantity
			idx = i
			break
		}
	}

	avail, err := s.ledger.CheckAvailability(ctx, productID, desired)
	if err != nil {
		return models.Cart{}, err
	}
	if !avail.Available {
		return models.Cart{}, inventory.ErrInsufficientStock
	}

	if idx >= 0 {
		c.Items[idx].Quantity = desired
	} else {
		c.Items = append(c.Items, models.CartItem{ProductID: productID, Quantity: desired})
	}
	if err := s.store.Put(ctx, userID, c.Items); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, ErrInvalidQuantity
	}
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	idx := -1
	for i, item := range c.Items {
		if item.ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Cart{}, ErrItemNotFound
	}

	if quantity > c.Items[idx].Quantity {
		avail, err := s.ledger.CheckAvailability(ctx, productID, quantity)
		if err != nil {
			return models.Cart{}, err
		}
		if !avail.Available {
			return models.Cart{}, inventory.ErrInsufficientStock
		}
	}

	c.Items[idx].Quantity = quantity
	if err := s.store.Put(ctx, userID, c.Items); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

func (s *Service) Remove(ctx context.Context, userID, productID primitive.ObjectID) (models.Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	items := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	c.Items = items
	if err := s.store.Put(ctx, userID, c.Items); err != nil {
		return models.Cart{}, err
	}
	return c, nil
}

// Clear empties the cart. Idempotent: clearing an absent or already
// empty cart succeeds and returns an empty cart.
func (s *Service) Clear(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	if err := s.store.Put(ctx, userID, []models.CartItem{}); err != nil {
		return models.Cart{}, err
	}
	return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
}

// Populate joins cart lines with the product fields the storefront
// renders. Lines whose product has disappeared are dropped.
func (s *Service) Populate(ctx context.Context, c models.Cart) ([]models.PopulatedCartItem, error) {
	out := make([]models.PopulatedCartItem, 0, len(c.Items))
	for _, item := range c.Items {
		product, err := s.products.Find(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, inventory.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, models.PopulatedCartItem{
			ProductID:      product.ID,
			ProductName:    product.ProductName,
			Image:          product.Image,
			Price:          product.Price,
			SalePrice:      product.SalePrice,
			Quantity:       item.Quantity,
			AvailableStock: product.Stock,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}
