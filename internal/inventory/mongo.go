package inventory

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"jewelmart-backend/internal/models"
)

// Mongo implements Ledger on the products collection. Commit relies on
// the server-side conditional update (filter on stock >= quantity plus
// $inc in one document operation) so two racing commits can never drive
// stock negative; application-level read-modify-write is not safe here.
type Mongo struct {
	products *mongo.Collection
}

func NewMongo(products *mongo.Collection) *Mongo {
	return &Mongo{products: products}
}

func (m *Mongo) CheckAvailability(ctx context.Context, productID primitive.ObjectID, quantity int) (Availability, error) {
	var product models.Product
	err := m.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Availability{}, ErrProductNotFound
	}
	if err != nil {
		return Availability{}, err
	}
	return Availability{
		Available:    product.Stock >= quantity,
		CurrentStock: product.Stock,
		StockStatus:  string(Status(product.Stock, product.StockSettings.LowStockThreshold)),
	}, nil
}

func (m *Mongo) Commit(ctx context.Context, productID primitive.ObjectID, quantity int) error {
	res := m.products.FindOneAndUpdate(ctx,
		bson.M{"_id": productID, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err := res.Err(); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		// No match: either the product is missing or stock was short.
		count, cerr := m.products.CountDocuments(ctx, bson.M{"_id": productID})
		if cerr != nil {
			return cerr
		}
		if count == 0 {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}

func (m *Mongo) Release(ctx context.Context, productID primitive.ObjectID, quantity int) error {
	res, err := m.products.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$inc": bson.M{"stock": quantity}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
