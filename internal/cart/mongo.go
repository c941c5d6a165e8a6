package cart

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jewelmart-backend/internal/models"
)

type Mongo struct {
	carts *mongo.Collection
}

func NewMongo(carts *mongo.Collection) *Mongo {
	return &Mongo{carts: carts}
}

func (m *Mongo) Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	var c models.Cart
	err := m.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, nil
}

func (m *Mongo) Put(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) error {
	_, err := m.carts.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": items}},
		options.Update().SetUpsert(true),
	)
	return err
}
