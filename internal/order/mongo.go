package order

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"jewelmart-backend/internal/models"
)

type MongoRepository struct {
	orders *mongo.Collection
}

func NewMongoRepository(orders *mongo.Collection) *MongoRepository {
	return &MongoRepository{orders: orders}
}

func (r *MongoRepository) Insert(ctx context.Context, o *models.Order) (primitive.ObjectID, error) {
	res, err := r.orders.InsertOne(ctx, o)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (r *MongoRepository) Find(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var o models.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *MongoRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cur, err := r.orders.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoRepository) PushStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, entry models.StatusEntry) error {
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set":  bson.M{"status": status, "lastModified": entry.Timestamp},
			"$push": bson.M{"statusHistory": entry},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *MongoRepository) SetPaymentIntent(ctx context.Context, id primitive.ObjectID, intentID string) error {
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"paymentIntentId": intentID, "lastModified": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ApplyPaymentResult writes status, payment status and the history entry
// in one conditional update. The paymentStatus filter makes a replayed
// terminal event match zero documents instead of appending twice.
func (r *MongoRepository) ApplyPaymentResult(ctx context.Context, id primitive.ObjectID, ps models.PaymentStatus, status models.OrderStatus, entry models.StatusEntry, paidAt *time.Time) (bool, error) {
	set := bson.M{
		"paymentStatus": ps,
		"status":        status,
		"lastModified":  entry.Timestamp,
	}
	if paidAt != nil {
		set["paidAt"] = *paidAt
	}
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": id, "paymentStatus": bson.M{"$ne": ps}},
		bson.M{"$set": set, "$push": bson.M{"statusHistory": entry}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	// No match: duplicate delivery, or the order does not exist at all.
	count, err := r.orders.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrOrderNotFound
	}
	return false, nil
}
