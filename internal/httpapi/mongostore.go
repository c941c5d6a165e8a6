package httpapi

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"jewelmart-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

type MongoUserStore struct {
	users *mongo.Collection
}

func NewMongoUserStore(users *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{users: users}
}

func (s *MongoUserStore) Insert(ctx context.Context, u models.User) (models.User, error) {
	res, err := s.users.InsertOne(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *MongoUserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email, phone string) error {
	update := bson.M{}
	if name != "" {
		update["name"] = name
	}
	if email != "" {
		update["email"] = email
	}
	if phone != "" {
		update["phone"] = phone
	}
	if len(update) == 0 {
		return nil
	}
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

type MongoAddressStore struct {
	addresses *mongo.Collection
}

func NewMongoAddressStore(addresses *mongo.Collection) *MongoAddressStore {
	return &MongoAddressStore{addresses: addresses}
}

func (s *MongoAddressStore) Insert(ctx context.Context, a models.Address) (models.Address, error) {
	res, err := s.addresses.InsertOne(ctx, a)
	if err != nil {
		return models.Address{}, err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return a, nil
}

func (s *MongoAddressStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	cur, err := s.addresses.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var out []models.Address
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoAddressStore) Update(ctx context.Context, id, userID primitive.ObjectID, a models.Address) (models.Address, error) {
	res, err := s.addresses.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{
			"address": a.Address,
			"city":    a.City,
			"pincode": a.Pincode,
			"phone":   a.Phone,
			"notes":   a.Notes,
		}},
	)
	if err != nil {
		return models.Address{}, err
	}
	if res.MatchedCount == 0 {
		return models.Address{}, ErrNotFound
	}
	a.ID = id
	a.UserID = userID
	return a, nil
}

func (s *MongoAddressStore) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.addresses.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
