// Package outbox is a durable event log in the document store. State
// mutations record their events here in the same flow, and a background
// dispatcher publishes them to Kafka, so progress survives a crash
// between the mutation and the publish.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	TopicOrderEvents = "jewelmart.order-events"

	EventOrderCreated     = "order.created"
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

// Publisher is what the domain flows see: record an event, move on.
type Publisher interface {
	Publish(ctx context.Context, topic, key, eventType string, payload any) error
}

type Record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string             `bson:"eventId" json:"event_id"`
	EventType string             `bson:"eventType" json:"event_type"`
	Topic     string             `bson:"topic" json:"topic"`
	Key       string             `bson:"key" json:"key"`
	Payload   []byte             `bson:"payload" json:"payload"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	SentAt    *time.Time         `bson:"sentAt,omitempty" json:"sent_at,omitempty"`
}

type Log struct {
	coll *mongo.Collection
}

func NewLog(coll *mongo.Collection) *Log {
	return &Log{coll: coll}
}

func (l *Log) Publish(ctx context.Context, topic, key, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	rec := Record{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Topic:     topic,
		Key:       key,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	}
	_, err = l.coll.InsertOne(ctx, rec)
	return err
}

func (l *Log) FetchPending(ctx context.Context, limit int) ([]Record, error) {
	cur, err := l.coll.Find(ctx,
		bson.M{"sentAt": nil},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Log) MarkSent(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := l.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"sentAt": now}})
	return err
}
