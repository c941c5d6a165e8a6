package outbox

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"jewelmart-backend/internal/logging"
)

type KafkaClient struct {
	Brokers []string
}

func NewKafkaClient(brokers []string) *KafkaClient {
	return &KafkaClient{Brokers: brokers}
}

func (c *KafkaClient) Enabled() bool {
	return len(c.Brokers) > 0
}

func (c *KafkaClient) NewWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// Dispatcher drains the outbox into Kafka. Records stay pending until a
// publish succeeds, so delivery is at-least-once; consumers dedupe on
// event_id.
type Dispatcher struct {
	log      *Log
	writer   *kafka.Writer
	interval time.Duration
}

func NewDispatcher(log *Log, writer *kafka.Writer, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Dispatcher{log: log, writer: writer, interval: interval}
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	records, err := d.log.FetchPending(ctx, 100)
	if err != nil {
		logging.Log(logging.Fields{Service: "outbox", Step: "fetch_pending", Status: "error", Message: err.Error()})
		return
	}
	for _, rec := range records {
		msg := kafka.Message{
			Key:   []byte(rec.Key),
			Value: rec.Payload,
			Time:  time.Now().UTC(),
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(rec.EventID)},
				{Key: "event_type", Value: []byte(rec.EventType)},
			},
		}
		if err := d.writer.WriteMessages(ctx, msg); err != nil {
			logging.Log(logging.Fields{Service: "outbox", EventID: rec.EventID, Step: "publish", Status: "error", Message: err.Error()})
			return
		}
		if err := d.log.MarkSent(ctx, rec.ID); err != nil {
			logging.Log(logging.Fields{Service: "outbox", EventID: rec.EventID, Step: "mark_sent", Status: "error", Message: err.Error()})
			return
		}
	}
}
