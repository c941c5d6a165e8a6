package main

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jewelmart-backend/internal/cart"
	"jewelmart-backend/internal/catalog"
	"jewelmart-backend/internal/checkout"
	"jewelmart-backend/internal/config"
	"jewelmart-backend/internal/httpapi"
	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/logging"
	"jewelmart-backend/internal/order"
	"jewelmart-backend/internal/outbox"
	"jewelmart-backend/internal/payment"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.DatabaseName)

	ledger := inventory.NewMongo(db.Collection("products"))
	cat := catalog.NewMongo(db.Collection("products"))
	carts := cart.NewService(cart.NewMongo(db.Collection("carts")), ledger, cat)
	orders := order.NewService(order.NewMongoRepository(db.Collection("orders")))
	events := outbox.NewLog(db.Collection("outbox"))

	processor := payment.NewStripe(cfg.StripeKey, cfg.StripeWebhookSecret)
	payments := payment.NewCoordinator(orders, carts, ledger, processor, events, cfg.ReleaseStockOnPaymentFailure)
	orchestrator := checkout.NewOrchestrator(ledger, orders, payments, events)

	kafkaClient := outbox.NewKafkaClient(cfg.KafkaBrokers)
	if kafkaClient.Enabled() {
		writer := kafkaClient.NewWriter(outbox.TopicOrderEvents)
		defer writer.Close()
		dispatcher := outbox.NewDispatcher(events, writer, time.Second)
		go dispatcher.Run(context.Background())
		logging.Log(logging.Fields{Service: "server", Step: "outbox_dispatcher", Status: "started"})
	} else {
		logging.Log(logging.Fields{Service: "server", Step: "outbox_dispatcher", Status: "disabled", Message: "no kafka brokers configured"})
	}

	metrics := httpapi.NewServerMetrics(prometheus.DefaultRegisterer)
	server := httpapi.NewServer(
		cfg,
		httpapi.NewMongoUserStore(db.Collection("users")),
		httpapi.NewMongoAddressStore(db.Collection("addresses")),
		cat,
		ledger,
		carts,
		orders,
		orchestrator,
		payments,
		metrics,
	)

	logging.Log(logging.Fields{Service: "server", Step: "listen", Status: "starting", Message: cfg.ListenAddr})
	if err := server.Router().Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
