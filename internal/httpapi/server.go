// Package httpapi is the REST surface: gin handlers over the domain
// services, JWT bearer auth, CORS, prometheus instrumentation.
package httpapi

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/cart"
	"jewelmart-backend/internal/catalog"
	"jewelmart-backend/internal/checkout"
	"jewelmart-backend/internal/config"
	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/models"
	"jewelmart-backend/internal/order"
	"jewelmart-backend/internal/payment"
)

type UserStore interface {
	Insert(ctx context.Context, u models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email, phone string) error
}

type AddressStore interface {
	Insert(ctx context.Context, a models.Address) (models.Address, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	Update(ctx context.Context, id, userID primitive.ObjectID, a models.Address) (models.Address, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

type Server struct {
	cfg       config.Config
	users     UserStore
	addresses AddressStore
	catalog   catalog.Catalog
	ledger    inventory.Ledger
	carts     *cart.Service
	orders    *order.Service
	checkout  *checkout.Orchestrator
	payments  *payment.Coordinator
	metrics   *ServerMetrics
}

func NewServer(
	cfg config.Config,
	users UserStore,
	addresses AddressStore,
	cat catalog.Catalog,
	ledger inventory.Ledger,
	carts *cart.Service,
	orders *order.Service,
	orchestrator *checkout.Orchestrator,
	payments *payment.Coordinator,
	metrics *ServerMetrics,
) *Server {
	return &Server{
		cfg:       cfg,
		users:     users,
		addresses: addresses,
		catalog:   cat,
		ledger:    ledger,
		carts:     carts,
		orders:    orders,
		checkout:  orchestrator,
		payments:  payments,
		metrics:   metrics,
	}
}
