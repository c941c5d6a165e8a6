package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Monetary amounts are stored in paise (integer minor units). The HTTP
// layer converts rupee decimals at the boundary.

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Phone    string             `bson:"phone" json:"phone"`
	Role     string             `bson:"role" json:"role"`
	Password string             `bson:"password" json:"password,omitempty"`
}

type StockStatus string

const (
	InStock    StockStatus = "in_stock"
	LowStock   StockStatus = "low_stock"
	OutOfStock StockStatus = "out_of_stock"
)

type StockSettings struct {
	LowStockThreshold int  `bson:"lowStockThreshold" json:"lowStockThreshold"`
	NotifyOnLow       bool `bson:"notifyOnLow" json:"notifyOnLow"`
}

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Image              string             `bson:"image" json:"image"`
	AdditionalImages   []string           `bson:"additionalImages,omitempty" json:"additionalImages,omitempty"`
	ProductName        string             `bson:"productName" json:"productName"`
	ProductDescription string             `bson:"productDescription" json:"productDescription"`
	Recipient          string             `bson:"recipient" json:"recipient"`
	Category           string             `bson:"category" json:"category"`
	Jewellery          string             `bson:"jewellery" json:"jewellery"`
	Price              int64              `bson:"price" json:"price"`
	SalePrice          int64              `bson:"salePrice" json:"salePrice"`
	Stock              int                `bson:"stock" json:"stock"`
	StockSettings      StockSettings      `bson:"stockSettings" json:"stockSettings"`
	CreatedAt          time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// PopulatedCartItem is the cart line the API returns, joined with the
// product fields the storefront renders next to it.
type PopulatedCartItem struct {
	ProductID      primitive.ObjectID `json:"productId"`
	ProductName    string             `json:"productName"`
	Image          string             `json:"image"`
	Price          int64              `json:"price"`
	SalePrice      int64              `json:"salePrice"`
	Quantity       int                `json:"quantity"`
	AvailableStock int                `json:"availableStock"`
}

type Address struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	Address string             `bson:"address" json:"address"`
	City    string             `bson:"city" json:"city"`
	Pincode string             `bson:"pincode" json:"pincode"`
	Phone   string             `bson:"phone" json:"phone"`
	Notes   string             `bson:"notes" json:"notes"`
}

type OrderStatus string

const (
	OrderPending       OrderStatus = "pending"
	OrderProcessing    OrderStatus = "processing"
	OrderShipped       OrderStatus = "shipped"
	OrderDelivered     OrderStatus = "delivered"
	OrderCancelled     OrderStatus = "cancelled"
	OrderPaymentFailed OrderStatus = "payment_failed"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     int64              `bson:"price" json:"price"`
}

type StatusEntry struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     int64              `bson:"totalAmount" json:"totalAmount"`
	ShippingAddress primitive.ObjectID `bson:"shippingAddress" json:"shippingAddress"`
	PaymentStatus   PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	Status          OrderStatus        `bson:"status" json:"status"`
	StatusHistory   []StatusEntry      `bson:"statusHistory" json:"statusHistory"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	LastModified    time.Time          `bson:"lastModified" json:"lastModified"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
