package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/checkout"
	"jewelmart-backend/internal/models"
)

type orderItemPayload struct {
	ProductID string          `json:"productId" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

type createOrderRequest struct {
	Items           []orderItemPayload `json:"items" binding:"required,min=1,dive"`
	TotalAmount     decimal.Decimal    `json:"totalAmount" binding:"required"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
}

// createOrder is the checkout entry point: the orchestrator commits
// stock, creates the order and mints the payment intent in one pass.
func (s *Server) createOrder(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid order data")
		return
	}
	addressID, err := primitive.ObjectIDFromHex(req.ShippingAddress)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid address id")
		return
	}
	total, okT := toPaise(req.TotalAmount)
	if !okT || total <= 0 {
		fail(c, http.StatusBadRequest, "invalid total amount")
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		productID, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product id")
			return
		}
		price, okP := toPaise(it.Price)
		if !okP || price < 0 {
			fail(c, http.StatusBadRequest, "invalid price")
			return
		}
		items = append(items, models.OrderItem{ProductID: productID, Quantity: it.Quantity, Price: price})
	}

	res, err := s.checkout.Checkout(c.Request.Context(), checkout.Request{
		UserID:      userID,
		Items:       items,
		TotalAmount: total,
		AddressID:   addressID,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"data":            res.Order,
		"paymentIntentId": res.IntentID,
		"clientSecret":    res.ClientSecret,
	})
}

func (s *Server) getUserOrders(c *gin.Context) {
	if !s.requireOwnUser(c) {
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	orders, err := s.orders.ListForUser(c.Request.Context(), userID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, orders)
}

func (s *Server) getOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := s.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		failErr(c, err)
		return
	}
	// Customers may only read their own orders; admins read any.
	if o.UserID.Hex() != c.GetString("userId") && c.GetString("role") != "admin" {
		fail(c, http.StatusForbidden, "forbidden")
		return
	}
	ok(c, o)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid input")
		return
	}
	o, err := s.orders.AppendStatus(c.Request.Context(), orderID, models.OrderStatus(req.Status), req.Note)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, o)
}
