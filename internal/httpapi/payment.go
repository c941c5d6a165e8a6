package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jewelmart-backend/internal/logging"
)

type createIntentRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	OrderID string          `json:"orderId" binding:"required"`
}

func (s *Server) createPaymentIntent(c *gin.Context) {
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid input")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}
	amount, okA := toPaise(req.Amount)
	if !okA {
		fail(c, http.StatusBadRequest, "invalid amount provided")
		return
	}
	intent, err := s.payments.CreateIntent(c.Request.Context(), orderID, amount)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

// handleWebhook reads the raw body because the signature covers the
// exact bytes. No bearer auth here: the signature is the auth, and a
// failed verification must return non-2xx so the processor redelivers.
func (s *Server) handleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, "unreadable payload")
		return
	}
	signature := c.GetHeader("stripe-signature")
	if err := s.payments.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		logging.Log(logging.Fields{Service: "api", Step: "webhook", Status: "error", Message: err.Error()})
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
