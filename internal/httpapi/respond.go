package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jewelmart-backend/internal/cart"
	"jewelmart-backend/internal/checkout"
	"jewelmart-backend/internal/inventory"
	"jewelmart-backend/internal/order"
	"jewelmart-backend/internal/payment"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}

// failErr maps domain errors onto the taxonomy: "fix your cart" (409
// stock), caller bugs (400), conflicts (404/409), payment infra (502).
func failErr(c *gin.Context, err error) {
	var setupErr *checkout.PaymentSetupError
	if errors.As(err, &setupErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Payment setup failed, try again later",
			"orderId": setupErr.OrderID.Hex(),
		})
		return
	}

	var stockErr *checkout.StockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "Insufficient stock",
			"details": stockErr.Details,
		})
		return
	}

	switch {
	case errors.Is(err, inventory.ErrInsufficientStock):
		fail(c, http.StatusConflict, "Insufficient stock")
	case errors.Is(err, inventory.ErrProductNotFound):
		fail(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, order.ErrOrderNotFound):
		fail(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, order.ErrInvalidOrder):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrIllegalTransition):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, payment.ErrInvalidAmount):
		fail(c, http.StatusBadRequest, "Invalid amount provided")
	case errors.Is(err, payment.ErrOrderAlreadyPaid):
		fail(c, http.StatusConflict, "Order already paid")
	case errors.Is(err, payment.ErrInvalidSignature):
		fail(c, http.StatusBadRequest, "Webhook signature verification failed")
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrItemNotFound):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		fail(c, http.StatusNotFound, "not found")
	default:
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

// toPaise converts a rupee amount from the wire into integer paise,
// rejecting anything with sub-paise precision.
func toPaise(amount decimal.Decimal) (int64, bool) {
	paise := amount.Mul(decimal.NewFromInt(100))
	if !paise.IsInteger() {
		return 0, false
	}
	return paise.IntPart(), true
}
