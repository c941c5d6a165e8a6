package order

import "jewelmart-backend/internal/models"

// transitions is the allowed from -> to table for order status. Callers
// cannot push an order into an arbitrary status; anything absent here is
// rejected. Re-applying the current status is permitted and simply adds
// a history entry.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:       {models.OrderProcessing, models.OrderCancelled, models.OrderPaymentFailed},
	models.OrderProcessing:    {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:       {models.OrderDelivered},
	models.OrderDelivered:     {},
	models.OrderCancelled:     {},
	models.OrderPaymentFailed: {models.OrderProcessing, models.OrderCancelled},
}

func ValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

func CanTransition(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
