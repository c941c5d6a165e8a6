// Package payment bridges orders to the external payment processor. It
// is the only package that talks outward for payment purposes; the rest
// of the system sees intents and webhook events, never Stripe types.
package payment

import (
	"context"
	"errors"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrOrderAlreadyPaid = errors.New("order already paid")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Intent is the client-usable payment handle.
type Intent struct {
	ID           string `json:"paymentIntentId"`
	ClientSecret string `json:"clientSecret"`
}

// Event is a verified webhook delivery, reduced to what reconciliation
// needs. OrderID and UserID come from the intent metadata stamped at
// creation time.
type Event struct {
	Type     string
	IntentID string
	OrderID  string
	UserID   string
}

const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

type Processor interface {
	CreateIntent(ctx context.Context, amountPaise int64, orderID, userID string) (Intent, error)

	// VerifyWebhook authenticates a raw delivery against its signature
	// header. It fails closed: an unverifiable payload yields
	// ErrInvalidSignature and no Event, regardless of content.
	VerifyWebhook(payload []byte, sigHeader string) (Event, error)
}
