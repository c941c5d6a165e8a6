package payment

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
	"github.com/stripe/stripe-go/v78/webhook"
)

// Stripe implements Processor. Amounts are already in paise; intents are
// minted in INR with automatic payment methods, matching the hosted
// card form on the storefront.
type Stripe struct {
	webhookSecret string
}

func NewStripe(apiKey, webhookSecret string) *Stripe {
	stripe.Key = apiKey
	return &Stripe{webhookSecret: webhookSecret}
}

func (s *Stripe) CreateIntent(ctx context.Context, amountPaise int64, orderID, userID string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountPaise),
		Currency: stripe.String(string(stripe.CurrencyINR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("orderId", orderID)
	params.AddMetadata("userId", userID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("creating payment intent: %w", err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *Stripe) VerifyWebhook(payload []byte, sigHeader string) (Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return Event{}, fmt.Errorf("decoding event payload: %w", err)
	}
	return Event{
		Type:     string(event.Type),
		IntentID: pi.ID,
		OrderID:  pi.Metadata["orderId"],
		UserID:   pi.Metadata["userId"],
	}, nil
}
