package service

import (
	"encoding/json"
	"errors"

	"github.com/IshratJahanEkra/BodyId/config"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/webhook"
)

var (
	// ErrPaymentNotConfigured is returned by the constructor when the Stripe
	// secret key is missing.
	ErrPaymentNotConfigured = errors.New("payment gateway is not configured")

	// ErrInvalidSignature is returned when a webhook payload fails
	// signature verification. The whole event is rejected; redelivery is the
	// processor's responsibility.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

// MetadataAppointmentID is the intent metadata key carrying the appointment id.
const MetadataAppointmentID = "appointment_id"

// PaymentEvent is a verified, decoded processor webhook event.
type PaymentEvent struct {
	Type          string
	PaymentID     string
	AppointmentID string
	AmountMinor   int64
}

// EventPaymentSucceeded is the event type that confirms a payment.
const EventPaymentSucceeded = "payment_intent.succeeded"

// PaymentGateway is the outbound payment processor interface.
type PaymentGateway interface {
	// CreateIntent starts a payment for the given amount in minor currency
	// units and returns the processor intent id and its client-side secret.
	CreateIntent(amountMinor int64, appointmentID string) (intentID, clientSecret string, err error)

	// VerifyWebhook checks the payload signature and decodes the event.
	VerifyWebhook(payload []byte, signature string) (*PaymentEvent, error)
}

type stripeGateway struct {
	webhookSecret string
}

// NewStripeGateway builds a PaymentGateway backed by Stripe. The secret key is
// installed process-wide, matching how the Stripe SDK is designed to be used.
func NewStripeGateway(cfg config.StripeConfig) (PaymentGateway, error) {
	if cfg.SecretKey == "" {
		return nil, ErrPaymentNotConfigured
	}

	stripe.Key = cfg.SecretKey

	return &stripeGateway{webhookSecret: cfg.WebhookSecret}, nil
}

func (g *stripeGateway) CreateIntent(amountMinor int64, appointmentID string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata(MetadataAppointmentID, appointmentID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", "", err
	}

	return intent.ID, intent.ClientSecret, nil
}

func (g *stripeGateway) VerifyWebhook(payload []byte, signature string) (*PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	decoded := &PaymentEvent{Type: string(event.Type)}

	if decoded.Type == EventPaymentSucceeded {
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, err
		}
		decoded.PaymentID = intent.ID
		decoded.AmountMinor = intent.Amount
		decoded.AppointmentID = intent.Metadata[MetadataAppointmentID]
	}

	return decoded, nil
}
