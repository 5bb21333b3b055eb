// Package payment charges customers through Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/charge"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/models"
)

var ErrInvalidAmount = errors.New("charge amount must be positive")

type StripeGateway struct {
	charges *charge.Client
	log     zerolog.Logger
}

func NewStripeGateway(cfg config.PaymentConfig, log zerolog.Logger) *StripeGateway {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})

	return newStripeGateway(backend, cfg.SecretKey, log)
}

func newStripeGateway(backend stripe.Backend, key string, log zerolog.Logger) *StripeGateway {
	return &StripeGateway{
		charges: &charge.Client{B: backend, Key: key},
		log:     log,
	}
}

// Charge creates a charge for req.Amount minor units against the card
// source token supplied by the client.
func (g *StripeGateway) Charge(ctx context.Context, req models.ChargeRequest) (models.Charge, error) {
	if req.Amount <= 0 {
		return models.Charge{}, ErrInvalidAmount
	}

	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		Source:   &stripe.PaymentSourceSourceParams{Token: stripe.String(req.Source)},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.Email != "" {
		params.ReceiptEmail = stripe.String(req.Email)
	}
	params.Context = ctx

	ch, err := g.charges.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			g.log.Warn().
				Str("code", string(stripeErr.Code)).
				Int("status", stripeErr.HTTPStatusCode).
				Msg("stripe charge rejected")
			return models.Charge{}, fmt.Errorf("charge declined: %s", stripeErr.Msg)
		}
		return models.Charge{}, fmt.Errorf("create charge: %w", err)
	}

	g.log.Info().Str("charge_id", ch.ID).Int64("amount", ch.Amount).Msg("charge created")

	return models.Charge{
		ID:       ch.ID,
		Amount:   ch.Amount,
		Currency: string(ch.Currency),
		Status:   string(ch.Status),
	}, nil
}
