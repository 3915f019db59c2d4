package services

import (
	"context"

	"github.com/RaheelArfeen/FitFlow-Server/internal/models"
	"github.com/google/uuid"
)

// PaymentProvider turns a positive amount into a client-usable payment
// handle. The real processor lives outside this service; bookings only ever
// see the opaque transaction reference it yields.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount float64) (*models.PaymentIntent, error)
}

// LocalPaymentProvider issues handles without an external processor. Used in
// development and as the default wiring when no processor is configured.
type LocalPaymentProvider struct{}

func NewLocalPaymentProvider() *LocalPaymentProvider {
	return &LocalPaymentProvider{}
}

func (p *LocalPaymentProvider) CreateIntent(_ context.Context, amount float64) (*models.PaymentIntent, error) {
	if amount <= 0 {
		return nil, ErrInvalidInput
	}
	return &models.PaymentIntent{
		ClientSecret:  "pi_" + uuid.NewString(),
		TransactionID: uuid.NewString(),
		Amount:        amount,
	}, nil
}
