package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mediride/transit-client/internal/core/domain"
)

// Payments wraps the /payments endpoints. Gateway interaction is entirely
// server-side; the client only creates and lists payment records.
type Payments struct {
	c *Client
}

func NewPayments(c *Client) *Payments {
	return &Payments{c: c}
}

// PaymentInput is the payload for recording a payment against a ride.
type PaymentInput struct {
	RideID   string  `json:"ride_id"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

func (p *Payments) Create(ctx context.Context, input PaymentInput) (*domain.Payment, error) {
	var raw json.RawMessage
	err := p.c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         "/payments",
		Body:         input,
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return Unwrap[domain.Payment](raw, "payment")
}

func (p *Payments) List(ctx context.Context) ([]domain.Payment, error) {
	var raw json.RawMessage
	err := p.c.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         "/payments",
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return UnwrapList[domain.Payment](raw, "payments")
}
