package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mediride/transit-client/internal/core/domain"
	"github.com/mediride/transit-client/internal/core/ports"
)

// Rides wraps the /rides endpoints.
type Rides struct {
	c *Client
}

var _ ports.RideAPI = (*Rides)(nil)

func NewRides(c *Client) *Rides {
	return &Rides{c: c}
}

func (r *Rides) Request(ctx context.Context, req domain.RideRequest) (*domain.Ride, error) {
	var raw json.RawMessage
	err := r.c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         "/rides",
		Body:         req,
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return Unwrap[domain.Ride](raw, "ride")
}

func (r *Rides) Get(ctx context.Context, id string) (*domain.Ride, error) {
	var raw json.RawMessage
	err := r.c.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         fmt.Sprintf("/rides/%s", url.PathEscape(id)),
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return Unwrap[domain.Ride](raw, "ride")
}

func (r *Rides) List(ctx context.Context) ([]domain.Ride, error) {
	var raw json.RawMessage
	err := r.c.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         "/rides",
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return UnwrapList[domain.Ride](raw, "rides")
}

func (r *Rides) Cancel(ctx context.Context, id string) (*domain.Ride, error) {
	var raw json.RawMessage
	err := r.c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         fmt.Sprintf("/rides/%s/cancel", url.PathEscape(id)),
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return Unwrap[domain.Ride](raw, "ride")
}
