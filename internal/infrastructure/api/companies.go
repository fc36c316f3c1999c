package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mediride/transit-client/internal/core/domain"
)

// Companies wraps the /companies endpoints.
type Companies struct {
	c *Client
}

func NewCompanies(c *Client) *Companies {
	return &Companies{c: c}
}

func (co *Companies) List(ctx context.Context) ([]domain.Company, error) {
	var raw json.RawMessage
	err := co.c.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         "/companies",
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return UnwrapList[domain.Company](raw, "companies")
}

func (co *Companies) Get(ctx context.Context, id string) (*domain.Company, error) {
	var raw json.RawMessage
	err := co.c.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         fmt.Sprintf("/companies/%s", url.PathEscape(id)),
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return Unwrap[domain.Company](raw, "company")
}

// Riders lists the riders employed by a company.
func (co *Companies) Riders(ctx context.Context, id string) ([]domain.User, error) {
	var raw json.RawMessage
	err := co.c.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         fmt.Sprintf("/companies/%s/riders", url.PathEscape(id)),
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return UnwrapList[domain.User](raw, "riders")
}
