package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mediride/transit-client/internal/core/domain"
	"github.com/mediride/transit-client/internal/core/ports"
)

// History wraps the /history endpoint.
type History struct {
	c *Client
}

var _ ports.HistoryAPI = (*History)(nil)

func NewHistory(c *Client) *History {
	return &History{c: c}
}

func (h *History) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	var raw json.RawMessage
	err := h.c.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         "/history",
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return UnwrapList[domain.HistoryEntry](raw, "history")
}
