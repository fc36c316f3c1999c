package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mediride/transit-client/internal/core/domain"
)

// Vehicles wraps the /vehicles endpoints.
type Vehicles struct {
	c *Client
}

func NewVehicles(c *Client) *Vehicles {
	return &Vehicles{c: c}
}

// VehicleInput is the payload for registering a vehicle.
type VehicleInput struct {
	Plate      string `json:"plate"`
	Model      string `json:"model,omitempty"`
	Capacity   int    `json:"capacity,omitempty"`
	Wheelchair bool   `json:"wheelchair,omitempty"`
}

func (v *Vehicles) Create(ctx context.Context, input VehicleInput) (*domain.Vehicle, error) {
	var raw json.RawMessage
	err := v.c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         "/vehicles",
		Body:         input,
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return Unwrap[domain.Vehicle](raw, "vehicle")
}

func (v *Vehicles) List(ctx context.Context) ([]domain.Vehicle, error) {
	var raw json.RawMessage
	err := v.c.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         "/vehicles",
		RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return UnwrapList[domain.Vehicle](raw, "vehicles")
}

// UploadLicense attaches a license document to a vehicle as a multipart
// form upload.
func (v *Vehicles) UploadLicense(ctx context.Context, vehicleID, filename string, r io.Reader) (*domain.Vehicle, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/vehicles/%s/license", url.PathEscape(vehicleID))
	if err := v.c.Upload(ctx, path, "license", filename, r, &raw); err != nil {
		return nil, err
	}
	return Unwrap[domain.Vehicle](raw, "vehicle")
}
