package domain

import "time"

// Vehicle mirrors the remote vehicle resource owned by a company or rider.
type Vehicle struct {
	ID         string    `json:"id"`
	Plate      string    `json:"plate"`
	Model      string    `json:"model,omitempty"`
	Capacity   int       `json:"capacity,omitempty"`
	Wheelchair bool      `json:"wheelchair,omitempty"`
	CompanyID  string    `json:"company_id,omitempty"`
	LicenseURL string    `json:"license_url,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

// Company mirrors the remote transport-company resource.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Payment mirrors the remote payment resource. Gateway interaction happens
// entirely server-side; the client only creates and lists records.
type Payment struct {
	ID        string    `json:"id"`
	RideID    string    `json:"ride_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency,omitempty"`
	Method    string    `json:"method,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}
