package domain

import "time"

// RideStatus is the lifecycle state of a ride as reported by the backend.
// The client renders these states but never transitions them itself.
type RideStatus string

const (
	RideRequested RideStatus = "requested"
	RideAccepted  RideStatus = "accepted"
	RideEnRoute   RideStatus = "en_route"
	RideCompleted RideStatus = "completed"
	RideCancelled RideStatus = "cancelled"
)

// Location is a pickup or dropoff point.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

// Ride mirrors the remote ride resource.
type Ride struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	RiderID     string     `json:"rider_id,omitempty"`
	VehicleID   string     `json:"vehicle_id,omitempty"`
	Pickup      Location   `json:"pickup"`
	Dropoff     Location   `json:"dropoff"`
	Status      RideStatus `json:"status"`
	Fare        float64    `json:"fare,omitempty"`
	ScheduledAt time.Time  `json:"scheduled_at,omitzero"`
	CreatedAt   time.Time  `json:"created_at,omitzero"`
}

// RideRequest is the payload for requesting a new ride.
type RideRequest struct {
	Pickup      Location  `json:"pickup"`
	Dropoff     Location  `json:"dropoff"`
	ScheduledAt time.Time `json:"scheduled_at,omitzero"`
	Notes       string    `json:"notes,omitempty"`
}

// HistoryEntry is one row of the user's trip history feed.
type HistoryEntry struct {
	ID         string     `json:"id"`
	RideID     string     `json:"ride_id"`
	Status     RideStatus `json:"status"`
	Fare       float64    `json:"fare,omitempty"`
	OccurredAt time.Time  `json:"occurred_at,omitzero"`
}
