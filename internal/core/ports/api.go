package ports

import (
	"context"
	"io"

	"github.com/mediride/transit-client/internal/core/domain"
)

// AuthAPI is the slice of the remote API the session state machine needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.AuthSession, error)
	Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthSession, error)
	// Logout invalidates the token server-side. Best effort: the session
	// clears local state whether or not this succeeds.
	Logout(ctx context.Context) error
}

// UserAPI covers the user resource beyond authentication.
type UserAPI interface {
	Me(ctx context.Context) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	UploadAvatar(ctx context.Context, userID, filename string, r io.Reader) (*domain.User, error)
}

// RideAPI covers the ride resource.
type RideAPI interface {
	Request(ctx context.Context, req domain.RideRequest) (*domain.Ride, error)
	Get(ctx context.Context, id string) (*domain.Ride, error)
	List(ctx context.Context) ([]domain.Ride, error)
	Cancel(ctx context.Context, id string) (*domain.Ride, error)
}

// HistoryAPI covers the trip history feed.
type HistoryAPI interface {
	List(ctx context.Context) ([]domain.HistoryEntry, error)
}
