package ports

import (
	"context"

	"github.com/mediride/transit-client/internal/core/domain"
)

// CredentialStore persists the bearer token and cached user between process
// runs. All methods fail soft: Get never returns an error (read or decode
// problems log and report absent), and Clear never blocks a logout.
type CredentialStore interface {
	// Get returns the stored credential record. ok is false when nothing
	// usable is stored, including when only part of the record survives.
	Get(ctx context.Context) (domain.Credential, bool)
	// Set writes token and user as one logical transaction.
	Set(ctx context.Context, token string, user *domain.User) error
	// Clear removes the whole record.
	Clear(ctx context.Context)
}
