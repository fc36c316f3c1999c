// Package keychain implements the credential store: persistence of the
// bearer token and cached user between process runs, on top of an abstract
// key-value backend.
package keychain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mediride/transit-client/internal/core/domain"
	"github.com/mediride/transit-client/internal/core/ports"
)

// Keychain stores the credential record under the fixed keys in
// domain (auth_token, auth_user, auth_role). Reads fail soft: anything that
// prevents producing a complete record logs and reports absent.
type Keychain struct {
	kv  ports.KeyValueStore
	log zerolog.Logger
}

var _ ports.CredentialStore = (*Keychain)(nil)

func New(kv ports.KeyValueStore, log zerolog.Logger) *Keychain {
	return &Keychain{kv: kv, log: log.With().Str("component", "keychain").Logger()}
}

// Get returns the stored credential record. A partially present record
// (token without user or user without token) is treated as not
// authenticated and removed so later reads agree.
func (k *Keychain) Get(ctx context.Context) (domain.Credential, bool) {
	token, tokenOK, err := k.kv.Get(ctx, domain.KeyToken)
	if err != nil {
		k.log.Warn().Err(err).Msg("token read failed")
		return domain.Credential{}, false
	}
	rawUser, userOK, err := k.kv.Get(ctx, domain.KeyUser)
	if err != nil {
		k.log.Warn().Err(err).Msg("user read failed")
		return domain.Credential{}, false
	}

	token = domain.NormalizeToken(token)
	tokenOK = tokenOK && token != ""

	if tokenOK != userOK {
		k.log.Warn().Bool("token", tokenOK).Bool("user", userOK).
			Msg("partial credential record, discarding")
		k.Clear(ctx)
		return domain.Credential{}, false
	}
	if !tokenOK {
		return domain.Credential{}, false
	}

	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		k.log.Warn().Err(err).Msg("stored user is not valid JSON, discarding")
		k.Clear(ctx)
		return domain.Credential{}, false
	}

	return domain.Credential{Token: token, User: &user}, true
}

// Set writes token, serialized user, and role as one atomic set.
func (k *Keychain) Set(ctx context.Context, token string, user *domain.User) error {
	token = domain.NormalizeToken(token)
	if token == "" || user == nil {
		return fmt.Errorf("keychain: refusing to store incomplete credential")
	}

	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("keychain: serialize user: %w", err)
	}

	pairs := map[string]string{
		domain.KeyToken: token,
		domain.KeyUser:  string(rawUser),
		domain.KeyRole:  string(user.Role),
	}
	if err := k.kv.MultiSet(ctx, pairs); err != nil {
		return fmt.Errorf("keychain: persist credential: %w", err)
	}
	return nil
}

// Clear removes the whole record. Failures log only; logout must always be
// able to proceed in memory.
func (k *Keychain) Clear(ctx context.Context) {
	err := k.kv.MultiRemove(ctx, domain.KeyToken, domain.KeyUser, domain.KeyRole)
	if err != nil {
		k.log.Warn().Err(err).Msg("credential clear failed")
	}
}
