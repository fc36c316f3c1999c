package domain

import "strings"

// Storage keys for the persisted credential record. The three keys are
// written and removed as a set; partial presence means "not authenticated".
const (
	KeyToken = "auth_token"
	KeyUser  = "auth_user"
	KeyRole  = "auth_role"
)

// Credential is the persisted session record read back at startup.
type Credential struct {
	Token string
	User  *User
}

// Complete reports whether the record is usable: both halves present.
// A token without a user (or vice versa) is treated as absent by loaders.
func (c Credential) Complete() bool {
	return c.Token != "" && c.User != nil
}

// NormalizeToken strips any "Bearer " scheme prefix from a stored token so
// the raw credential is what gets persisted and the pipeline adds the scheme
// exactly once. Centralised here per the keychain's contract; call on both
// write and read paths.
func NormalizeToken(token string) string {
	token = strings.TrimSpace(token)
	for {
		rest, ok := cutPrefixFold(token, "bearer ")
		if !ok {
			return token
		}
		token = strings.TrimSpace(rest)
	}
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
