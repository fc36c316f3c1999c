package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mediride/transit-client/internal/core/domain"
	"github.com/mediride/transit-client/internal/core/ports"
)

// Session owns the authenticated-actor view: who is logged in, their bearer
// token, and whether the initial load from durable storage is still in
// flight. One Session exists per process, explicitly constructed and passed
// where needed.
//
// "Authenticated" is always computed from token and user being present
// together; it is never stored, so it cannot drift.
type Session struct {
	api      ports.AuthAPI
	creds    ports.CredentialStore
	validate *validator.Validate
	log      zerolog.Logger

	mu      sync.Mutex
	token   string
	user    *domain.User
	loading bool
	loaded  bool
}

func NewSession(api ports.AuthAPI, creds ports.CredentialStore, log zerolog.Logger) *Session {
	return &Session{
		api:      api,
		creds:    creds,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "session").Logger(),
		loading:  true,
	}
}

// LoadFromStorage populates the session from the credential store. It runs
// at most once per process; the loading flag drops exactly once no matter
// how the read goes, so the UI can never hang on a spinner.
func (s *Session) LoadFromStorage(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return
	}
	defer func() {
		s.loading = false
		s.loaded = true
	}()

	cred, ok := s.creds.Get(ctx)
	if !ok {
		return
	}

	s.token = cred.Token
	s.user = cred.User
	s.warnIfExpired(cred.Token)
}

// Login authenticates against the backend and, on success, persists and
// adopts the returned token and user. On failure the session is left
// exactly as it was.
func (s *Session) Login(ctx context.Context, email, password string) error {
	fields := map[string]string{}
	if strings.TrimSpace(email) == "" {
		fields["email"] = "is required"
	}
	if password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}

	auth, err := s.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	s.adopt(ctx, auth)
	return nil
}

// Register validates the form locally, rejects privileged roles, and only
// then goes to the network. Successful registration logs the user in.
//
// The role policy here is defense in depth for the UI, not a security
// boundary; the server enforces it independently.
func (s *Session) Register(ctx context.Context, input domain.RegisterInput) error {
	if input.Role != "" && !input.Role.SelfRegisterable() {
		return &domain.ValidationError{
			Fields: map[string]string{"role": fmt.Sprintf("%q cannot be self-registered", input.Role)},
		}
	}
	if err := s.validateRegister(input); err != nil {
		return err
	}

	auth, err := s.api.Register(ctx, input)
	if err != nil {
		return err
	}
	s.adopt(ctx, auth)
	return nil
}

// Logout clears the session unconditionally. The server-side call is best
// effort: a failure there never stops the local logout, so this method has
// no error to return.
func (s *Session) Logout(ctx context.Context) {
	if s.IsAuthenticated() {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Debug().Err(err).Msg("server-side logout failed, clearing locally anyway")
		}
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.creds.Clear(ctx)
}

// UpdateUser replaces the cached profile and re-persists the credential
// record as a set. No network call is made; the caller already holds the
// server's version of the user.
func (s *Session) UpdateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return &domain.ValidationError{Fields: map[string]string{"user": "is required"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" || s.user == nil {
		return domain.ErrNotAuthenticated
	}

	s.user = user
	if err := s.creds.Set(ctx, s.token, user); err != nil {
		s.log.Warn().Err(err).Msg("profile update not persisted")
	}
	return nil
}

// Invalidate drops the in-memory session. The request pipeline calls this
// after a 401, having already cleared the credential store; clearing it
// again here keeps the method safe to call from anywhere.
func (s *Session) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.creds.Clear(ctx)
}

// IsAuthenticated reports whether both a token and a user are present.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// IsLoading reports whether the initial load from storage has not finished.
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the cached user, nil when unauthenticated.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// HasRole reports whether the current user holds the role. No user means
// false, never an error.
func (s *Session) HasRole(role domain.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.Role == role
}

// HasAnyRole reports whether the current user holds any of the roles.
func (s *Session) HasAnyRole(roles ...domain.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return false
	}
	for _, r := range roles {
		if s.user.Role == r {
			return true
		}
	}
	return false
}

// View returns a snapshot for the route guard.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionView{
		Authenticated: s.token != "" && s.user != nil,
		Loading:       s.loading,
		User:          s.user,
	}
}

func (s *Session) adopt(ctx context.Context, auth *domain.AuthSession) {
	if err := s.creds.Set(ctx, auth.Token, auth.User); err != nil {
		// Storage failing must not fail the login; the session just won't
		// survive a restart.
		s.log.Warn().Err(err).Msg("credential not persisted")
	}

	s.mu.Lock()
	s.token = domain.NormalizeToken(auth.Token)
	s.user = auth.User
	s.mu.Unlock()
}

func (s *Session) validateRegister(input domain.RegisterInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}

// warnIfExpired peeks at the stored JWT's expiry without verifying the
// signature (the client holds no signing key). Purely informational; the
// server's 401 remains the authority on token validity.
func (s *Session) warnIfExpired(token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		s.log.Warn().Time("expired_at", exp.Time).
			Msg("stored token is expired, expect a 401 on the next call")
	}
}
