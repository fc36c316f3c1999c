package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mediride/transit-client/internal/core/domain"
)

type stubAuthAPI struct {
	loginFn    func(ctx context.Context, email, password string) (*domain.AuthSession, error)
	registerFn func(ctx context.Context, input domain.RegisterInput) (*domain.AuthSession, error)
	logoutErr  error

	loginCalls    int
	registerCalls int
	logoutCalls   int
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	s.loginCalls++
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthAPI) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthSession, error) {
	s.registerCalls++
	return s.registerFn(ctx, input)
}

func (s *stubAuthAPI) Logout(context.Context) error {
	s.logoutCalls++
	return s.logoutErr
}

type stubCreds struct {
	token  string
	user   *domain.User
	setErr error
	sets   int
	clears int
}

func (s *stubCreds) Get(context.Context) (domain.Credential, bool) {
	if s.token == "" || s.user == nil {
		return domain.Credential{}, false
	}
	return domain.Credential{Token: s.token, User: s.user}, true
}

func (s *stubCreds) Set(_ context.Context, token string, user *domain.User) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.token, s.user = token, user
	return nil
}

func (s *stubCreds) Clear(context.Context) {
	s.clears++
	s.token, s.user = "", nil
}

func okLogin(token string, user *domain.User) func(context.Context, string, string) (*domain.AuthSession, error) {
	return func(context.Context, string, string) (*domain.AuthSession, error) {
		return &domain.AuthSession{Token: token, User: user}, nil
	}
}

// checkAuthInvariant asserts isAuthenticated == (token set && user set).
func checkAuthInvariant(t *testing.T, s *Session) {
	t.Helper()
	want := s.Token() != "" && s.User() != nil
	if s.IsAuthenticated() != want {
		t.Fatalf("auth invariant violated: authenticated=%v token=%q user=%v",
			s.IsAuthenticated(), s.Token(), s.User())
	}
}

func TestSession_FreshInstall(t *testing.T) {
	s := NewSession(&stubAuthAPI{}, &stubCreds{}, zerolog.Nop())

	if !s.IsLoading() {
		t.Fatalf("expected loading before first LoadFromStorage")
	}

	s.LoadFromStorage(context.Background())

	if s.IsLoading() {
		t.Fatalf("loading must end after LoadFromStorage")
	}
	if s.IsAuthenticated() {
		t.Fatalf("fresh install must be unauthenticated")
	}
	checkAuthInvariant(t, s)
}

func TestSession_LoadFromStorageWithStoredCredential(t *testing.T) {
	creds := &stubCreds{token: "t1", user: &domain.User{ID: "u1", Role: domain.RoleRider}}
	s := NewSession(&stubAuthAPI{}, creds, zerolog.Nop())

	s.LoadFromStorage(context.Background())

	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated from stored credential")
	}
	if s.Token() != "t1" || s.User().ID != "u1" {
		t.Fatalf("unexpected state: token=%q user=%+v", s.Token(), s.User())
	}
	checkAuthInvariant(t, s)
}

func TestSession_LoadFromStorageRunsOnce(t *testing.T) {
	creds := &stubCreds{}
	s := NewSession(&stubAuthAPI{}, creds, zerolog.Nop())
	ctx := context.Background()

	s.LoadFromStorage(ctx)

	// A credential appearing later must not be picked up by a second call.
	creds.token, creds.user = "t9", &domain.User{ID: "u9"}
	s.LoadFromStorage(ctx)

	if s.IsAuthenticated() {
		t.Fatalf("LoadFromStorage must be once-per-process")
	}
}

func TestSession_LoginSuccess(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleUser}
	api := &stubAuthAPI{loginFn: okLogin("t1", user)}
	creds := &stubCreds{}
	s := NewSession(api, creds, zerolog.Nop())
	ctx := context.Background()
	s.LoadFromStorage(ctx)

	if err := s.Login(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated after login")
	}
	if creds.sets != 1 || creds.token != "t1" {
		t.Fatalf("credential not persisted: sets=%d token=%q", creds.sets, creds.token)
	}
	checkAuthInvariant(t, s)
}

func TestSession_LoginFailureLeavesStateUntouched(t *testing.T) {
	api := &stubAuthAPI{loginFn: func(context.Context, string, string) (*domain.AuthSession, error) {
		return nil, domain.HTTPError(401, "invalid credentials")
	}}
	creds := &stubCreds{}
	s := NewSession(api, creds, zerolog.Nop())
	ctx := context.Background()
	s.LoadFromStorage(ctx)

	err := s.Login(ctx, "a@b.com", "wrong")
	if err == nil {
		t.Fatalf("expected login error")
	}
	if s.IsAuthenticated() {
		t.Fatalf("failed login must not mutate state")
	}
	if creds.sets != 0 {
		t.Fatalf("failed login must not persist anything")
	}
	checkAuthInvariant(t, s)
}

func TestSession_LoginValidatesLocally(t *testing.T) {
	api := &stubAuthAPI{loginFn: okLogin("t1", &domain.User{ID: "u1"})}
	s := NewSession(api, &stubCreds{}, zerolog.Nop())

	err := s.Login(context.Background(), "  ", "")
	if !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if api.loginCalls != 0 {
		t.Fatalf("validation failure must not reach the network")
	}
}

func TestSession_LoginStorageFailureStillAuthenticates(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleUser}
	api := &stubAuthAPI{loginFn: okLogin("t1", user)}
	creds := &stubCreds{setErr: errors.New("disk full")}
	s := NewSession(api, creds, zerolog.Nop())
	ctx := context.Background()
	s.LoadFromStorage(ctx)

	if err := s.Login(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("storage failure must not fail the login: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected in-memory session despite storage failure")
	}
}

func TestSession_RegisterShortPasswordRejectedBeforeNetwork(t *testing.T) {
	api := &stubAuthAPI{registerFn: func(context.Context, domain.RegisterInput) (*domain.AuthSession, error) {
		t.Fatalf("network must not be reached")
		return nil, nil
	}}
	s := NewSession(api, &stubCreds{}, zerolog.Nop())

	err := s.Register(context.Background(), domain.RegisterInput{
		Name:     "Alice",
		Email:    "a@b.com",
		Password: "abc",
		Role:     domain.RoleUser,
	})
	if !domain.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if api.registerCalls != 0 {
		t.Fatalf("register call leaked to the network")
	}
}

func TestSession_RegisterPrivilegedRoleRejected(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleCompany} {
		api := &stubAuthAPI{registerFn: func(context.Context, domain.RegisterInput) (*domain.AuthSession, error) {
			t.Fatalf("network must not be reached for role %s", role)
			return nil, nil
		}}
		s := NewSession(api, &stubCreds{}, zerolog.Nop())

		err := s.Register(context.Background(), domain.RegisterInput{
			Name:     "Mallory",
			Email:    "m@b.com",
			Password: "secret1",
			Role:     role,
		})
		if !domain.IsValidationError(err) {
			t.Fatalf("role %s: expected ValidationError, got %v", role, err)
		}
	}
}

func TestSession_RegisterSuccessLogsIn(t *testing.T) {
	user := &domain.User{ID: "u2", Role: domain.RoleRider}
	api := &stubAuthAPI{registerFn: func(_ context.Context, input domain.RegisterInput) (*domain.AuthSession, error) {
		if input.Role != domain.RoleRider {
			t.Fatalf("unexpected role: %s", input.Role)
		}
		return &domain.AuthSession{Token: "t2", User: user}, nil
	}}
	creds := &stubCreds{}
	s := NewSession(api, creds, zerolog.Nop())
	ctx := context.Background()
	s.LoadFromStorage(ctx)

	err := s.Register(ctx, domain.RegisterInput{
		Name:     "Bob",
		Email:    "b@b.com",
		Password: "secret1",
		Role:     domain.RoleRider,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !s.IsAuthenticated() || !s.HasRole(domain.RoleRider) {
		t.Fatalf("expected authenticated rider")
	}
	if creds.sets != 1 {
		t.Fatalf("credential not persisted")
	}
}

func TestSession_LogoutAlwaysClears(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleUser}
	api := &stubAuthAPI{
		loginFn:   okLogin("t1", user),
		logoutErr: domain.NetworkError(errors.New("offline")),
	}
	creds := &stubCreds{}
	s := NewSession(api, creds, zerolog.Nop())
	ctx := context.Background()
	s.LoadFromStorage(ctx)

	if err := s.Login(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	s.Logout(ctx)

	if api.logoutCalls != 1 {
		t.Fatalf("server logout not attempted")
	}
	if s.IsAuthenticated() {
		t.Fatalf("logout must clear state even when the server call fails")
	}
	if creds.clears == 0 {
		t.Fatalf("logout must clear the credential store")
	}
	checkAuthInvariant(t, s)
}

func TestSession_LogoutWhenUnauthenticatedSkipsServer(t *testing.T) {
	api := &stubAuthAPI{}
	s := NewSession(api, &stubCreds{}, zerolog.Nop())
	ctx := context.Background()
	s.LoadFromStorage(ctx)

	s.Logout(ctx)

	if api.logoutCalls != 0 {
		t.Fatalf("no token to revoke, server must not be called")
	}
}

func TestSession_InvalidateAfter401(t *testing.T) {
	creds := &stubCreds{token: "t1", user: &domain.User{ID: "u1", Role: domain.RoleUser}}
	s := NewSession(&stubAuthAPI{}, creds, zerolog.Nop())
	ctx := context.Background()
	s.LoadFromStorage(ctx)

	if !s.IsAuthenticated() {
		t.Fatalf("precondition: authenticated")
	}

	s.Invalidate(ctx)

	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated after invalidation")
	}
	if _, ok := creds.Get(ctx); ok {
		t.Fatalf("expected credential store cleared")
	}
	checkAuthInvariant(t, s)
}

func TestSession_UpdateUserPersistsSet(t *testing.T) {
	creds := &stubCreds{token: "t1", user: &domain.User{ID: "u1", Name: "Alice", Role: domain.RoleUser}}
	s := NewSession(&stubAuthAPI{}, creds, zerolog.Nop())
	ctx := context.Background()
	s.LoadFromStorage(ctx)

	updated := &domain.User{ID: "u1", Name: "Alice Cooper", Role: domain.RoleUser}
	if err := s.UpdateUser(ctx, updated); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	if s.User().Name != "Alice Cooper" {
		t.Fatalf("cache not replaced: %+v", s.User())
	}
	if creds.sets != 1 || creds.user.Name != "Alice Cooper" {
		t.Fatalf("updated user not re-persisted with token")
	}
	if creds.token != "t1" {
		t.Fatalf("token lost on update: %q", creds.token)
	}
}

func TestSession_UpdateUserRequiresAuth(t *testing.T) {
	s := NewSession(&stubAuthAPI{}, &stubCreds{}, zerolog.Nop())
	s.LoadFromStorage(context.Background())

	err := s.UpdateUser(context.Background(), &domain.User{ID: "u1"})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSession_RolePredicates(t *testing.T) {
	s := NewSession(&stubAuthAPI{}, &stubCreds{}, zerolog.Nop())
	s.LoadFromStorage(context.Background())

	// No user: predicates answer false, never error.
	if s.HasRole(domain.RoleUser) || s.HasAnyRole(domain.RoleUser, domain.RoleAdmin) {
		t.Fatalf("predicates must be false without a user")
	}

	creds := &stubCreds{token: "t1", user: &domain.User{ID: "u1", Role: domain.RoleRider}}
	s2 := NewSession(&stubAuthAPI{}, creds, zerolog.Nop())
	s2.LoadFromStorage(context.Background())

	if !s2.HasRole(domain.RoleRider) {
		t.Fatalf("expected HasRole(rider)")
	}
	if s2.HasRole(domain.RoleAdmin) {
		t.Fatalf("unexpected HasRole(admin)")
	}
	if !s2.HasAnyRole(domain.RoleAdmin, domain.RoleRider) {
		t.Fatalf("expected HasAnyRole to match rider")
	}
	if s2.HasAnyRole(domain.RoleAdmin, domain.RoleCompany) {
		t.Fatalf("HasAnyRole matched nothing, should be false")
	}
}
