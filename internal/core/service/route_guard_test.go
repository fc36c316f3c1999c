package service

import (
	"testing"

	"github.com/mediride/transit-client/internal/core/domain"
)

func authedView(role domain.Role) SessionView {
	return SessionView{
		Authenticated: true,
		User:          &domain.User{ID: "u1", Role: role},
	}
}

func TestEvaluateRoute_LoadingWinsOverEverything(t *testing.T) {
	views := []SessionView{
		{Loading: true},
		{Loading: true, Authenticated: true, User: &domain.User{Role: domain.RoleAdmin}},
	}
	for _, view := range views {
		got := EvaluateRoute(view, []domain.Role{domain.RoleUser}, "/dashboard")
		if got.Action != GuardWait {
			t.Fatalf("view %+v: got %s, want wait", view, got.Action)
		}
	}
}

func TestEvaluateRoute_UnauthenticatedRedirectsToLogin(t *testing.T) {
	got := EvaluateRoute(SessionView{}, nil, "/rides")

	if got.Action != GuardRedirectToLogin {
		t.Fatalf("got %s, want redirect-to-login", got.Action)
	}
	if got.Route != domain.LoginRoute {
		t.Fatalf("redirect target %q, want %q", got.Route, domain.LoginRoute)
	}
}

func TestEvaluateRoute_UnauthenticatedInsideAuthAreaAllowed(t *testing.T) {
	for _, segment := range []string{"/auth/login", "/auth/register", "/auth"} {
		got := EvaluateRoute(SessionView{}, nil, segment)
		if got.Action != GuardAllow {
			t.Fatalf("segment %q: got %s, want allow (no redirect loop)", segment, got.Action)
		}
	}
}

func TestEvaluateRoute_WrongRoleRedirectsToRoleHome(t *testing.T) {
	got := EvaluateRoute(authedView(domain.RoleRider), []domain.Role{domain.RoleUser}, "/request-ride")

	if got.Action != GuardRedirectToRoleHome {
		t.Fatalf("got %s, want redirect-to-role-home", got.Action)
	}
	if got.Route != "/rider" {
		t.Fatalf("redirect target %q, want /rider", got.Route)
	}
	if got.Role != domain.RoleRider {
		t.Fatalf("decision role %q, want rider", got.Role)
	}
}

func TestEvaluateRoute_MatchingRoleAllowed(t *testing.T) {
	got := EvaluateRoute(authedView(domain.RoleCompany),
		[]domain.Role{domain.RoleAdmin, domain.RoleCompany}, "/company/fleet")
	if got.Action != GuardAllow {
		t.Fatalf("got %s, want allow", got.Action)
	}
}

func TestEvaluateRoute_EmptyAllowedRolesAllowsAnyAuthenticated(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleRider, domain.RoleCompany, domain.RoleAdmin} {
		got := EvaluateRoute(authedView(role), nil, "/profile")
		if got.Action != GuardAllow {
			t.Fatalf("role %s: got %s, want allow", role, got.Action)
		}
	}
}

func TestEvaluateRoute_EveryRoleHomeIsDistinct(t *testing.T) {
	seen := map[string]domain.Role{}
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleRider, domain.RoleCompany, domain.RoleAdmin} {
		got := EvaluateRoute(authedView(role), []domain.Role{"none-of-these"}, "/somewhere")
		if got.Action != GuardRedirectToRoleHome {
			t.Fatalf("role %s: got %s", role, got.Action)
		}
		if prev, dup := seen[got.Route]; dup {
			t.Fatalf("roles %s and %s share home route %q", prev, role, got.Route)
		}
		seen[got.Route] = role
	}
}

func TestEvaluateRoute_Precedence(t *testing.T) {
	// Unauthenticated beats role mismatch: a logged-out user on a
	// role-restricted route goes to login, not to a role home.
	got := EvaluateRoute(SessionView{}, []domain.Role{domain.RoleAdmin}, "/admin")
	if got.Action != GuardRedirectToLogin {
		t.Fatalf("got %s, want redirect-to-login", got.Action)
	}
}
