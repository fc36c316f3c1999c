package service

import (
	"strings"

	"github.com/mediride/transit-client/internal/core/domain"
)

// SessionView is the immutable snapshot the route guard decides over.
type SessionView struct {
	Authenticated bool
	Loading       bool
	User          *domain.User
}

// GuardAction is what the UI should do with the current route.
type GuardAction int

const (
	// GuardWait means the initial load is still in flight: render a
	// loading indicator, make no redirect decision yet.
	GuardWait GuardAction = iota
	// GuardAllow means the current route may render.
	GuardAllow
	// GuardRedirectToLogin sends the user to the login screen.
	GuardRedirectToLogin
	// GuardRedirectToRoleHome sends an authenticated user with the wrong
	// role to their own home route.
	GuardRedirectToRoleHome
)

func (a GuardAction) String() string {
	switch a {
	case GuardWait:
		return "wait"
	case GuardAllow:
		return "allow"
	case GuardRedirectToLogin:
		return "redirect-to-login"
	case GuardRedirectToRoleHome:
		return "redirect-to-role-home"
	}
	return "unknown"
}

// GuardDecision pairs the action with its redirect target. Route and Role
// are set only for the redirect actions.
type GuardDecision struct {
	Action GuardAction
	Route  string
	Role   domain.Role
}

// EvaluateRoute is the pure route-protection decision. Precedence:
//
//  1. Loading wins over everything, so a cold start never flashes a
//     redirect to login before storage has been read.
//  2. Unauthenticated users go to login, unless they are already inside
//     the auth area.
//  3. Authenticated users whose role is outside allowedRoles go to their
//     role's home route.
//  4. Otherwise the route renders.
//
// An empty allowedRoles places no role restriction on the route.
func EvaluateRoute(view SessionView, allowedRoles []domain.Role, currentSegment string) GuardDecision {
	if view.Loading {
		return GuardDecision{Action: GuardWait}
	}

	if !view.Authenticated || view.User == nil {
		if strings.HasPrefix(currentSegment, domain.AuthAreaPrefix) {
			return GuardDecision{Action: GuardAllow}
		}
		return GuardDecision{Action: GuardRedirectToLogin, Route: domain.LoginRoute}
	}

	if len(allowedRoles) == 0 {
		return GuardDecision{Action: GuardAllow}
	}
	for _, r := range allowedRoles {
		if view.User.Role == r {
			return GuardDecision{Action: GuardAllow}
		}
	}

	return GuardDecision{
		Action: GuardRedirectToRoleHome,
		Route:  view.User.Role.HomeRoute(),
		Role:   view.User.Role,
	}
}
