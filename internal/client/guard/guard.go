// Package guard is the access-control state machine between the auth
// service's session state and the renderable views. It fetches nothing and
// stores nothing: every decision is derived from the current auth state, so
// a logout is reflected on the very next evaluation.
package guard

import "github.com/aceinapril/aceinapril/internal/client/models"

// State is the session state a decision is derived from.
type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticatedUser
	StateAuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticatedUser:
		return "authenticated"
	case StateAuthenticatedAdmin:
		return "authenticated-admin"
	default:
		return "unknown"
	}
}

// Access is the requirement annotated on a route.
type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessAdmin
)

// Route is one logical destination.
type Route struct {
	Name   string
	Access Access
}

var (
	RouteLogin  = Route{Name: "login", Access: AccessPublic}
	RouteHome   = Route{Name: "home", Access: AccessAuthenticated}
	RouteSubmit = Route{Name: "submit", Access: AccessAuthenticated}
	RouteAdmin  = Route{Name: "admin", Access: AccessAdmin}
)

// Action says what the view layer may do with a requested route.
type Action int

const (
	// ActionShowLoading: restoration is still running, render a neutral
	// placeholder and nothing else.
	ActionShowLoading Action = iota

	// ActionRender: the requested view may render.
	ActionRender

	// ActionRedirect: the requested view must not render, not even
	// partially; navigate to Decision.Target instead.
	ActionRedirect
)

// Decision is the outcome of one evaluation.
type Decision struct {
	Action Action
	Target Route
}

// StateFor derives the guard state from auth service state. Ambiguous input
// (a user present while still initializing) resolves to the most restrictive
// reading.
func StateFor(initializing bool, u *models.User) State {
	switch {
	case initializing:
		return StateInitializing
	case u == nil:
		return StateUnauthenticated
	case u.IsAdmin():
		return StateAuthenticatedAdmin
	default:
		return StateAuthenticatedUser
	}
}

// Decide evaluates a route request against the session state. It never
// errors; anything it cannot prove entitled resolves to a redirect.
func Decide(s State, r Route) Decision {
	if r.Access == AccessPublic {
		return Decision{Action: ActionRender}
	}

	switch s {
	case StateInitializing:
		return Decision{Action: ActionShowLoading}
	case StateUnauthenticated:
		return Decision{Action: ActionRedirect, Target: RouteLogin}
	case StateAuthenticatedUser:
		if r.Access == AccessAdmin {
			return Decision{Action: ActionRedirect, Target: RouteHome}
		}
		return Decision{Action: ActionRender}
	case StateAuthenticatedAdmin:
		return Decision{Action: ActionRender}
	default:
		return Decision{Action: ActionRedirect, Target: RouteLogin}
	}
}
