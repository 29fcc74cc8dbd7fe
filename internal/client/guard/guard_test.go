package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aceinapril/aceinapril/internal/client/models"
)

func TestStateFor(t *testing.T) {
	admin := &models.User{ID: "1", Username: "alice", Role: models.RoleAdmin, Category: models.CategoryDSA}
	user := &models.User{ID: "2", Username: "bob", Role: models.RoleUser, Category: models.CategoryProject}

	tests := []struct {
		name         string
		initializing bool
		user         *models.User
		want         State
	}{
		{"initializing wins even with a user", true, admin, StateInitializing},
		{"no user", false, nil, StateUnauthenticated},
		{"plain user", false, user, StateAuthenticatedUser},
		{"admin", false, admin, StateAuthenticatedAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StateFor(tt.initializing, tt.user))
		})
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state State
		route Route
		want  Decision
	}{
		{"public renders while initializing", StateInitializing, RouteLogin, Decision{Action: ActionRender}},
		{"public renders unauthenticated", StateUnauthenticated, RouteLogin, Decision{Action: ActionRender}},
		{"guarded shows loading while initializing", StateInitializing, RouteHome, Decision{Action: ActionShowLoading}},
		{"admin route shows loading while initializing", StateInitializing, RouteAdmin, Decision{Action: ActionShowLoading}},
		{"unauthenticated is sent to login", StateUnauthenticated, RouteHome, Decision{Action: ActionRedirect, Target: RouteLogin}},
		{"unauthenticated admin request is sent to login", StateUnauthenticated, RouteAdmin, Decision{Action: ActionRedirect, Target: RouteLogin}},
		{"user renders home", StateAuthenticatedUser, RouteHome, Decision{Action: ActionRender}},
		{"user renders submit", StateAuthenticatedUser, RouteSubmit, Decision{Action: ActionRender}},
		{"user requesting admin is sent home", StateAuthenticatedUser, RouteAdmin, Decision{Action: ActionRedirect, Target: RouteHome}},
		{"admin renders admin", StateAuthenticatedAdmin, RouteAdmin, Decision{Action: ActionRender}},
		{"admin renders home", StateAuthenticatedAdmin, RouteHome, Decision{Action: ActionRender}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state, tt.route))
		})
	}
}

func TestDecide_UnknownStateIsRestrictive(t *testing.T) {
	got := Decide(State(42), RouteHome)
	assert.Equal(t, ActionRedirect, got.Action)
	assert.Equal(t, RouteLogin, got.Target)
}

func TestDecide_ReevaluatesAfterLogout(t *testing.T) {
	u := &models.User{ID: "1", Username: "alice", Role: models.RoleUser, Category: models.CategoryDSA}

	before := Decide(StateFor(false, u), RouteSubmit)
	assert.Equal(t, ActionRender, before.Action)

	// the guard holds no history: the same request after logout redirects
	after := Decide(StateFor(false, nil), RouteSubmit)
	assert.Equal(t, Decision{Action: ActionRedirect, Target: RouteLogin}, after)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "authenticated-admin", StateAuthenticatedAdmin.String())
	assert.Equal(t, "unknown", State(99).String())
}
