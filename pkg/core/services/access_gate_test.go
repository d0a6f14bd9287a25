package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-site-directory/pkg/core/services"
)

func newTestGate() *services.AccessGate {
	return services.NewAccessGate(services.AccessPolicy{
		ProtectedPrefixes: []string{"/admin", "/api/admin"},
		AuthPrefixes:      []string{"/admin/login", "/api/admin/login"},
		LoginPath:         "/admin/login",
		LandingPath:       "/admin/dashboard",
		RootPath:          "/",
	})
}

func TestAccessGateDecide(t *testing.T) {
	gate := newTestGate()

	admin := domain.SessionToken{SubjectID: "u1", Role: "ADMIN"}
	user := domain.SessionToken{SubjectID: "u2", Role: "USER"}
	anonymous := domain.SessionToken{}

	tests := []struct {
		name     string
		path     string
		token    domain.SessionToken
		expected domain.AccessDecision
	}{
		{
			name:     "anonymous on protected page goes to login with return path",
			path:     "/admin/dashboard",
			token:    anonymous,
			expected: domain.AccessDecision{RedirectTo: "/admin/login", ReturnTo: "/admin/dashboard", Reason: domain.ReasonLoginRequired},
		},
		{
			name:     "anonymous on login page is allowed",
			path:     "/admin/login",
			token:    anonymous,
			expected: domain.AccessDecision{Allow: true, Reason: domain.ReasonAllowed},
		},
		{
			name:     "anonymous on public page is allowed",
			path:     "/",
			token:    anonymous,
			expected: domain.AccessDecision{Allow: true, Reason: domain.ReasonAllowed},
		},
		{
			name:     "admin on login page goes to landing",
			path:     "/admin/login",
			token:    admin,
			expected: domain.AccessDecision{RedirectTo: "/admin/dashboard", Reason: domain.ReasonAlreadyAuthenticated},
		},
		{
			name:     "user on login page goes to landing",
			path:     "/admin/login",
			token:    user,
			expected: domain.AccessDecision{RedirectTo: "/admin/dashboard", Reason: domain.ReasonAlreadyAuthenticated},
		},
		{
			name:     "user on protected page goes to root",
			path:     "/admin/sites",
			token:    user,
			expected: domain.AccessDecision{RedirectTo: "/", Reason: domain.ReasonInsufficientRole},
		},
		{
			name:     "admin on protected page is allowed",
			path:     "/admin/sites",
			token:    admin,
			expected: domain.AccessDecision{Allow: true, Reason: domain.ReasonAllowed},
		},
		{
			name:     "user on public page is allowed",
			path:     "/api/visit",
			token:    user,
			expected: domain.AccessDecision{Allow: true, Reason: domain.ReasonAllowed},
		},
		{
			name:     "anonymous on protected api goes to login",
			path:     "/api/admin/stats/sites",
			token:    anonymous,
			expected: domain.AccessDecision{RedirectTo: "/admin/login", ReturnTo: "/api/admin/stats/sites", Reason: domain.ReasonLoginRequired},
		},
		{
			name:     "anonymous on login api is allowed",
			path:     "/api/admin/login",
			token:    anonymous,
			expected: domain.AccessDecision{Allow: true, Reason: domain.ReasonAllowed},
		},
		{
			name:     "prefix match is literal",
			path:     "/administrator",
			token:    anonymous,
			expected: domain.AccessDecision{RedirectTo: "/admin/login", ReturnTo: "/administrator", Reason: domain.ReasonLoginRequired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, gate.Decide(tt.path, tt.token))
		})
	}
}

func TestAccessGateIsDeterministic(t *testing.T) {
	gate := newTestGate()
	token := domain.SessionToken{SubjectID: "u1", Role: "USER"}

	first := gate.Decide("/admin/sites", token)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, gate.Decide("/admin/sites", token))
	}
}

func TestAccessGateCopiesPolicy(t *testing.T) {
	protected := []string{"/admin"}
	gate := services.NewAccessGate(services.AccessPolicy{
		ProtectedPrefixes: protected,
		LoginPath:         "/login",
		LandingPath:       "/home",
		RootPath:          "/",
	})

	protected[0] = "/elsewhere"

	decision := gate.Decide("/admin", domain.SessionToken{})
	assert.False(t, decision.Allow)
	assert.Equal(t, "/login", decision.RedirectTo)
}

func TestAccessGateCustomElevatedRole(t *testing.T) {
	gate := services.NewAccessGate(services.AccessPolicy{
		ProtectedPrefixes: []string{"/ops"},
		LoginPath:         "/login",
		LandingPath:       "/ops",
		RootPath:          "/",
		ElevatedRole:      "OPERATOR",
	})

	assert.True(t, gate.Decide("/ops", domain.SessionToken{SubjectID: "x", Role: "OPERATOR"}).Allow)
	assert.Equal(t, domain.ReasonInsufficientRole, gate.Decide("/ops", domain.SessionToken{SubjectID: "x", Role: "ADMIN"}).Reason)
}
