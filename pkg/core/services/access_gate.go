package services

import (
	"strings"

	"github.com/wadjakorntonsri/go-site-directory/pkg/core/domain"
)

// AccessPolicy is the startup configuration of the access gate
type AccessPolicy struct {
	ProtectedPrefixes []string
	AuthPrefixes      []string // Login screens; checked before protected prefixes
	LoginPath         string
	LandingPath       string
	RootPath          string
	ElevatedRole      string
}

// AccessGate decides allow / redirect for a request path and session.
// It holds no mutable state and performs no I/O.
type AccessGate struct {
	policy AccessPolicy
}

func NewAccessGate(policy AccessPolicy) *AccessGate {
	// Copy the prefix sets so callers cannot mutate them after startup
	policy.ProtectedPrefixes = append([]string(nil), policy.ProtectedPrefixes...)
	policy.AuthPrefixes = append([]string(nil), policy.AuthPrefixes...)
	if policy.ElevatedRole == "" {
		policy.ElevatedRole = string(domain.RoleAdmin)
	}
	return &AccessGate{policy: policy}
}

// Decide applies the rules in order; the first match wins.
func (g *AccessGate) Decide(path string, token domain.SessionToken) domain.AccessDecision {
	isAuth := hasAnyPrefix(path, g.policy.AuthPrefixes)
	isProtected := hasAnyPrefix(path, g.policy.ProtectedPrefixes)
	loggedIn := token.Present()

	switch {
	case loggedIn && isAuth:
		return domain.AccessDecision{
			RedirectTo: g.policy.LandingPath,
			Reason:     domain.ReasonAlreadyAuthenticated,
		}
	case !loggedIn && isProtected && !isAuth:
		return domain.AccessDecision{
			RedirectTo: g.policy.LoginPath,
			ReturnTo:   path,
			Reason:     domain.ReasonLoginRequired,
		}
	case loggedIn && isProtected && token.Role != g.policy.ElevatedRole:
		return domain.AccessDecision{
			RedirectTo: g.policy.RootPath,
			Reason:     domain.ReasonInsufficientRole,
		}
	}
	return domain.AccessDecision{Allow: true, Reason: domain.ReasonAllowed}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
