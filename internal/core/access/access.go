// Package access decides which dashboard views a session may open and which
// menu entries it sees. Everything here is a pure function of its inputs.
package access

import (
	"iter"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

// LoginTarget is where unauthenticated sessions are sent.
const LoginTarget = "login"

// Outcome is the kind of a Decision.
type Outcome int

const (
	Allow Outcome = iota
	Deny
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of authorising a view. Target is only set for Redirect.
type Decision struct {
	Outcome Outcome
	Target  string
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Err maps the decision onto the domain error taxonomy; nil when allowed.
func (d Decision) Err() error {
	switch d.Outcome {
	case Redirect:
		return domain.ErrUnauthenticated
	case Deny:
		return domain.ErrAuthorizationDenied
	default:
		return nil
	}
}

// Authorize gates a view that declares requiredRoles. An empty set admits any
// authenticated session; it does not skip the authentication check.
func Authorize(session domain.Session, requiredRoles domain.RoleSet) Decision {
	if !session.Authenticated() {
		return Decision{Outcome: Redirect, Target: LoginTarget}
	}
	if admits(session, requiredRoles) {
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: Deny}
}

// VisibleNavigationEntries yields, in declared order, the entries the session
// may see. Anonymous sessions see nothing.
func VisibleNavigationEntries(session domain.Session, entries []domain.NavigationEntry) iter.Seq[domain.NavigationEntry] {
	return func(yield func(domain.NavigationEntry) bool) {
		if !session.Authenticated() {
			return
		}
		for _, e := range entries {
			if !admits(session, e.RequiredRoles) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

func admits(session domain.Session, required domain.RoleSet) bool {
	return required.Empty() || required.Contains(session.Role())
}
