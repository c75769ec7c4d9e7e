// Package rolegate decides which console affordances are shown for a role.
//
// A DisplayRole comes from the unverified token payload. It is a rendering
// hint and has no conversion to AuthorizedRole on purpose.
package rolegate

import (
	"github.com/existflow/rbacconsole/internal/claims"
	"github.com/existflow/rbacconsole/internal/model"
)

// DisplayRole is the role the console believes the user has
type DisplayRole string

// AuthorizedRole is a role the backend has asserted for a request. The
// console never produces one; it exists so permission checks have a type
// that a DisplayRole cannot be passed as.
type AuthorizedRole string

// None is the role of a missing or undecodable credential
const None DisplayRole = ""

// FromToken decodes token and returns its role hint. A malformed token
// degrades to None rather than failing.
func FromToken(token string) DisplayRole {
	return DisplayRole(claims.Role(token))
}

// String returns the role for display, "GUEST" for None
func (r DisplayRole) String() string {
	if r == None {
		return "GUEST"
	}
	return string(r)
}

// Affordances is the set of role-gated UI elements
type Affordances struct {
	ViewUsers     bool // users table and totals on the dashboard
	CreateUser    bool
	CreateProject bool
	CreateTask    bool
}

// For returns the affordances enabled for role
func For(role DisplayRole) Affordances {
	switch string(role) {
	case model.RoleAdmin:
		return Affordances{ViewUsers: true, CreateUser: true, CreateProject: true, CreateTask: true}
	case model.RoleManager:
		return Affordances{CreateProject: true, CreateTask: true}
	case model.RoleEditor:
		return Affordances{CreateTask: true}
	default:
		return Affordances{}
	}
}
