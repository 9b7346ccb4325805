package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of permission levels that gate views and menu entries.
// The zero value RoleNone is only ever carried by anonymous sessions.
type Role uint8

const (
	RoleNone Role = iota
	RoleGovernmentAdmin
	RoleCityManager
	RoleServiceProviderAdmin
	RoleServiceProviderUser
)

// AllRoles lists every assignable role in declaration order.
var AllRoles = []Role{
	RoleGovernmentAdmin,
	RoleCityManager,
	RoleServiceProviderAdmin,
	RoleServiceProviderUser,
}

var roleNames = map[Role]string{
	RoleGovernmentAdmin:      "GOVERNMENT_ADMIN",
	RoleCityManager:          "CITY_MANAGER",
	RoleServiceProviderAdmin: "SERVICE_PROVIDER_ADMIN",
	RoleServiceProviderUser:  "SERVICE_PROVIDER_USER",
}

var roleDisplayNames = map[Role]string{
	RoleGovernmentAdmin:      "Government Admin",
	RoleCityManager:          "City Manager",
	RoleServiceProviderAdmin: "Service Provider Admin",
	RoleServiceProviderUser:  "Service Provider User",
}

// ParseRole converts the wire name of a role into a Role. The remote API also
// emits Spring-style names ("ROLE_CITY_MANAGER"); the prefix is accepted.
func ParseRole(s string) (Role, error) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_")
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return RoleNone, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return ""
}

// DisplayName returns the human-friendly label shown in the dashboard.
func (r Role) DisplayName() string {
	return roleDisplayNames[r]
}

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = RoleNone
		return nil
	}
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleSet is an unordered set of roles. An empty set means "any authenticated role".
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

func (s RoleSet) Empty() bool {
	return len(s) == 0
}

// Slice returns the members in AllRoles order.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range AllRoles {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}
