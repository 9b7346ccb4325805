package domain

// NavigationEntry is one item of the dashboard menu / one routable view.
// Entries are value objects built from the static view table and never mutated.
type NavigationEntry struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Path          string  `json:"path"`
	Section       string  `json:"section,omitempty"`
	RequiredRoles RoleSet `json:"-"`
}

// Roles returns RequiredRoles in a stable order, for rendering.
func (e NavigationEntry) Roles() []Role {
	return e.RequiredRoles.Slice()
}
