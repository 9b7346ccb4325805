package access

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

//go:embed views.yaml
var defaultViews []byte

type viewDoc struct {
	Views []struct {
		ID      string   `yaml:"id"`
		Title   string   `yaml:"title"`
		Path    string   `yaml:"path"`
		Section string   `yaml:"section"`
		Roles   []string `yaml:"roles"`
	} `yaml:"views"`
}

// Table is the static mapping of view identifiers to navigation entries and
// their required roles. It is read-only after construction.
type Table struct {
	entries []domain.NavigationEntry
	byID    map[string]int
}

// LoadTable parses a YAML view table. Identifiers default to the slug of the
// title and must be unique.
func LoadTable(data []byte) (*Table, error) {
	var doc viewDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse view table: %w", err)
	}

	t := &Table{byID: make(map[string]int, len(doc.Views))}
	for i, v := range doc.Views {
		id := v.ID
		if id == "" {
			id = slug.Make(v.Title)
		}
		if id == "" || v.Path == "" {
			return nil, fmt.Errorf("view %d: %w: id and path are required", i, domain.ErrInvalidArgument)
		}
		if _, dup := t.byID[id]; dup {
			return nil, fmt.Errorf("view %q: %w: duplicate id", id, domain.ErrInvalidArgument)
		}

		roles := domain.NewRoleSet()
		for _, name := range v.Roles {
			r, err := domain.ParseRole(name)
			if err != nil {
				return nil, fmt.Errorf("view %q: %w", id, err)
			}
			roles[r] = struct{}{}
		}

		t.byID[id] = len(t.entries)
		t.entries = append(t.entries, domain.NavigationEntry{
			ID:            id,
			Title:         v.Title,
			Path:          v.Path,
			Section:       v.Section,
			RequiredRoles: roles,
		})
	}
	return t, nil
}

// DefaultTable returns the built-in dashboard view table.
func DefaultTable() *Table {
	t, err := LoadTable(defaultViews)
	if err != nil {
		panic(fmt.Sprintf("access: embedded view table: %v", err))
	}
	return t
}

// Entries returns the entries in declared menu order.
func (t *Table) Entries() []domain.NavigationEntry {
	return slices.Clone(t.entries)
}

// Lookup finds a view by identifier.
func (t *Table) Lookup(id string) (domain.NavigationEntry, bool) {
	i, ok := t.byID[id]
	if !ok {
		return domain.NavigationEntry{}, false
	}
	return t.entries[i], true
}

// AuthorizeView authorises the view with the given identifier. Unknown views
// yield ErrNotFound rather than a decision.
func (t *Table) AuthorizeView(session domain.Session, id string) (Decision, error) {
	e, ok := t.Lookup(id)
	if !ok {
		return Decision{}, fmt.Errorf("view %q: %w", id, domain.ErrNotFound)
	}
	return Authorize(session, e.RequiredRoles), nil
}

// Visible is VisibleNavigationEntries over the table's own entries.
func (t *Table) Visible(session domain.Session) []domain.NavigationEntry {
	return slices.Collect(VisibleNavigationEntries(session, t.entries))
}
