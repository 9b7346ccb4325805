package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

func TestDefaultTable_MenuOrder(t *testing.T) {
	tbl := DefaultTable()

	var ids []string
	for _, e := range tbl.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{
		"dashboard",
		"indicators-car", "indicators-cycle", "indicators-bus",
		"indicators-train", "indicators-tram", "indicators-pedestrian",
		"indicators-events", "indicators-construction",
		"simulation", "notifications", "users", "system-status",
	}, ids)
}

func TestDefaultTable_RoleGatedViews(t *testing.T) {
	tbl := DefaultTable()

	users, ok := tbl.Lookup("users")
	require.True(t, ok)
	assert.Equal(t, []domain.Role{domain.RoleGovernmentAdmin, domain.RoleServiceProviderAdmin}, users.Roles())

	status, ok := tbl.Lookup("system-status")
	require.True(t, ok)
	assert.Equal(t, []domain.Role{domain.RoleGovernmentAdmin}, status.Roles())

	dash, ok := tbl.Lookup("dashboard")
	require.True(t, ok)
	assert.True(t, dash.RequiredRoles.Empty())
}

func TestTable_Visible(t *testing.T) {
	tbl := DefaultTable()

	manager, err := domain.NewSession("m", domain.RoleCityManager, "t")
	require.NoError(t, err)
	visible := tbl.Visible(manager)
	assert.Len(t, visible, 11)
	for _, e := range visible {
		assert.NotEqual(t, "users", e.ID)
		assert.NotEqual(t, "system-status", e.ID)
	}

	admin, err := domain.NewSession("a", domain.RoleGovernmentAdmin, "t")
	require.NoError(t, err)
	assert.Len(t, tbl.Visible(admin), 13)
}

func TestTable_AuthorizeView(t *testing.T) {
	tbl := DefaultTable()
	spAdmin, err := domain.NewSession("s", domain.RoleServiceProviderAdmin, "t")
	require.NoError(t, err)

	d, err := tbl.AuthorizeView(spAdmin, "users")
	require.NoError(t, err)
	assert.Equal(t, Allow, d.Outcome)

	d, err = tbl.AuthorizeView(spAdmin, "system-status")
	require.NoError(t, err)
	assert.Equal(t, Deny, d.Outcome)

	_, err = tbl.AuthorizeView(spAdmin, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoadTable_Errors(t *testing.T) {
	_, err := LoadTable([]byte("views:\n  - title: A\n    path: /a\n  - title: A\n    path: /b\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = LoadTable([]byte("views:\n  - title: A\n    path: /a\n    roles: [MAYOR]\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = LoadTable([]byte("views:\n  - title: A\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
