package permissions

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/pkg/logging"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(logging.Discard())
	require.NoError(t, err)
	return m
}

func TestModelMatchesMatrix(t *testing.T) {
	m := newModel(t)
	for _, role := range user.Roles {
		for _, obj := range Objects {
			for _, act := range Actions {
				want := slices.Contains(Matrix[role][obj], act)
				assert.Equal(t, want, m.HasPermission(role, obj, act), "%s %s %s", role, obj, act)
			}
		}
	}
}

func TestModelUnknownTriples(t *testing.T) {
	m := newModel(t)
	assert.False(t, m.HasPermission(user.Role("mayor"), ObjectUser, ActionCreate))
	assert.False(t, m.HasPermission(user.RoleAdministrator, Object("budget"), ActionCreate))
	assert.False(t, m.HasPermission(user.RoleAdministrator, ObjectUser, Action("impersonate")))
}

func TestCapabilities(t *testing.T) {
	m := newModel(t)
	assert.True(t, m.CanRepresent(user.RoleTreasurer))
	assert.False(t, m.CanRepresent(user.RoleAuditor))
	assert.True(t, m.CanSupervise(user.RoleAuditor))
	assert.False(t, m.CanSupervise(user.RoleGeneralAuditor))
	assert.False(t, m.CanSupervise(user.RoleAdministrator))
}

func TestAuthorize(t *testing.T) {
	m := newModel(t)
	ctx := context.Background()
	require.NoError(t, m.Authorize(ctx, user.RoleGeneralAuditor, ObjectConvocation, ActionDeleteOwnConditional))

	err := m.Authorize(ctx, user.RoleGeneralAuditor, ObjectConvocation, ActionDeleteAny)
	var denied *serrors.PermissionDeniedError
	require.ErrorAs(t, err, &denied)
	require.Equal(t, "general_auditor", denied.Role)
	require.Equal(t, "convocation", denied.Object)
}

func TestPolicyCSV(t *testing.T) {
	csv := PolicyCSV()
	lines := strings.Split(csv, "\n")
	require.True(t, slices.IsSorted(lines))
	require.Contains(t, lines, "p, role:treasurer, presentation, close_own_conditional")
	require.NotContains(t, csv, "role:auditor, presentation, close")
}

func TestMatrixUsesKnownVocabulary(t *testing.T) {
	for role, grants := range Matrix {
		require.True(t, role.IsValid(), role)
		for obj, actions := range grants {
			require.Contains(t, Objects, obj)
			for _, act := range actions {
				require.Contains(t, Actions, act)
			}
		}
	}
}
