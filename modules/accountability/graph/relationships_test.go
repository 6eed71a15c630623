package graph

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func representative(t *testing.T, g *Graph, municipalityID string) string {
	t.Helper()
	m, err := g.Municipality(municipalityID)
	require.NoError(t, err)
	return m.RepresentativeID()
}

func represented(t *testing.T, g *Graph, userID string) string {
	t.Helper()
	u, err := g.User(userID)
	require.NoError(t, err)
	return u.MunicipalityID()
}

func TestReassignRepresentative(t *testing.T) {
	f := populated(t)
	require.NoError(t, f.g.AssignRepresentative("m1", "t2"))

	assert.Empty(t, represented(t, f.g, "t1"))
	assert.Equal(t, "t2", representative(t, f.g, "m1"))
	assert.Equal(t, "m1", represented(t, f.g, "t2"))
	require.NoError(t, f.g.CheckInvariants())
}

func TestAssignRepresentativeMovesTreasurer(t *testing.T) {
	f := populated(t)
	require.NoError(t, f.g.AssignRepresentative("m2", "t1"))

	assert.Empty(t, representative(t, f.g, "m1"))
	assert.Equal(t, "t1", representative(t, f.g, "m2"))
	assert.Equal(t, "m2", represented(t, f.g, "t1"))
	require.NoError(t, f.g.CheckInvariants())
}

func TestAssignRepresentativeSameLinkIsStable(t *testing.T) {
	f := populated(t)
	require.NoError(t, f.g.AssignRepresentative("m1", "t1"))
	assert.Equal(t, "t1", representative(t, f.g, "m1"))
	assert.Equal(t, "m1", represented(t, f.g, "t1"))
}

func TestAssignRepresentativeUnknownIDsMutateNothing(t *testing.T) {
	f := populated(t)
	f.g.ResetChanges()
	require.ErrorIs(t, f.g.AssignRepresentative("m2", "ghost"), serrors.ErrNotFound)
	require.ErrorIs(t, f.g.AssignRepresentative("ghost", "t2"), serrors.ErrNotFound)
	assert.Empty(t, representative(t, f.g, "m2"))
	assert.Empty(t, f.g.Changes())
}

func TestUnassignRepresentative(t *testing.T) {
	f := populated(t)
	require.NoError(t, f.g.UnassignRepresentative("m1"))
	assert.Empty(t, representative(t, f.g, "m1"))
	assert.Empty(t, represented(t, f.g, "t1"))

	require.NoError(t, f.g.UnassignRepresentative("m1"))
	require.NoError(t, f.g.CheckInvariants())
}

func TestSupervisor(t *testing.T) {
	f := populated(t)
	f.user("a2", user.RoleAuditor)
	require.NoError(t, f.g.AssignSupervisor("m1", "a2"))
	m1, _ := f.g.Municipality("m1")
	m2, _ := f.g.Municipality("m2")
	assert.Equal(t, "a2", m1.SupervisorID())
	assert.Equal(t, "a1", m2.SupervisorID())

	require.NoError(t, f.g.UnassignSupervisor("m1"))
	assert.Empty(t, m1.SupervisorID())
}

func TestDeleteConvocationCascades(t *testing.T) {
	f := populated(t)
	require.NoError(t, f.g.DeleteConvocation("c1"))

	assert.Empty(t, f.g.Presentations())
	u, _ := f.g.User("t1")
	m, _ := f.g.Municipality("m1")
	assert.Empty(t, u.PresentationIDs())
	assert.Empty(t, m.PresentationIDs())
	require.NoError(t, f.g.CheckInvariants())
	assertNoReferenceTo(t, f.g, "c1", "p1", "p2")
}

func TestDeleteMunicipalityCascades(t *testing.T) {
	f := populated(t)
	require.NoError(t, f.g.DeleteMunicipality("m1"))

	assert.Empty(t, represented(t, f.g, "t1"))
	assert.Empty(t, f.g.Presentations())
	c, _ := f.g.Convocation("c1")
	assert.Empty(t, c.PresentationIDs())
	require.NoError(t, f.g.CheckInvariants())
	assertNoReferenceTo(t, f.g, "m1", "p1", "p2")
}

func TestDeleteTreasurerCascades(t *testing.T) {
	f := populated(t)
	require.NoError(t, f.g.DeleteUser("t1", roleCaps{}))

	assert.Empty(t, representative(t, f.g, "m1"))
	assert.Empty(t, f.g.Presentations())
	require.NoError(t, f.g.CheckInvariants())
	assertNoReferenceTo(t, f.g, "t1", "p1", "p2")
}

func TestDeleteAuditorReleasesSupervision(t *testing.T) {
	f := populated(t)
	require.NoError(t, f.g.DeleteUser("a1", roleCaps{}))
	for _, m := range f.g.Municipalities() {
		assert.Empty(t, m.SupervisorID())
	}
	assert.Len(t, f.g.Presentations(), 2)
	assertNoReferenceTo(t, f.g, "a1")
}

func TestDeleteUserAfterRoleChangeLeavesNoAuthorReference(t *testing.T) {
	f := populated(t)
	u, _ := f.g.User("t1")
	require.NoError(t, u.SetRole(user.RoleAuditor))
	require.NoError(t, f.g.ReconcileRole("t1", roleCaps{}))
	assert.Empty(t, representative(t, f.g, "m1"))
	assert.Len(t, f.g.Presentations(), 2)

	require.NoError(t, f.g.DeleteUser("t1", roleCaps{}))
	assert.Empty(t, f.g.Presentations())
	require.NoError(t, f.g.CheckInvariants())
	assertNoReferenceTo(t, f.g, "t1")
}

func TestReconcileRoleReleasesSupervision(t *testing.T) {
	f := populated(t)
	u, _ := f.g.User("a1")
	require.NoError(t, u.SetRole(user.RoleTreasurer))
	require.NoError(t, f.g.ReconcileRole("a1", roleCaps{}))
	for _, m := range f.g.Municipalities() {
		assert.Empty(t, m.SupervisorID())
	}
}

func TestDeletePresentation(t *testing.T) {
	f := populated(t)
	p, _ := f.g.Presentation("p1")
	require.NoError(t, f.g.DeletePresentation("p1"))

	assert.Empty(t, p.ConvocationID())
	assert.Empty(t, p.AuthorID())
	assert.Empty(t, p.MunicipalityID())
	require.ErrorIs(t, f.g.DeletePresentation("p1"), serrors.ErrNotFound)
	require.NoError(t, f.g.CheckInvariants())
	assertNoReferenceTo(t, f.g, "p1")
}

func TestDeleteUnknownIsNotFound(t *testing.T) {
	f := populated(t)
	f.g.ResetChanges()
	require.ErrorIs(t, f.g.DeleteConvocation("ghost"), serrors.ErrNotFound)
	require.ErrorIs(t, f.g.DeleteMunicipality("ghost"), serrors.ErrNotFound)
	require.ErrorIs(t, f.g.DeleteUser("ghost", roleCaps{}), serrors.ErrNotFound)
	assert.Empty(t, f.g.Changes())
}

func TestIdempotentEmptyCascade(t *testing.T) {
	build := func(withLinks bool) *Graph {
		f := newFixture(t)
		f.user("t1", user.RoleTreasurer)
		f.user("a1", user.RoleAuditor)
		f.municipality("m1")
		f.convocation("c1")
		if withLinks {
			require.NoError(t, f.g.AssignRepresentative("m1", "t1"))
			require.NoError(t, f.g.UnassignRepresentative("m1"))
			require.NoError(t, f.g.AssignSupervisor("m1", "a1"))
			require.NoError(t, f.g.UnassignSupervisor("m1"))
			f.presentation("p1", "c1", "t1", "m1")
			require.NoError(t, f.g.DeletePresentation("p1"))
		}
		require.NoError(t, f.g.DeleteUser("t1", roleCaps{}))
		require.NoError(t, f.g.DeleteUser("a1", roleCaps{}))
		require.NoError(t, f.g.DeleteMunicipality("m1"))
		require.NoError(t, f.g.DeleteConvocation("c1"))
		return f.g
	}
	assert.True(t, build(false).Empty())
	assert.True(t, build(true).Empty())
}

func TestSymmetryUnderOperationSequence(t *testing.T) {
	f := populated(t)
	f.user("t3", user.RoleTreasurer)
	f.municipality("m3")
	steps := []func() error{
		func() error { return f.g.AssignRepresentative("m2", "t2") },
		func() error { return f.g.AssignRepresentative("m3", "t1") },
		func() error { return f.g.AssignRepresentative("m1", "t2") },
		func() error { return f.g.AssignRepresentative("m2", "t3") },
		func() error { return f.g.UnassignRepresentative("m3") },
		func() error { return f.g.AssignRepresentative("m3", "t2") },
		func() error { return f.g.DeleteUser("t3", roleCaps{}) },
		func() error { return f.g.DeleteMunicipality("m3") },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		require.NoError(t, f.g.CheckInvariants(), "step %d", i)
	}
}

func assertNoReferenceTo(t *testing.T, g *Graph, ids ...string) {
	t.Helper()
	refs := g.References()
	for _, id := range ids {
		assert.False(t, slices.Contains(refs, id), "dangling reference to %s", id)
	}
}
