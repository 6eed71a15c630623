package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/convocation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/municipality"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/presentation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func init() {
	user.HashCost = bcrypt.MinCost
}

type roleCaps struct{}

func (roleCaps) CanRepresent(r user.Role) bool { return r == user.RoleTreasurer }
func (roleCaps) CanSupervise(r user.Role) bool { return r == user.RoleAuditor }

type fixture struct {
	t *testing.T
	g *Graph
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, g: New()}
}

func (f *fixture) user(id string, role user.Role) *user.User {
	f.t.Helper()
	u, err := user.New(id, "User "+id, "pass", role)
	require.NoError(f.t, err)
	require.NoError(f.t, f.g.AddUser(u))
	return u
}

func (f *fixture) municipality(id string) *municipality.Municipality {
	f.t.Helper()
	m, err := municipality.New(id, "Municipality "+id, 1)
	require.NoError(f.t, err)
	require.NoError(f.t, f.g.AddMunicipality(m))
	return m
}

func (f *fixture) convocation(id string) *convocation.Convocation {
	f.t.Helper()
	now := time.Now().UTC()
	c, err := convocation.New(id, now.AddDate(0, 0, -1), now.AddDate(0, 1, 0))
	require.NoError(f.t, err)
	require.NoError(f.t, f.g.AddConvocation(c))
	return c
}

func (f *fixture) presentation(id, convocationID, authorID, municipalityID string) *presentation.Presentation {
	f.t.Helper()
	p, err := presentation.New(id, convocationID, authorID, municipalityID)
	require.NoError(f.t, err)
	require.NoError(f.t, f.g.AttachPresentation(p))
	return p
}

// populated builds t1 representing m1, a1 supervising m1 and m2, and
// presentations p1, p2 by t1 for m1 against c1.
func populated(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.user("admin", user.RoleAdministrator)
	f.user("t1", user.RoleTreasurer)
	f.user("t2", user.RoleTreasurer)
	f.user("a1", user.RoleAuditor)
	f.municipality("m1")
	f.municipality("m2")
	f.convocation("c1")
	f.convocation("c2")
	require.NoError(t, f.g.AssignRepresentative("m1", "t1"))
	require.NoError(t, f.g.AssignSupervisor("m1", "a1"))
	require.NoError(t, f.g.AssignSupervisor("m2", "a1"))
	f.presentation("p1", "c1", "t1", "m1")
	f.presentation("p2", "c1", "t1", "m1")
	require.NoError(t, f.g.CheckInvariants())
	return f
}

func TestAddRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.user("u1", user.RoleAuditor)
	dup, err := user.New("u1", "Other", "pass", user.RoleAuditor)
	require.NoError(t, err)

	var verr *serrors.ValidationError
	require.ErrorAs(t, f.g.AddUser(dup), &verr)
	require.Equal(t, "unique", verr.Constraint)
}

func TestLookupsReturnNotFound(t *testing.T) {
	g := New()
	_, err := g.User("x")
	require.ErrorIs(t, err, serrors.ErrNotFound)
	_, err = g.Municipality("x")
	require.ErrorIs(t, err, serrors.ErrNotFound)
	_, err = g.Convocation("x")
	require.ErrorIs(t, err, serrors.ErrNotFound)
	_, err = g.Presentation("x")
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestListsAreSorted(t *testing.T) {
	f := newFixture(t)
	f.user("b", user.RoleAuditor)
	f.user("a", user.RoleAuditor)
	f.user("c", user.RoleAuditor)
	ids := make([]string, 0, 3)
	for _, u := range f.g.Users() {
		ids = append(ids, u.ID())
	}
	require.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestAttachPresentationLinksBackReferences(t *testing.T) {
	f := populated(t)
	c, _ := f.g.Convocation("c1")
	u, _ := f.g.User("t1")
	m, _ := f.g.Municipality("m1")
	assert.Equal(t, []string{"p1", "p2"}, c.PresentationIDs())
	assert.Equal(t, []string{"p1", "p2"}, u.PresentationIDs())
	assert.Equal(t, []string{"p1", "p2"}, m.PresentationIDs())
}

func TestAttachPresentationUnknownReference(t *testing.T) {
	f := populated(t)
	p, err := presentation.New("p9", "ghost", "t1", "m1")
	require.NoError(t, err)
	require.ErrorIs(t, f.g.AttachPresentation(p), serrors.ErrNotFound)
	_, err = f.g.Presentation("p9")
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestCloneIsIndependent(t *testing.T) {
	f := populated(t)
	clone := f.g.Clone()
	require.Empty(t, clone.Changes())

	require.NoError(t, clone.DeleteConvocation("c1"))
	require.NoError(t, clone.UnassignRepresentative("m1"))

	_, err := f.g.Presentation("p1")
	require.NoError(t, err)
	m, _ := f.g.Municipality("m1")
	require.Equal(t, "t1", m.RepresentativeID())
	require.NoError(t, f.g.CheckInvariants())
	require.NoError(t, clone.CheckInvariants())
}

func TestLoadRebuildsBackReferences(t *testing.T) {
	f := populated(t)
	var (
		users []*user.User
		muns  []*municipality.Municipality
		convs []*convocation.Convocation
		pres  []*presentation.Presentation
	)
	for _, u := range f.g.Users() {
		h, err := user.Hydrate(u.ID(), u.Name(), u.SecretHash(), u.Role(), u.MunicipalityID(), u.CreatedAt())
		require.NoError(t, err)
		users = append(users, h)
	}
	for _, m := range f.g.Municipalities() {
		h, err := municipality.Hydrate(m.ID(), m.Name(), m.Category(), m.SupervisorID(), m.RepresentativeID())
		require.NoError(t, err)
		muns = append(muns, h)
	}
	for _, c := range f.g.Convocations() {
		h, err := convocation.Hydrate(c.ID(), c.OpeningDate(), c.ClosingDate(), c.Description(), c.Documents(), c.StatusOverride())
		require.NoError(t, err)
		convs = append(convs, h)
	}
	for _, p := range f.g.Presentations() {
		h, err := presentation.Hydrate(p.ID(), p.CreatedAt(), p.Status(), p.ConvocationID(), p.AuthorID(), p.MunicipalityID(), p.Documents())
		require.NoError(t, err)
		pres = append(pres, h)
	}

	loaded, err := Load(users, muns, convs, pres)
	require.NoError(t, err)
	u, _ := loaded.User("t1")
	require.Equal(t, []string{"p1", "p2"}, u.PresentationIDs())
	require.Empty(t, loaded.Changes())
}

func TestLoadRejectsBrokenSymmetry(t *testing.T) {
	u, err := user.Hydrate("t1", "T", "hash", user.RoleTreasurer, "m1", time.Now())
	require.NoError(t, err)
	m, err := municipality.Hydrate("m1", "M", 1, "", "")
	require.NoError(t, err)

	_, err = Load([]*user.User{u}, []*municipality.Municipality{m}, nil, nil)
	require.ErrorIs(t, err, ErrInconsistent)
}

func TestLoadRejectsDanglingPresentation(t *testing.T) {
	p, err := presentation.Hydrate("p1", time.Now(), presentation.StatusOpen, "c1", "t1", "m1", nil)
	require.NoError(t, err)
	_, err = Load(nil, nil, nil, []*presentation.Presentation{p})
	require.ErrorIs(t, err, serrors.ErrNotFound)
}
