// Package graph holds the four accountability entity tables and keeps their
// mutual references consistent. Entities reference each other by identifier
// only; back-references are derived from forward references on Load.
package graph

import (
	"cmp"
	"maps"
	"slices"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/convocation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/municipality"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/presentation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

// Capabilities answers the role questions cascades depend on.
type Capabilities interface {
	CanRepresent(role user.Role) bool
	CanSupervise(role user.Role) bool
}

type Graph struct {
	users          map[string]*user.User
	municipalities map[string]*municipality.Municipality
	convocations   map[string]*convocation.Convocation
	presentations  map[string]*presentation.Presentation
	changes        changeLog
}

func New() *Graph {
	return &Graph{
		users:          map[string]*user.User{},
		municipalities: map[string]*municipality.Municipality{},
		convocations:   map[string]*convocation.Convocation{},
		presentations:  map[string]*presentation.Presentation{},
	}
}

// Load builds a graph from persisted entities, rebuilding every
// back-reference, and rejects data that breaks a relationship invariant.
func Load(
	users []*user.User,
	municipalities []*municipality.Municipality,
	convocations []*convocation.Convocation,
	presentations []*presentation.Presentation,
) (*Graph, error) {
	g := New()
	for _, u := range users {
		if err := g.insertUser(u); err != nil {
			return nil, err
		}
	}
	for _, m := range municipalities {
		if err := g.insertMunicipality(m); err != nil {
			return nil, err
		}
	}
	for _, c := range convocations {
		if err := g.insertConvocation(c); err != nil {
			return nil, err
		}
	}
	for _, p := range presentations {
		if err := g.insertPresentation(p); err != nil {
			return nil, err
		}
	}
	if err := g.CheckInvariants(); err != nil {
		return nil, err
	}
	return g, nil
}

// Clone returns a deep copy with an empty change log.
func (g *Graph) Clone() *Graph {
	out := New()
	for id, u := range g.users {
		out.users[id] = u.Clone()
	}
	for id, m := range g.municipalities {
		out.municipalities[id] = m.Clone()
	}
	for id, c := range g.convocations {
		out.convocations[id] = c.Clone()
	}
	for id, p := range g.presentations {
		out.presentations[id] = p.Clone()
	}
	return out
}

func (g *Graph) User(id string) (*user.User, error) {
	if u, ok := g.users[id]; ok {
		return u, nil
	}
	return nil, serrors.NewNotFoundError(user.EntityName, id)
}

func (g *Graph) Municipality(id string) (*municipality.Municipality, error) {
	if m, ok := g.municipalities[id]; ok {
		return m, nil
	}
	return nil, serrors.NewNotFoundError(municipality.EntityName, id)
}

func (g *Graph) Convocation(id string) (*convocation.Convocation, error) {
	if c, ok := g.convocations[id]; ok {
		return c, nil
	}
	return nil, serrors.NewNotFoundError(convocation.EntityName, id)
}

func (g *Graph) Presentation(id string) (*presentation.Presentation, error) {
	if p, ok := g.presentations[id]; ok {
		return p, nil
	}
	return nil, serrors.NewNotFoundError(presentation.EntityName, id)
}

func (g *Graph) Users() []*user.User {
	return sorted(g.users, (*user.User).ID)
}

func (g *Graph) Municipalities() []*municipality.Municipality {
	return sorted(g.municipalities, (*municipality.Municipality).ID)
}

func (g *Graph) Convocations() []*convocation.Convocation {
	return sorted(g.convocations, (*convocation.Convocation).ID)
}

func (g *Graph) Presentations() []*presentation.Presentation {
	return sorted(g.presentations, (*presentation.Presentation).ID)
}

func (g *Graph) Empty() bool {
	return len(g.users) == 0 && len(g.municipalities) == 0 &&
		len(g.convocations) == 0 && len(g.presentations) == 0
}

func (g *Graph) AddUser(u *user.User) error {
	if err := g.insertUser(u); err != nil {
		return err
	}
	g.changes.save(KindUser, u.ID())
	return nil
}

func (g *Graph) AddMunicipality(m *municipality.Municipality) error {
	if err := g.insertMunicipality(m); err != nil {
		return err
	}
	g.changes.save(KindMunicipality, m.ID())
	return nil
}

func (g *Graph) AddConvocation(c *convocation.Convocation) error {
	if err := g.insertConvocation(c); err != nil {
		return err
	}
	g.changes.save(KindConvocation, c.ID())
	return nil
}

// MarkDirty records that an entity was mutated in place and must be saved.
func (g *Graph) MarkDirty(kind Kind, id string) {
	g.changes.save(kind, id)
}

// MarkField records a single-field update.
func (g *Graph) MarkField(kind Kind, id, field string, value any) {
	g.changes.field(kind, id, field, value)
}

// Changes returns the change set recorded since the graph was loaded or
// cloned.
func (g *Graph) Changes() []Change {
	return g.changes.list()
}

func (g *Graph) ResetChanges() {
	g.changes = changeLog{}
}

func (g *Graph) insertUser(u *user.User) error {
	if _, ok := g.users[u.ID()]; ok {
		return serrors.NewValidationError(user.EntityName, "id", "unique")
	}
	g.users[u.ID()] = u
	return nil
}

func (g *Graph) insertMunicipality(m *municipality.Municipality) error {
	if _, ok := g.municipalities[m.ID()]; ok {
		return serrors.NewValidationError(municipality.EntityName, "id", "unique")
	}
	g.municipalities[m.ID()] = m
	return nil
}

func (g *Graph) insertConvocation(c *convocation.Convocation) error {
	if _, ok := g.convocations[c.ID()]; ok {
		return serrors.NewValidationError(convocation.EntityName, "id", "unique")
	}
	g.convocations[c.ID()] = c
	return nil
}

// insertPresentation adds p and links it into the back-reference collections
// of its convocation, author and municipality.
func (g *Graph) insertPresentation(p *presentation.Presentation) error {
	if _, ok := g.presentations[p.ID()]; ok {
		return serrors.NewValidationError(presentation.EntityName, "id", "unique")
	}
	c, err := g.Convocation(p.ConvocationID())
	if err != nil {
		return err
	}
	author, err := g.User(p.AuthorID())
	if err != nil {
		return err
	}
	m, err := g.Municipality(p.MunicipalityID())
	if err != nil {
		return err
	}
	g.presentations[p.ID()] = p
	c.AddPresentation(p.ID())
	author.AddPresentation(p.ID())
	m.AddPresentation(p.ID())
	return nil
}

func sorted[T any](m map[string]T, id func(T) string) []T {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return out
}
