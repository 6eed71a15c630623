package graph

import (
	"slices"

	"github.com/go-faster/errors"
)

// ErrInconsistent marks a broken relationship invariant.
var ErrInconsistent = errors.New("graph: inconsistent relationships")

// CheckInvariants verifies representation symmetry and that every forward and
// back reference points at an existing entity that points back.
func (g *Graph) CheckInvariants() error {
	for _, m := range g.Municipalities() {
		if id := m.RepresentativeID(); id != "" {
			u, ok := g.users[id]
			if !ok {
				return inconsistent("municipality %s: representative %s does not exist", m.ID(), id)
			}
			if u.MunicipalityID() != m.ID() {
				return inconsistent("municipality %s: representative %s represents %q", m.ID(), id, u.MunicipalityID())
			}
		}
		if id := m.SupervisorID(); id != "" {
			if _, ok := g.users[id]; !ok {
				return inconsistent("municipality %s: supervisor %s does not exist", m.ID(), id)
			}
		}
		for _, pid := range m.PresentationIDs() {
			if p, ok := g.presentations[pid]; !ok || p.MunicipalityID() != m.ID() {
				return inconsistent("municipality %s: stale presentation %s", m.ID(), pid)
			}
		}
	}
	for _, u := range g.Users() {
		if id := u.MunicipalityID(); id != "" {
			m, ok := g.municipalities[id]
			if !ok {
				return inconsistent("user %s: municipality %s does not exist", u.ID(), id)
			}
			if m.RepresentativeID() != u.ID() {
				return inconsistent("user %s: municipality %s is represented by %q", u.ID(), id, m.RepresentativeID())
			}
		}
		for _, pid := range u.PresentationIDs() {
			if p, ok := g.presentations[pid]; !ok || p.AuthorID() != u.ID() {
				return inconsistent("user %s: stale presentation %s", u.ID(), pid)
			}
		}
	}
	for _, c := range g.Convocations() {
		for _, pid := range c.PresentationIDs() {
			if p, ok := g.presentations[pid]; !ok || p.ConvocationID() != c.ID() {
				return inconsistent("convocation %s: stale presentation %s", c.ID(), pid)
			}
		}
	}
	for _, p := range g.Presentations() {
		c, ok := g.convocations[p.ConvocationID()]
		if !ok || !slices.Contains(c.PresentationIDs(), p.ID()) {
			return inconsistent("presentation %s: convocation %q missing or unlinked", p.ID(), p.ConvocationID())
		}
		u, ok := g.users[p.AuthorID()]
		if !ok || !slices.Contains(u.PresentationIDs(), p.ID()) {
			return inconsistent("presentation %s: author %q missing or unlinked", p.ID(), p.AuthorID())
		}
		m, ok := g.municipalities[p.MunicipalityID()]
		if !ok || !slices.Contains(m.PresentationIDs(), p.ID()) {
			return inconsistent("presentation %s: municipality %q missing or unlinked", p.ID(), p.MunicipalityID())
		}
	}
	return nil
}

// References lists every identifier held by a surviving entity.
func (g *Graph) References() []string {
	var refs []string
	add := func(ids ...string) {
		for _, id := range ids {
			if id != "" {
				refs = append(refs, id)
			}
		}
	}
	for _, u := range g.users {
		add(u.MunicipalityID())
		add(u.PresentationIDs()...)
	}
	for _, m := range g.municipalities {
		add(m.RepresentativeID(), m.SupervisorID())
		add(m.PresentationIDs()...)
	}
	for _, c := range g.convocations {
		add(c.PresentationIDs()...)
	}
	for _, p := range g.presentations {
		add(p.ConvocationID(), p.AuthorID(), p.MunicipalityID())
	}
	slices.Sort(refs)
	return slices.Compact(refs)
}

func inconsistent(format string, args ...any) error {
	return errors.Wrapf(ErrInconsistent, format, args...)
}
