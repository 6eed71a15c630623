package graph

import (
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/presentation"
)

const (
	fieldMunicipalityID   = "municipality_id"
	fieldRepresentativeID = "representative_id"
	fieldSupervisorID     = "supervisor_id"
)

// AssignRepresentative links userID and municipalityID both ways. Any
// municipality the user represented and any user representing the
// municipality are released first. Prior holders are looked up in the tables.
func (g *Graph) AssignRepresentative(municipalityID, userID string) error {
	m, err := g.Municipality(municipalityID)
	if err != nil {
		return err
	}
	u, err := g.User(userID)
	if err != nil {
		return err
	}
	for _, other := range g.municipalities {
		if other.ID() != m.ID() && other.RepresentativeID() == u.ID() {
			other.ClearRepresentative()
			g.MarkField(KindMunicipality, other.ID(), fieldRepresentativeID, "")
		}
	}
	for _, other := range g.users {
		if other.ID() != u.ID() && other.MunicipalityID() == m.ID() {
			other.ClearMunicipality()
			g.MarkField(KindUser, other.ID(), fieldMunicipalityID, "")
		}
	}
	m.SetRepresentative(u.ID())
	u.SetMunicipality(m.ID())
	g.MarkField(KindMunicipality, m.ID(), fieldRepresentativeID, u.ID())
	g.MarkField(KindUser, u.ID(), fieldMunicipalityID, m.ID())
	return nil
}

// UnassignRepresentative clears both sides of the municipality's
// representation. It is a no-op when there is none.
func (g *Graph) UnassignRepresentative(municipalityID string) error {
	m, err := g.Municipality(municipalityID)
	if err != nil {
		return err
	}
	g.releaseRepresentation(m.ID())
	return nil
}

// AssignSupervisor overwrites the municipality's supervisor. Auditors may
// supervise several municipalities, so the user side is left alone.
func (g *Graph) AssignSupervisor(municipalityID, userID string) error {
	m, err := g.Municipality(municipalityID)
	if err != nil {
		return err
	}
	u, err := g.User(userID)
	if err != nil {
		return err
	}
	m.SetSupervisor(u.ID())
	g.MarkField(KindMunicipality, m.ID(), fieldSupervisorID, u.ID())
	return nil
}

func (g *Graph) UnassignSupervisor(municipalityID string) error {
	m, err := g.Municipality(municipalityID)
	if err != nil {
		return err
	}
	if m.SupervisorID() != "" {
		m.ClearSupervisor()
		g.MarkField(KindMunicipality, m.ID(), fieldSupervisorID, "")
	}
	return nil
}

// AttachPresentation adds a new presentation and links it into its
// convocation, author and municipality.
func (g *Graph) AttachPresentation(p *presentation.Presentation) error {
	if err := g.insertPresentation(p); err != nil {
		return err
	}
	g.changes.save(KindPresentation, p.ID())
	return nil
}

// DeletePresentation removes the presentation from the three back-reference
// collections, clears its own references and drops it from the table.
func (g *Graph) DeletePresentation(id string) error {
	p, err := g.Presentation(id)
	if err != nil {
		return err
	}
	g.removePresentation(p)
	return nil
}

// DeleteConvocation deletes every presentation filed against the convocation
// and then the convocation itself.
func (g *Graph) DeleteConvocation(id string) error {
	c, err := g.Convocation(id)
	if err != nil {
		return err
	}
	for _, p := range g.Presentations() {
		if p.ConvocationID() == c.ID() {
			g.removePresentation(p)
		}
	}
	delete(g.convocations, c.ID())
	g.changes.delete(KindConvocation, c.ID())
	return nil
}

// DeleteMunicipality releases the supervisor and representative links,
// deletes the municipality's presentations and removes it.
func (g *Graph) DeleteMunicipality(id string) error {
	m, err := g.Municipality(id)
	if err != nil {
		return err
	}
	m.ClearSupervisor()
	g.releaseRepresentation(m.ID())
	for _, p := range g.Presentations() {
		if p.MunicipalityID() == m.ID() {
			g.removePresentation(p)
		}
	}
	delete(g.municipalities, m.ID())
	g.changes.delete(KindMunicipality, m.ID())
	return nil
}

// DeleteUser cascades according to the user's capabilities: supervisors are
// released from their municipalities, representatives from their
// municipality. Authored presentations survive role changes, so they are
// deleted whatever the current role is.
func (g *Graph) DeleteUser(id string, caps Capabilities) error {
	u, err := g.User(id)
	if err != nil {
		return err
	}
	if caps.CanSupervise(u.Role()) {
		g.releaseSupervision(u.ID())
	}
	if caps.CanRepresent(u.Role()) {
		g.releaseUserRepresentation(u.ID())
	}
	g.releaseAuthorship(u.ID())

	delete(g.users, u.ID())
	g.changes.delete(KindUser, u.ID())
	return nil
}

// ReconcileRole releases the links a user may no longer hold after a role
// change. Authored presentations are kept.
func (g *Graph) ReconcileRole(id string, caps Capabilities) error {
	u, err := g.User(id)
	if err != nil {
		return err
	}
	if !caps.CanRepresent(u.Role()) {
		g.releaseUserRepresentation(u.ID())
	}
	if !caps.CanSupervise(u.Role()) {
		g.releaseSupervision(u.ID())
	}
	return nil
}

func (g *Graph) removePresentation(p *presentation.Presentation) {
	if c, ok := g.convocations[p.ConvocationID()]; ok {
		c.RemovePresentation(p.ID())
	}
	if m, ok := g.municipalities[p.MunicipalityID()]; ok {
		m.RemovePresentation(p.ID())
	}
	if u, ok := g.users[p.AuthorID()]; ok {
		u.RemovePresentation(p.ID())
	}
	p.Detach()
	delete(g.presentations, p.ID())
	g.changes.delete(KindPresentation, p.ID())
}

// releaseRepresentation clears the representative of a municipality and the
// municipality link of every user pointing at it.
func (g *Graph) releaseRepresentation(municipalityID string) {
	m, ok := g.municipalities[municipalityID]
	if !ok {
		return
	}
	if m.RepresentativeID() != "" {
		m.ClearRepresentative()
		g.MarkField(KindMunicipality, m.ID(), fieldRepresentativeID, "")
	}
	for _, u := range g.users {
		if u.MunicipalityID() == municipalityID {
			u.ClearMunicipality()
			g.MarkField(KindUser, u.ID(), fieldMunicipalityID, "")
		}
	}
}

func (g *Graph) releaseUserRepresentation(userID string) {
	u, ok := g.users[userID]
	if !ok {
		return
	}
	if u.MunicipalityID() != "" {
		u.ClearMunicipality()
		g.MarkField(KindUser, u.ID(), fieldMunicipalityID, "")
	}
	for _, m := range g.municipalities {
		if m.RepresentativeID() == userID {
			m.ClearRepresentative()
			g.MarkField(KindMunicipality, m.ID(), fieldRepresentativeID, "")
		}
	}
}

func (g *Graph) releaseSupervision(userID string) {
	for _, m := range g.municipalities {
		if m.SupervisorID() == userID {
			m.ClearSupervisor()
			g.MarkField(KindMunicipality, m.ID(), fieldSupervisorID, "")
		}
	}
}

func (g *Graph) releaseAuthorship(userID string) {
	for _, p := range g.Presentations() {
		if p.AuthorID() == userID {
			g.removePresentation(p)
		}
	}
}
