package services

import (
	"context"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/municipality"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/modules/accountability/graph"
	"github.com/rendiciones/rendiciones/modules/accountability/permissions"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

func (s *AccountabilityService) CreateMunicipality(ctx context.Context, actorID string, dto CreateMunicipalityDTO) (*municipality.Municipality, error) {
	var created *municipality.Municipality
	err := s.mutate(ctx, "create_municipality", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectMunicipality, permissions.ActionCreate); err != nil {
			return err
		}
		if err := dto.Ok(); err != nil {
			return err
		}
		m, err := municipality.New(dto.ID, dto.Name, dto.Category)
		if err != nil {
			return err
		}
		if err := g.AddMunicipality(m); err != nil {
			return err
		}
		created = m.Clone()
		return nil
	})
	return created, err
}

func (s *AccountabilityService) UpdateMunicipality(
	ctx context.Context,
	actorID, municipalityID string,
	dto UpdateMunicipalityDTO,
) (*municipality.Municipality, error) {
	var updated *municipality.Municipality
	err := s.mutate(ctx, "update_municipality", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectMunicipality, permissions.ActionUpdateAny); err != nil {
			return err
		}
		if err := dto.Ok(); err != nil {
			return err
		}
		m, err := g.Municipality(municipalityID)
		if err != nil {
			return err
		}
		if dto.Name != nil {
			if err := m.SetName(*dto.Name); err != nil {
				return err
			}
		}
		if dto.Category != nil {
			if err := m.SetCategory(*dto.Category); err != nil {
				return err
			}
		}
		g.MarkDirty(graph.KindMunicipality, m.ID())
		updated = m.Clone()
		return nil
	})
	return updated, err
}

func (s *AccountabilityService) DeleteMunicipality(ctx context.Context, actorID, municipalityID string) error {
	return s.mutate(ctx, "delete_municipality", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectMunicipality, permissions.ActionDeleteAny); err != nil {
			return err
		}
		return g.DeleteMunicipality(municipalityID)
	})
}

// AssignRepresentative makes userID the representative of municipalityID.
// The target must hold the represent capability.
func (s *AccountabilityService) AssignRepresentative(ctx context.Context, actorID, municipalityID, userID string) error {
	return s.mutate(ctx, "assign_representative", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectMunicipality, permissions.ActionAssignRepresentative); err != nil {
			return err
		}
		if _, err := g.Municipality(municipalityID); err != nil {
			return err
		}
		target, err := g.User(userID)
		if err != nil {
			return err
		}
		if !s.perms.CanRepresent(target.Role()) {
			return serrors.NewInvalidAssigneeError(target.ID(), string(permissions.ActionRepresent))
		}
		return g.AssignRepresentative(municipalityID, userID)
	})
}

func (s *AccountabilityService) UnassignRepresentative(ctx context.Context, actorID, municipalityID string) error {
	return s.mutate(ctx, "unassign_representative", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectMunicipality, permissions.ActionAssignRepresentative); err != nil {
			return err
		}
		return g.UnassignRepresentative(municipalityID)
	})
}

// AssignSupervisor makes userID the supervisor of municipalityID. The target
// must hold the supervise capability.
func (s *AccountabilityService) AssignSupervisor(ctx context.Context, actorID, municipalityID, userID string) error {
	return s.mutate(ctx, "assign_supervisor", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectMunicipality, permissions.ActionAssignSupervisor); err != nil {
			return err
		}
		if _, err := g.Municipality(municipalityID); err != nil {
			return err
		}
		target, err := g.User(userID)
		if err != nil {
			return err
		}
		if !s.perms.CanSupervise(target.Role()) {
			return serrors.NewInvalidAssigneeError(target.ID(), string(permissions.ActionSupervise))
		}
		return g.AssignSupervisor(municipalityID, userID)
	})
}

func (s *AccountabilityService) UnassignSupervisor(ctx context.Context, actorID, municipalityID string) error {
	return s.mutate(ctx, "unassign_supervisor", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectMunicipality, permissions.ActionAssignSupervisor); err != nil {
			return err
		}
		return g.UnassignSupervisor(municipalityID)
	})
}

// ListMunicipalities returns all municipalities for read_all holders, the
// supervised ones for read_scoped holders and the represented one for
// read_own holders.
func (s *AccountabilityService) ListMunicipalities(ctx context.Context, actorID string) ([]*municipality.Municipality, error) {
	var out []*municipality.Municipality
	err := s.query(ctx, "list_municipalities", actorID, func(g *graph.Graph, actor *user.User) error {
		var keep func(*municipality.Municipality) bool
		switch {
		case s.can(ctx, actor, permissions.ObjectMunicipality, permissions.ActionReadAll):
			keep = func(*municipality.Municipality) bool { return true }
		case s.can(ctx, actor, permissions.ObjectMunicipality, permissions.ActionReadScoped):
			keep = func(m *municipality.Municipality) bool { return m.SupervisorID() == actor.ID() }
		case s.can(ctx, actor, permissions.ObjectMunicipality, permissions.ActionReadOwn):
			keep = func(m *municipality.Municipality) bool { return m.RepresentativeID() == actor.ID() }
		default:
			return s.deny(ctx, actor, permissions.ObjectMunicipality, permissions.ActionReadAll, "")
		}
		for _, m := range g.Municipalities() {
			if keep(m) {
				out = append(out, m.Clone())
			}
		}
		return nil
	})
	return out, err
}
