package services

import (
	"context"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/presentation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/modules/accountability/graph"
	"github.com/rendiciones/rendiciones/modules/accountability/permissions"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

// CreatePresentation files a presentation by the actor against a
// convocation, on behalf of the municipality the actor represents right now.
// The checklist starts with every document the convocation requires,
// undelivered.
func (s *AccountabilityService) CreatePresentation(ctx context.Context, actorID string, dto CreatePresentationDTO) (*presentation.Presentation, error) {
	var created *presentation.Presentation
	err := s.mutate(ctx, "create_presentation", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectPresentation, permissions.ActionCreate); err != nil {
			return err
		}
		if err := dto.Ok(); err != nil {
			return err
		}
		if !s.perms.CanRepresent(actor.Role()) || actor.MunicipalityID() == "" {
			return serrors.NewValidationError(presentation.EntityName, "municipality_id", "required")
		}
		c, err := g.Convocation(dto.ConvocationID)
		if err != nil {
			return err
		}
		p, err := presentation.New(
			dto.ID,
			c.ID(),
			actor.ID(),
			actor.MunicipalityID(),
			presentation.WithCreatedAt(s.today()),
			presentation.WithRequiredDocuments(c.RequiredDocuments()),
		)
		if err != nil {
			return err
		}
		if err := g.AttachPresentation(p); err != nil {
			return err
		}
		created = p.Clone()
		return nil
	})
	return created, err
}

// AddDocument marks a document delivered, adding it when it is not listed.
func (s *AccountabilityService) AddDocument(ctx context.Context, actorID, presentationID, document string) error {
	return s.editDocuments(ctx, "add_document", actorID, presentationID, func(p *presentation.Presentation) error {
		return p.DeliverDocument(document)
	})
}

// RemoveDocument unmarks a catalog document and drops an additional one.
func (s *AccountabilityService) RemoveDocument(ctx context.Context, actorID, presentationID, document string) error {
	return s.editDocuments(ctx, "remove_document", actorID, presentationID, func(p *presentation.Presentation) error {
		return p.WithdrawDocument(document)
	})
}

func (s *AccountabilityService) editDocuments(
	ctx context.Context,
	op, actorID, presentationID string,
	edit func(*presentation.Presentation) error,
) error {
	return s.mutate(ctx, op, actorID, func(g *graph.Graph, actor *user.User) error {
		unconditional := s.can(ctx, actor, permissions.ObjectPresentation, permissions.ActionUpdateAny)
		if !unconditional && !s.can(ctx, actor, permissions.ObjectPresentation, permissions.ActionUpdateOwnLimited) {
			return s.deny(ctx, actor, permissions.ObjectPresentation, permissions.ActionUpdateAny, "")
		}
		p, err := g.Presentation(presentationID)
		if err != nil {
			return err
		}
		if !unconditional {
			if p.AuthorID() != actor.ID() {
				return s.deny(ctx, actor, permissions.ObjectPresentation, permissions.ActionUpdateOwnLimited, "not the author")
			}
			if !p.IsOpen() {
				return s.deny(ctx, actor, permissions.ObjectPresentation, permissions.ActionUpdateOwnLimited, "presentation is closed")
			}
		}
		if err := edit(p); err != nil {
			return err
		}
		g.MarkDirty(graph.KindPresentation, p.ID())
		return nil
	})
}

// ClosePresentation delivers an open presentation. close_own_conditional
// holders must be the author, the convocation must be open and every
// required document delivered.
func (s *AccountabilityService) ClosePresentation(ctx context.Context, actorID, presentationID string) error {
	return s.mutate(ctx, "close_presentation", actorID, func(g *graph.Graph, actor *user.User) error {
		unconditional := s.can(ctx, actor, permissions.ObjectPresentation, permissions.ActionCloseAny)
		act := permissions.ActionCloseAny
		if !unconditional {
			if !s.can(ctx, actor, permissions.ObjectPresentation, permissions.ActionCloseOwnConditional) {
				return s.deny(ctx, actor, permissions.ObjectPresentation, act, "")
			}
			act = permissions.ActionCloseOwnConditional
		}
		p, err := g.Presentation(presentationID)
		if err != nil {
			return err
		}
		if !p.IsOpen() {
			return s.deny(ctx, actor, permissions.ObjectPresentation, act, "presentation is not open")
		}
		if !unconditional {
			if p.AuthorID() != actor.ID() {
				return s.deny(ctx, actor, permissions.ObjectPresentation, act, "not the author")
			}
			c, err := g.Convocation(p.ConvocationID())
			if err != nil {
				return err
			}
			if !c.IsOpen(s.today()) {
				return s.deny(ctx, actor, permissions.ObjectPresentation, act, "convocation is closed")
			}
			if !p.AllRequiredDelivered(c.Documents()) {
				return s.deny(ctx, actor, permissions.ObjectPresentation, act, "required documents missing")
			}
		}
		p.Close()
		g.MarkField(graph.KindPresentation, p.ID(), graph.FieldStatus, string(p.Status()))
		return nil
	})
}

// ReopenPresentation returns a closed presentation to Open.
func (s *AccountabilityService) ReopenPresentation(ctx context.Context, actorID, presentationID string) error {
	return s.mutate(ctx, "reopen_presentation", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectPresentation, permissions.ActionReopen); err != nil {
			return err
		}
		p, err := g.Presentation(presentationID)
		if err != nil {
			return err
		}
		if p.IsOpen() {
			return s.deny(ctx, actor, permissions.ObjectPresentation, permissions.ActionReopen, "presentation is not closed")
		}
		p.Reopen()
		g.MarkField(graph.KindPresentation, p.ID(), graph.FieldStatus, string(p.Status()))
		return nil
	})
}

// DeletePresentation removes a presentation. delete_own_conditional holders
// may only delete their own open presentations.
func (s *AccountabilityService) DeletePresentation(ctx context.Context, actorID, presentationID string) error {
	return s.mutate(ctx, "delete_presentation", actorID, func(g *graph.Graph, actor *user.User) error {
		unconditional := s.can(ctx, actor, permissions.ObjectPresentation, permissions.ActionDeleteAny)
		if !unconditional && !s.can(ctx, actor, permissions.ObjectPresentation, permissions.ActionDeleteOwnConditional) {
			return s.deny(ctx, actor, permissions.ObjectPresentation, permissions.ActionDeleteAny, "")
		}
		p, err := g.Presentation(presentationID)
		if err != nil {
			return err
		}
		if !unconditional {
			if p.AuthorID() != actor.ID() {
				return s.deny(ctx, actor, permissions.ObjectPresentation, permissions.ActionDeleteOwnConditional, "not the author")
			}
			if !p.IsOpen() {
				return s.deny(ctx, actor, permissions.ObjectPresentation, permissions.ActionDeleteOwnConditional, "presentation is closed")
			}
		}
		return g.DeletePresentation(p.ID())
	})
}

// ListPresentations returns all presentations for read_all holders, those of
// supervised municipalities for read_scoped holders and the authored ones
// for read_own holders.
func (s *AccountabilityService) ListPresentations(ctx context.Context, actorID string) ([]*presentation.Presentation, error) {
	var out []*presentation.Presentation
	err := s.query(ctx, "list_presentations", actorID, func(g *graph.Graph, actor *user.User) error {
		visible, err := s.visiblePresentations(ctx, g, actor)
		if err != nil {
			return err
		}
		for _, p := range visible {
			out = append(out, p.Clone())
		}
		return nil
	})
	return out, err
}

func (s *AccountabilityService) visiblePresentations(
	ctx context.Context,
	g *graph.Graph,
	actor *user.User,
) ([]*presentation.Presentation, error) {
	var keep func(*presentation.Presentation) bool
	switch {
	case s.can(ctx, actor, permissions.ObjectPresentation, permissions.ActionReadAll):
		keep = func(*presentation.Presentation) bool { return true }
	case s.can(ctx, actor, permissions.ObjectPresentation, permissions.ActionReadScoped):
		keep = func(p *presentation.Presentation) bool {
			m, err := g.Municipality(p.MunicipalityID())
			return err == nil && m.SupervisorID() == actor.ID()
		}
	case s.can(ctx, actor, permissions.ObjectPresentation, permissions.ActionReadOwn):
		keep = func(p *presentation.Presentation) bool { return p.AuthorID() == actor.ID() }
	default:
		return nil, s.deny(ctx, actor, permissions.ObjectPresentation, permissions.ActionReadAll, "")
	}
	var out []*presentation.Presentation
	for _, p := range g.Presentations() {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
