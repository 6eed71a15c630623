package services

import (
	"context"
	"strings"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/convocation"
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/modules/accountability/graph"
	"github.com/rendiciones/rendiciones/modules/accountability/permissions"
)

// StatusAuto clears an explicit convocation status so the date window
// decides again.
const StatusAuto = "auto"

func (s *AccountabilityService) CreateConvocation(ctx context.Context, actorID string, dto CreateConvocationDTO) (*convocation.Convocation, error) {
	var created *convocation.Convocation
	err := s.mutate(ctx, "create_convocation", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectConvocation, permissions.ActionCreate); err != nil {
			return err
		}
		if err := dto.Ok(); err != nil {
			return err
		}
		c, err := convocation.New(dto.ID, dto.OpeningDate, dto.ClosingDate, convocation.WithDescription(dto.Description))
		if err != nil {
			return err
		}
		for _, name := range dto.RequiredDocuments {
			if err := c.RequireDocument(name); err != nil {
				return err
			}
		}
		if err := g.AddConvocation(c); err != nil {
			return err
		}
		created = c.Clone()
		return nil
	})
	return created, err
}

// UpdateConvocation changes the dates and the description. A single date may
// be given; the other keeps its current value.
func (s *AccountabilityService) UpdateConvocation(
	ctx context.Context,
	actorID, convocationID string,
	dto UpdateConvocationDTO,
) (*convocation.Convocation, error) {
	var updated *convocation.Convocation
	err := s.mutate(ctx, "update_convocation", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectConvocation, permissions.ActionUpdateAny); err != nil {
			return err
		}
		if err := dto.Ok(); err != nil {
			return err
		}
		c, err := g.Convocation(convocationID)
		if err != nil {
			return err
		}
		if dto.OpeningDate != nil || dto.ClosingDate != nil {
			opening, closing := c.OpeningDate(), c.ClosingDate()
			if dto.OpeningDate != nil {
				opening = *dto.OpeningDate
			}
			if dto.ClosingDate != nil {
				closing = *dto.ClosingDate
			}
			if err := c.SetDates(opening, closing); err != nil {
				return err
			}
		}
		if dto.Description != nil {
			if err := c.SetDescription(*dto.Description); err != nil {
				return err
			}
		}
		g.MarkDirty(graph.KindConvocation, c.ID())
		updated = c.Clone()
		return nil
	})
	return updated, err
}

// RequireConvocationDocument flags a catalog document as required. Existing
// presentations are left as they are.
func (s *AccountabilityService) RequireConvocationDocument(ctx context.Context, actorID, convocationID, document string) error {
	return s.mutate(ctx, "require_convocation_document", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectConvocation, permissions.ActionUpdateAny); err != nil {
			return err
		}
		c, err := g.Convocation(convocationID)
		if err != nil {
			return err
		}
		if err := c.RequireDocument(document); err != nil {
			return err
		}
		g.MarkDirty(graph.KindConvocation, c.ID())
		return nil
	})
}

func (s *AccountabilityService) WithdrawConvocationDocument(ctx context.Context, actorID, convocationID, document string) error {
	return s.mutate(ctx, "withdraw_convocation_document", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectConvocation, permissions.ActionUpdateAny); err != nil {
			return err
		}
		c, err := g.Convocation(convocationID)
		if err != nil {
			return err
		}
		if err := c.WithdrawDocument(document); err != nil {
			return err
		}
		g.MarkDirty(graph.KindConvocation, c.ID())
		return nil
	})
}

// SetConvocationStatus forces a convocation open or closed. StatusAuto (or
// an empty status) returns it to its date window.
func (s *AccountabilityService) SetConvocationStatus(ctx context.Context, actorID, convocationID, status string) error {
	return s.mutate(ctx, "set_convocation_status", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectConvocation, permissions.ActionToggleStatus); err != nil {
			return err
		}
		var override *convocation.Status
		if status = strings.ToLower(strings.TrimSpace(status)); status != "" && status != StatusAuto {
			st, err := convocation.NewStatus(status)
			if err != nil {
				return err
			}
			override = &st
		}
		c, err := g.Convocation(convocationID)
		if err != nil {
			return err
		}
		if override == nil {
			c.ClearStatusOverride()
		} else if err := c.OverrideStatus(*override); err != nil {
			return err
		}
		g.MarkDirty(graph.KindConvocation, c.ID())
		return nil
	})
}

// DeleteConvocation deletes the convocation and its presentations.
// delete_own_conditional holders may only delete convocations nobody has
// filed against.
func (s *AccountabilityService) DeleteConvocation(ctx context.Context, actorID, convocationID string) error {
	return s.mutate(ctx, "delete_convocation", actorID, func(g *graph.Graph, actor *user.User) error {
		unconditional := s.can(ctx, actor, permissions.ObjectConvocation, permissions.ActionDeleteAny)
		if !unconditional && !s.can(ctx, actor, permissions.ObjectConvocation, permissions.ActionDeleteOwnConditional) {
			return s.deny(ctx, actor, permissions.ObjectConvocation, permissions.ActionDeleteAny, "")
		}
		c, err := g.Convocation(convocationID)
		if err != nil {
			return err
		}
		if !unconditional && c.HasPresentations() {
			return s.deny(ctx, actor, permissions.ObjectConvocation, permissions.ActionDeleteOwnConditional, "convocation has presentations")
		}
		return g.DeleteConvocation(c.ID())
	})
}

func (s *AccountabilityService) ListConvocations(ctx context.Context, actorID string) ([]*convocation.Convocation, error) {
	var out []*convocation.Convocation
	err := s.query(ctx, "list_convocations", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectConvocation, permissions.ActionReadAll); err != nil {
			return err
		}
		for _, c := range g.Convocations() {
			out = append(out, c.Clone())
		}
		return nil
	})
	return out, err
}

// ConvocationStatus reports the derived status of a convocation at the
// service clock.
func (s *AccountabilityService) ConvocationStatus(c *convocation.Convocation) convocation.Status {
	return c.Status(s.today())
}
