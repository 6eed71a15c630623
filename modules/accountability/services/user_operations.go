package services

import (
	"context"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/modules/accountability/graph"
	"github.com/rendiciones/rendiciones/modules/accountability/permissions"
	"github.com/rendiciones/rendiciones/pkg/serrors"
)

// Bootstrap creates the first administrator. It only succeeds while the
// graph holds no users.
func (s *AccountabilityService) Bootstrap(ctx context.Context, dto BootstrapDTO) (*user.User, error) {
	var created *user.User
	err := s.commit(ctx, "bootstrap", dto.ID, func(g *graph.Graph) error {
		if len(g.Users()) > 0 {
			return serrors.NewPermissionDeniedError("", string(permissions.ObjectUser), string(permissions.ActionCreate), "users already exist")
		}
		if err := dto.Ok(); err != nil {
			return err
		}
		u, err := user.New(dto.ID, dto.Name, dto.Secret, user.RoleAdministrator)
		if err != nil {
			return err
		}
		if err := g.AddUser(u); err != nil {
			return err
		}
		created = u.Clone()
		return nil
	})
	return created, err
}

func (s *AccountabilityService) CreateUser(ctx context.Context, actorID string, dto CreateUserDTO) (*user.User, error) {
	var created *user.User
	err := s.mutate(ctx, "create_user", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectUser, permissions.ActionCreate); err != nil {
			return err
		}
		if err := dto.Ok(); err != nil {
			return err
		}
		u, err := user.New(dto.ID, dto.Name, dto.Secret, user.Role(dto.Role))
		if err != nil {
			return err
		}
		if err := g.AddUser(u); err != nil {
			return err
		}
		created = u.Clone()
		return nil
	})
	return created, err
}

// UpdateUser changes another user's name, secret or role. A role change
// releases whatever links the new role cannot hold.
func (s *AccountabilityService) UpdateUser(ctx context.Context, actorID, userID string, dto UpdateUserDTO) (*user.User, error) {
	var updated *user.User
	err := s.mutate(ctx, "update_user", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectUser, permissions.ActionUpdateAny); err != nil {
			return err
		}
		if err := dto.Ok(); err != nil {
			return err
		}
		u, err := g.User(userID)
		if err != nil {
			return err
		}
		if err := applyProfile(u, dto.Name, dto.Secret); err != nil {
			return err
		}
		if dto.Role != nil && user.Role(*dto.Role) != u.Role() {
			if err := u.SetRole(user.Role(*dto.Role)); err != nil {
				return err
			}
			if err := g.ReconcileRole(u.ID(), s.perms); err != nil {
				return err
			}
		}
		g.MarkDirty(graph.KindUser, u.ID())
		updated = u.Clone()
		return nil
	})
	return updated, err
}

// UpdateOwnProfile lets a user change their own name and secret.
func (s *AccountabilityService) UpdateOwnProfile(ctx context.Context, actorID string, dto UpdateProfileDTO) (*user.User, error) {
	var updated *user.User
	err := s.mutate(ctx, "update_own_profile", actorID, func(g *graph.Graph, actor *user.User) error {
		if !s.can(ctx, actor, permissions.ObjectUser, permissions.ActionUpdateOwnLimited) &&
			!s.can(ctx, actor, permissions.ObjectUser, permissions.ActionUpdateAny) {
			return s.deny(ctx, actor, permissions.ObjectUser, permissions.ActionUpdateOwnLimited, "")
		}
		if err := dto.Ok(); err != nil {
			return err
		}
		if err := applyProfile(actor, dto.Name, dto.Secret); err != nil {
			return err
		}
		g.MarkDirty(graph.KindUser, actor.ID())
		updated = actor.Clone()
		return nil
	})
	return updated, err
}

func (s *AccountabilityService) DeleteUser(ctx context.Context, actorID, userID string) error {
	return s.mutate(ctx, "delete_user", actorID, func(g *graph.Graph, actor *user.User) error {
		if err := s.authorize(ctx, actor, permissions.ObjectUser, permissions.ActionDeleteAny); err != nil {
			return err
		}
		if userID == actor.ID() {
			return s.deny(ctx, actor, permissions.ObjectUser, permissions.ActionDeleteAny, "cannot delete the acting user")
		}
		return g.DeleteUser(userID, s.perms)
	})
}

// ListUsers returns every user for read_all holders and only the actor for
// read_own holders.
func (s *AccountabilityService) ListUsers(ctx context.Context, actorID string) ([]*user.User, error) {
	var out []*user.User
	err := s.query(ctx, "list_users", actorID, func(g *graph.Graph, actor *user.User) error {
		switch {
		case s.can(ctx, actor, permissions.ObjectUser, permissions.ActionReadAll):
			for _, u := range g.Users() {
				out = append(out, u.Clone())
			}
		case s.can(ctx, actor, permissions.ObjectUser, permissions.ActionReadOwn):
			out = []*user.User{actor.Clone()}
		default:
			return s.deny(ctx, actor, permissions.ObjectUser, permissions.ActionReadAll, "")
		}
		return nil
	})
	return out, err
}

func applyProfile(u *user.User, name, secret *string) error {
	if name != nil {
		if err := u.SetName(*name); err != nil {
			return err
		}
	}
	if secret != nil {
		if err := u.SetSecret(*secret); err != nil {
			return err
		}
	}
	return nil
}
