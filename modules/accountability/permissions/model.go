package permissions

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
	"github.com/rendiciones/rendiciones/pkg/authz"
)

// PolicyCSV renders Matrix as casbin policy lines, sorted for stable output.
func PolicyCSV() string {
	var lines []string
	for role, grants := range Matrix {
		for obj, actions := range grants {
			for _, act := range actions {
				lines = append(lines, fmt.Sprintf("p, %s, %s, %s", authz.SubjectForRole(role.String()), obj, act))
			}
		}
	}
	slices.Sort(lines)
	return strings.Join(lines, "\n")
}

// Model answers capability questions for roles. It is read-only once built.
type Model struct {
	authz *authz.Service
}

func NewModel(logger *logrus.Logger) (*Model, error) {
	svc, err := authz.NewService(authz.Config{
		Policy: PolicyCSV(),
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &Model{authz: svc}, nil
}

// HasPermission reports whether role holds act on obj. Unknown triples and
// enforcer failures evaluate to false.
func (m *Model) HasPermission(role user.Role, obj Object, act Action) bool {
	return m.Allowed(context.Background(), role, obj, act)
}

func (m *Model) Allowed(ctx context.Context, role user.Role, obj Object, act Action) bool {
	if !role.IsValid() {
		return false
	}
	return m.authz.Allowed(ctx, request(role, obj, act))
}

// Authorize returns a *serrors.PermissionDeniedError when role lacks act on
// obj.
func (m *Model) Authorize(ctx context.Context, role user.Role, obj Object, act Action) error {
	return m.authz.Authorize(ctx, request(role, obj, act))
}

// Inspect exposes the matched casbin rule for a triple.
func (m *Model) Inspect(ctx context.Context, role user.Role, obj Object, act Action) (authz.InspectionResult, error) {
	return m.authz.Inspect(ctx, request(role, obj, act))
}

// CanRepresent and CanSupervise are the target-side capabilities used when
// linking users to municipalities.
func (m *Model) CanRepresent(role user.Role) bool {
	return m.HasPermission(role, ObjectMunicipality, ActionRepresent)
}

func (m *Model) CanSupervise(role user.Role) bool {
	return m.HasPermission(role, ObjectMunicipality, ActionSupervise)
}

func request(role user.Role, obj Object, act Action) authz.Request {
	return authz.NewRequest(authz.SubjectForRole(role.String()), string(obj), string(act))
}
