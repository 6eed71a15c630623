package user

import (
	"strings"

	"github.com/rendiciones/rendiciones/pkg/serrors"
)

type Role string

const (
	RoleAdministrator  Role = "administrator"
	RoleGeneralAuditor Role = "general_auditor"
	RoleAuditor        Role = "auditor"
	RoleTreasurer      Role = "treasurer"
)

var Roles = []Role{
	RoleAdministrator,
	RoleGeneralAuditor,
	RoleAuditor,
	RoleTreasurer,
}

func NewRole(r string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(r)))
	if !role.IsValid() {
		return "", serrors.NewValidationError(EntityName, "role", "oneof=administrator general_auditor auditor treasurer")
	}
	return role, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdministrator, RoleGeneralAuditor, RoleAuditor, RoleTreasurer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
