package permissions

import (
	"github.com/rendiciones/rendiciones/modules/accountability/domain/aggregates/user"
)

type Object string

const (
	ObjectUser         Object = "user"
	ObjectMunicipality Object = "municipality"
	ObjectConvocation  Object = "convocation"
	ObjectPresentation Object = "presentation"
)

var Objects = []Object{ObjectUser, ObjectMunicipality, ObjectConvocation, ObjectPresentation}

type Action string

const (
	ActionCreate               Action = "create"
	ActionReadAll              Action = "read_all"
	ActionReadOwn              Action = "read_own"
	ActionReadScoped           Action = "read_scoped"
	ActionUpdateAny            Action = "update_any"
	ActionUpdateOwnLimited     Action = "update_own_limited"
	ActionDeleteAny            Action = "delete_any"
	ActionDeleteOwnConditional Action = "delete_own_conditional"
	ActionAssignRepresentative Action = "assign_representative"
	ActionAssignSupervisor     Action = "assign_supervisor"
	ActionRepresent            Action = "represent"
	ActionSupervise            Action = "supervise"
	ActionCloseAny             Action = "close_any"
	ActionCloseOwnConditional  Action = "close_own_conditional"
	ActionReopen               Action = "reopen"
	ActionToggleStatus         Action = "toggle_status"
)

var Actions = []Action{
	ActionCreate,
	ActionReadAll,
	ActionReadOwn,
	ActionReadScoped,
	ActionUpdateAny,
	ActionUpdateOwnLimited,
	ActionDeleteAny,
	ActionDeleteOwnConditional,
	ActionAssignRepresentative,
	ActionAssignSupervisor,
	ActionRepresent,
	ActionSupervise,
	ActionCloseAny,
	ActionCloseOwnConditional,
	ActionReopen,
	ActionToggleStatus,
}

type Grants map[Object][]Action

// Matrix lists every allowed (role, object, action) cell. Anything absent is
// denied.
var Matrix = map[user.Role]Grants{
	user.RoleAdministrator: {
		ObjectUser: {ActionCreate, ActionReadAll, ActionUpdateAny, ActionDeleteAny},
		ObjectMunicipality: {
			ActionCreate, ActionReadAll, ActionUpdateAny, ActionDeleteAny,
			ActionAssignRepresentative, ActionAssignSupervisor,
		},
		ObjectConvocation:  {ActionCreate, ActionReadAll, ActionUpdateAny, ActionDeleteAny, ActionToggleStatus},
		ObjectPresentation: {ActionReadAll, ActionUpdateAny, ActionDeleteAny, ActionCloseAny, ActionReopen},
	},
	user.RoleGeneralAuditor: {
		ObjectUser:         {ActionReadAll},
		ObjectMunicipality: {ActionReadAll, ActionAssignSupervisor},
		ObjectConvocation: {
			ActionCreate, ActionReadAll, ActionUpdateAny, ActionDeleteOwnConditional, ActionToggleStatus,
		},
		ObjectPresentation: {ActionReadAll, ActionCloseAny, ActionReopen},
	},
	user.RoleAuditor: {
		ObjectUser:         {ActionReadOwn, ActionUpdateOwnLimited},
		ObjectMunicipality: {ActionReadScoped, ActionSupervise},
		ObjectConvocation:  {ActionReadAll},
		ObjectPresentation: {ActionReadScoped},
	},
	user.RoleTreasurer: {
		ObjectUser:         {ActionReadOwn, ActionUpdateOwnLimited},
		ObjectMunicipality: {ActionReadOwn, ActionRepresent},
		ObjectConvocation:  {ActionReadAll},
		ObjectPresentation: {
			ActionCreate, ActionReadOwn, ActionUpdateOwnLimited,
			ActionDeleteOwnConditional, ActionCloseOwnConditional,
		},
	},
}
