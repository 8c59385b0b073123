// Package authz is the access control engine. Authorize is a pure decision
// function over the actor, the requested action, and a snapshot of the target
// resource supplied by the caller; it never queries storage and has no hidden
// state, so repeated calls with the same inputs yield the same decision.
//
// Two gates apply in order: a static department -> action table, then an
// ownership/state gate for the actions that are scoped to a specific record.
package authz

import (
	"github.com/epicevents/crm/internal/models"
)

// Action is the fixed enumeration of operations subject to authorization.
type Action string

const (
	ActionCreateUser Action = "create_user"
	ActionReadUser   Action = "read_user"
	ActionUpdateUser Action = "update_user"
	ActionDeleteUser Action = "delete_user"

	ActionCreateClient Action = "create_client"
	ActionReadClient   Action = "read_client"
	ActionUpdateClient Action = "update_client"
	ActionDeleteClient Action = "delete_client"

	ActionCreateContract Action = "create_contract"
	ActionReadContract   Action = "read_contract"
	ActionUpdateContract Action = "update_contract"
	ActionDeleteContract Action = "delete_contract"
	ActionSignContract   Action = "sign_contract"

	ActionCreateEvent Action = "create_event"
	ActionReadEvent   Action = "read_event"
	ActionUpdateEvent Action = "update_event"
	ActionDeleteEvent Action = "delete_event"
	ActionAssignEvent Action = "assign_event"
)

// Actions lists every known action, for table sweeps in tests and for
// validating external input.
var Actions = []Action{
	ActionCreateUser, ActionReadUser, ActionUpdateUser, ActionDeleteUser,
	ActionCreateClient, ActionReadClient, ActionUpdateClient, ActionDeleteClient,
	ActionCreateContract, ActionReadContract, ActionUpdateContract, ActionDeleteContract,
	ActionSignContract,
	ActionCreateEvent, ActionReadEvent, ActionUpdateEvent, ActionDeleteEvent,
	ActionAssignEvent,
}

// Reason is the code carried by a denial. No partial permissions exist; a
// decision is allow, or deny with exactly one of these reasons.
type Reason string

const (
	ReasonRoleDenied                Reason = "RoleDenied"
	ReasonNotOwner                  Reason = "NotOwner"
	ReasonContractNotSigned         Reason = "ContractNotSigned"
	ReasonInvalidAssigneeDepartment Reason = "InvalidAssigneeDepartment"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow is the positive decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny is a negative decision carrying a reason code.
func Deny(reason Reason) Decision { return Decision{Reason: reason} }

// CommerciallyOwned is implemented by resources owned by a commercial
// contact (Client, Contract).
type CommerciallyOwned interface {
	CommercialOwnerID() uint
}

// SupportAssigned is implemented by resources owned by an assigned support
// contact (Event). ok is false while unassigned.
type SupportAssigned interface {
	SupportOwnerID() (uint, bool)
}

// permissions is the static department -> permitted action table. Lookup is
// fail-safe: anything not present denies.
var permissions = map[models.Department]map[Action]bool{
	models.DepartmentGestion: {
		ActionCreateUser: true, ActionReadUser: true, ActionUpdateUser: true, ActionDeleteUser: true,
		ActionCreateClient: true, ActionReadClient: true, ActionUpdateClient: true, ActionDeleteClient: true,
		ActionCreateContract: true, ActionReadContract: true, ActionUpdateContract: true, ActionDeleteContract: true,
		ActionSignContract: true,
		ActionCreateEvent:  true, ActionReadEvent: true, ActionUpdateEvent: true, ActionDeleteEvent: true,
		ActionAssignEvent: true,
	},
	models.DepartmentCommercial: {
		ActionCreateClient: true, ActionReadClient: true, ActionUpdateClient: true,
		ActionCreateContract: true, ActionReadContract: true, ActionUpdateContract: true,
		ActionSignContract: true,
		ActionCreateEvent:  true, ActionReadEvent: true,
	},
	models.DepartmentSupport: {
		ActionReadClient: true, ActionReadContract: true,
		ActionReadEvent: true, ActionUpdateEvent: true,
	},
}

// Permitted reports the raw role-gate result, without the ownership gate.
// Useful for building command menus; mutations must go through Authorize.
func Permitted(dept models.Department, action Action) bool {
	return permissions[dept][action]
}

// Authorize decides whether actor may perform action. resource is the loaded
// target record when the decision depends on ownership or state: the Client
// or Contract being updated, the parent Contract for create_event, the Event
// being updated. It may be nil for actions with no record scope.
func Authorize(actor *models.User, action Action, resource any) Decision {
	if actor == nil || !permissions[actor.Department][action] {
		return Deny(ReasonRoleDenied)
	}

	switch action {
	case ActionCreateEvent:
		// The signed-contract precondition applies to every department,
		// including GESTION.
		if contract, ok := resource.(*models.Contract); ok && !contract.Signed() {
			return Deny(ReasonContractNotSigned)
		}
		if actor.IsCommercial() {
			return checkCommercialOwner(actor, resource)
		}

	case ActionUpdateClient, ActionUpdateContract, ActionCreateContract, ActionSignContract:
		if actor.IsCommercial() {
			return checkCommercialOwner(actor, resource)
		}

	case ActionUpdateEvent:
		if actor.IsSupport() {
			owned, ok := resource.(SupportAssigned)
			if !ok {
				return Deny(ReasonNotOwner)
			}
			id, assigned := owned.SupportOwnerID()
			if !assigned || id != actor.ID {
				return Deny(ReasonNotOwner)
			}
		}
	}

	return Allow()
}

// CheckSupportAssignee validates the target of a support assignment. The
// assignee must belong to the SUPPORT department.
func CheckSupportAssignee(assignee *models.User) Decision {
	if assignee == nil || !assignee.IsSupport() {
		return Deny(ReasonInvalidAssigneeDepartment)
	}
	return Allow()
}

// CheckCommercialAssignee validates the commercial contact attached to a
// client or contract. The contact must belong to the COMMERCIAL department.
func CheckCommercialAssignee(assignee *models.User) Decision {
	if assignee == nil || !assignee.IsCommercial() {
		return Deny(ReasonInvalidAssigneeDepartment)
	}
	return Allow()
}

func checkCommercialOwner(actor *models.User, resource any) Decision {
	owned, ok := resource.(CommerciallyOwned)
	if !ok {
		// Create with no prospective owner attached: the role gate already
		// passed and the service validates the assignee separately.
		if resource == nil {
			return Allow()
		}
		return Deny(ReasonNotOwner)
	}
	if owned.CommercialOwnerID() != actor.ID {
		return Deny(ReasonNotOwner)
	}
	return Allow()
}

// ParseAction maps external input to a known Action.
func ParseAction(s string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}
