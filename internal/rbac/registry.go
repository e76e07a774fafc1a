package rbac

// Permission is an atomic capability tag gating one kind of state-changing action.
type Permission string

const (
	PermSellerApprove    Permission = "seller:approve"
	PermSellerReject     Permission = "seller:reject"
	PermSellerSuspend    Permission = "seller:suspend"
	PermSellerReactivate Permission = "seller:reactivate"

	PermProcurementApprove Permission = "procurement:approve"
	PermProcurementReject  Permission = "procurement:reject"

	PermPriceCaseOpen      Permission = "price_case:open"
	PermPriceWarn          Permission = "price_case:warn"
	PermPriceForceAdjust   Permission = "price_case:force_adjust"
	PermPriceSuspendSeller Permission = "price_case:suspend_seller"

	PermInventoryReceive Permission = "inventory:receive"
	PermInventoryConsume Permission = "inventory:consume"
	PermInventoryView    Permission = "inventory:view"

	PermEscalationCreate   Permission = "escalation:create"
	PermEscalationAssign   Permission = "escalation:assign"
	PermEscalationEscalate Permission = "escalation:escalate"
	PermEscalationResolve  Permission = "escalation:resolve"
	PermEscalationReject   Permission = "escalation:reject"

	PermAdminManage Permission = "admin:manage"
	PermAuditView   Permission = "audit:view"
	PermAuditExport Permission = "audit:export"
)

// Role is a named bundle of permissions assigned to an administrator account.
type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleSellerManager Role = "SELLER_MANAGER"
	RoleOpasManager   Role = "OPAS_MANAGER"
	RolePriceManager  Role = "PRICE_MANAGER"
	RoleSupportAgent  Role = "SUPPORT_AGENT"
)

// allPermissions enumerates the closed permission set.
var allPermissions = []Permission{
	PermSellerApprove, PermSellerReject, PermSellerSuspend, PermSellerReactivate,
	PermProcurementApprove, PermProcurementReject,
	PermPriceCaseOpen, PermPriceWarn, PermPriceForceAdjust, PermPriceSuspendSeller,
	PermInventoryReceive, PermInventoryConsume, PermInventoryView,
	PermEscalationCreate, PermEscalationAssign, PermEscalationEscalate,
	PermEscalationResolve, PermEscalationReject,
	PermAdminManage, PermAuditView, PermAuditExport,
}

// rolePermissions is the static role to permission-set table. Each role's
// grants are hand-enumerated so that "what can role X do" is answerable by
// reading this literal, not by tracing logic. Changing a grant is a code
// change, never a data mutation.
var rolePermissions = map[Role]map[Permission]struct{}{
	RoleSuperAdmin: permSet(allPermissions...),
	RoleSellerManager: permSet(
		PermSellerApprove,
		PermSellerReject,
		PermSellerSuspend,
		PermSellerReactivate,
		PermEscalationCreate,
		PermAuditView,
	),
	RoleOpasManager: permSet(
		PermProcurementApprove,
		PermProcurementReject,
		PermInventoryReceive,
		PermInventoryConsume,
		PermInventoryView,
		PermEscalationCreate,
		PermAuditView,
	),
	RolePriceManager: permSet(
		PermPriceCaseOpen,
		PermPriceWarn,
		PermPriceForceAdjust,
		PermPriceSuspendSeller,
		PermEscalationCreate,
		PermAuditView,
	),
	RoleSupportAgent: permSet(
		PermEscalationCreate,
		PermEscalationAssign,
		PermEscalationEscalate,
		PermEscalationResolve,
		PermEscalationReject,
		PermAuditView,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// HasPermission reports whether the role holds the permission. An unknown
// role holds the empty set, so it can never silently gain access.
func HasPermission(role Role, perm Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// HasAll reports whether the role holds every listed permission.
func HasAll(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// HasAny reports whether the role holds at least one listed permission.
func HasAny(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// Permissions returns the role's grants as a sorted-input copy. Mutating the
// returned slice has no effect on the registry.
func Permissions(role Role) []Permission {
	set, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, 0, len(set))
	for _, p := range allPermissions {
		if _, granted := set[p]; granted {
			out = append(out, p)
		}
	}
	return out
}

// Roles returns the closed role set.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleSellerManager, RoleOpasManager, RolePriceManager, RoleSupportAgent}
}

// ValidRole reports whether the role belongs to the closed set.
func ValidRole(role Role) bool {
	_, ok := rolePermissions[role]
	return ok
}
