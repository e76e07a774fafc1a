package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuperAdminHasEveryPermission(t *testing.T) {
	for _, perm := range allPermissions {
		assert.True(t, HasPermission(RoleSuperAdmin, perm), "super admin should hold %s", perm)
	}
}

func TestRoleGrants(t *testing.T) {
	cases := []struct {
		role Role
		has  []Permission
		not  []Permission
	}{
		{
			role: RoleSellerManager,
			has:  []Permission{PermSellerApprove, PermSellerReject, PermSellerSuspend},
			not:  []Permission{PermProcurementApprove, PermPriceWarn, PermAdminManage},
		},
		{
			role: RoleOpasManager,
			has:  []Permission{PermProcurementApprove, PermProcurementReject, PermInventoryReceive},
			not:  []Permission{PermSellerApprove, PermPriceSuspendSeller, PermAdminManage},
		},
		{
			role: RolePriceManager,
			has:  []Permission{PermPriceCaseOpen, PermPriceWarn, PermPriceForceAdjust, PermPriceSuspendSeller},
			not:  []Permission{PermSellerApprove, PermProcurementApprove, PermAuditExport},
		},
		{
			role: RoleSupportAgent,
			has:  []Permission{PermEscalationCreate},
			not:  []Permission{PermSellerApprove, PermInventoryConsume, PermAdminManage},
		},
	}

	for _, tc := range cases {
		for _, perm := range tc.has {
			assert.True(t, HasPermission(tc.role, perm), "%s should hold %s", tc.role, perm)
		}
		for _, perm := range tc.not {
			assert.False(t, HasPermission(tc.role, perm), "%s should not hold %s", tc.role, perm)
		}
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	assert.False(t, HasPermission(Role("INTERN"), PermSellerApprove))
	assert.False(t, HasPermission(Role(""), PermAuditView))
	assert.False(t, ValidRole(Role("INTERN")))
}

func TestHasAllAndHasAny(t *testing.T) {
	require.True(t, HasAll(RoleSellerManager, PermSellerApprove, PermSellerReject))
	require.False(t, HasAll(RoleSellerManager, PermSellerApprove, PermAdminManage))
	require.True(t, HasAny(RoleSupportAgent, PermAdminManage, PermEscalationCreate))
	require.False(t, HasAny(RoleSupportAgent, PermAdminManage, PermSellerApprove))
}

func TestPermissionsReturnsCopy(t *testing.T) {
	perms := Permissions(RolePriceManager)
	require.NotEmpty(t, perms)
	perms[0] = Permission("tampered")
	fresh := Permissions(RolePriceManager)
	assert.NotContains(t, fresh, Permission("tampered"))
}
