package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissions(t *testing.T) {
	testCases := []struct {
		role    Role
		allowed []Permission
		denied  []Permission
	}{
		{
			role:    RoleMainAdmin,
			allowed: []Permission{CanLockSystem, CanUnlockSystem, CanResetTournament, CanModifySettings, CanManagePlayers, CanManageMatches, CanViewReports, CanExportData},
		},
		{
			role:    RoleUrusetia,
			allowed: []Permission{CanManagePlayers, CanManageMatches, CanViewReports, CanExportData},
			denied:  []Permission{CanLockSystem, CanUnlockSystem, CanResetTournament, CanModifySettings},
		},
		{
			role:    RolePersonal,
			allowed: []Permission{CanViewReports},
			denied:  []Permission{CanManagePlayers, CanManageMatches, CanExportData, CanLockSystem},
		},
		{
			role:   Role("guest"),
			denied: []Permission{CanViewReports},
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.role), func(t *testing.T) {
			for _, p := range tc.allowed {
				assert.True(t, tc.role.Can(p), p)
			}
			for _, p := range tc.denied {
				assert.False(t, tc.role.Can(p), p)
			}
		})
	}

	assert.ElementsMatch(t, []Permission{CanViewReports}, RolePersonal.Permissions())
	assert.False(t, Role("guest").Valid())
	assert.Equal(t, "Pentadbir Utama", RoleMainAdmin.Label())
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))
	assert.Equal(t, "system", Actor(ctx))

	var nobody *Admin
	assert.False(t, nobody.Can(CanViewReports))

	a := &Admin{Username: "urusetia", Role: RoleUrusetia}
	ctx = WithContext(ctx, a)
	assert.Same(t, a, FromContext(ctx))
	assert.Equal(t, "urusetia", Actor(ctx))
	assert.True(t, FromContext(ctx).Can(CanManageMatches))
}
