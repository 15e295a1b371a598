package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Permissions(t *testing.T) {
	tests := []struct {
		role       Role
		permission string
		want       bool
	}{
		{RoleSchoolAdmin, PermInvoiceWaive, true},
		{RoleBursar, PermPaymentCreate, true},
		{RoleBursar, PermInvoiceWaive, false},
		{RoleTeacher, PermScoreCreate, true},
		{RoleTeacher, PermPaymentCreate, false},
		{RoleViewer, PermReportRead, true},
		{RoleViewer, PermLearnerCreate, false},
		{Role("UNKNOWN"), PermReportRead, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.permission, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Can(tt.permission))
		})
	}
}

func TestRole_PermissionsReturnsCopy(t *testing.T) {
	perms := RoleBursar.Permissions()
	perms[0] = "tampered"

	assert.NotEqual(t, "tampered", RoleBursar.Permissions()[0])
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleRegistrar.IsValid())
	assert.False(t, Role("").IsValid())
}
