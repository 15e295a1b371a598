package identity

import "slices"

// Role is the coarse-grained role a user holds within a school
type Role string

const (
	RoleSchoolAdmin Role = "SCHOOL_ADMIN"
	RoleBursar      Role = "BURSAR"
	RoleTeacher     Role = "TEACHER"
	RoleRegistrar   Role = "REGISTRAR"
	RoleViewer      Role = "VIEWER"
)

// AllRoles lists the roles in display order
var AllRoles = []Role{RoleSchoolAdmin, RoleBursar, RoleTeacher, RoleRegistrar, RoleViewer}

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// Permission codes follow the "resource:action" convention
const (
	PermUserRead   = "user:read"
	PermUserCreate = "user:create"
	PermUserUpdate = "user:update"

	PermBranchCreate = "branch:create"

	PermLearnerRead   = "learner:read"
	PermLearnerCreate = "learner:create"
	PermLearnerUpdate = "learner:update"

	PermAttendanceRead   = "attendance:read"
	PermAttendanceCreate = "attendance:create"

	PermFeeRead   = "fee:read"
	PermFeeCreate = "fee:create"
	PermFeeUpdate = "fee:update"
	PermFeeDelete = "fee:delete"

	PermInvoiceRead   = "invoice:read"
	PermInvoiceCreate = "invoice:create"
	PermInvoiceWaive  = "invoice:waive"

	PermPaymentRead   = "payment:read"
	PermPaymentCreate = "payment:create"

	PermGradingRead   = "grading:read"
	PermGradingUpdate = "grading:update"
	PermScoreCreate   = "score:create"

	PermReportRead   = "report:read"
	PermReportExport = "report:export"
)

var rolePermissions = map[Role][]string{
	RoleSchoolAdmin: {
		PermUserRead, PermUserCreate, PermUserUpdate, PermBranchCreate,
		PermLearnerRead, PermLearnerCreate, PermLearnerUpdate,
		PermAttendanceRead, PermAttendanceCreate,
		PermFeeRead, PermFeeCreate, PermFeeUpdate, PermFeeDelete,
		PermInvoiceRead, PermInvoiceCreate, PermInvoiceWaive,
		PermPaymentRead, PermPaymentCreate,
		PermGradingRead, PermGradingUpdate, PermScoreCreate,
		PermReportRead, PermReportExport,
	},
	RoleBursar: {
		PermLearnerRead,
		PermFeeRead, PermFeeCreate, PermFeeUpdate,
		PermInvoiceRead, PermInvoiceCreate,
		PermPaymentRead, PermPaymentCreate,
		PermReportRead, PermReportExport,
	},
	RoleTeacher: {
		PermLearnerRead,
		PermAttendanceRead, PermAttendanceCreate,
		PermGradingRead, PermScoreCreate,
	},
	RoleRegistrar: {
		PermLearnerRead, PermLearnerCreate, PermLearnerUpdate,
		PermAttendanceRead, PermAttendanceCreate,
		PermReportRead,
	},
	RoleViewer: {
		PermLearnerRead, PermAttendanceRead, PermFeeRead,
		PermInvoiceRead, PermPaymentRead, PermGradingRead, PermReportRead,
	},
}

// Permissions returns a copy of the permission codes granted to the role
func (r Role) Permissions() []string {
	return slices.Clone(rolePermissions[r])
}

// Can reports whether the role grants the permission
func (r Role) Can(permission string) bool {
	return slices.Contains(rolePermissions[r], permission)
}
