package learner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTenant() shared.TenantContext {
	return shared.NewTenantContext(uuid.New(), "REGISTRAR").WithUser(uuid.New())
}

func createTestLearner(t *testing.T, tc shared.TenantContext) *Learner {
	t.Helper()
	l, err := NewLearner(tc, "adm-001", "  aMINA  ", "wanjiru", GenderFemale, " grade   4 ", "east")
	require.NoError(t, err)
	return l
}

// ============================================
// Learner
// ============================================

func TestNewLearner(t *testing.T) {
	tc := testTenant()
	l := createTestLearner(t, tc)

	assert.Equal(t, "ADM-001", l.AdmissionNumber)
	assert.Equal(t, "Amina", l.FirstName)
	assert.Equal(t, "Wanjiru", l.LastName)
	assert.Equal(t, "Amina Wanjiru", l.FullName())
	assert.Equal(t, "GRADE 4", l.Grade)
	assert.Equal(t, "EAST", l.Stream)
	assert.Equal(t, StatusActive, l.Status)
	assert.Equal(t, tc.SchoolID, l.SchoolID)
	assert.Nil(t, l.BranchID)
	assert.Len(t, l.GetDomainEvents(), 1)
}

func TestNewLearner_Validation(t *testing.T) {
	tc := testTenant()

	tests := []struct {
		name      string
		admission string
		first     string
		gender    Gender
		grade     string
		code      string
	}{
		{"missing admission", " ", "Amina", GenderFemale, "Grade 4", "INVALID_ADMISSION_NUMBER"},
		{"missing name", "A1", "", GenderFemale, "Grade 4", "INVALID_NAME"},
		{"bad gender", "A1", "Amina", Gender("X"), "Grade 4", "INVALID_GENDER"},
		{"missing grade", "A1", "Amina", GenderFemale, "  ", "INVALID_GRADE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLearner(tc, tt.admission, tt.first, "Wanjiru", tt.gender, tt.grade, "")
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestNewLearner_InheritsBranch(t *testing.T) {
	branch := uuid.New()
	tc := testTenant().WithBranch(branch)

	l := createTestLearner(t, tc)

	require.NotNil(t, l.BranchID)
	assert.Equal(t, branch, *l.BranchID)
	assert.True(t, l.BelongsTo(tc))
	assert.False(t, l.BelongsTo(tc.WithBranch(uuid.New())))
}

func TestLearner_ChangeStatus(t *testing.T) {
	l := createTestLearner(t, testTenant())
	l.ClearDomainEvents()

	require.NoError(t, l.ChangeStatus(StatusTransferred))
	assert.False(t, l.IsActive())
	assert.Len(t, l.GetDomainEvents(), 1)

	assert.Error(t, l.ChangeStatus(StatusTransferred), "same status is rejected")
	assert.Error(t, l.ChangeStatus(Status("EXPELLED")))

	require.NoError(t, l.ChangeStatus(StatusGraduated))
	assert.Error(t, l.ChangeStatus(StatusActive), "graduation is terminal")
}

func TestLearner_Update(t *testing.T) {
	l := createTestLearner(t, testTenant())
	version := l.Version

	require.NoError(t, l.Update("", "otieno", "grade 5", "", "+254700000000"))

	assert.Equal(t, "Amina", l.FirstName)
	assert.Equal(t, "Otieno", l.LastName)
	assert.Equal(t, "GRADE 5", l.Grade)
	assert.Empty(t, l.Stream)
	assert.Equal(t, version+1, l.Version)
}

// ============================================
// Attendance
// ============================================

func TestNewAttendanceRecord(t *testing.T) {
	tc := testTenant()
	l := createTestLearner(t, tc)
	when := time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)

	rec, err := NewAttendanceRecord(tc, l, when, AttendanceLate, " traffic ")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, l.ID, rec.LearnerID)
	assert.Equal(t, l.SchoolID, rec.SchoolID)
	assert.Equal(t, "traffic", rec.Remarks)
	assert.Equal(t, tc.UserID, rec.RecordedBy)
	assert.True(t, rec.Status.CountsAsAttended())
}

func TestNewAttendanceRecord_Validation(t *testing.T) {
	tc := testTenant()
	l := createTestLearner(t, tc)

	_, err := NewAttendanceRecord(tc, l, time.Now(), AttendanceStatus("SLEEPING"), "")
	assert.Error(t, err)

	_, err = NewAttendanceRecord(tc, l, time.Now().AddDate(0, 0, 2), AttendancePresent, "")
	assert.Error(t, err, "future dates are rejected")

	require.NoError(t, l.ChangeStatus(StatusInactive))
	_, err = NewAttendanceRecord(tc, l, time.Now(), AttendancePresent, "")
	assert.Error(t, err, "inactive learners cannot be marked")
}

func TestAttendanceStatus_CountsAsAttended(t *testing.T) {
	assert.True(t, AttendancePresent.CountsAsAttended())
	assert.True(t, AttendanceLate.CountsAsAttended())
	assert.False(t, AttendanceAbsent.CountsAsAttended())
	assert.False(t, AttendanceExcused.CountsAsAttended())
}
