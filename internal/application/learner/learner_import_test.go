package learner

import (
	"context"
	"strings"
	"testing"

	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	csvimport "github.com/schoolms/backend/internal/infrastructure/import"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const importHeader = "Admission Number,First Name,Last Name,Gender,Grade,Stream,Guardian Phone\n"

func TestLearnerService_Import(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()

	t.Run("creates every row and publishes enrolments", func(t *testing.T) {
		repo := new(MockLearnerRepository)
		publisher := new(MockEventPublisher)
		svc := NewLearnerService(repo, WithLearnerEventPublisher(publisher))

		repo.On("ExistingAdmissionNumbers", mock.Anything, tc, []string{"ADM-1", "ADM-2"}).Return([]string{}, nil)
		repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ls []*learner.Learner) bool {
			return len(ls) == 2 && ls[0].FullName() == "Amina Hassan" && ls[1].GuardianPhone == "+254700000002"
		})).Return(nil)
		publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 2
		})).Return(nil)

		csv := importHeader +
			"adm-1,amina,hassan,female,Grade 4,East,\n" +
			"ADM-2,Brian,Kiprop,MALE,Grade 4,,+254700000002\n" +
			",,,,,,\n"
		res, err := svc.Import(ctx, tc, strings.NewReader(csv), ImportOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalRows)
		assert.Equal(t, 2, res.ValidRows)
		assert.Equal(t, 2, res.Created)
		assert.Zero(t, res.ErrorCount)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		repo := new(MockLearnerRepository)
		repo.On("ExistingAdmissionNumbers", mock.Anything, tc, []string{"ADM-1"}).Return([]string{}, nil)

		res, err := NewLearnerService(repo).Import(ctx, tc,
			strings.NewReader(importHeader+"ADM-1,Amina,Hassan,FEMALE,Grade 4,,\n"), ImportOptions{DryRun: true})
		require.NoError(t, err)
		assert.True(t, res.DryRun)
		assert.Equal(t, 1, res.ValidRows)
		assert.Zero(t, res.Created)
		repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("any bad row blocks the whole file", func(t *testing.T) {
		repo := new(MockLearnerRepository)
		repo.On("ExistingAdmissionNumbers", mock.Anything, tc, []string{"ADM-1"}).Return([]string{"ADM-1"}, nil)

		csv := importHeader +
			"ADM-1,Amina,Hassan,FEMALE,Grade 4,,\n" +
			"ADM-1,Baraka,Mwangi,MALE,Grade 4,,\n" +
			"ADM-2,Chebet,,FEMALE,Grade 4,,\n" +
			"ADM-3,Daudi,Ouma,MALE,Grade 5,,07-12\n" +
			"ADM-3,Daudi,Ouma,MALE,Grade 5,,\n"
		res, err := NewLearnerService(repo).Import(ctx, tc, strings.NewReader(csv), ImportOptions{})
		require.NoError(t, err)
		assert.Equal(t, 5, res.TotalRows)
		assert.Zero(t, res.Created)
		require.Equal(t, 5, res.ErrorCount)

		codes := map[int]string{}
		for _, e := range res.Errors {
			codes[e.Row] = e.Code
		}
		assert.Equal(t, map[int]string{
			2: csvimport.ErrCodeDuplicateInDB,
			3: csvimport.ErrCodeDuplicateInFile,
			4: csvimport.ErrCodeRequired,
			5: csvimport.ErrCodePatternMismatch,
			6: csvimport.ErrCodeDuplicateInFile,
		}, codes)
		assert.Zero(t, res.ValidRows)
		repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("missing columns", func(t *testing.T) {
		_, err := NewLearnerService(new(MockLearnerRepository)).Import(ctx, tc,
			strings.NewReader("admission_number,first_name\nADM-1,Amina\n"), ImportOptions{})
		require.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Contains(t, err.Error(), "last_name, gender, grade")
	})

	t.Run("empty upload", func(t *testing.T) {
		_, err := NewLearnerService(new(MockLearnerRepository)).Import(ctx, tc, strings.NewReader(""), ImportOptions{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
