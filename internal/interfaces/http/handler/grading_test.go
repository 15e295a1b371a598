package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	gradingapp "github.com/schoolms/backend/internal/application/grading"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGradingHandler_LearnerResult(t *testing.T) {
	tc := testTenant()

	t.Run("computes result", func(t *testing.T) {
		scores := new(mockScoreService)
		h := NewGradingHandler(nil, nil, scores)
		r := newTestRouter(&tc)
		r.GET("/grading/results", h.LearnerResult)

		learnerID := uuid.New()
		q := gradingapp.ResultQuery{
			LearnerID:      learnerID,
			LearningArea:   "Mathematics",
			AssessmentType: "CAT",
			Term:           1,
			AcademicYear:   2025,
		}
		scores.On("ComputeLearnerResult", mock.Anything, tc, q).Return(&gradingapp.ResultResponse{
			LearnerID: learnerID, Score: 78, Label: "ME", Strategy: "BEST_N", Count: 3,
		}, nil)

		w := doJSON(r, http.MethodGet, "/grading/results?learner_id="+learnerID.String()+
			"&learning_area=Mathematics&assessment_type=CAT&term=1&academic_year=2025", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"label":"ME"`)
		scores.AssertExpectations(t)
	})

	t.Run("invalid learner id", func(t *testing.T) {
		scores := new(mockScoreService)
		h := NewGradingHandler(nil, nil, scores)
		r := newTestRouter(&tc)
		r.GET("/grading/results", h.LearnerResult)

		w := doJSON(r, http.MethodGet, "/grading/results?learner_id=nope&learning_area=Maths&assessment_type=CAT&term=1&academic_year=2025", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "learner_id", env.Error.Details[0].Field)
		scores.AssertNotCalled(t, "ComputeLearnerResult")
	})

	t.Run("no scores recorded", func(t *testing.T) {
		scores := new(mockScoreService)
		h := NewGradingHandler(nil, nil, scores)
		r := newTestRouter(&tc)
		r.GET("/grading/results", h.LearnerResult)

		scores.On("ComputeLearnerResult", mock.Anything, tc, mock.Anything).
			Return(nil, shared.NewDomainError("NO_SCORES", "no scores recorded"))

		w := doJSON(r, http.MethodGet, "/grading/results?learner_id="+uuid.NewString()+
			"&learning_area=Maths&assessment_type=CAT&term=2&academic_year=2025", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "NO_SCORES", decode(t, w).Error.Code)
	})
}
