package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	learnerapp "github.com/schoolms/backend/internal/application/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLearnerHandler_Create(t *testing.T) {
	tc := testTenant()

	t.Run("enrols learner", func(t *testing.T) {
		svc := new(mockLearnerService)
		h := NewLearnerHandler(svc, nil)
		r := newTestRouter(&tc)
		r.POST("/learners", h.Create)

		input := learnerapp.CreateLearnerInput{
			AdmissionNumber: "ADM-001",
			FirstName:       "Amani",
			LastName:        "Otieno",
			Gender:          "FEMALE",
			Grade:           "Grade 4",
		}
		svc.On("Create", mock.Anything, tc, input).Return(&learnerapp.LearnerResponse{
			ID:              uuid.New(),
			AdmissionNumber: "ADM-001",
			FullName:        "Amani Otieno",
			Status:          "ACTIVE",
		}, nil)

		w := doJSON(r, http.MethodPost, "/learners", CreateLearnerRequest{
			AdmissionNumber: "ADM-001",
			FirstName:       "Amani",
			LastName:        "Otieno",
			Gender:          "FEMALE",
			Grade:           "Grade 4",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var got learnerapp.LearnerResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
		assert.Equal(t, "Amani Otieno", got.FullName)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate admission number", func(t *testing.T) {
		svc := new(mockLearnerService)
		h := NewLearnerHandler(svc, nil)
		r := newTestRouter(&tc)
		r.POST("/learners", h.Create)

		svc.On("Create", mock.Anything, tc, mock.Anything).
			Return(nil, shared.NewDomainError("ALREADY_EXISTS", "admission number already in use"))

		w := doJSON(r, http.MethodPost, "/learners", CreateLearnerRequest{
			AdmissionNumber: "ADM-001", FirstName: "A", LastName: "B", Gender: "MALE", Grade: "Grade 1",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decode(t, w).Error.Code)
	})

	t.Run("missing grade", func(t *testing.T) {
		svc := new(mockLearnerService)
		h := NewLearnerHandler(svc, nil)
		r := newTestRouter(&tc)
		r.POST("/learners", h.Create)

		w := doJSON(r, http.MethodPost, "/learners", map[string]string{
			"admission_number": "ADM-1", "first_name": "A", "last_name": "B", "gender": "MALE",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "grade", env.Error.Details[0].Field)
		svc.AssertNotCalled(t, "Create")
	})
}

func TestLearnerHandler_List(t *testing.T) {
	tc := testTenant()
	svc := new(mockLearnerService)
	h := NewLearnerHandler(svc, nil)
	r := newTestRouter(&tc)
	r.GET("/learners", h.List)

	filter := learnerapp.LearnerListFilter{Page: 2, PageSize: 10, Grade: "Grade 4", Status: "ACTIVE"}
	svc.On("List", mock.Anything, tc, filter).Return(&shared.Paginated[learnerapp.LearnerResponse]{
		Items:      []learnerapp.LearnerResponse{{FullName: "Amani Otieno"}},
		Total:      11,
		Page:       2,
		PageSize:   10,
		TotalPages: 2,
	}, nil)

	w := doJSON(r, http.MethodGet, "/learners?page=2&page_size=10&grade=Grade+4&status=ACTIVE", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(11), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)
	svc.AssertExpectations(t)
}

func TestLearnerHandler_GetNotFound(t *testing.T) {
	tc := testTenant()
	svc := new(mockLearnerService)
	h := NewLearnerHandler(svc, nil)
	r := newTestRouter(&tc)
	r.GET("/learners/:id", h.Get)

	id := uuid.New()
	svc.On("Get", mock.Anything, tc, id).Return(nil, shared.ErrNotFound)

	w := doJSON(r, http.MethodGet, "/learners/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decode(t, w).Error.Code)
}

func TestLearnerHandler_ChangeStatusRejectsUnknownStatus(t *testing.T) {
	tc := testTenant()
	svc := new(mockLearnerService)
	h := NewLearnerHandler(svc, nil)
	r := newTestRouter(&tc)
	r.PATCH("/learners/:id/status", h.ChangeStatus)

	w := doJSON(r, http.MethodPatch, "/learners/"+uuid.NewString()+"/status", map[string]string{"status": "EXPELLED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.Len(t, env.Error.Details, 1)
	assert.Contains(t, env.Error.Details[0].Message, "GRADUATED")
	svc.AssertNotCalled(t, "ChangeStatus")
}

func TestAttendanceHandler_Mark(t *testing.T) {
	tc := testTenant()
	learnerID := uuid.New()

	t.Run("parses register date", func(t *testing.T) {
		svc := new(mockAttendanceService)
		h := NewAttendanceHandler(svc)
		r := newTestRouter(&tc)
		r.POST("/attendance", h.Mark)

		date := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
		svc.On("Mark", mock.Anything, tc, learnerapp.MarkAttendanceInput{
			Date:    date,
			Entries: []learnerapp.AttendanceEntry{{LearnerID: learnerID, Status: "LATE"}},
		}).Return(&learnerapp.MarkAttendanceResult{Date: date, Recorded: 1, ByStatus: map[string]int{"LATE": 1}}, nil)

		w := doJSON(r, http.MethodPost, "/attendance", MarkAttendanceRequest{
			Date:    "2025-02-03",
			Entries: []AttendanceEntryRequest{{LearnerID: learnerID, Status: "LATE"}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("bad date", func(t *testing.T) {
		svc := new(mockAttendanceService)
		h := NewAttendanceHandler(svc)
		r := newTestRouter(&tc)
		r.POST("/attendance", h.Mark)

		w := doJSON(r, http.MethodPost, "/attendance", MarkAttendanceRequest{
			Date:    "03/02/2025",
			Entries: []AttendanceEntryRequest{{LearnerID: learnerID, Status: "PRESENT"}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "date", env.Error.Details[0].Field)
		svc.AssertNotCalled(t, "Mark")
	})

	t.Run("empty register", func(t *testing.T) {
		svc := new(mockAttendanceService)
		h := NewAttendanceHandler(svc)
		r := newTestRouter(&tc)
		r.POST("/attendance", h.Mark)

		w := doJSON(r, http.MethodPost, "/attendance", map[string]any{"date": "2025-02-03", "entries": []any{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)
	})
}

func TestAttendanceHandler_ListInvalidLearner(t *testing.T) {
	tc := testTenant()
	svc := new(mockAttendanceService)
	h := NewAttendanceHandler(svc)
	r := newTestRouter(&tc)
	r.GET("/attendance", h.List)

	w := doJSON(r, http.MethodGet, "/attendance?learner_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "learner_id", env.Error.Details[0].Field)
}
