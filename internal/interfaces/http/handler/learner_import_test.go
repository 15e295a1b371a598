package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	learnerapp "github.com/schoolms/backend/internal/application/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func uploadCSV(r http.Handler, path, contentType, body string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part := textproto.MIMEHeader{}
	part.Set("Content-Disposition", `form-data; name="file"; filename="learners.csv"`)
	part.Set("Content-Type", contentType)
	w, _ := mw.CreatePart(part)
	_, _ = w.Write([]byte(body))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLearnerHandler_Import(t *testing.T) {
	tc := testTenant()
	const csv = "admission_number,first_name,last_name,gender,grade\nADM-1,Amina,Hassan,FEMALE,Grade 4\n"

	t.Run("created", func(t *testing.T) {
		svc := new(mockLearnerService)
		r := newTestRouter(&tc)
		r.POST("/learners/import", NewLearnerHandler(svc, nil).Import)
		svc.On("Import", mock.Anything, tc, csv, learnerapp.ImportOptions{}).
			Return(&learnerapp.ImportResult{TotalRows: 1, ValidRows: 1, Created: 1}, nil)

		w := uploadCSV(r, "/learners/import", "text/csv", csv)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.True(t, decode(t, w).Success)
		svc.AssertExpectations(t)
	})

	t.Run("dry run reports without creating", func(t *testing.T) {
		svc := new(mockLearnerService)
		r := newTestRouter(&tc)
		r.POST("/learners/import", NewLearnerHandler(svc, nil).Import)
		svc.On("Import", mock.Anything, tc, csv, learnerapp.ImportOptions{DryRun: true}).
			Return(&learnerapp.ImportResult{TotalRows: 1, ValidRows: 1, DryRun: true}, nil)

		w := uploadCSV(r, "/learners/import?dry_run=true", "application/octet-stream", csv)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("file is required", func(t *testing.T) {
		svc := new(mockLearnerService)
		r := newTestRouter(&tc)
		r.POST("/learners/import", NewLearnerHandler(svc, nil).Import)

		w := doJSON(r, http.MethodPost, "/learners/import", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Import")
	})

	t.Run("not a csv", func(t *testing.T) {
		svc := new(mockLearnerService)
		r := newTestRouter(&tc)
		r.POST("/learners/import", NewLearnerHandler(svc, nil).Import)

		w := uploadCSV(r, "/learners/import", "image/png", "\x89PNG")
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)
	})

	t.Run("bad file maps to 400", func(t *testing.T) {
		svc := new(mockLearnerService)
		r := newTestRouter(&tc)
		r.POST("/learners/import", NewLearnerHandler(svc, nil).Import)
		svc.On("Import", mock.Anything, tc, "", learnerapp.ImportOptions{}).
			Return(nil, shared.NewValidationError("CSV file is empty"))

		w := uploadCSV(r, "/learners/import", "text/csv", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})
}
