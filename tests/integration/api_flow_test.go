package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	feeapp "github.com/schoolms/backend/internal/application/fee"
	gradingapp "github.com/schoolms/backend/internal/application/grading"
	identityapp "github.com/schoolms/backend/internal/application/identity"
	learnerapp "github.com/schoolms/backend/internal/application/learner"
	reportapp "github.com/schoolms/backend/internal/application/report"
	"github.com/schoolms/backend/internal/infrastructure/auth"
	"github.com/schoolms/backend/internal/infrastructure/cache"
	"github.com/schoolms/backend/internal/infrastructure/config"
	csvimport "github.com/schoolms/backend/internal/infrastructure/import"
	"github.com/schoolms/backend/internal/infrastructure/persistence"
	"github.com/schoolms/backend/internal/interfaces/http/dto"
	"github.com/schoolms/backend/internal/interfaces/http/handler"
	"github.com/schoolms/backend/internal/interfaces/http/middleware"
	"github.com/schoolms/backend/internal/interfaces/http/router"
	"github.com/schoolms/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const bootstrapToken = "integration-bootstrap"

// newAPI wires the HTTP stack the way the server does, minus telemetry,
// printing and object storage
func newAPI(tdb *TestDB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	db := tdb.DB
	log := zap.NewNop()

	schoolRepo := persistence.NewGormSchoolRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	learnerRepo := persistence.NewGormLearnerRepository(db)
	feeTypeRepo := persistence.NewGormFeeTypeRepository(db)
	structureRepo := persistence.NewGormFeeStructureRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	gradingRepo := persistence.NewGormGradingSystemRepository(db)
	aggregationRepo := persistence.NewGormAggregationConfigRepository(db)

	revocation := auth.NewInMemoryRevocationList()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-at-least-32-bytes!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "schoolms-test",
		MaxRefreshCount:        5,
	})

	invoices := feeapp.NewInvoiceService(invoiceRepo, paymentRepo, structureRepo, learnerRepo, schoolRepo)
	payments := feeapp.NewPaymentService(invoiceRepo, paymentRepo,
		feeapp.WithIdempotencyStore(cache.NewInMemoryIdempotencyStore(), time.Hour))
	receipts := feeapp.NewReceiptService(paymentRepo, invoiceRepo, learnerRepo, schoolRepo, userRepo, nil, nil)

	handlers := router.Handlers{
		Auth: handler.NewAuthHandler(identityapp.NewAuthService(schoolRepo, userRepo, jwtService,
			identityapp.WithRevocationList(revocation))),
		School:     handler.NewSchoolHandler(identityapp.NewSchoolService(schoolRepo, bootstrapToken)),
		User:       handler.NewUserHandler(identityapp.NewUserService(userRepo, schoolRepo)),
		Learner:    handler.NewLearnerHandler(learnerapp.NewLearnerService(learnerRepo), invoices),
		Attendance: handler.NewAttendanceHandler(learnerapp.NewAttendanceService(learnerRepo, persistence.NewGormAttendanceRepository(db))),
		Fee: handler.NewFeeHandler(feeapp.NewFeeTypeService(feeTypeRepo),
			feeapp.NewFeeStructureService(structureRepo, feeTypeRepo, invoiceRepo)),
		Invoice: handler.NewInvoiceHandler(invoices, payments, receipts),
		Grading: handler.NewGradingHandler(gradingapp.NewGradingService(gradingRepo),
			gradingapp.NewAggregationConfigService(aggregationRepo),
			gradingapp.NewScoreService(persistence.NewGormScoreRepository(db), aggregationRepo, gradingRepo, learnerRepo)),
		Report: handler.NewReportHandler(reportapp.NewDashboardService(persistence.NewGormReportRepository(db)), nil),
		System: handler.NewSystemHandler("schoolms", "test", tdb.SqlDB),
	}

	engine := gin.New()
	engine.Use(middleware.RequestID(), gin.Recovery())
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(
		middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Revocation: revocation,
			SkipPaths:  router.PublicPaths(r.BasePath()),
			Logger:     log,
		}),
		middleware.TenantGuard(log),
	)
	r.Mount(router.Groups(handlers)...).Setup()
	return engine
}

func register(t *testing.T, client *testutil.APIClient, code string) identityapp.RegisterSchoolResult {
	t.Helper()
	w := client.WithHeader(handler.BootstrapTokenHeader, bootstrapToken).Do(http.MethodPost, "/api/v1/schools/register", map[string]string{
		"code":           code,
		"name":           "School " + code,
		"currency":       "kes",
		"admin_username": "admin",
		"admin_password": "s3cret-pass",
		"admin_email":    "admin@" + code + ".example",
	})
	return testutil.DecodeData[identityapp.RegisterSchoolResult](t, w, http.StatusCreated)
}

func login(t *testing.T, client *testutil.APIClient, code string) string {
	t.Helper()
	w := client.Do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"school_code": code,
		"username":    "admin",
		"password":    "s3cret-pass",
	})
	res := testutil.DecodeData[identityapp.LoginResult](t, w, http.StatusOK)
	require.NotEmpty(t, res.AccessToken)
	return res.AccessToken
}

func TestAPIFlow_RegisterLoginEnrol(t *testing.T) {
	tdb := NewSharedTestDB(t)
	client := testutil.NewAPIClient(t, newAPI(tdb))

	t.Run("registration needs the bootstrap token", func(t *testing.T) {
		w := client.Do(http.MethodPost, "/api/v1/schools/register", map[string]string{
			"code": "api-no-token", "name": "No Token", "currency": "KES",
			"admin_username": "admin", "admin_password": "s3cret-pass",
		})
		assert.Equal(t, dto.ErrCodeForbidden, testutil.RequireError(t, w, http.StatusForbidden))
	})

	reg := register(t, client, "api-flow")
	assert.Equal(t, "api-flow", reg.School.Code)
	assert.Equal(t, "KES", reg.School.Currency)
	assert.Equal(t, "SCHOOL_ADMIN", reg.Admin.Role)

	t.Run("duplicate code is refused", func(t *testing.T) {
		w := client.WithHeader(handler.BootstrapTokenHeader, bootstrapToken).Do(http.MethodPost, "/api/v1/schools/register", map[string]string{
			"code": "api-flow", "name": "Again", "currency": "KES",
			"admin_username": "admin", "admin_password": "s3cret-pass",
		})
		assert.Equal(t, dto.ErrCodeAlreadyExists, testutil.RequireError(t, w, http.StatusConflict))
	})

	t.Run("wrong password", func(t *testing.T) {
		w := client.Do(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"school_code": "api-flow", "username": "admin", "password": "not-the-password",
		})
		testutil.RequireError(t, w, http.StatusUnauthorized)
	})

	authed := client.WithToken(login(t, client, "api-flow"))

	w := authed.Do(http.MethodPost, "/api/v1/learners", map[string]string{
		"admission_number": "ADM-001",
		"first_name":       "Achieng",
		"last_name":        "Otieno",
		"gender":           "FEMALE",
		"grade":            "Grade 4",
		"stream":           "East",
		"guardian_phone":   "+254700000001",
	})
	created := testutil.DecodeData[learnerapp.LearnerResponse](t, w, http.StatusCreated)
	assert.Equal(t, reg.School.ID, created.SchoolID)
	assert.Equal(t, "ADM-001", created.AdmissionNumber)

	w = authed.Do(http.MethodGet, "/api/v1/learners?grade=Grade%204", nil)
	env := testutil.Decode(t, w)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, env.Meta)
	assert.EqualValues(t, 1, env.Meta.Total)

	got := testutil.DecodeData[learnerapp.LearnerResponse](t,
		authed.Do(http.MethodGet, "/api/v1/learners/"+created.ID.String(), nil), http.StatusOK)
	assert.Equal(t, "Achieng Otieno", got.FullName)

	t.Run("csv import", func(t *testing.T) {
		const header = "Admission Number,First Name,Last Name,Gender,Grade,Stream,Guardian Phone\n"

		rejected := testutil.DecodeData[learnerapp.ImportResult](t,
			authed.Upload("/api/v1/learners/import", "file", "learners.csv",
				header+"ADM-001,Achieng,Otieno,FEMALE,Grade 4,East,\nADM-002,Brian,Kiprop,MALE,Grade 4,,\n"),
			http.StatusOK)
		assert.Zero(t, rejected.Created)
		require.Len(t, rejected.Errors, 1)
		assert.Equal(t, 2, rejected.Errors[0].Row)
		assert.Equal(t, csvimport.ErrCodeDuplicateInDB, rejected.Errors[0].Code)

		dry := testutil.DecodeData[learnerapp.ImportResult](t,
			authed.Upload("/api/v1/learners/import?dry_run=true", "file", "learners.csv",
				header+"ADM-002,Brian,Kiprop,MALE,Grade 4,,\n"),
			http.StatusOK)
		assert.True(t, dry.DryRun)
		assert.Equal(t, 1, dry.ValidRows)

		done := testutil.DecodeData[learnerapp.ImportResult](t,
			authed.Upload("/api/v1/learners/import", "file", "learners.csv",
				header+"ADM-002,Brian,Kiprop,MALE,Grade 4,,\nADM-003,Chebet,Rono,FEMALE,Grade 5,West,+254 711 000 003\n"),
			http.StatusCreated)
		assert.Equal(t, 2, done.Created)

		w := authed.Do(http.MethodGet, "/api/v1/learners", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.EqualValues(t, 3, testutil.Decode(t, w).Meta.Total)
	})

	t.Run("no token", func(t *testing.T) {
		testutil.RequireError(t, client.Do(http.MethodGet, "/api/v1/learners", nil), http.StatusUnauthorized)
	})

	t.Run("school header must match the token", func(t *testing.T) {
		other := register(t, client, "api-flow-other")
		w := authed.WithHeader(middleware.SchoolHeaderKey, other.School.ID.String()).
			Do(http.MethodGet, "/api/v1/learners", nil)
		assert.Equal(t, dto.ErrCodeForbidden, testutil.RequireError(t, w, http.StatusForbidden))

		w = authed.WithHeader(middleware.SchoolHeaderKey, reg.School.ID.String()).
			Do(http.MethodGet, "/api/v1/learners", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other school cannot read the learner", func(t *testing.T) {
		otherClient := client.WithToken(login(t, client, "api-flow-other"))
		w := otherClient.Do(http.MethodGet, "/api/v1/learners/"+created.ID.String(), nil)
		assert.Equal(t, dto.ErrCodeNotFound, testutil.RequireError(t, w, http.StatusNotFound))
	})
}
