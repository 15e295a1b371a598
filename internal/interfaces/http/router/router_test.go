package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/schoolms/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("learners", "/learners")
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(g).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/learners/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-Api-Chain", "applied")
		c.Next()
	})

	g := NewDomainGroup("learners", "/learners")
	g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(g).Setup()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "applied", serve(engine, http.MethodGet, "/api/v1/learners").Header().Get("X-Api-Chain"))
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-Api-Chain"),
		"middleware stays inside the API prefix")
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("invoices", "/invoices")
		assert.Equal(t, "invoices", g.Name())
		assert.Equal(t, "/invoices", g.Prefix())
	})

	t.Run("every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("fee-structures", "/fee-structures")
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g.GET("/:id", ok).
			POST("", ok).
			PUT("/:id/items", ok).
			PATCH("/:id", ok).
			DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct{ method, path string }{
			{http.MethodGet, "/api/v1/fee-structures/1"},
			{http.MethodPost, "/api/v1/fee-structures"},
			{http.MethodPut, "/api/v1/fee-structures/1/items"},
			{http.MethodPatch, "/api/v1/fee-structures/1"},
			{http.MethodDelete, "/api/v1/fee-structures/1"},
		}
		for _, tt := range tests {
			assert.Equal(t, http.StatusOK, serve(engine, tt.method, tt.path).Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("reports", "/reports")
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("/finance", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "applied", serve(engine, http.MethodGet, "/api/v1/reports/finance").Header().Get("X-Test-Middleware"))
	})

	t.Run("subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("grading", "/grading")
		g.Group("systems", "/systems").GET("", func(c *gin.Context) { c.String(http.StatusOK, "systems") })
		g.Group("scores", "/scores").GET("", func(c *gin.Context) { c.String(http.StatusOK, "scores") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "systems", serve(engine, http.MethodGet, "/api/v1/grading/systems").Body.String())
		assert.Equal(t, "scores", serve(engine, http.MethodGet, "/api/v1/grading/scores").Body.String())
		assert.ElementsMatch(t, [][2]string{
			{http.MethodGet, "/grading/systems"},
			{http.MethodGet, "/grading/scores"},
		}, g.Routes())
	})
}

func TestPublicPaths(t *testing.T) {
	paths := PublicPaths("/api/v1")
	assert.Contains(t, paths, "/api/v1/auth/login")
	assert.Contains(t, paths, "/api/v1/schools/register")
	assert.NotContains(t, paths, "/api/v1/auth/logout")
}

func newSchoolEngine(t *testing.T) *gin.Engine {
	t.Helper()
	h := Handlers{
		Auth:       handler.NewAuthHandler(nil),
		School:     handler.NewSchoolHandler(nil),
		User:       handler.NewUserHandler(nil),
		Learner:    handler.NewLearnerHandler(nil, nil),
		Attendance: handler.NewAttendanceHandler(nil),
		Fee:        handler.NewFeeHandler(nil, nil),
		Invoice:    handler.NewInvoiceHandler(nil, nil, nil),
		Grading:    handler.NewGradingHandler(nil, nil, nil),
		Report:     handler.NewReportHandler(nil, nil),
		System:     handler.NewSystemHandler("schoolms", "test", nil),
	}
	engine := gin.New()
	require.NotPanics(t, func() {
		NewRouter(engine).Mount(Groups(h)...).Setup()
	})
	return engine
}

func TestGroups(t *testing.T) {
	engine := newSchoolEngine(t)

	t.Run("table has no duplicates", func(t *testing.T) {
		seen := map[string]bool{}
		for _, ri := range engine.Routes() {
			key := ri.Method + " " + ri.Path
			assert.False(t, seen[key], "duplicate route %s", key)
			seen[key] = true
		}
		assert.True(t, seen["POST /api/v1/invoices/:id/payments"])
		assert.True(t, seen["GET /api/v1/payments/:id/receipt/html"])
		assert.True(t, seen["POST /api/v1/reports/finance/export"])
		assert.True(t, seen["GET /api/v1/grading/results/report-card"])
	})

	t.Run("guarded routes need claims", func(t *testing.T) {
		for _, path := range []string{"/api/v1/learners", "/api/v1/invoices", "/api/v1/reports/overview", "/api/v1/grading/systems"} {
			w := serve(engine, http.MethodGet, path)
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})

	t.Run("public routes reach their handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
	})
}

func TestGroups_CredentialLimit(t *testing.T) {
	var hits []string
	limit := func(c *gin.Context) {
		hits = append(hits, c.FullPath())
		c.AbortWithStatus(http.StatusTooManyRequests)
	}
	h := Handlers{
		Auth:       handler.NewAuthHandler(nil),
		School:     handler.NewSchoolHandler(nil),
		User:       handler.NewUserHandler(nil),
		Learner:    handler.NewLearnerHandler(nil, nil),
		Attendance: handler.NewAttendanceHandler(nil),
		Fee:        handler.NewFeeHandler(nil, nil),
		Invoice:    handler.NewInvoiceHandler(nil, nil, nil),
		Grading:    handler.NewGradingHandler(nil, nil, nil),
		Report:     handler.NewReportHandler(nil, nil),
		System:     handler.NewSystemHandler("schoolms", "test", nil),
	}
	engine := gin.New()
	NewRouter(engine).Mount(Groups(h, limit)...).Setup()

	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/api/v1/auth/login").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/api/v1/schools/register").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
	assert.Equal(t, []string{"/api/v1/auth/login", "/api/v1/schools/register"}, hits)
}
