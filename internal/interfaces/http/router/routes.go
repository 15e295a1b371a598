package router

import (
	"github.com/gin-gonic/gin"
	"github.com/schoolms/backend/internal/domain/identity"
	"github.com/schoolms/backend/internal/interfaces/http/handler"
	"github.com/schoolms/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers of the school API
type Handlers struct {
	Auth       *handler.AuthHandler
	School     *handler.SchoolHandler
	User       *handler.UserHandler
	Learner    *handler.LearnerHandler
	Attendance *handler.AttendanceHandler
	Fee        *handler.FeeHandler
	Invoice    *handler.InvoiceHandler
	Grading    *handler.GradingHandler
	Report     *handler.ReportHandler
	System     *handler.SystemHandler
}

// publicRoutes are reachable without a bearer token
var publicRoutes = []string{
	"/auth/login",
	"/auth/refresh",
	"/schools/register",
	"/system/ping",
	"/system/info",
}

// PublicPaths returns the unauthenticated paths under basePath, for the JWT
// middleware skip list
func PublicPaths(basePath string) []string {
	out := make([]string, len(publicRoutes))
	for i, p := range publicRoutes {
		out[i] = basePath + p
	}
	return out
}

var perm = middleware.RequirePermission

// Groups builds the route table of every bounded context. credentialLimit
// runs in front of the endpoints that accept credentials.
func Groups(h Handlers, credentialLimit ...gin.HandlerFunc) []*DomainGroup {
	limited := func(next gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, credentialLimit...), next)
	}

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", limited(h.Auth.Login)...)
	auth.POST("/refresh", limited(h.Auth.Refresh)...)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	schools := NewDomainGroup("schools", "/schools")
	schools.POST("/register", limited(h.School.Register)...)
	schools.GET("/current", h.School.Get)
	schools.GET("/current/branches", h.School.ListBranches)
	schools.POST("/current/branches", perm(identity.PermBranchCreate), h.School.AddBranch)

	roles := NewDomainGroup("roles", "/roles")
	roles.GET("", h.School.ListRoles)

	users := NewDomainGroup("users", "/users")
	users.PUT("/me/password", h.User.ChangePassword)
	users.POST("", perm(identity.PermUserCreate), h.User.Create)
	users.GET("", perm(identity.PermUserRead), h.User.List)
	users.GET("/:id", perm(identity.PermUserRead), h.User.Get)
	users.POST("/:id/unlock", perm(identity.PermUserUpdate), h.User.Unlock)

	learners := NewDomainGroup("learners", "/learners")
	learners.POST("", perm(identity.PermLearnerCreate), h.Learner.Create)
	learners.POST("/import", perm(identity.PermLearnerCreate), h.Learner.Import)
	learners.GET("", perm(identity.PermLearnerRead), h.Learner.List)
	learners.GET("/:id", perm(identity.PermLearnerRead), h.Learner.Get)
	learners.PUT("/:id", perm(identity.PermLearnerUpdate), h.Learner.Update)
	learners.PATCH("/:id/status", perm(identity.PermLearnerUpdate), h.Learner.ChangeStatus)
	learners.GET("/:id/statement", middleware.RequireAnyPermission(identity.PermInvoiceRead, identity.PermReportRead), h.Learner.Statement)

	attendance := NewDomainGroup("attendance", "/attendance")
	attendance.POST("", perm(identity.PermAttendanceCreate), h.Attendance.Mark)
	attendance.GET("", perm(identity.PermAttendanceRead), h.Attendance.List)

	feeTypes := NewDomainGroup("fee-types", "/fee-types")
	feeTypes.POST("", perm(identity.PermFeeCreate), h.Fee.CreateFeeType)
	feeTypes.GET("", perm(identity.PermFeeRead), h.Fee.ListFeeTypes)

	structures := NewDomainGroup("fee-structures", "/fee-structures")
	structures.POST("", perm(identity.PermFeeCreate), h.Fee.CreateStructure)
	structures.GET("", perm(identity.PermFeeRead), h.Fee.ListStructures)
	structures.GET("/:id", perm(identity.PermFeeRead), h.Fee.GetStructure)
	structures.PUT("/:id/items", perm(identity.PermFeeUpdate), h.Fee.ReplaceItems)
	structures.POST("/:id/archive", perm(identity.PermFeeUpdate), h.Fee.ArchiveStructure)
	structures.DELETE("/:id", perm(identity.PermFeeDelete), h.Fee.DeleteStructure)

	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.POST("", perm(identity.PermInvoiceCreate), h.Invoice.Create)
	invoices.POST("/bulk", perm(identity.PermInvoiceCreate), h.Invoice.BulkGenerate)
	invoices.GET("", perm(identity.PermInvoiceRead), h.Invoice.List)
	invoices.GET("/:id", perm(identity.PermInvoiceRead), h.Invoice.Get)
	invoices.POST("/:id/waive", perm(identity.PermInvoiceWaive), h.Invoice.Waive)
	invoices.POST("/:id/payments", perm(identity.PermPaymentCreate), h.Invoice.RecordPayment)

	payments := NewDomainGroup("payments", "/payments")
	payments.GET("", perm(identity.PermPaymentRead), h.Invoice.ListPayments)
	payments.GET("/:id", perm(identity.PermPaymentRead), h.Invoice.GetPayment)
	payments.GET("/:id/receipt", perm(identity.PermPaymentRead), h.Invoice.Receipt)
	payments.GET("/:id/receipt/html", perm(identity.PermPaymentRead), h.Invoice.ReceiptHTML)

	grading := NewDomainGroup("grading", "/grading")
	systems := grading.Group("grading-systems", "/systems")
	systems.POST("", perm(identity.PermGradingUpdate), h.Grading.CreateSystem)
	systems.GET("", perm(identity.PermGradingRead), h.Grading.ListSystems)
	systems.GET("/:id", perm(identity.PermGradingRead), h.Grading.GetSystem)
	systems.PUT("/:id/ranges", perm(identity.PermGradingUpdate), h.Grading.UpdateRanges)
	systems.POST("/:id/default", perm(identity.PermGradingUpdate), h.Grading.SetDefault)
	grading.POST("/resolve", perm(identity.PermGradingRead), h.Grading.ResolveGrade)
	configs := grading.Group("aggregation-configs", "/configs")
	configs.POST("", perm(identity.PermGradingUpdate), h.Grading.CreateConfig)
	configs.GET("", perm(identity.PermGradingRead), h.Grading.ListConfigs)
	configs.GET("/resolve", perm(identity.PermGradingRead), h.Grading.ResolveConfig)
	configs.POST("/preview", perm(identity.PermGradingRead), h.Grading.PreviewAggregation)
	configs.DELETE("/:id", perm(identity.PermGradingUpdate), h.Grading.DeleteConfig)
	scores := grading.Group("scores", "/scores")
	scores.POST("", perm(identity.PermScoreCreate), h.Grading.RecordScore)
	scores.GET("", perm(identity.PermGradingRead), h.Grading.ListScores)
	results := grading.Group("results", "/results")
	results.GET("", perm(identity.PermGradingRead), h.Grading.LearnerResult)
	results.GET("/report-card", perm(identity.PermGradingRead), h.Grading.ReportCard)

	reports := NewDomainGroup("reports", "/reports")
	reports.Use(perm(identity.PermReportRead))
	reports.GET("/overview", h.Report.Overview)
	reports.GET("/learners", h.Report.Learners)
	reports.GET("/attendance", h.Report.Attendance)
	reports.GET("/finance", h.Report.Finance)
	reports.POST("/finance/export", perm(identity.PermReportExport), h.Report.ExportFinance)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	return []*DomainGroup{
		auth, schools, roles, users,
		learners, attendance,
		feeTypes, structures, invoices, payments,
		grading, reports, system,
	}
}

// Mount registers every group on r
func (r *Router) Mount(groups ...*DomainGroup) *Router {
	for _, g := range groups {
		r.Register(g)
	}
	return r
}
