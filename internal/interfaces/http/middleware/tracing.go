package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds caller supplied request IDs
const MaxRequestIDLength = 128

// Tracing wraps otelgin. Span names follow "METHOD /route/:param".
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName)
}

// SpanEnricher tags the request span with the request, school and user. It
// runs after authentication so the tenant is known.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := c.GetString(RequestIDKey); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if tc, ok := GetTenantContext(c); ok {
			span.SetAttributes(attribute.String("school.id", tc.SchoolID.String()))
			if tc.HasBranch() {
				span.SetAttributes(attribute.String("branch.id", tc.BranchID.String()))
			}
			if tc.UserID != nil {
				span.SetAttributes(attribute.String("user.id", tc.UserID.String()), attribute.String("user.role", tc.Role))
			}
		}

		c.Next()

		if len(c.Errors) > 0 {
			span.SetStatus(codes.Error, c.Errors.Last().Error())
		}
	}
}
