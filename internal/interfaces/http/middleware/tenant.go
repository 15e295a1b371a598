package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Tenant headers
const (
	SchoolHeaderKey = "X-School-ID"
	BranchHeaderKey = "X-Branch-ID"
	SchoolIDKey     = "school_id"
)

// TenantGuard runs after JWT authentication. The token decides the school;
// an X-School-ID header naming another school is refused. A school-wide user
// may narrow a request to one branch with X-Branch-ID, a branch-bound user
// may not leave their branch.
func TenantGuard(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		tc, ok := GetTenantContext(c)
		if !ok {
			// Public routes carry no token
			c.Next()
			return
		}

		if header := c.GetHeader(SchoolHeaderKey); header != "" {
			id, err := uuid.Parse(header)
			if err != nil || id != tc.SchoolID {
				log.Warn("School header does not match token",
					zap.String("header", header),
					zap.String("school_id", tc.SchoolID.String()),
				)
				abortForbidden(c, "School does not match the authenticated user")
				return
			}
		}

		if header := c.GetHeader(BranchHeaderKey); header != "" {
			branchID, err := uuid.Parse(header)
			if err != nil {
				abortForbidden(c, "Invalid branch header")
				return
			}
			if tc.HasBranch() && *tc.BranchID != branchID {
				abortForbidden(c, "Branch is outside the authenticated user's scope")
				return
			}
			tc = tc.WithBranch(branchID)
			c.Set(TenantKey, tc)
		}

		c.Set(SchoolIDKey, tc.SchoolID.String())
		c.Request = c.Request.WithContext(shared.ContextWithTenant(c.Request.Context(), tc))
		c.Next()
	}
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, message, c.GetString(RequestIDKey)))
}
