package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"quizarena/internal/observability"
	contextutils "quizarena/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorRecoveryMiddleware creates middleware that converts panics into
// structured 500 responses instead of tearing down the connection.
func ErrorRecoveryMiddleware(logger *observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stackTrace := string(debug.Stack())
				if logger != nil {
					logger.Error(c.Request.Context(), "Panic recovered", nil, map[string]interface{}{
						"panic":       fmt.Sprintf("%v", r),
						"stack_trace": stackTrace,
						"http.method": c.Request.Method,
						"http.path":   c.Request.URL.Path,
					})
				}

				var panicErr error
				if e, ok := r.(error); ok {
					panicErr = e
				} else {
					panicErr = contextutils.ErrorWithContextf("panic: %v", r)
				}

				appErr := contextutils.NewAppErrorWithCause(
					contextutils.ErrorCodeInternalError,
					contextutils.SeverityFatal,
					"Internal server error",
					"A panic occurred while processing the request",
					panicErr,
				)

				// Stack traces are only exposed in debug mode
				if gin.Mode() == gin.DebugMode {
					appErr.Details = fmt.Sprintf("%s\nStack trace: %s", appErr.Details, stackTrace)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, appErr.ToJSON())
			}
		}()

		c.Next()
	}
}
