package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/diabetes-app/internal/http/response"
	"github.com/yungbote/diabetes-app/internal/platform/ctxutil"
	"github.com/yungbote/diabetes-app/internal/platform/logger"
)

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				if log != nil {
					log.With(
						"request_id", ctxutil.RequestID(c.Request.Context()),
						"panic", rec,
						"stack", string(debug.Stack()),
					).Error("panic recovered")
				}
				response.RespondError(c, http.StatusInternalServerError, "internal_error", errInternal)
			}
		}()
		c.Next()
	}
}
