package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/diabetes-app/internal/platform/ctxutil"
	"github.com/yungbote/diabetes-app/internal/platform/requestid"
	"github.com/yungbote/diabetes-app/internal/ratelimit"
)

const headerTraceID = "X-Trace-Id"

// AttachTraceContext stores request/trace ids and the client address on the
// request context and echoes the ids as response headers.
func AttachTraceContext(trustXFF bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := requestid.FromHeader(c.GetHeader(requestid.Header))
		traceID := ""
		if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
			traceID = spanCtx.TraceID().String()
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
			ClientIP:  ratelimit.ClientKey(c.Request, trustXFF),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set("trace_id", traceID)
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(requestid.Header, reqID)
		c.Next()
	}
}
