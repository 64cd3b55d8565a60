package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/diabetes-app/internal/platform/requestid"
)

// CORS allows the configured origins to call the JSON API from a browser.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", requestid.Header},
		ExposeHeaders:    []string{requestid.Header, headerTraceID},
		AllowCredentials: false,
	})
}
