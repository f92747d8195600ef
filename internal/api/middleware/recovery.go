package middleware

import (
	"net/http"
	"runtime/debug"

	"woosync/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery is the last fence: sync failures are reported through return
// values and logs, so anything that panics this far up is a bug worth a
// stack trace.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if gin.IsDebugging() {
			log.Error("[Recovery] panic recovered: %v\n%s", recovered, string(debug.Stack()))
		} else {
			log.Error("[Recovery] panic recovered: %v", recovered)
		}
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
