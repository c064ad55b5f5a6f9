package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/utils"
	"github.com/sirupsen/logrus"
)

// ErrorLogger logs the errors attached to a request once it has been handled.
func ErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		fields := logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		}
		if cid, ok := utils.GetCorrelationIdFromContext(c.Request.Context()); ok {
			fields["correlation_id"] = cid
		}
		logger.WithFields(fields).Error(c.Errors.String())
	}
}
