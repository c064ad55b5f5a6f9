package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/plant_inventory/utils"
)

// OperatorHeader names the person at the terminal. It overrides the default
// manager roles recorded on activity entries.
const OperatorHeader = "x-operator"

func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		operator := strings.TrimSpace(c.Request.Header.Get(OperatorHeader))
		if operator == "" {
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(utils.SetUserNameInContext(c.Request.Context(), operator))
		c.Next()
	}
}
