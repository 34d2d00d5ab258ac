package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShahwaizZahid/pog-blog/utils"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.LogPanic(recovered, "HTTP Request")

		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "internal server error",
		})
		c.Abort()
	})
}
