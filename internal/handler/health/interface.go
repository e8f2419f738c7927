package health

import "github.com/gin-gonic/gin"

type IHealthHandler interface {
	Basic(c *gin.Context)
	Database(c *gin.Context)
	External(c *gin.Context)
	Jobs(c *gin.Context)
	// Ready gates traffic on the projection store and the swap indexing jobs.
	Ready(c *gin.Context)
}
