package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/webgen/version"
)

var startTime = time.Now()

type infoResponse struct {
	*version.Info

	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// Info reports the build the service is running and how long it has been up.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, infoResponse{
			Service: serviceName,
			Info:    version.GetVersionInfo(),
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	}
}
