package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

type livenessResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// Liveness confirms the process serves HTTP. The upstream is not consulted,
// so a missing credential never restarts the process.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, livenessResponse{
			Status:  "alive",
			Service: serviceName,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	}
}

type processStats struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Goroutines    int    `json:"goroutines"`
	HeapBytes     uint64 `json:"heap_bytes"`
	SysBytes      uint64 `json:"sys_bytes"`
	GCRuns        uint32 `json:"gc_runs"`
}

// Metrics reports process statistics. Each open stream holds goroutines, so
// the count tracks relays in flight. Request telemetry goes through
// OpenTelemetry.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(http.StatusOK, processStats{
			UptimeSeconds: int64(time.Since(startTime).Seconds()),
			Goroutines:    runtime.NumGoroutine(),
			HeapBytes:     m.HeapAlloc,
			SysBytes:      m.Sys,
			GCRuns:        m.NumGC,
		})
	}
}
