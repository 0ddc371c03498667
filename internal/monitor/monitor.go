// Package monitor serves health and run metrics over HTTP.
package monitor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/cyberdigest/internal/metrics"
)

// StateFunc reports the scheduler state ("idle" or "running").
type StateFunc func() string

func NewRouter(m *metrics.Metrics, state StateFunc) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		stats := m.GetStats()

		status := "ok"
		code := http.StatusOK
		if !stats["is_healthy"].(bool) {
			status = "error"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":     status,
			"state":      state(),
			"last_run":   stats["last_run_time"],
			"last_error": stats["last_error"],
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, m.GetStats())
	})

	return r
}
