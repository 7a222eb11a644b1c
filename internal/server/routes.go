package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/movielog/movielog/internal/database"
	"github.com/movielog/movielog/internal/modules/modulemanager"
)

var startTime = time.Now()

// registerCoreRoutes sets up the routes that belong to no module: the home
// page, the health endpoint and the 404 handler.
func registerCoreRoutes(r *gin.Engine) {
	r.GET("/", handleHome)
	r.Static("/static", "web/static")
	r.GET("/api/health", handleHealthCheck)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "404.html", nil)
	})
}

func handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", nil)
}

// handleHealthCheck reports process and host health. System probes are best
// effort; a failed probe leaves its field absent rather than failing the
// check.
func handleHealthCheck(c *gin.Context) {
	health := gin.H{
		"status":     "ok",
		"uptime":     time.Since(startTime).Round(time.Second).String(),
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"modules":    len(modulemanager.ListModules()),
	}

	dbStatus := "ok"
	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "unreachable"
			health["status"] = "degraded"
		}
	} else {
		dbStatus = "not initialized"
		health["status"] = "degraded"
	}
	health["database"] = dbStatus

	ctx := c.Request.Context()
	if memStats, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		health["memory_used_percent"] = memStats.UsedPercent
	}
	if cpuPercents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(cpuPercents) > 0 {
		health["cpu_percent"] = cpuPercents[0]
	}

	status := http.StatusOK
	if health["status"] != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
