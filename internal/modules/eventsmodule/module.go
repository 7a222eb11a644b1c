// Package eventsmodule exposes the system event log over the API: recent
// events, aggregate stats and a websocket stream of live activity.
package eventsmodule

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/movielog/movielog/internal/events"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/modules/modulemanager"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	ModuleID   = "system.events"
	ModuleName = "Event Log"
)

// Module exposes the event bus over HTTP
type Module struct{}

// Register registers the events module with the module system
func Register() {
	modulemanager.Register(&Module{})
}

// ID returns the unique module identifier
func (m *Module) ID() string {
	return ModuleID
}

// Name returns the module display name
func (m *Module) Name() string {
	return ModuleName
}

// Core returns whether this is a core module
func (m *Module) Core() bool {
	return false
}

// Migrate performs database migrations
func (m *Module) Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&events.SystemEvent{}); err != nil {
		return fmt.Errorf("failed to migrate event models: %w", err)
	}
	return nil
}

// Init initializes the events module. The bus itself is owned by the
// server; this module only serves it.
func (m *Module) Init() error {
	return nil
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := NewHandler()

	api := router.Group("/api/events")
	{
		api.GET("", handler.ListEvents)
		api.GET("/stats", handler.GetStats)
		api.GET("/stream", handler.StreamEvents)
	}

	logger.Info("events module routes registered")
}
