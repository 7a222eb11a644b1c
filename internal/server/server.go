// Package server wires the HTTP surface together: the gin router, the
// event bus, the module system and the page templates.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/movielog/movielog/internal/config"
	"github.com/movielog/movielog/internal/database"
	"github.com/movielog/movielog/internal/events"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/middleware"
	"github.com/movielog/movielog/internal/modules/modulemanager"

	// Import all modules to trigger their registration
	_ "github.com/movielog/movielog/internal/modules/enrichmentmodule"
	_ "github.com/movielog/movielog/internal/modules/eventsmodule"
	_ "github.com/movielog/movielog/internal/modules/usermodule"
	_ "github.com/movielog/movielog/internal/modules/watchlistmodule"
)

var (
	systemEventBus    events.EventBus
	moduleInitialized bool
)

// Options control optional parts of router setup, mainly for tests
type Options struct {
	// TemplateGlob overrides the template path; empty uses web/templates
	TemplateGlob string
}

// SetupRouter configures and returns the main router. The database must be
// initialized before this is called.
func SetupRouter(opts Options) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	cfg := config.Get()
	if cfg.Server.EnableCORS {
		r.Use(middleware.CORS())
	}

	glob := opts.TemplateGlob
	if glob == "" {
		glob = "web/templates/*.html"
	}
	r.LoadHTMLGlob(glob)

	if err := initializeEventBus(); err != nil {
		return nil, err
	}

	if err := initializeModules(); err != nil {
		return nil, err
	}

	registerCoreRoutes(r)
	modulemanager.RegisterRoutes(r)

	systemEventBus.PublishAsync(events.Event{
		Type:    events.EventSystemStarted,
		Source:  "system.core",
		Title:   "System started",
		Message: "all modules loaded",
	})

	return r, nil
}

// initializeEventBus sets up the system-wide event bus
func initializeEventBus() error {
	if systemEventBus != nil {
		return nil
	}

	busConfig := events.DefaultEventBusConfig()

	var storage events.EventStorage
	if db := database.GetDB(); db != nil && busConfig.EnablePersistence {
		storage = events.NewDatabaseEventStorage(db)
	}

	bus := events.NewEventBus(busConfig, logger.Named("events"), storage)
	if err := bus.Start(context.Background()); err != nil {
		return err
	}

	systemEventBus = bus
	events.SetGlobalEventBus(bus)
	logger.Info("event bus started")
	return nil
}

// initializeModules loads every registered module against the database
func initializeModules() error {
	if moduleInitialized {
		return nil
	}

	if err := modulemanager.LoadAll(database.GetDB()); err != nil {
		return err
	}

	moduleInitialized = true
	logModuleStatus()
	return nil
}

func logModuleStatus() {
	modules := modulemanager.ListModules()
	logger.Info("module system initialized", "count", len(modules))
	for _, module := range modules {
		logger.Debug("module loaded", "id", module.ID(), "name", module.Name(), "core", module.Core())
	}
}

// GetEventBus returns the system event bus instance
func GetEventBus() events.EventBus {
	return systemEventBus
}

// ShutdownEventBus gracefully shuts down the event bus
func ShutdownEventBus() error {
	if systemEventBus == nil {
		return nil
	}
	logger.Info("shutting down event bus")
	systemEventBus.PublishAsync(events.Event{
		Type:   events.EventSystemStopped,
		Source: "system.core",
		Title:  "System stopping",
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := systemEventBus.Stop(ctx)
	systemEventBus = nil
	return err
}

// Reset clears server state between tests
func Reset() {
	systemEventBus = nil
	moduleInitialized = false
	events.SetGlobalEventBus(nil)
}
