// Package watchlistmodule owns the per-user movie lists: the movie table,
// the list/add/update/delete pages and the matching JSON API.
package watchlistmodule

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/movielog/movielog/internal/database"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/modules/modulemanager"
	"github.com/movielog/movielog/internal/services"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	ModuleID   = "system.watchlist"
	ModuleName = "Watchlist Manager"
)

// Module implements movie list management as a module
type Module struct {
	db         *gorm.DB
	manager    *Manager
	enrichment services.EnrichmentService
}

// Register registers the watchlist module with the module system
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
	return true
}

// Dependencies declares the modules that must initialize first
func (m *Module) Dependencies() []string {
	return []string{"system.users", "system.enrichment"}
}

// Migrate performs database migrations
func (m *Module) Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&database.Movie{}); err != nil {
		return fmt.Errorf("failed to migrate movie models: %w", err)
	}
	return nil
}

// Init initializes the watchlist module
func (m *Module) Init() error {
	if m.db == nil {
		m.db = database.GetDB()
	}
	m.manager = NewManager(m.db)

	enrichment, err := services.GetService[services.EnrichmentService](services.EnrichmentServiceName)
	if err != nil {
		return fmt.Errorf("enrichment service not available: %w", err)
	}
	m.enrichment = enrichment

	return nil
}

// Manager returns the watchlist manager
func (m *Module) Manager() *Manager {
	return m.manager
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := NewHandler(m.manager, m.enrichment)

	pages := router.Group("/users/:user_id")
	{
		pages.GET("", handler.UserMoviesPage)
		pages.GET("/add_movie", handler.AddMoviePage)
		pages.POST("/add_movie", handler.AddMoviePage)
		pages.GET("/update_movie/:movie_id", handler.UpdateMoviePage)
		pages.POST("/update_movie/:movie_id", handler.UpdateMoviePage)
		pages.GET("/delete_movie/:movie_id", handler.DeleteMoviePage)
	}

	api := router.Group("/api/users/:user_id/movies")
	{
		api.GET("", handler.ListMovies)
		api.POST("", handler.AddMovie)
		api.GET("/:movie_id", handler.GetMovie)
		api.PUT("/:movie_id", handler.UpdateMovie)
		api.DELETE("/:movie_id", handler.DeleteMovie)
	}

	logger.Info("watchlist module routes registered")
}
