// Package usermodule owns the user table and the user listing surface.
package usermodule

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/movielog/movielog/internal/database"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/modules/modulemanager"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	ModuleID   = "system.users"
	ModuleName = "User Manager"
)

// Module implements user management as a module
type Module struct {
	db      *gorm.DB
	manager *Manager
}

// Register registers the user module with the module system
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

// Migrate performs database migrations
func (m *Module) Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&database.User{}); err != nil {
		return fmt.Errorf("failed to migrate user models: %w", err)
	}
	return nil
}

// Init initializes the user module
func (m *Module) Init() error {
	if m.db == nil {
		m.db = database.GetDB()
	}
	m.manager = NewManager(m.db)
	return nil
}

// Manager returns the user manager.
func (m *Module) Manager() *Manager {
	return m.manager
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := NewHandler(m.manager)

	router.GET("/users", handler.ListUsersPage)

	api := router.Group("/api/users")
	{
		api.GET("", handler.ListUsers)
		api.POST("", handler.CreateUser)
		api.GET("/:user_id", handler.GetUser)
	}

	logger.Info("user module routes registered")
}
