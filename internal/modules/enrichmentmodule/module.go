// Package enrichmentmodule provides movie metadata enrichment backed by the
// OMDB API. It exposes its client through the service registry so the
// watchlist module never talks to OMDB directly.
package enrichmentmodule

import (
	"gorm.io/gorm"

	"github.com/movielog/movielog/internal/config"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/modules/enrichmentmodule/omdb"
	"github.com/movielog/movielog/internal/modules/modulemanager"
	"github.com/movielog/movielog/internal/services"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	ModuleID   = "system.enrichment"
	ModuleName = "Metadata Enrichment"
)

// Module implements metadata enrichment as a module
type Module struct {
	client *omdb.Client
}

// Register registers the enrichment module with the module system
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

// Migrate performs database migrations. The enrichment module owns no tables.
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init initializes the enrichment module
func (m *Module) Init() error {
	cfg := config.Get()

	if cfg.OMDB.APIKey == "" {
		logger.Warn("no OMDB API key configured, lookups will fail")
	}

	m.client = omdb.NewClient(&cfg.OMDB, logger.Named("omdb"))
	services.RegisterService[services.EnrichmentService](services.EnrichmentServiceName, newEnrichmentService(m.client))

	logger.Info("enrichment service registered", "base_url", cfg.OMDB.BaseURL)
	return nil
}
