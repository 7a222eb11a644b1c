// Package modulemanager provides module registration, dependency-ordered
// initialization, and route wiring for the application's modules.
package modulemanager

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/movielog/movielog/internal/logger"
)

// Module defines the interface that all modules must implement
type Module interface {
	ID() string                // Unique identifier for the module
	Name() string              // Display name for the module
	Core() bool                // Whether this is a core module (cannot be disabled)
	Migrate(db *gorm.DB) error // Run database migrations
	Init() error               // Initialize the module
}

// RouteRegistrar is an optional interface for modules that need to register routes
type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// DependencyProvider is an optional interface for modules that declare
// dependencies on other modules; dependencies initialize first.
type DependencyProvider interface {
	Dependencies() []string
}

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules         map[string]Module
	disabledModules map[string]bool
	mu              sync.RWMutex
	initialized     bool
}

// Registry is the global module registry
var Registry = &ModuleRegistry{
	modules:         make(map[string]Module),
	disabledModules: make(map[string]bool),
}

// Register adds a module to the registry
func Register(m Module) {
	Registry.Register(m)
}

// Register adds a module to the registry
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("module registered after initialization", "module", m.ID())
	}

	r.modules[m.ID()] = m
	logger.Info("module registered", "name", m.Name(), "id", m.ID())
}

// LoadAll initializes all registered modules
func LoadAll(db *gorm.DB) error {
	return Registry.LoadAll(db)
}

// LoadAll initializes all registered modules in dependency order
func (r *ModuleRegistry) LoadAll(db *gorm.DB) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("module system already initialized")
		return nil
	}

	// Filter out disabled modules
	enabled := make(map[string]Module)
	for id, module := range r.modules {
		if r.disabledModules[id] {
			if module.Core() {
				return fmt.Errorf("attempted to disable core module: %s", id)
			}
			logger.Warn("skipping disabled module", "name", module.Name())
			continue
		}
		enabled[id] = module
	}

	initOrder, err := resolveInitOrder(enabled)
	if err != nil {
		return fmt.Errorf("failed to determine initialization order: %w", err)
	}

	logger.Info("loading modules", "count", len(initOrder))

	for i, module := range initOrder {
		logger.Info("initializing module", "name", module.Name(), "index", i+1, "total", len(initOrder))

		if err := module.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", module.Name(), err)
		}

		if err := module.Init(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", module.Name(), err)
		}
	}

	r.initialized = true
	return nil
}

// resolveInitOrder sorts modules so every module comes after the modules it
// depends on. Dependencies on absent modules are ignored; cycles are errors.
func resolveInitOrder(modules map[string]Module) ([]Module, error) {
	ids := make([]string, 0, len(modules))
	for id := range modules {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic order among independent modules

	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(modules))
	order := make([]Module, 0, len(modules))

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle involving module %s", id)
		}
		state[id] = visiting

		if dp, ok := modules[id].(DependencyProvider); ok {
			deps := dp.Dependencies()
			sort.Strings(deps)
			for _, dep := range deps {
				if _, exists := modules[dep]; !exists {
					continue
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[id] = visited
		order = append(order, modules[id])
		return nil
	}

	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// DisableModule marks a module as disabled (for development/testing only)
func DisableModule(id string) {
	Registry.DisableModule(id)
}

// DisableModule marks a module as disabled
func (r *ModuleRegistry) DisableModule(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	module, exists := r.modules[id]
	if !exists {
		logger.Warn("attempted to disable non-existent module", "id", id)
		return
	}

	if module.Core() {
		logger.Error("cannot disable core module", "id", id)
		return
	}

	r.disabledModules[id] = true
	logger.Info("module disabled", "id", id)
}

// GetModule returns a module by ID
func GetModule(id string) (Module, bool) {
	return Registry.GetModule(id)
}

// GetModule returns a module by ID
func (r *ModuleRegistry) GetModule(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	module, exists := r.modules[id]
	return module, exists
}

// ListModules returns all registered modules
func ListModules() []Module {
	return Registry.ListModules()
}

// ListModules returns all registered modules
func (r *ModuleRegistry) ListModules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modules := make([]Module, 0, len(r.modules))
	for _, module := range r.modules {
		modules = append(modules, module)
	}
	return modules
}

// RegisterRoutes registers routes for all modules that implement RouteRegistrar
func RegisterRoutes(router *gin.Engine) {
	Registry.RegisterRoutes(router)
}

// RegisterRoutes registers routes for all modules that implement RouteRegistrar
func (r *ModuleRegistry) RegisterRoutes(router *gin.Engine) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, module := range r.modules {
		if r.disabledModules[module.ID()] {
			continue
		}
		if routeRegistrar, ok := module.(RouteRegistrar); ok {
			logger.Info("registering routes", "module", module.Name())
			routeRegistrar.RegisterRoutes(router)
		}
	}
}

// Reset clears the registry. Intended for tests.
func Reset() {
	Registry.mu.Lock()
	defer Registry.mu.Unlock()
	Registry.modules = make(map[string]Module)
	Registry.disabledModules = make(map[string]bool)
	Registry.initialized = false
}
