package services

import (
	"fmt"
	"sync"
)

// ServiceRegistry provides a clean architectural pattern for inter-module
// communication. Modules register their public API here during
// initialization and consumers resolve it by name instead of importing the
// providing module directly, which keeps module dependencies acyclic.
type ServiceRegistry struct {
	mu       sync.RWMutex
	services map[string]interface{}
}

var globalRegistry = &ServiceRegistry{
	services: make(map[string]interface{}),
}

// RegisterService registers a service with the given name
func RegisterService[T any](name string, service T) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	globalRegistry.services[name] = service
}

// GetService retrieves a service by name with type safety
func GetService[T any](name string) (T, error) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	var zero T

	service, exists := globalRegistry.services[name]
	if !exists {
		return zero, fmt.Errorf("service '%s' not found", name)
	}

	typedService, ok := service.(T)
	if !ok {
		return zero, fmt.Errorf("service '%s' has wrong type", name)
	}

	return typedService, nil
}

// MustGetService retrieves a service and panics if not found (for initialization)
func MustGetService[T any](name string) T {
	service, err := GetService[T](name)
	if err != nil {
		panic(fmt.Sprintf("required service not available: %v", err))
	}
	return service
}

// ListServices returns all registered service names
func ListServices() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	names := make([]string, 0, len(globalRegistry.services))
	for name := range globalRegistry.services {
		names = append(names, name)
	}
	return names
}

// Reset clears the registry. Intended for tests.
func Reset() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.services = make(map[string]interface{})
}
