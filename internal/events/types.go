// Package events provides the system event bus. It carries lifecycle
// notifications between modules and records them for the events API.
package events

import (
	"context"
	"time"
)

// EventType represents the type of event
type EventType string

// System-wide event types
const (
	// User events
	EventUserCreated EventType = "user.created"

	// Watchlist events
	EventMovieAdded   EventType = "movie.added"
	EventMovieUpdated EventType = "movie.updated"
	EventMovieDeleted EventType = "movie.deleted"

	// Enrichment events
	EventMovieEnriched EventType = "movie.enriched"
	EventLookupMissed  EventType = "enrichment.lookup.missed"

	// System events
	EventSystemStarted EventType = "system.started"
	EventSystemStopped EventType = "system.stopped"
)

// Event represents a system event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"` // module id, e.g. "system.watchlist"
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventHandler represents a function that handles events
type EventHandler func(event Event) error

// EventFilter represents filters for event subscriptions and queries
type EventFilter struct {
	Types   []EventType `json:"types,omitempty"`
	Sources []string    `json:"sources,omitempty"`
}

// Subscription represents an event subscription
type Subscription struct {
	ID            string       `json:"id"`
	Filter        EventFilter  `json:"filter"`
	Handler       EventHandler `json:"-"`
	Created       time.Time    `json:"created"`
	LastTriggered *time.Time   `json:"last_triggered,omitempty"`
	TriggerCount  int64        `json:"trigger_count"`
}

// EventStats represents statistics about events
type EventStats struct {
	TotalEvents         int64            `json:"total_events"`
	EventsByType        map[string]int64 `json:"events_by_type"`
	EventsBySource      map[string]int64 `json:"events_by_source"`
	ActiveSubscriptions int              `json:"active_subscriptions"`
}

// EventBusConfig represents configuration for the event bus
type EventBusConfig struct {
	BufferSize        int           `json:"buffer_size"`
	MaxEventAge       time.Duration `json:"max_event_age"`
	EnablePersistence bool          `json:"enable_persistence"`
}

// DefaultEventBusConfig returns default configuration
func DefaultEventBusConfig() EventBusConfig {
	return EventBusConfig{
		BufferSize:        256,
		MaxEventAge:       7 * 24 * time.Hour,
		EnablePersistence: true,
	}
}

// EventBus defines the interface for the event bus system
type EventBus interface {
	// Publish publishes an event, blocking until accepted or ctx is done
	Publish(ctx context.Context, event Event) error

	// PublishAsync publishes an event without blocking
	PublishAsync(event Event) error

	// Subscribe subscribes to events matching the filter
	Subscribe(ctx context.Context, filter EventFilter, handler EventHandler) (*Subscription, error)

	// Unsubscribe removes a subscription
	Unsubscribe(subscriptionID string) error

	// GetEvents returns stored events based on filter and pagination
	GetEvents(filter EventFilter, limit, offset int) ([]Event, int64, error)

	// GetStats returns event bus statistics
	GetStats() EventStats

	// Start starts the event bus
	Start(ctx context.Context) error

	// Stop stops the event bus gracefully
	Stop(ctx context.Context) error
}

// EventStorage defines the interface for persisting events
type EventStorage interface {
	Store(ctx context.Context, event Event) error
	Get(ctx context.Context, filter EventFilter, limit, offset int) ([]Event, int64, error)
	Delete(ctx context.Context, olderThan time.Duration) error
	Count(ctx context.Context) (int64, error)
}

// MatchesFilter checks if an event matches the given filter
func MatchesFilter(event Event, filter EventFilter) bool {
	if len(filter.Types) > 0 {
		found := false
		for _, t := range filter.Types {
			if event.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filter.Sources) > 0 {
		found := false
		for _, s := range filter.Sources {
			if event.Source == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
