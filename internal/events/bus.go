package events

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// eventBus implements the EventBus interface
type eventBus struct {
	config  EventBusConfig
	logger  hclog.Logger
	storage EventStorage

	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	eventChannel  chan Event
	running       bool
	stopCh        chan struct{}
	wg            sync.WaitGroup

	// Short in-memory buffer used when no storage is configured
	recentEvents []Event
	stats        EventStats
}

// NewEventBus creates a new event bus instance. storage may be nil, in which
// case events are only kept in a bounded in-memory buffer.
func NewEventBus(config EventBusConfig, logger hclog.Logger, storage EventStorage) EventBus {
	return &eventBus{
		config:        config,
		logger:        logger,
		storage:       storage,
		subscriptions: make(map[string]*Subscription),
		eventChannel:  make(chan Event, config.BufferSize),
		recentEvents:  make([]Event, 0, 100),
		stopCh:        make(chan struct{}),
	}
}

// Start starts the event bus
func (eb *eventBus) Start(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.running {
		return fmt.Errorf("event bus is already running")
	}

	eb.running = true
	eb.stopCh = make(chan struct{})

	eb.wg.Add(1)
	go eb.processEvents(ctx)

	if eb.config.EnablePersistence && eb.storage != nil && eb.config.MaxEventAge > 0 {
		eb.wg.Add(1)
		go eb.cleanupEvents(ctx)
	}

	eb.logger.Info("event bus started", "buffer_size", eb.config.BufferSize)
	return nil
}

// Stop stops the event bus gracefully
func (eb *eventBus) Stop(ctx context.Context) error {
	eb.mu.Lock()
	if !eb.running {
		eb.mu.Unlock()
		return nil
	}
	eb.running = false
	eb.mu.Unlock()

	close(eb.stopCh)
	close(eb.eventChannel)

	done := make(chan struct{})
	go func() {
		eb.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		eb.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		eb.logger.Warn("event bus stop timed out")
		return ctx.Err()
	}
}

// Publish publishes an event to the event bus
func (eb *eventBus) Publish(ctx context.Context, event Event) error {
	if err := eb.prepare(&event); err != nil {
		return err
	}

	select {
	case eb.eventChannel <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAsync publishes an event without blocking. A full channel drops the
// event rather than stalling the caller's request.
func (eb *eventBus) PublishAsync(event Event) error {
	if err := eb.prepare(&event); err != nil {
		return err
	}

	select {
	case eb.eventChannel <- event:
		return nil
	default:
		eb.logger.Warn("event channel full, dropping event", "event_type", event.Type, "event_id", event.ID)
		return fmt.Errorf("event channel full")
	}
}

func (eb *eventBus) prepare(event *Event) error {
	eb.mu.RLock()
	running := eb.running
	eb.mu.RUnlock()
	if !running {
		return fmt.Errorf("event bus is not running")
	}

	if event.ID == "" {
		event.ID = generateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if event.Source == "" {
		return fmt.Errorf("event source is required")
	}
	return nil
}

// Subscribe subscribes to events matching the filter
func (eb *eventBus) Subscribe(ctx context.Context, filter EventFilter, handler EventHandler) (*Subscription, error) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subscription := &Subscription{
		ID:      "sub-" + randomHex(8),
		Filter:  filter,
		Handler: handler,
		Created: time.Now(),
	}

	eb.subscriptions[subscription.ID] = subscription
	eb.logger.Debug("subscription created", "subscription_id", subscription.ID, "types", filter.Types)
	return subscription, nil
}

// Unsubscribe removes a subscription
func (eb *eventBus) Unsubscribe(subscriptionID string) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if _, exists := eb.subscriptions[subscriptionID]; !exists {
		return fmt.Errorf("subscription not found: %s", subscriptionID)
	}

	delete(eb.subscriptions, subscriptionID)
	return nil
}

// GetEvents returns stored events based on filter and pagination
func (eb *eventBus) GetEvents(filter EventFilter, limit, offset int) ([]Event, int64, error) {
	if eb.storage != nil {
		return eb.storage.Get(context.Background(), filter, limit, offset)
	}

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	var filtered []Event
	for _, event := range eb.recentEvents {
		if MatchesFilter(event, filter) {
			filtered = append(filtered, event)
		}
	}

	total := int64(len(filtered))
	start := offset
	if start >= len(filtered) {
		return []Event{}, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

// GetStats returns event bus statistics
func (eb *eventBus) GetStats() EventStats {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	stats := eb.stats
	stats.ActiveSubscriptions = len(eb.subscriptions)
	return stats
}

// processEvents processes events from the channel
func (eb *eventBus) processEvents(ctx context.Context) {
	defer eb.wg.Done()

	for {
		select {
		case <-eb.stopCh:
			return
		case <-ctx.Done():
			return
		case event, ok := <-eb.eventChannel:
			if !ok {
				return
			}
			eb.handleEvent(event)
		}
	}
}

// handleEvent processes a single event
func (eb *eventBus) handleEvent(event Event) {
	eb.logger.Debug("processing event", "type", event.Type, "id", event.ID, "source", event.Source)

	if eb.config.EnablePersistence && eb.storage != nil {
		if err := eb.storage.Store(context.Background(), event); err != nil {
			eb.logger.Error("failed to store event", "error", err, "event_id", event.ID)
		}
	}

	eb.mu.Lock()
	eb.recentEvents = append(eb.recentEvents, event)
	if len(eb.recentEvents) > 100 {
		eb.recentEvents = eb.recentEvents[1:]
	}

	eb.stats.TotalEvents++
	if eb.stats.EventsByType == nil {
		eb.stats.EventsByType = make(map[string]int64)
	}
	eb.stats.EventsByType[string(event.Type)]++
	if eb.stats.EventsBySource == nil {
		eb.stats.EventsBySource = make(map[string]int64)
	}
	eb.stats.EventsBySource[event.Source]++

	var matching []*Subscription
	for _, sub := range eb.subscriptions {
		if MatchesFilter(event, sub.Filter) {
			matching = append(matching, sub)
		}
	}
	eb.mu.Unlock()

	for _, sub := range matching {
		eb.notifySubscriber(sub, event)
	}
}

// notifySubscriber notifies a subscriber about an event
func (eb *eventBus) notifySubscriber(subscription *Subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error("panic in event handler", "subscription_id", subscription.ID, "error", r, "event_id", event.ID)
		}
	}()

	if err := subscription.Handler(event); err != nil {
		eb.logger.Error("event handler error", "subscription_id", subscription.ID, "error", err, "event_id", event.ID)
		return
	}

	eb.mu.Lock()
	subscription.TriggerCount++
	now := time.Now()
	subscription.LastTriggered = &now
	eb.mu.Unlock()
}

// cleanupEvents removes old events periodically
func (eb *eventBus) cleanupEvents(ctx context.Context) {
	defer eb.wg.Done()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-eb.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := eb.storage.Delete(ctx, eb.config.MaxEventAge); err != nil {
				eb.logger.Error("failed to clean up old events", "error", err)
			}
		}
	}
}

func generateEventID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), randomHex(8))
}

func randomHex(n int) string {
	bytes := make([]byte, n)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
