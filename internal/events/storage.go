package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SystemEvent represents a stored event row
type SystemEvent struct {
	ID        uint32    `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"uniqueIndex;not null" json:"event_id"`
	Type      string    `gorm:"not null;index" json:"type"`
	Source    string    `gorm:"not null;index" json:"source"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Data      string    `gorm:"type:text" json:"data"` // JSON-encoded event data
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName returns the table name for SystemEvent
func (SystemEvent) TableName() string {
	return "system_events"
}

// ToEvent converts a SystemEvent to an Event
func (se *SystemEvent) ToEvent() (Event, error) {
	event := Event{
		ID:        se.EventID,
		Type:      EventType(se.Type),
		Source:    se.Source,
		Title:     se.Title,
		Message:   se.Message,
		Timestamp: se.CreatedAt,
	}

	if se.Data != "" {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(se.Data), &data); err != nil {
			return event, fmt.Errorf("failed to unmarshal event data: %w", err)
		}
		event.Data = data
	}

	return event, nil
}

// FromEvent fills a SystemEvent from an Event
func (se *SystemEvent) FromEvent(event Event) error {
	se.EventID = event.ID
	se.Type = string(event.Type)
	se.Source = event.Source
	se.Title = event.Title
	se.Message = event.Message
	se.CreatedAt = event.Timestamp

	if event.Data != nil {
		dataBytes, err := json.Marshal(event.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal event data: %w", err)
		}
		se.Data = string(dataBytes)
	}

	return nil
}

// databaseEventStorage implements EventStorage using GORM
type databaseEventStorage struct {
	db *gorm.DB
}

// NewDatabaseEventStorage creates a new database event storage
func NewDatabaseEventStorage(db *gorm.DB) EventStorage {
	return &databaseEventStorage{db: db}
}

// Store stores an event in the database
func (s *databaseEventStorage) Store(ctx context.Context, event Event) error {
	var systemEvent SystemEvent
	if err := systemEvent.FromEvent(event); err != nil {
		return fmt.Errorf("failed to convert event: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(&systemEvent).Error; err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}

	return nil
}

// Get retrieves events based on filter, newest first
func (s *databaseEventStorage) Get(ctx context.Context, filter EventFilter, limit, offset int) ([]Event, int64, error) {
	query := s.db.WithContext(ctx).Model(&SystemEvent{})

	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		query = query.Where("type IN ?", types)
	}

	if len(filter.Sources) > 0 {
		query = query.Where("source IN ?", filter.Sources)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	var systemEvents []SystemEvent
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&systemEvents).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve events: %w", err)
	}

	events := make([]Event, 0, len(systemEvents))
	for _, se := range systemEvents {
		event, err := se.ToEvent()
		if err != nil {
			continue // skip rows with corrupt payloads
		}
		events = append(events, event)
	}

	return events, total, nil
}

// Delete removes events older than the specified duration
func (s *databaseEventStorage) Delete(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	return s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&SystemEvent{}).Error
}

// Count returns the total number of stored events
func (s *databaseEventStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&SystemEvent{}).Count(&count).Error
	return count, err
}
