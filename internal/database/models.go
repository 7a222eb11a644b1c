package database

import (
	"time"
)

// User represents an account that owns a movie list. Users are created out
// of band through the JSON API; there is no page route for creating or
// deleting them.
type User struct {
	ID        uint32    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Movies    []Movie   `gorm:"foreignKey:UserID" json:"movies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Movie represents a single entry in a user's list. Director, year, and
// rating come from the OMDB lookup at creation time and are nullable because
// OMDB reports "N/A" for fields it does not know.
//
// Movie IDs are UUIDs and globally unique, not scoped per user. A movie
// belongs to exactly one user for its whole lifetime.
type Movie struct {
	ID        string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title     string   `gorm:"not null;index" json:"title"`
	Director  *string  `json:"director"`
	Year      *int     `json:"year"`
	Rating    *float64 `json:"rating"` // 0-10 scale as reported by OMDB

	UserID    uint32    `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
