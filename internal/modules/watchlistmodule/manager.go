package watchlistmodule

import (
	stderrors "errors"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/movielog/movielog/internal/database"
	"github.com/movielog/movielog/internal/errors"
	"github.com/movielog/movielog/internal/events"
	"github.com/movielog/movielog/internal/types"
)

// Manager provides data access for a user's movie list. All mutations run in
// transactions: commit on success, rollback on any error.
type Manager struct {
	db *gorm.DB
}

// NewManager creates a new watchlist manager
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// GetUserMovies returns a user's movies. A user with no movies and a user
// that does not exist both yield an empty slice; callers that need the
// distinction check the user separately.
func (m *Manager) GetUserMovies(userID uint32) ([]database.Movie, error) {
	var movies []database.Movie
	if err := m.db.Where("user_id = ?", userID).Find(&movies).Error; err != nil {
		return nil, errors.NewDatabaseError("list movies", err)
	}
	return movies, nil
}

// GetMovie returns a movie by id, scoped to the owning user. Lookups across
// user boundaries are blocked: a movie id that exists under another user is
// reported as not found.
func (m *Manager) GetMovie(userID uint32, movieID string) (*database.Movie, error) {
	var movie database.Movie
	err := m.db.Where("id = ? AND user_id = ?", movieID, userID).First(&movie).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Movie", movieID)
		}
		return nil, errors.NewDatabaseError("get movie", err)
	}
	return &movie, nil
}

// UserExists reports whether the given user exists.
func (m *Manager) UserExists(userID uint32) (bool, error) {
	var count int64
	if err := m.db.Model(&database.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, errors.NewDatabaseError("check user", err)
	}
	return count > 0, nil
}

// AddMovie attaches a new movie to the user. The stored title is the title
// the user submitted, not the one the metadata provider reports; director,
// year, and rating come from the lookup.
func (m *Manager) AddMovie(userID uint32, title string, info *types.MovieInfo) (*database.Movie, error) {
	movie := &database.Movie{
		ID:       uuid.NewString(),
		Title:    title,
		Director: info.Director,
		Year:     info.Year,
		Rating:   info.Rating,
		UserID:   userID,
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return errors.NewDatabaseError("check user", err)
		}
		if count == 0 {
			return errors.NewNotFoundError("User", strconv.FormatUint(uint64(userID), 10))
		}
		if err := tx.Create(movie).Error; err != nil {
			return errors.NewDatabaseError("create movie", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.publish(events.EventMovieAdded, "Movie added", movie)
	return movie, nil
}

// UpdateMovie overwrites the movie's title, director, year, and rating.
// Updating a movie that does not exist (or belongs to another user) is an
// explicit not-found error.
func (m *Manager) UpdateMovie(userID uint32, movieID string, fields types.MovieFields) (*database.Movie, error) {
	var movie database.Movie

	err := m.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", movieID, userID).First(&movie).Error
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewNotFoundError("Movie", movieID)
			}
			return errors.NewDatabaseError("get movie", err)
		}

		movie.Title = fields.Title
		movie.Director = fields.Director
		movie.Year = fields.Year
		movie.Rating = fields.Rating

		// Save with explicit column selection so nil fields clear to NULL
		if err := tx.Model(&movie).Select("title", "director", "year", "rating").
			Updates(map[string]interface{}{
				"title":    movie.Title,
				"director": movie.Director,
				"year":     movie.Year,
				"rating":   movie.Rating,
			}).Error; err != nil {
			return errors.NewDatabaseError("update movie", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.publish(events.EventMovieUpdated, "Movie updated", &movie)
	return &movie, nil
}

// DeleteMovie removes the movie from the user's list. Deleting a movie that
// is already absent is not an error.
func (m *Manager) DeleteMovie(userID uint32, movieID string) error {
	result := m.db.Where("id = ? AND user_id = ?", movieID, userID).Delete(&database.Movie{})
	if result.Error != nil {
		return errors.NewDatabaseError("delete movie", result.Error)
	}

	if result.RowsAffected > 0 {
		m.publish(events.EventMovieDeleted, "Movie deleted", &database.Movie{ID: movieID, UserID: userID})
	}
	return nil
}

func (m *Manager) publish(eventType events.EventType, title string, movie *database.Movie) {
	bus := events.GetGlobalEventBus()
	if bus == nil {
		return
	}
	bus.PublishAsync(events.Event{
		Type:    eventType,
		Source:  ModuleID,
		Title:   title,
		Message: movie.Title,
		Data: map[string]interface{}{
			"movie_id": movie.ID,
			"user_id":  movie.UserID,
		},
	})
}
