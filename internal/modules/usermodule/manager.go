package usermodule

import (
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/movielog/movielog/internal/database"
	"github.com/movielog/movielog/internal/errors"
)

// Manager provides data access for users.
type Manager struct {
	db *gorm.DB
}

// NewManager creates a new user manager
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// ListAllUsers returns every user, no filtering.
func (m *Manager) ListAllUsers() ([]database.User, error) {
	var users []database.User
	if err := m.db.Find(&users).Error; err != nil {
		return nil, errors.NewDatabaseError("list users", err)
	}
	return users, nil
}

// GetUser returns a user by id.
func (m *Manager) GetUser(id uint32) (*database.User, error) {
	var user database.User
	if err := m.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("User", formatID(id))
		}
		return nil, errors.NewDatabaseError("get user", err)
	}
	return &user, nil
}

// UserExists reports whether a user with the given id exists.
func (m *Manager) UserExists(id uint32) (bool, error) {
	var count int64
	if err := m.db.Model(&database.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.NewDatabaseError("check user", err)
	}
	return count > 0, nil
}

// CreateUser creates a user with the given display name. Users are only
// created through the JSON API; there is no page route for it.
func (m *Manager) CreateUser(name string) (*database.User, error) {
	user := database.User{Name: name}
	if err := m.db.Create(&user).Error; err != nil {
		return nil, errors.NewDatabaseError("create user", err)
	}
	return &user, nil
}
