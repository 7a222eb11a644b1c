package usermodule

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/movielog/movielog/internal/errors"
	"github.com/movielog/movielog/internal/events"
)

// Handler serves the user pages and API endpoints
type Handler struct {
	manager *Manager
}

// NewHandler creates a new user handler
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// ListUsersPage handles GET /users and renders the user list.
func (h *Handler) ListUsersPage(c *gin.Context) {
	users, err := h.manager.ListAllUsers()
	if err != nil {
		c.HTML(http.StatusInternalServerError, "users.html", gin.H{
			"error": "Could not load users",
		})
		return
	}

	c.HTML(http.StatusOK, "users.html", gin.H{
		"users": users,
	})
}

// ListUsers handles GET /api/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.manager.ListAllUsers()
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /api/users/:user_id
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.manager.GetUser(userID)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// createUserRequest is the body of POST /api/users
type createUserRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateUser handles POST /api/users. This is the out-of-band creation path;
// the page surface has no user creation route.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.NewValidationError("name is required", "name").ToGinResponse(c)
		return
	}

	user, err := h.manager.CreateUser(req.Name)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	if bus := events.GetGlobalEventBus(); bus != nil {
		bus.PublishAsync(events.Event{
			Type:    events.EventUserCreated,
			Source:  ModuleID,
			Title:   "User created",
			Message: user.Name,
			Data:    map[string]interface{}{"user_id": user.ID},
		})
	}

	c.JSON(http.StatusCreated, user)
}

// parseUserID reads the :user_id path parameter, answering 400 on garbage.
func parseUserID(c *gin.Context) (uint32, bool) {
	raw := c.Param("user_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		errors.NewValidationError("user id must be a positive integer", "user_id").ToGinResponse(c)
		return 0, false
	}
	return uint32(id), true
}

func formatID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}
