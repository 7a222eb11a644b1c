package watchlistmodule

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/movielog/movielog/internal/errors"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/types"
)

type addMovieRequest struct {
	Title string `json:"title" binding:"required"`
}

type updateMovieRequest struct {
	Title    string   `json:"title" binding:"required"`
	Director *string  `json:"director"`
	Year     *int     `json:"year"`
	Rating   *float64 `json:"rating"`
}

// ListMovies handles GET /api/users/:user_id/movies
func (h *Handler) ListMovies(c *gin.Context) {
	userID, err := apiUserID(c)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	exists, err := h.manager.UserExists(userID)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	if !exists {
		errors.Respond(c, errors.NewNotFoundError("User", c.Param("user_id")))
		return
	}

	movies, err := h.manager.GetUserMovies(userID)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"movies": movies, "count": len(movies)})
}

// AddMovie handles POST /api/users/:user_id/movies. The title is looked up
// against the enrichment service and the movie is stored with whatever
// details the lookup produced.
func (h *Handler) AddMovie(c *gin.Context) {
	userID, err := apiUserID(c)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	var req addMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.Respond(c, errors.NewValidationError("Title is required", "title"))
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		errors.Respond(c, errors.NewValidationError("Title is required", "title"))
		return
	}

	info, err := h.enrichment.Lookup(c.Request.Context(), title)
	if err != nil {
		logger.Error("movie lookup failed", "title", title, "error", err)
		errors.Respond(c, errors.NewExternalAPIError("omdb", err))
		return
	}
	if info == nil {
		errors.Respond(c, errors.NewNotFoundError("Movie", title))
		return
	}

	movie, err := h.manager.AddMovie(userID, title, info)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, movie)
}

// GetMovie handles GET /api/users/:user_id/movies/:movie_id
func (h *Handler) GetMovie(c *gin.Context) {
	userID, err := apiUserID(c)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	movie, err := h.manager.GetMovie(userID, c.Param("movie_id"))
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, movie)
}

// UpdateMovie handles PUT /api/users/:user_id/movies/:movie_id. All four
// fields are written on every update; omitted optional fields are cleared.
func (h *Handler) UpdateMovie(c *gin.Context) {
	userID, err := apiUserID(c)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	var req updateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.Respond(c, errors.NewValidationError("Title is required", "title"))
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		errors.Respond(c, errors.NewValidationError("Title is required", "title"))
		return
	}

	fields := types.MovieFields{
		Title:    title,
		Director: req.Director,
		Year:     req.Year,
		Rating:   req.Rating,
	}

	movie, err := h.manager.UpdateMovie(userID, c.Param("movie_id"), fields)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, movie)
}

// DeleteMovie handles DELETE /api/users/:user_id/movies/:movie_id. Deleting
// a movie that is already gone succeeds.
func (h *Handler) DeleteMovie(c *gin.Context) {
	userID, err := apiUserID(c)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	if err := h.manager.DeleteMovie(userID, c.Param("movie_id")); err != nil {
		errors.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func apiUserID(c *gin.Context) (uint32, error) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("Invalid user id", "user_id")
	}
	return uint32(id), nil
}
