package watchlistmodule

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/movielog/movielog/internal/errors"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/services"
	"github.com/movielog/movielog/internal/types"
)

// Handler serves the movie list pages and forms
type Handler struct {
	manager    *Manager
	enrichment services.EnrichmentService
}

// NewHandler creates a new watchlist handler
func NewHandler(manager *Manager, enrichment services.EnrichmentService) *Handler {
	return &Handler{manager: manager, enrichment: enrichment}
}

// UserMoviesPage handles GET /users/:user_id and renders the user's movie
// list. An unknown user renders an empty list; the page surface gives no
// distinct not-found signal here.
func (h *Handler) UserMoviesPage(c *gin.Context) {
	userID, _ := pathUserID(c)

	movies, err := h.manager.GetUserMovies(userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "user_movies.html", gin.H{
			"user_id": userID,
			"error":   "Could not load movies",
		})
		return
	}

	c.HTML(http.StatusOK, "user_movies.html", gin.H{
		"user_id": userID,
		"movies":  movies,
	})
}

// AddMoviePage handles GET and POST /users/:user_id/add_movie.
func (h *Handler) AddMoviePage(c *gin.Context) {
	userID, userIDValid := pathUserID(c)

	if c.Request.Method == http.MethodGet {
		c.HTML(http.StatusOK, "add_movie.html", gin.H{"user_id": c.Param("user_id")})
		return
	}

	renderError := func(status int, message string) {
		c.HTML(status, "add_movie.html", gin.H{
			"user_id": c.Param("user_id"),
			"error":   message,
		})
	}

	title := strings.TrimSpace(c.PostForm("name"))
	if title == "" {
		renderError(http.StatusBadRequest, "Title is required")
		return
	}

	// A user id that does not parse cannot match any user
	exists := false
	if userIDValid {
		var err error
		exists, err = h.manager.UserExists(userID)
		if err != nil {
			renderError(http.StatusInternalServerError, "Could not save movie")
			return
		}
	}
	if !exists {
		renderError(http.StatusOK, "User not found")
		return
	}

	info, err := h.enrichment.Lookup(c.Request.Context(), title)
	if err != nil {
		logger.Error("movie lookup failed", "title", title, "error", err)
		renderError(http.StatusOK, "Movie lookup failed, try again later")
		return
	}
	if info == nil {
		renderError(http.StatusOK, "Movie not found on OMDB")
		return
	}

	if _, err := h.manager.AddMovie(userID, title, info); err != nil {
		logger.Error("failed to save movie", "title", title, "user_id", userID, "error", err)
		renderError(http.StatusInternalServerError, "Could not save movie")
		return
	}

	c.Redirect(http.StatusFound, "/users/"+c.Param("user_id"))
}

// UpdateMoviePage handles GET and POST /users/:user_id/update_movie/:movie_id.
func (h *Handler) UpdateMoviePage(c *gin.Context) {
	userID, userIDValid := pathUserID(c)
	movieID := c.Param("movie_id")

	if c.Request.Method == http.MethodGet {
		if !userIDValid {
			c.HTML(http.StatusNotFound, "404.html", nil)
			return
		}
		movie, err := h.manager.GetMovie(userID, movieID)
		if err != nil {
			if errors.IsNotFound(err) {
				c.HTML(http.StatusNotFound, "404.html", nil)
				return
			}
			c.HTML(http.StatusInternalServerError, "update_movie.html", gin.H{
				"user_id":  c.Param("user_id"),
				"movie_id": movieID,
				"error":    "Could not load movie",
			})
			return
		}
		c.HTML(http.StatusOK, "update_movie.html", gin.H{
			"user_id":  c.Param("user_id"),
			"movie_id": movieID,
			"movie":    movie,
		})
		return
	}

	renderError := func(status int, message string) {
		c.HTML(status, "update_movie.html", gin.H{
			"user_id":  c.Param("user_id"),
			"movie_id": movieID,
			"error":    message,
		})
	}

	fields, verr := movieFieldsFromForm(c)
	if verr != nil {
		renderError(http.StatusBadRequest, verr.Message)
		return
	}

	if !userIDValid {
		c.HTML(http.StatusNotFound, "404.html", nil)
		return
	}

	if _, err := h.manager.UpdateMovie(userID, movieID, fields); err != nil {
		if errors.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "404.html", nil)
			return
		}
		logger.Error("failed to update movie", "movie_id", movieID, "error", err)
		renderError(http.StatusInternalServerError, "Could not update movie")
		return
	}

	c.Redirect(http.StatusFound, "/users/"+c.Param("user_id"))
}

// DeleteMoviePage handles GET /users/:user_id/delete_movie/:movie_id. The
// delete is idempotent and always redirects back to the list; there is no
// confirmation step.
func (h *Handler) DeleteMoviePage(c *gin.Context) {
	userID, userIDValid := pathUserID(c)
	movieID := c.Param("movie_id")

	if userIDValid {
		if err := h.manager.DeleteMovie(userID, movieID); err != nil {
			logger.Error("failed to delete movie", "movie_id", movieID, "error", err)
		}
	}

	c.Redirect(http.StatusFound, "/users/"+c.Param("user_id"))
}

// movieFieldsFromForm parses the update form. Empty year/rating clear the
// fields; malformed values are validation errors, not silent failures.
func movieFieldsFromForm(c *gin.Context) (types.MovieFields, *errors.AppError) {
	var fields types.MovieFields

	fields.Title = strings.TrimSpace(c.PostForm("title"))
	if fields.Title == "" {
		return fields, errors.NewValidationError("Title is required", "title")
	}

	if director := strings.TrimSpace(c.PostForm("director")); director != "" {
		fields.Director = &director
	}

	if raw := strings.TrimSpace(c.PostForm("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return fields, errors.NewValidationError("Year must be a whole number", "year")
		}
		fields.Year = &year
	}

	if raw := strings.TrimSpace(c.PostForm("rating")); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fields, errors.NewValidationError("Rating must be a number", "rating")
		}
		fields.Rating = &rating
	}

	return fields, nil
}

// pathUserID parses :user_id; the page routes treat unparseable ids as
// nonexistent users rather than failing the request outright.
func pathUserID(c *gin.Context) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}
