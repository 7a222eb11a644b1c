package watchlistmodule

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/movielog/movielog/internal/database"
	"github.com/movielog/movielog/internal/types"
)

// stubEnrichment resolves titles from a fixed map; unknown titles are
// absent, and a non-nil err fails every lookup.
type stubEnrichment struct {
	movies map[string]*types.MovieInfo
	err    error
}

func (s *stubEnrichment) Lookup(ctx context.Context, title string) (*types.MovieInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.movies[title], nil
}

const testTemplates = `
{{define "user_movies.html"}}movies:{{len .movies}} {{.error}}{{end}}
{{define "add_movie.html"}}add:{{.user_id}} {{.error}}{{end}}
{{define "update_movie.html"}}update:{{.movie_id}} {{.error}}{{end}}
{{define "404.html"}}not found{{end}}
`

func setupPageRouter(t *testing.T, db *gorm.DB, enrichment *stubEnrichment) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(testTemplates)))

	handler := NewHandler(NewManager(db), enrichment)

	pages := r.Group("/users/:user_id")
	pages.GET("", handler.UserMoviesPage)
	pages.GET("/add_movie", handler.AddMoviePage)
	pages.POST("/add_movie", handler.AddMoviePage)
	pages.GET("/update_movie/:movie_id", handler.UpdateMoviePage)
	pages.POST("/update_movie/:movie_id", handler.UpdateMoviePage)
	pages.GET("/delete_movie/:movie_id", handler.DeleteMoviePage)

	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddMoviePageSuccess(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	enrichment := &stubEnrichment{movies: map[string]*types.MovieInfo{
		"Inception": {Title: "Inception", Director: ptr("Christopher Nolan"), Year: ptr(2010), Rating: ptr(8.8)},
	}}
	r := setupPageRouter(t, db, enrichment)

	path := fmt.Sprintf("/users/%d/add_movie", user.ID)
	w := postForm(r, path, url.Values{"name": {"Inception"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), w.Header().Get("Location"))

	var stored database.Movie
	require.NoError(t, db.First(&stored, "user_id = ?", user.ID).Error)
	assert.Equal(t, "Inception", stored.Title)
	require.NotNil(t, stored.Director)
	assert.Equal(t, "Christopher Nolan", *stored.Director)
}

func TestAddMoviePageUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	enrichment := &stubEnrichment{movies: map[string]*types.MovieInfo{
		"Inception": {Title: "Inception"},
	}}
	r := setupPageRouter(t, db, enrichment)

	w := postForm(r, "/users/12345/add_movie", url.Values{"name": {"Inception"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
	assert.Equal(t, int64(0), countMovies(t, db))
}

func TestAddMoviePageMovieNotFound(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	r := setupPageRouter(t, db, &stubEnrichment{})

	path := fmt.Sprintf("/users/%d/add_movie", user.ID)
	w := postForm(r, path, url.Values{"name": {"No Such Movie"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Movie not found on OMDB")
	assert.Equal(t, int64(0), countMovies(t, db))
}

func TestAddMoviePageLookupFailure(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	r := setupPageRouter(t, db, &stubEnrichment{err: fmt.Errorf("connection refused")})

	path := fmt.Sprintf("/users/%d/add_movie", user.ID)
	w := postForm(r, path, url.Values{"name": {"Inception"}})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Movie lookup failed")
	// Transport details never reach the page
	assert.NotContains(t, body, "connection refused")
	assert.Equal(t, int64(0), countMovies(t, db))
}

func TestAddMoviePageEmptyTitle(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	r := setupPageRouter(t, db, &stubEnrichment{})

	path := fmt.Sprintf("/users/%d/add_movie", user.ID)
	w := postForm(r, path, url.Values{"name": {"   "}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title is required")
}

func TestUpdateMoviePageMalformedYear(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	manager := NewManager(db)
	movie, err := manager.AddMovie(user.ID, "Inception", &types.MovieInfo{Title: "Inception", Year: ptr(2010)})
	require.NoError(t, err)

	r := setupPageRouter(t, db, &stubEnrichment{})
	path := fmt.Sprintf("/users/%d/update_movie/%s", user.ID, movie.ID)
	w := postForm(r, path, url.Values{
		"title": {"Inception"},
		"year":  {"twenty-ten"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Year must be a whole number")

	// The movie is untouched on validation failure
	var stored database.Movie
	require.NoError(t, db.First(&stored, "id = ?", movie.ID).Error)
	require.NotNil(t, stored.Year)
	assert.Equal(t, 2010, *stored.Year)
}

func TestUpdateMoviePageMalformedRating(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	manager := NewManager(db)
	movie, err := manager.AddMovie(user.ID, "Inception", &types.MovieInfo{Title: "Inception"})
	require.NoError(t, err)

	r := setupPageRouter(t, db, &stubEnrichment{})
	path := fmt.Sprintf("/users/%d/update_movie/%s", user.ID, movie.ID)
	w := postForm(r, path, url.Values{
		"title":  {"Inception"},
		"rating": {"great"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Rating must be a number")
}

func TestUpdateMoviePageEmptyFieldsClear(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	manager := NewManager(db)
	movie, err := manager.AddMovie(user.ID, "Inception", &types.MovieInfo{
		Title:    "Inception",
		Director: ptr("Christopher Nolan"),
		Year:     ptr(2010),
		Rating:   ptr(8.8),
	})
	require.NoError(t, err)

	r := setupPageRouter(t, db, &stubEnrichment{})
	path := fmt.Sprintf("/users/%d/update_movie/%s", user.ID, movie.ID)
	w := postForm(r, path, url.Values{
		"title":    {"Inception"},
		"director": {""},
		"year":     {""},
		"rating":   {""},
	})

	assert.Equal(t, http.StatusFound, w.Code)

	var stored database.Movie
	require.NoError(t, db.First(&stored, "id = ?", movie.ID).Error)
	assert.Nil(t, stored.Director)
	assert.Nil(t, stored.Year)
	assert.Nil(t, stored.Rating)
}

func TestUpdateMoviePageMissingMovie(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	r := setupPageRouter(t, db, &stubEnrichment{})

	path := fmt.Sprintf("/users/%d/update_movie/no-such-id", user.ID)
	w := postForm(r, path, url.Values{"title": {"Whatever"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMoviePageRedirects(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	manager := NewManager(db)
	movie, err := manager.AddMovie(user.ID, "Inception", &types.MovieInfo{Title: "Inception"})
	require.NoError(t, err)

	r := setupPageRouter(t, db, &stubEnrichment{})
	path := fmt.Sprintf("/users/%d/delete_movie/%s", user.ID, movie.ID)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), w.Header().Get("Location"))
	assert.Equal(t, int64(0), countMovies(t, db))

	// Deleting again still redirects
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestUserMoviesPageListsMovies(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "Alice")
	manager := NewManager(db)
	_, err := manager.AddMovie(user.ID, "Inception", &types.MovieInfo{Title: "Inception"})
	require.NoError(t, err)
	_, err = manager.AddMovie(user.ID, "Memento", &types.MovieInfo{Title: "Memento"})
	require.NoError(t, err)

	r := setupPageRouter(t, db, &stubEnrichment{})
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "movies:2")
}
