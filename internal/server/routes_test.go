package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/movielog/movielog/internal/database"
)

// setupTestServer boots the full router against an in-memory database. The
// module registry is process-global, so the router is built once and shared.
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	database.SetDB(db)

	r, err := SetupRouter(Options{TemplateGlob: "../../web/templates/*.html"})
	require.NoError(t, err)
	return r
}

func TestServerEndToEnd(t *testing.T) {
	r := setupTestServer(t)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	t.Run("home page renders", func(t *testing.T) {
		w := get("/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "MovieLog")
	})

	t.Run("unknown route renders 404 page", func(t *testing.T) {
		w := get("/no/such/page")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Page not found")
	})

	t.Run("health endpoint reports ok", func(t *testing.T) {
		w := get("/api/health")
		require.Equal(t, http.StatusOK, w.Code)

		var health map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
		assert.Equal(t, "ok", health["status"])
		assert.Equal(t, "ok", health["database"])
	})

	t.Run("user and movie flow across modules", func(t *testing.T) {
		// Create a user through the API
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name": "Alice"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var user database.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))

		// The users page lists them
		w = get("/users")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Alice")

		// Their movie list starts empty
		w = get(fmt.Sprintf("/api/users/%d/movies", user.ID))
		require.Equal(t, http.StatusOK, w.Code)

		var list struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Equal(t, 0, list.Count)
	})

	t.Run("events api responds", func(t *testing.T) {
		w := get("/api/events")
		assert.Equal(t, http.StatusOK, w.Code)

		w = get("/api/events/stats")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
