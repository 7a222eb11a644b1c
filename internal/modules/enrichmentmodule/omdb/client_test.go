package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielog/movielog/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.OMDBConfig{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		RequestTimeout: 2 * time.Second,
		UserAgent:      "movielog-test",
	}
	return NewClient(cfg, hclog.NewNullLogger())
}

func TestLookupSuccess(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"apikey": r.URL.Query().Get("apikey"),
			"t":      r.URL.Query().Get("t"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Title": "Inception",
			"Year": "2010",
			"Director": "Christopher Nolan",
			"imdbRating": "8.8",
			"Response": "True"
		}`))
	})

	info, err := client.Lookup(context.Background(), "Inception")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "test-key", gotQuery["apikey"])
	assert.Equal(t, "Inception", gotQuery["t"])

	assert.Equal(t, "Inception", info.Title)
	require.NotNil(t, info.Director)
	assert.Equal(t, "Christopher Nolan", *info.Director)
	require.NotNil(t, info.Year)
	assert.Equal(t, 2010, *info.Year)
	require.NotNil(t, info.Rating)
	assert.InDelta(t, 8.8, *info.Rating, 0.001)
}

func TestLookupMovieNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	})

	info, err := client.Lookup(context.Background(), "No Such Movie")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestLookupNon200IsAbsent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	info, err := client.Lookup(context.Background(), "Inception")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestLookupMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	info, err := client.Lookup(context.Background(), "Inception")
	assert.Error(t, err)
	assert.Nil(t, info)
}

func TestLookupMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Title": "Obscure Film",
			"Year": "N/A",
			"Director": "N/A",
			"imdbRating": "N/A",
			"Response": "True"
		}`))
	})

	info, err := client.Lookup(context.Background(), "Obscure Film")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Nil(t, info.Director)
	assert.Nil(t, info.Year)
	assert.Nil(t, info.Rating)
}

func TestLookupYearRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Title": "Some Series",
			"Year": "2010-2015",
			"Director": "N/A",
			"imdbRating": "7.1",
			"Response": "True"
		}`))
	})

	info, err := client.Lookup(context.Background(), "Some Series")
	require.NoError(t, err)
	require.NotNil(t, info)
	require.NotNil(t, info.Year)
	assert.Equal(t, 2010, *info.Year)
}

func TestLookupRespectsContextCancel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	info, err := client.Lookup(ctx, "Inception")
	assert.Error(t, err)
	assert.Nil(t, info)
}

func TestParseYear(t *testing.T) {
	assert.Nil(t, parseYear(""))
	assert.Nil(t, parseYear("N/A"))
	assert.Nil(t, parseYear("soon"))

	year := parseYear("1994")
	require.NotNil(t, year)
	assert.Equal(t, 1994, *year)
}

func TestParseRating(t *testing.T) {
	assert.Nil(t, parseRating("N/A"))
	assert.Nil(t, parseRating(""))
	assert.Nil(t, parseRating("excellent"))

	rating := parseRating("9.3")
	require.NotNil(t, rating)
	assert.InDelta(t, 9.3, *rating, 0.001)
}
