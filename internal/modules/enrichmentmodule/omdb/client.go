// Package omdb implements the OMDB API client used to enrich new movie
// entries with director, year, and rating metadata.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/movielog/movielog/internal/config"
	"github.com/movielog/movielog/internal/types"
)

// lookupResponse mirrors the OMDB wire format. OMDB reports lookup failure
// inside a 200 body via Response="False", so status alone is not enough.
type lookupResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Director   string `json:"Director"`
	IMDBRating string `json:"imdbRating"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Client handles all OMDB API interactions
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	logger     hclog.Logger
	httpClient *http.Client
}

// NewClient creates a new OMDB API client
func NewClient(cfg *config.OMDBConfig, logger hclog.Logger) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Lookup fetches metadata for a movie title. It returns (nil, nil) when the
// title cannot be resolved, whether OMDB answered with a non-success status
// or with a success body carrying its not-found signal. An error is returned
// only when OMDB could not be reached or sent an undecodable body.
func (c *Client) Lookup(ctx context.Context, title string) (*types.MovieInfo, error) {
	reqURL, err := c.buildURL(title)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("omdb returned non-success status", "status", resp.StatusCode, "title", title)
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var decoded lookupResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON response: %w", err)
	}

	if !strings.EqualFold(decoded.Response, "True") {
		c.logger.Debug("omdb could not resolve title", "title", title, "omdb_error", decoded.Error)
		return nil, nil
	}

	return &types.MovieInfo{
		Title:    decoded.Title,
		Director: normalizeString(decoded.Director),
		Year:     parseYear(decoded.Year),
		Rating:   parseRating(decoded.IMDBRating),
	}, nil
}

func (c *Client) buildURL(title string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("t", title)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// normalizeString maps OMDB's "N/A" placeholder and empty strings to nil.
func normalizeString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return nil
	}
	return &s
}

// parseYear extracts the leading year from OMDB's Year field, which may be a
// plain year or a range like "2010-2015" for series.
func parseYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return nil
	}
	if idx := strings.IndexAny(s, "-–"); idx > 0 {
		s = s[:idx]
	}
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &year
}

// parseRating parses the imdbRating field; missing or malformed ratings map
// to nil instead of failing the whole lookup.
func parseRating(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return nil
	}
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &rating
}
