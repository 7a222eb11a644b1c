// Package types holds shared types passed across module boundaries.
package types

// MovieInfo is the normalized result of a metadata lookup. Fields the
// provider did not know are nil rather than zero values, so callers can
// distinguish "unrated" from "rated 0".
type MovieInfo struct {
	Title    string   `json:"title"`
	Director *string  `json:"director"`
	Year     *int     `json:"year"`
	Rating   *float64 `json:"rating"` // 0-10 scale
}

// MovieFields carries the writable fields of a movie for update operations.
type MovieFields struct {
	Title    string   `json:"title"`
	Director *string  `json:"director"`
	Year     *int     `json:"year"`
	Rating   *float64 `json:"rating"`
}
