package services

import (
	"context"

	"github.com/movielog/movielog/internal/types"
)

// Standard service interface pattern for all modules
//
// Each module should define a clean interface following this pattern:
// - Clear, focused functionality
// - Context-aware operations
// - Proper error handling
// - No internal types exposed

// EnrichmentService defines the interface for metadata lookups against the
// external movie database.
type EnrichmentService interface {
	// Lookup fetches metadata for a movie title. A title the provider does
	// not know yields (nil, nil): absence is not an error. A non-nil error
	// means the provider could not be reached or answered garbage.
	Lookup(ctx context.Context, title string) (*types.MovieInfo, error)
}

// Service registry names
const (
	EnrichmentServiceName = "enrichment"
)
