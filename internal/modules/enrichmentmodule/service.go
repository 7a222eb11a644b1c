package enrichmentmodule

import (
	"context"

	"github.com/movielog/movielog/internal/events"
	"github.com/movielog/movielog/internal/services"
	"github.com/movielog/movielog/internal/types"
)

// enrichmentService wraps the OMDB client and reports lookup outcomes on
// the event bus.
type enrichmentService struct {
	client services.EnrichmentService
}

func newEnrichmentService(client services.EnrichmentService) services.EnrichmentService {
	return &enrichmentService{client: client}
}

func (s *enrichmentService) Lookup(ctx context.Context, title string) (*types.MovieInfo, error) {
	info, err := s.client.Lookup(ctx, title)
	if err != nil {
		return nil, err
	}

	if bus := events.GetGlobalEventBus(); bus != nil {
		eventType := events.EventMovieEnriched
		message := "metadata resolved"
		if info == nil {
			eventType = events.EventLookupMissed
			message = "title not found"
		}
		bus.PublishAsync(events.Event{
			Type:    eventType,
			Source:  ModuleID,
			Title:   title,
			Message: message,
		})
	}

	return info, err
}
