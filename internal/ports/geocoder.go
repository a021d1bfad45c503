package ports

import (
	"context"

	"route-planner/internal/domain"
)

// Resolve free text to a single best match.
// Implementations return an apperr.KindNotFound error when nothing matches.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (domain.Suggestion, error)
}

// Return candidates for partial text; an empty list is not an error.
type Autocompleter interface {
	Autocomplete(ctx context.Context, text string) ([]domain.Suggestion, error)
}

// AddressLookup is both lookups, as served by the remote service.
type AddressLookup interface {
	Geocoder
	Autocompleter
}
