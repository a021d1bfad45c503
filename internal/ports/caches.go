package ports

import (
	"context"

	"route-planner/internal/domain"
)

// Persistent cache of geocode results keyed by normalized address text.
type GeocodeCache interface {
	Get(ctx context.Context, key string) (domain.Suggestion, bool, error)
	Put(ctx context.Context, key string, s domain.Suggestion) error
}

// Short-lived cache of autocomplete results keyed by normalized partial text.
type SuggestionCache interface {
	Get(ctx context.Context, key string) ([]domain.Suggestion, bool, error)
	Put(ctx context.Context, key string, s []domain.Suggestion) error
}
