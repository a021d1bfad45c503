package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ROUTE_SERVICE_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("AUTOCOMPLETE_RPS", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:8080", cfg.ServiceURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5.0, cfg.AutocompleteRPS)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ROUTE_SERVICE_URL", "https://routes.example.com/")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("AUTOCOMPLETE_RPS", "not-a-number")
	t.Setenv("SUGGESTION_CACHE_TTL", "1m")

	cfg := Load()

	assert.Equal(t, "https://routes.example.com", cfg.ServiceURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5.0, cfg.AutocompleteRPS)
	assert.Equal(t, time.Minute, cfg.SuggestionCacheTTL)
}
