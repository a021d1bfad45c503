package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"route-planner/internal/domain"
	"route-planner/internal/platform/apperr"
)

const maxSuggestions = 5

// Gazetteer is a fixed list of known places used for geocoding and
// autocomplete when running without a real geocoding backend.
type Gazetteer struct {
	places []domain.Suggestion
}

func NewGazetteer(places []domain.Suggestion) *Gazetteer {
	return &Gazetteer{places: places}
}

// Places returns a copy of every known place.
func (g *Gazetteer) Places() []domain.Suggestion {
	return slices.Clone(g.places)
}

type PlaceSeed struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// LoadGazetteer reads places from a JSON file.
func LoadGazetteer(jsonPath string) (*Gazetteer, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load gazetteer: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load gazetteer: parse json: %w", err)
	}

	places := make([]domain.Suggestion, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("load gazetteer: item at index %d: name cannot be empty", i+1)
		}
		if item.Lat < -90 || item.Lat > 90 || item.Lon < -180 || item.Lon > 180 {
			return nil, fmt.Errorf("load gazetteer: item %q: coordinates out of range", name)
		}
		places = append(places, domain.Suggestion{
			Name:        name,
			Address:     strings.TrimSpace(item.Address),
			Coordinates: domain.Coordinates{Lat: item.Lat, Lon: item.Lon},
		})
	}

	return NewGazetteer(places), nil
}

// normalize collapses whitespace and lowercases for matching.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Geocode returns an exact name or address match, falling back to the first
// place containing the text.
func (g *Gazetteer) Geocode(ctx context.Context, text string) (domain.Suggestion, error) {
	q := normalize(text)
	if q == "" {
		return domain.Suggestion{}, apperr.Validation("address text is required").WithOp("geocode")
	}

	for _, p := range g.places {
		if normalize(p.Name) == q || normalize(p.Address) == q {
			return p, nil
		}
	}
	for _, p := range g.places {
		if matches(p, q) {
			return p, nil
		}
	}
	return domain.Suggestion{}, apperr.NotFound("address not found").WithOp("geocode")
}

// Autocomplete returns up to five places whose name or address contains the text.
func (g *Gazetteer) Autocomplete(ctx context.Context, text string) ([]domain.Suggestion, error) {
	q := normalize(text)
	out := make([]domain.Suggestion, 0, maxSuggestions)
	if q == "" {
		return out, nil
	}

	for _, p := range g.places {
		if matches(p, q) {
			out = append(out, p)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out, nil
}

func matches(p domain.Suggestion, q string) bool {
	return strings.Contains(normalize(p.Name), q) || strings.Contains(normalize(p.Address), q)
}
