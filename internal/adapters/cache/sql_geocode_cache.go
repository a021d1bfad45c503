package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"route-planner/internal/domain"
)

// SQLGeocodeCache is a Postgres-backed cache mapping normalized address text
// to its resolved place.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Get returns the cached place for key. A miss is (zero, false, nil).
func (s *SQLGeocodeCache) Get(ctx context.Context, key string) (domain.Suggestion, bool, error) {
	if s.DB == nil {
		return domain.Suggestion{}, false, errors.New("geocode cache: db is nil")
	}

	key = Key(key)
	if key == "" {
		return domain.Suggestion{}, false, nil
	}

	q := `
	SELECT name, display_address, lon, lat
	FROM geocode_cache
	WHERE address = $1;
	`

	var out domain.Suggestion
	err := s.DB.QueryRowContext(ctx, q, key).Scan(
		&out.Name, &out.Address, &out.Coordinates.Lon, &out.Coordinates.Lat,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Suggestion{}, false, nil
	}
	if err != nil {
		return domain.Suggestion{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	return out, true, nil
}

// Put stores or refreshes the place for key.
func (s *SQLGeocodeCache) Put(ctx context.Context, key string, place domain.Suggestion) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	key = Key(key)
	if key == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (address, name, display_address, lon, lat, updated_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (address) DO UPDATE
	SET name = EXCLUDED.name,
		display_address = EXCLUDED.display_address,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		updated_at = EXCLUDED.updated_at;
	`, key, place.Name, place.Address, place.Coordinates.Lon, place.Coordinates.Lat)
	if err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", key, err)
	}

	return nil
}
