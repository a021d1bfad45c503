package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-planner/internal/adapters/memory"
	"route-planner/internal/api"
	"route-planner/internal/domain"
	"route-planner/internal/platform/apperr"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	gaz := memory.NewGazetteer([]domain.Suggestion{
		{Name: "Cafe de Jaren", Address: "Nieuwe Doelenstraat 20", Coordinates: domain.Coordinates{Lat: 52.3677, Lon: 4.8960}},
		{Name: "Cafe Luxembourg", Address: "Spuistraat 24", Coordinates: domain.Coordinates{Lat: 52.3730, Lon: 4.8906}},
	})
	srv := httptest.NewServer(api.NewRouter(memory.NewRouteStore(), gaz, nil))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "test-key", WithRetry(3, time.Millisecond))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient("  ", "")
	require.Error(t, err)
}

func TestRouteLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	created, err := c.CreateRoute(ctx, domain.NewRoute{
		Name:      "Tour A",
		Start:     domain.Stop{Name: "Start", Coordinates: domain.PlaceholderCoordinates},
		End:       domain.Stop{Name: "End", Coordinates: domain.PlaceholderCoordinates},
		Waypoints: []domain.Waypoint{},
		Profile:   domain.ProfileDriving,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Tour A", created.Name)

	cafe, err := c.Geocode(ctx, "cafe de jaren")
	require.NoError(t, err)

	w := domain.NewWaypoint(cafe.Name, cafe.Address, cafe.Coordinates)
	r, err := c.AddWaypoint(ctx, created.ID, w)
	require.NoError(t, err)
	require.Len(t, r.Waypoints, 1)
	assert.Equal(t, w.ID, r.Waypoints[0].ID)
	assert.Equal(t, domain.StatusPending, r.Waypoints[0].Status)

	done := domain.StatusCompleted
	r, err = c.PatchWaypoint(ctx, created.ID, w.ID, domain.WaypointPatch{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, r.Waypoints[0].Status)

	r, err = c.UndoLastAction(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, r.Waypoints[0].Status)

	_, err = c.UndoLastAction(ctx, created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "got %v", err)

	_, err = c.OptimizeRoute(ctx, created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)

	r, err = c.RecomputeRoute(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, r.DistanceMeters)
	assert.NotEmpty(t, r.Geometry)

	walking := domain.ProfileWalking
	r, err = c.UpdateRoute(ctx, created.ID, domain.RouteUpdate{Profile: &walking})
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileWalking, r.Profile)

	r, err = c.RemoveWaypoint(ctx, created.ID, w.ID)
	require.NoError(t, err)
	assert.Empty(t, r.Waypoints)

	routes, err := c.ListRoutes(ctx)
	require.NoError(t, err)
	assert.Len(t, routes, 1)

	require.NoError(t, c.DeleteRoute(ctx, created.ID))
	err = c.DeleteRoute(ctx, created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}

func TestLookups(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	found, err := c.Autocomplete(ctx, "cafe")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = c.Autocomplete(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = c.Geocode(ctx, "nowhere at all")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", WithRetry(4, time.Millisecond))
	require.NoError(t, err)

	routes, err := c.ListRoutes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, routes)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetStopsRetryingOnPermanentFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"address not found"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", WithRetry(4, time.Millisecond))
	require.NoError(t, err)

	_, err = c.Geocode(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), "address not found")
}

func TestGetGivesUpAfterLastAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", WithRetry(3, time.Millisecond))
	require.NoError(t, err)

	_, err = c.ListRoutes(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, apperr.IsKind(err, apperr.KindRemote))
}

func TestMutationsAreSentOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"maintenance"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", WithRetry(4, time.Millisecond))
	require.NoError(t, err)

	_, err = c.RecomputeRoute(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, apperr.IsKind(err, apperr.KindRemote))
	assert.Contains(t, err.Error(), "maintenance")
}

func TestMalformedResponseIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"r1","profile":"flying","waypoints":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.RecomputeRoute(context.Background(), "r1")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindRemote), "got %v", err)
}

func TestUnreachableServiceIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, "", WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	_, err = c.ListRoutes(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnavailable), "got %v", err)
}

func TestAPIKeyHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"suggestions":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "secret", WithLookupRate(100))
	require.NoError(t, err)

	_, err = c.Autocomplete(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}
