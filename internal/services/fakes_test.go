package services

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"route-planner/internal/adapters/memory"
	"route-planner/internal/adapters/notify"
	"route-planner/internal/domain"
	"route-planner/internal/ports"
)

// fakeService wraps the in-memory store with call counting, injected
// failures and response gates.
type fakeService struct {
	*memory.RouteStore

	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
	gates map[string]*gate
}

type gate struct {
	reached chan struct{}
	release chan struct{}
}

func newFakeService() *fakeService {
	return &fakeService{
		RouteStore: memory.NewRouteStore(),
		calls:      make(map[string]int),
		fail:       make(map[string]error),
		gates:      make(map[string]*gate),
	}
}

// failNext makes the next call to method return err without touching the store.
func (f *fakeService) failNext(method string, err error) {
	f.mu.Lock()
	f.fail[method] = err
	f.mu.Unlock()
}

// holdNext lets the next call to method reach the store, then blocks its
// response until release is called.
func (f *fakeService) holdNext(method string) (reached <-chan struct{}, release func()) {
	g := &gate{reached: make(chan struct{}), release: make(chan struct{})}
	f.mu.Lock()
	f.gates[method] = g
	f.mu.Unlock()
	return g.reached, func() { close(g.release) }
}

func (f *fakeService) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeService) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeService) before(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	if err, ok := f.fail[method]; ok {
		delete(f.fail, method)
		return err
	}
	return nil
}

func (f *fakeService) after(method string) {
	f.mu.Lock()
	g, ok := f.gates[method]
	delete(f.gates, method)
	f.mu.Unlock()
	if ok {
		close(g.reached)
		<-g.release
	}
}

func routeResult[T any](f *fakeService, method string, call func() (T, error)) (T, error) {
	var zero T
	if err := f.before(method); err != nil {
		return zero, err
	}
	out, err := call()
	f.after(method)
	return out, err
}

func (f *fakeService) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	return routeResult(f, "ListRoutes", func() ([]domain.Route, error) { return f.RouteStore.ListRoutes(ctx) })
}

func (f *fakeService) CreateRoute(ctx context.Context, nr domain.NewRoute) (*domain.Route, error) {
	return routeResult(f, "CreateRoute", func() (*domain.Route, error) { return f.RouteStore.CreateRoute(ctx, nr) })
}

func (f *fakeService) DeleteRoute(ctx context.Context, id string) error {
	_, err := routeResult(f, "DeleteRoute", func() (struct{}, error) { return struct{}{}, f.RouteStore.DeleteRoute(ctx, id) })
	return err
}

func (f *fakeService) UpdateRoute(ctx context.Context, id string, u domain.RouteUpdate) (*domain.Route, error) {
	return routeResult(f, "UpdateRoute", func() (*domain.Route, error) { return f.RouteStore.UpdateRoute(ctx, id, u) })
}

func (f *fakeService) AddWaypoint(ctx context.Context, id string, w domain.Waypoint) (*domain.Route, error) {
	return routeResult(f, "AddWaypoint", func() (*domain.Route, error) { return f.RouteStore.AddWaypoint(ctx, id, w) })
}

func (f *fakeService) RemoveWaypoint(ctx context.Context, id, wid string) (*domain.Route, error) {
	return routeResult(f, "RemoveWaypoint", func() (*domain.Route, error) { return f.RouteStore.RemoveWaypoint(ctx, id, wid) })
}

func (f *fakeService) PatchWaypoint(ctx context.Context, id, wid string, p domain.WaypointPatch) (*domain.Route, error) {
	return routeResult(f, "PatchWaypoint", func() (*domain.Route, error) { return f.RouteStore.PatchWaypoint(ctx, id, wid, p) })
}

func (f *fakeService) RecomputeRoute(ctx context.Context, id string) (*domain.Route, error) {
	return routeResult(f, "RecomputeRoute", func() (*domain.Route, error) { return f.RouteStore.RecomputeRoute(ctx, id) })
}

func (f *fakeService) OptimizeRoute(ctx context.Context, id string) (*domain.Route, error) {
	return routeResult(f, "OptimizeRoute", func() (*domain.Route, error) { return f.RouteStore.OptimizeRoute(ctx, id) })
}

func (f *fakeService) UndoLastAction(ctx context.Context, id string) (*domain.Route, error) {
	return routeResult(f, "UndoLastAction", func() (*domain.Route, error) { return f.RouteStore.UndoLastAction(ctx, id) })
}

var _ ports.RouteService = (*fakeService)(nil)

// manualClock fires timers only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs every due timer on the caller's goroutine.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// recordingLookup records autocomplete queries and can block them.
type recordingLookup struct {
	*memory.Gazetteer

	mu      sync.Mutex
	queries []string
	block   chan struct{}
	err     error
}

func (l *recordingLookup) Autocomplete(ctx context.Context, text string) ([]domain.Suggestion, error) {
	l.mu.Lock()
	l.queries = append(l.queries, text)
	block, err := l.block, l.err
	l.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return l.Gazetteer.Autocomplete(ctx, text)
}

func (l *recordingLookup) Queries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.queries)
}

var testPlaces = []domain.Suggestion{
	{Name: "Cafe de Jaren", Address: "Nieuwe Doelenstraat 20", Coordinates: domain.Coordinates{Lat: 52.3677, Lon: 4.8960}},
	{Name: "Cafe Luxembourg", Address: "Spuistraat 24", Coordinates: domain.Coordinates{Lat: 52.3730, Lon: 4.8906}},
	{Name: "Cafe Americain", Address: "Leidsekade 97", Coordinates: domain.Coordinates{Lat: 52.3641, Lon: 4.8826}},
	{Name: "Rijksmuseum", Address: "Museumstraat 1", Coordinates: domain.Coordinates{Lat: 52.3600, Lon: 4.8852}},
}

type harness struct {
	svc     *fakeService
	lookup  *recordingLookup
	clock   *manualClock
	notes   *notify.Recorder
	session *Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		svc:    newFakeService(),
		lookup: &recordingLookup{Gazetteer: memory.NewGazetteer(testPlaces)},
		clock:  &manualClock{},
		notes:  notify.NewRecorder(nil),
	}
	h.session = NewSession(context.Background(), SessionDeps{
		Service:  h.svc,
		Lookup:   h.lookup,
		Notifier: h.notes,
		Clock:    h.clock,
	})
	t.Cleanup(h.session.Close)
	return h
}

// routeWith creates and selects a route holding the named waypoints, in order.
func (h *harness) routeWith(t *testing.T, names ...string) domain.Route {
	t.Helper()
	ctx := context.Background()

	r, err := h.session.Coordinator.CreateRoute(ctx, "Tour A", domain.ProfileDriving)
	require.NoError(t, err)

	for i, name := range names {
		w := domain.NewWaypoint(name, name+" street", domain.Coordinates{Lat: 52 + float64(i)/100, Lon: 4.9})
		w.ID = name
		r, err = h.session.Coordinator.AddWaypoint(ctx, w)
		require.NoError(t, err)
	}
	h.notes.Reset()
	return *r
}

func waypointIDs(r domain.Route) []string {
	out := make([]string, 0, len(r.Waypoints))
	for _, w := range r.Waypoints {
		out = append(out, w.ID)
	}
	return out
}
