package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"route-planner/internal/domain"
	"route-planner/internal/platform/apperr"
	"route-planner/internal/platform/logger"
	"route-planner/internal/platform/obs"
	"route-planner/internal/ports"
)

const (
	MinQueryLength = 3
	DebounceDelay  = 300 * time.Millisecond
)

// AddressTarget decides what a committed suggestion becomes.
type AddressTarget string

const (
	TargetWaypoint AddressTarget = "waypoint"
	TargetStart    AddressTarget = "start"
	TargetEnd      AddressTarget = "end"
)

func (t AddressTarget) Valid() bool {
	return t == TargetWaypoint || t == TargetStart || t == TargetEnd
}

type Key int

const (
	KeyDown Key = iota
	KeyUp
	KeyEnter
	KeyEscape
)

// Suggester turns typed address text into a candidate list. Lookups are
// debounced: each keystroke cancels the pending lookup and schedules a new
// one DebounceDelay later, and text shorter than MinQueryLength clears the
// list without calling the service.
type Suggester struct {
	lookup   ports.AddressLookup
	coord    *Coordinator
	routes   *RouteCollection
	notifier ports.Notifier
	clock    Clock
	log      *logger.Logger

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	text        string
	suggestions []domain.Suggestion
	highlighted int
	open        bool
	target      AddressTarget
	timer       Timer
	inflight    context.CancelFunc
	// gen increases on every text change; a lookup only lands if gen still matches.
	gen         uint64
	closed      bool
	changed     chan struct{}
}

func NewSuggester(
	ctx context.Context,
	lookup ports.AddressLookup,
	coord *Coordinator,
	routes *RouteCollection,
	notifier ports.Notifier,
	clock Clock,
	log *logger.Logger,
) *Suggester {
	if clock == nil {
		clock = SystemClock
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Suggester{
		lookup:      lookup,
		coord:       coord,
		routes:      routes,
		notifier:    notifier,
		clock:       clock,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
		highlighted: -1,
		target:      TargetWaypoint,
		changed:     make(chan struct{}),
	}
}

// SetTarget selects whether commits set the start, the end, or add a waypoint.
func (s *Suggester) SetTarget(t AddressTarget) bool {
	if !t.Valid() {
		return false
	}
	s.mu.Lock()
	s.target = t
	s.mu.Unlock()
	return true
}

func (s *Suggester) Target() AddressTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// SetText records a keystroke.
func (s *Suggester) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.text = text
	s.supersedeLocked()

	query := strings.TrimSpace(text)
	if utf8.RuneCountInString(query) < MinQueryLength {
		s.suggestions = nil
		s.open = false
		s.highlighted = -1
		return
	}

	gen := s.gen
	s.timer = s.clock.AfterFunc(DebounceDelay, func() { s.runLookup(gen, query) })
}

func (s *Suggester) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Suggester) Suggestions() []domain.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Suggestion, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Highlighted returns the highlighted index, -1 for none.
func (s *Suggester) Highlighted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlighted
}

// Changed returns a channel that is closed the next time a lookup lands,
// successfully or not.
func (s *Suggester) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

func (s *Suggester) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// HandleKey applies keyboard navigation. prevented reports whether the key
// was absorbed by the suggestion panel.
func (s *Suggester) HandleKey(ctx context.Context, k Key) (prevented bool, err error) {
	if k == KeyEnter {
		return s.enter(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch k {
	case KeyDown:
		if !s.open || len(s.suggestions) == 0 {
			return false, nil
		}
		if s.highlighted < len(s.suggestions)-1 {
			s.highlighted++
		}
		return true, nil

	case KeyUp:
		if !s.open || len(s.suggestions) == 0 {
			return false, nil
		}
		if s.highlighted > -1 {
			s.highlighted--
		}
		return true, nil

	case KeyEscape:
		wasOpen := s.open
		s.closePanelLocked()
		return wasOpen, nil
	}
	return false, nil
}

// enter commits the highlighted suggestion. With the panel open and nothing
// highlighted the key is swallowed; with the panel closed the raw text is
// geocoded and committed.
func (s *Suggester) enter(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.open && s.highlighted >= 0 && s.highlighted < len(s.suggestions) {
		sug := s.suggestions[s.highlighted]
		s.mu.Unlock()
		return true, s.commit(ctx, sug)
	}
	if s.open {
		s.mu.Unlock()
		return true, nil
	}
	text := s.text
	s.mu.Unlock()

	return true, s.geocodeAndCommit(ctx, text)
}

// Select commits the suggestion at index, as a click on it would.
func (s *Suggester) Select(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.suggestions) {
		s.mu.Unlock()
		return apperr.Validation("no suggestion at that position")
	}
	sug := s.suggestions[index]
	s.mu.Unlock()

	return s.commit(ctx, sug)
}

// ClickOutside closes the panel and keeps the typed text.
func (s *Suggester) ClickOutside() {
	s.mu.Lock()
	s.closePanelLocked()
	s.mu.Unlock()
}

// Close stops the pending lookup and cancels any lookup in flight.
func (s *Suggester) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.supersedeLocked()
	s.cancel()
	s.suggestions = nil
	s.open = false
	s.highlighted = -1
}

func (s *Suggester) runLookup(gen uint64, query string) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel
	s.mu.Unlock()
	defer cancel()

	results, err := s.lookup.Autocomplete(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		obs.SuggestionLookupsTotal.WithLabelValues("superseded").Inc()
		return
	}
	s.inflight = nil
	defer s.broadcastLocked()

	if err != nil {
		obs.SuggestionLookupsTotal.WithLabelValues("error").Inc()
		s.log.Warn("autocomplete failed", slog.String("query", query), slog.String("error", err.Error()))
		s.notifier.Notify(s.ctx, ports.Notification{
			Kind:    ports.NotifyFailure,
			Op:      "autocomplete",
			Message: "address suggestions unavailable",
		})
		return
	}

	s.suggestions = results
	s.highlighted = -1
	s.open = len(results) > 0
	if !s.open {
		obs.SuggestionLookupsTotal.WithLabelValues("empty").Inc()
		s.notifier.Notify(s.ctx, ports.Notification{
			Kind:    ports.NotifyNotFound,
			Op:      "autocomplete",
			RouteID: s.routes.SelectedID(),
			Message: "address not found",
		})
		return
	}
	obs.SuggestionLookupsTotal.WithLabelValues("ok").Inc()
}

// geocodeAndCommit resolves raw text to a single match and commits it.
func (s *Suggester) geocodeAndCommit(ctx context.Context, text string) error {
	const op = "geocode"

	text = strings.TrimSpace(text)
	if text == "" {
		return s.coord.reject(ctx, op, s.routes.SelectedID(), ErrEmptyAddress)
	}
	if s.routes.SelectedID() == "" {
		return s.coord.reject(ctx, op, "", ErrNoRouteSelected)
	}

	match, err := s.lookup.Geocode(ctx, text)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			s.notifier.Notify(ctx, ports.Notification{
				Kind:    ports.NotifyNotFound,
				Op:      op,
				RouteID: s.routes.SelectedID(),
				Message: "address not found",
			})
			return err
		}
		return s.coord.fail(ctx, op, s.routes.SelectedID(), err)
	}

	return s.commit(ctx, match)
}

// commit turns a suggestion into a stop or a new waypoint, depending on the
// current target, and hands it to the coordinator.
func (s *Suggester) commit(ctx context.Context, sug domain.Suggestion) error {
	s.mu.Lock()
	s.supersedeLocked()
	s.closePanelLocked()
	target := s.target
	s.mu.Unlock()

	var err error
	switch target {
	case TargetStart:
		_, err = s.coord.SetStart(ctx, sug.Stop())
	case TargetEnd:
		_, err = s.coord.SetEnd(ctx, sug.Stop())
	default:
		_, err = s.coord.AddWaypoint(ctx, sug.Waypoint())
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.text = ""
	s.suggestions = nil
	s.mu.Unlock()
	return nil
}

// supersedeLocked invalidates the pending and in-flight lookups.
func (s *Suggester) supersedeLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}
}

func (s *Suggester) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Suggester) closePanelLocked() {
	s.open = false
	s.highlighted = -1
}
