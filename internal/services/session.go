package services

import (
	"context"

	"route-planner/internal/platform/logger"
	"route-planner/internal/ports"
)

// SessionDeps are the collaborators a Session is built from.
type SessionDeps struct {
	Service  ports.RouteService
	Lookup   ports.AddressLookup
	Notifier ports.Notifier
	Clock    Clock
	Logger   *logger.Logger
}

// Session owns all client-side route state for one user: the route
// collection and selection, the mutation coordinator and the suggestion
// engine. It is created when a planner view opens and closed when it goes away.
type Session struct {
	Routes      *RouteCollection
	Coordinator *Coordinator
	Suggester   *Suggester
}

func NewSession(ctx context.Context, deps SessionDeps) *Session {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}

	routes := NewRouteCollection()
	coord := NewCoordinator(deps.Service, routes, notifier, log)
	sug := NewSuggester(ctx, deps.Lookup, coord, routes, notifier, deps.Clock, log)

	return &Session{
		Routes:      routes,
		Coordinator: coord,
		Suggester:   sug,
	}
}

// Load fetches the route list and selects routeID when given.
func (s *Session) Load(ctx context.Context, routeID string) error {
	if err := s.Coordinator.Refresh(ctx); err != nil {
		return err
	}
	if routeID != "" && !s.Routes.Select(routeID) {
		return ErrRouteNotFound.WithOp("load")
	}
	return nil
}

// Close tears down the suggestion engine. The session must not be used afterwards.
func (s *Session) Close() {
	s.Suggester.Close()
	s.Routes.Select("")
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, ports.Notification) {}
