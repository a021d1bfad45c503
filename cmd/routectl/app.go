package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"route-planner/internal/adapters/cache"
	"route-planner/internal/adapters/notify"
	"route-planner/internal/adapters/remote"
	"route-planner/internal/config"
	"route-planner/internal/platform/db"
	"route-planner/internal/platform/logger"
	"route-planner/internal/ports"
	"route-planner/internal/services"
)

// app carries what every command needs: config, the session it opens and the
// notifications collected while it ran.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	out     io.Writer
	notes   *notify.Recorder
	session *services.Session

	serviceURL string
	routeID    string
	noCache    bool

	closers []func()
}

func newApp(out, logOut io.Writer) *app {
	cfg := config.Load()
	log := logger.NewWithWriter(cfg.Env, logOut)
	return &app{
		cfg:        cfg,
		log:        log,
		out:        out,
		notes:      notify.NewRecorder(notify.NewLogNotifier(log)),
		serviceURL: cfg.ServiceURL,
	}
}

// open builds a session against the remote service and loads the route list.
// When routeID is set it becomes the selected route.
func (a *app) open(ctx context.Context, routeID string) (*services.Session, error) {
	client, err := remote.NewClient(a.serviceURL, a.cfg.ServiceAPIKey,
		remote.WithTimeout(a.cfg.HTTPTimeout),
		remote.WithLookupRate(a.cfg.AutocompleteRPS),
		remote.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}

	a.session = services.NewSession(ctx, services.SessionDeps{
		Service:  client,
		Lookup:   a.lookup(ctx, client),
		Notifier: a.notes,
		Logger:   a.log,
	})
	a.closers = append(a.closers, a.session.Close)

	if err := a.session.Load(ctx, routeID); err != nil {
		return nil, err
	}
	return a.session, nil
}

// lookup wraps the remote lookups with whichever caches are configured.
// A cache that cannot be reached is skipped.
func (a *app) lookup(ctx context.Context, next ports.AddressLookup) ports.AddressLookup {
	if a.noCache {
		return next
	}

	var geocodes ports.GeocodeCache
	if url := strings.TrimSpace(a.cfg.DatabaseURL); url != "" {
		conn, err := db.Open(ctx, url)
		if err != nil {
			a.log.Warn("geocode cache disabled", slog.String("error", err.Error()))
		} else {
			a.closers = append(a.closers, func() { _ = conn.Close() })
			geocodes = cache.NewSQLGeocodeCache(conn)
		}
	}

	var suggestions ports.SuggestionCache
	if url := strings.TrimSpace(a.cfg.RedisURL); url != "" {
		client, err := cache.NewRedisClient(ctx, url)
		if err != nil {
			a.log.Warn("suggestion cache disabled", slog.String("error", err.Error()))
		} else {
			a.closers = append(a.closers, func() { _ = client.Close() })
			suggestions = cache.NewRedisSuggestionCache(client, a.cfg.SuggestionCacheTTL)
		}
	}

	if geocodes == nil && suggestions == nil {
		return next
	}
	return cache.NewCachingLookup(next, geocodes, suggestions, a.log)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
