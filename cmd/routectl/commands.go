package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"route-planner/internal/domain"
	"route-planner/internal/services"
)

type options struct {
	serviceURL string
	routeID    string
	noCache    bool
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "routectl",
		Short:         "Plan routes and work through their stops against the route service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.serviceURL, "service-url", "", "route service base URL (default $ROUTE_SERVICE_URL)")
	root.PersistentFlags().StringVarP(&opts.routeID, "route", "r", "", "id of the route to operate on")
	root.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "skip the geocode and suggestion caches")

	root.AddCommand(newRoutesCmd(&opts), newWaypointsCmd(&opts), newSuggestCmd(&opts))
	return root
}

type sessionFunc func(ctx context.Context, a *app, s *services.Session, args []string) error

// withSession opens a session for the command, runs fn, and prints the
// notifications the session produced along the way.
func withSession(opts *options, needRoute bool, fn sessionFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if needRoute && opts.routeID == "" {
			return errors.New("--route is required")
		}

		a := newApp(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if opts.serviceURL != "" {
			a.serviceURL = opts.serviceURL
		}
		a.noCache = opts.noCache
		defer a.close()

		ctx := cmd.Context()
		s, err := a.open(ctx, opts.routeID)
		if err == nil {
			err = fn(ctx, a, s, args)
		}
		printNotes(a.out, a.notes.All())
		return err
	}
}

// showRoute prints the route an operation returned.
func showRoute(a *app, r *domain.Route, err error) error {
	if err != nil {
		return err
	}
	printRoute(a.out, *r)
	return nil
}

func newRoutesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "routes",
		Aliases: []string{"r"},
		Short:   "List, create and act on whole routes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List routes with their progress",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, false, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			printRoutes(a.out, s.Routes.Routes(), s.Routes.SelectedID())
			return nil
		}),
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the waypoints of a route",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, _ := s.Routes.Selected()
			printRoute(a.out, r)
			return nil
		}),
	}

	var profile string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty route",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(opts, false, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, err := s.Coordinator.CreateRoute(ctx, strings.Join(args, " "), domain.Profile(profile))
			return showRoute(a, r, err)
		}),
	}
	create.Flags().StringVar(&profile, "profile", string(domain.ProfileDriving), "travel profile: driving or walking")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a route",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			return s.Coordinator.DeleteRoute(ctx, s.Routes.SelectedID())
		}),
	}

	recalc := &cobra.Command{
		Use:   "recalc",
		Short: "Recompute geometry, distance and duration",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, err := s.Coordinator.Recompute(ctx)
			return showRoute(a, r, err)
		}),
	}

	optimize := &cobra.Command{
		Use:   "optimize",
		Short: "Let the service reorder the waypoints",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, err := s.Coordinator.Optimize(ctx)
			return showRoute(a, r, err)
		}),
	}

	undo := &cobra.Command{
		Use:   "undo",
		Short: "Revert the most recent status change",
		Args:  cobra.NoArgs,
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, err := s.Coordinator.UndoLastAction(ctx)
			return showRoute(a, r, err)
		}),
	}

	setProfile := &cobra.Command{
		Use:   "profile PROFILE",
		Short: "Switch between driving and walking",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, err := s.Coordinator.ChangeProfile(ctx, domain.Profile(args[0]))
			return showRoute(a, r, err)
		}),
	}

	start := &cobra.Command{
		Use:   "start ADDRESS",
		Short: "Geocode an address and make it the start",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withSession(opts, true, commitAddress(services.TargetStart)),
	}

	end := &cobra.Command{
		Use:   "end ADDRESS",
		Short: "Geocode an address and make it the end",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withSession(opts, true, commitAddress(services.TargetEnd)),
	}

	cmd.AddCommand(list, show, create, del, recalc, optimize, undo, setProfile, start, end)
	return cmd
}

func newWaypointsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "waypoints",
		Aliases: []string{"w"},
		Short:   "Add, remove, reorder and record visits to waypoints",
	}

	add := &cobra.Command{
		Use:   "add ADDRESS",
		Short: "Geocode an address and append it as a waypoint",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withSession(opts, true, commitAddress(services.TargetWaypoint)),
	}

	remove := &cobra.Command{
		Use:   "remove WAYPOINT_ID",
		Short: "Remove a waypoint",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, err := s.Coordinator.RemoveWaypoint(ctx, args[0])
			return showRoute(a, r, err)
		}),
	}

	status := &cobra.Command{
		Use:   "status WAYPOINT_ID completed|failed|skipped",
		Short: "Record the outcome of a visit",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, err := s.Coordinator.SetWaypointStatus(ctx, args[0], domain.Status(args[1]))
			return showRoute(a, r, err)
		}),
	}

	reset := &cobra.Command{
		Use:   "reset WAYPOINT_ID",
		Short: "Put a visited waypoint back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, err := s.Coordinator.ResetWaypoint(ctx, args[0])
			return showRoute(a, r, err)
		}),
	}

	move := &cobra.Command{
		Use:   "move WAYPOINT_ID TARGET_ID",
		Short: "Move a waypoint to the position of another",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			r, err := s.Coordinator.ReorderWaypoints(ctx, args[0], args[1])
			return showRoute(a, r, err)
		}),
	}

	var name, note, color string
	edit := &cobra.Command{
		Use:   "edit WAYPOINT_ID",
		Short: "Change the name, note or color of a waypoint",
		Args:  cobra.ExactArgs(1),
	}
	edit.RunE = withSession(opts, true, func(ctx context.Context, a *app, s *services.Session, args []string) error {
		var patch domain.WaypointPatch
		if edit.Flags().Changed("name") {
			patch.Name = &name
		}
		if edit.Flags().Changed("note") {
			patch.Note = &note
		}
		if edit.Flags().Changed("color") {
			c := domain.Color(color)
			patch.Color = &c
		}
		r, err := s.Coordinator.UpdateWaypointDetails(ctx, args[0], patch)
		return showRoute(a, r, err)
	})
	edit.Flags().StringVar(&name, "name", "", "display name")
	edit.Flags().StringVar(&note, "note", "", "free-form note")
	edit.Flags().StringVar(&color, "color", "", "marker color: blue, red, green, yellow, purple or orange")

	cmd.AddCommand(add, remove, status, reset, move, edit)
	return cmd
}

func newSuggestCmd(opts *options) *cobra.Command {
	var pick int
	var target string

	cmd := &cobra.Command{
		Use:   "suggest TEXT",
		Short: "Show address suggestions, optionally committing one",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(opts, false, func(ctx context.Context, a *app, s *services.Session, args []string) error {
			text := strings.Join(args, " ")
			if utf8.RuneCountInString(strings.TrimSpace(text)) < services.MinQueryLength {
				return fmt.Errorf("type at least %d characters", services.MinQueryLength)
			}
			if !s.Suggester.SetTarget(services.AddressTarget(target)) {
				return fmt.Errorf("unknown target %q", target)
			}

			changed := s.Suggester.Changed()
			s.Suggester.SetText(text)

			select {
			case <-changed:
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(services.DebounceDelay + a.cfg.HTTPTimeout):
				return errors.New("timed out waiting for suggestions")
			}

			found := s.Suggester.Suggestions()
			printSuggestions(a.out, found)
			if pick == 0 || len(found) == 0 {
				return nil
			}
			if err := s.Suggester.Select(ctx, pick-1); err != nil {
				return err
			}
			r, _ := s.Routes.Selected()
			printRoute(a.out, r)
			return nil
		}),
	}
	cmd.Flags().IntVar(&pick, "pick", 0, "commit the Nth suggestion to the route given by --route")
	cmd.Flags().StringVar(&target, "target", string(services.TargetWaypoint), "what a pick becomes: waypoint, start or end")
	return cmd
}

// commitAddress geocodes the joined args and commits the match as target,
// the way pressing Enter with the suggestion list closed does.
func commitAddress(target services.AddressTarget) sessionFunc {
	return func(ctx context.Context, a *app, s *services.Session, args []string) error {
		s.Suggester.SetTarget(target)
		s.Suggester.SetText(strings.Join(args, " "))

		if _, err := s.Suggester.HandleKey(ctx, services.KeyEnter); err != nil {
			return err
		}
		r, _ := s.Routes.Selected()
		printRoute(a.out, r)
		return nil
	}
}
