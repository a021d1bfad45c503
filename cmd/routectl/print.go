package main

import (
	"fmt"
	"io"
	"strings"

	"route-planner/internal/domain"
	"route-planner/internal/ports"
)

func printRoutes(w io.Writer, routes []domain.Route, selectedID string) {
	if len(routes) == 0 {
		fmt.Fprintln(w, "no routes")
		return
	}
	for _, r := range routes {
		marker := " "
		if r.ID == selectedID {
			marker = "*"
		}
		p := domain.ProgressOf(r.Waypoints)
		fmt.Fprintf(w, "%s %s  %-20s %-8s %d/%d done\n", marker, r.ID, r.Name, r.Profile, p.Done, p.Total)
	}
}

func printRoute(w io.Writer, r domain.Route) {
	p := domain.ProgressOf(r.Waypoints)
	fmt.Fprintf(w, "%s (%s)  %s  %d/%d done\n", r.Name, r.ID, r.Profile, p.Done, p.Total)
	fmt.Fprintf(w, "  start: %s\n", stopLabel(r.Start))

	current := domain.CurrentStopIndex(r.Waypoints)
	for i, wp := range r.Waypoints {
		marker := " "
		if i == current {
			marker = ">"
		}
		line := fmt.Sprintf("%s %2d. %-24s %-9s %-6s %s", marker, i+1, wp.Name, wp.Status, wp.Color, wp.ID)
		if wp.Note != nil && *wp.Note != "" {
			line += "  note: " + *wp.Note
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	fmt.Fprintf(w, "  end:   %s\n", stopLabel(r.End))
	if r.DistanceMeters != nil && r.DurationSeconds != nil {
		fmt.Fprintf(w, "  %.1f km, %.0f min\n", *r.DistanceMeters/1000, *r.DurationSeconds/60)
	}
}

func stopLabel(s domain.Stop) string {
	if s.Address != "" && s.Address != s.Name {
		return fmt.Sprintf("%s, %s", s.Name, s.Address)
	}
	return s.Name
}

func printSuggestions(w io.Writer, found []domain.Suggestion) {
	if len(found) == 0 {
		fmt.Fprintln(w, "no suggestions")
		return
	}
	for i, s := range found {
		fmt.Fprintf(w, "%d. %s, %s (%.5f, %.5f)\n", i+1, s.Name, s.Address, s.Coordinates.Lat, s.Coordinates.Lon)
	}
}

func printNotes(w io.Writer, notes []ports.Notification) {
	for _, n := range notes {
		fmt.Fprintf(w, "[%s] %s\n", n.Kind, n.Message)
	}
}
