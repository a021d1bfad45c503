package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-planner/internal/domain"
	"route-planner/internal/platform/apperr"
	"route-planner/internal/ports"
)

func TestTourCompleteAndUndo(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	coord := h.session.Coordinator
	routes := h.session.Routes

	_, err := coord.CreateRoute(ctx, "Tour A", domain.ProfileDriving)
	require.NoError(t, err)

	cafe, err := h.lookup.Geocode(ctx, "Cafe de Jaren")
	require.NoError(t, err)
	r, err := coord.AddWaypoint(ctx, cafe.Waypoint())
	require.NoError(t, err)
	require.Len(t, r.Waypoints, 1)
	cafeID := r.Waypoints[0].ID

	assert.Equal(t, 0, routes.CurrentStopIndex())
	assert.Equal(t, domain.Progress{Done: 0, Total: 1}, routes.Progress())

	h.notes.Reset()
	_, err = coord.SetWaypointStatus(ctx, cafeID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.Progress{Done: 1, Total: 1}, routes.Progress())
	assert.Equal(t, -1, routes.CurrentStopIndex())

	last, _ := h.notes.Last()
	assert.Equal(t, ports.NotifyStatusChanged, last.Kind)
	assert.Equal(t, string(domain.StatusCompleted), last.Status)
	assert.Equal(t, "stop completed", last.Message)

	_, err = coord.UndoLastAction(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Progress{Done: 0, Total: 1}, routes.Progress())

	got, _ := routes.Selected()
	assert.Equal(t, domain.StatusPending, got.Waypoints[0].Status)

	last, _ = h.notes.Last()
	assert.Equal(t, ports.NotifyUndone, last.Kind)
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("terminal to terminal is rejected", func(t *testing.T) {
		h := newHarness(t)
		h.routeWith(t, "A")
		coord := h.session.Coordinator

		_, err := coord.SetWaypointStatus(ctx, "A", domain.StatusFailed)
		require.NoError(t, err)
		calls := h.svc.count("PatchWaypoint")

		_, err = coord.SetWaypointStatus(ctx, "A", domain.StatusSkipped)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, calls, h.svc.count("PatchWaypoint"))
	})

	t.Run("pending is not an outcome", func(t *testing.T) {
		h := newHarness(t)
		h.routeWith(t, "A")

		_, err := h.session.Coordinator.SetWaypointStatus(ctx, "A", domain.StatusPending)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Zero(t, h.svc.count("PatchWaypoint"))
	})

	t.Run("reset pending is rejected", func(t *testing.T) {
		h := newHarness(t)
		h.routeWith(t, "A")

		_, err := h.session.Coordinator.ResetWaypoint(ctx, "A")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("reset after skip", func(t *testing.T) {
		h := newHarness(t)
		h.routeWith(t, "A", "B")
		coord := h.session.Coordinator

		_, err := coord.SetWaypointStatus(ctx, "A", domain.StatusSkipped)
		require.NoError(t, err)
		assert.Equal(t, 1, h.session.Routes.CurrentStopIndex())

		r, err := coord.ResetWaypoint(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, r.Waypoints[0].Status)
		assert.Equal(t, 0, h.session.Routes.CurrentStopIndex())

		last, _ := h.notes.Last()
		assert.Equal(t, "stop reset to pending", last.Message)
	})

	t.Run("unknown waypoint", func(t *testing.T) {
		h := newHarness(t)
		h.routeWith(t, "A")

		_, err := h.session.Coordinator.SetWaypointStatus(ctx, "Z", domain.StatusCompleted)
		assert.ErrorIs(t, err, ErrWaypointNotFound)
		assert.Zero(t, h.svc.count("PatchWaypoint"))
	})
}

func TestUndoWithNothingToUndo(t *testing.T) {
	h := newHarness(t)
	r := h.routeWith(t, "A")

	_, err := h.session.Coordinator.UndoLastAction(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	got, _ := h.session.Routes.Selected()
	assert.Equal(t, r, got)

	last, _ := h.notes.Last()
	assert.Equal(t, ports.NotifyFailure, last.Kind)
	assert.Equal(t, "could not undo last action: nothing to undo", last.Message)
}

func TestFailedStatusChangeKeepsLocalStatus(t *testing.T) {
	h := newHarness(t)
	h.routeWith(t, "A")

	h.svc.failNext("PatchWaypoint", apperr.New(apperr.KindRemote, "bad gateway"))
	_, err := h.session.Coordinator.SetWaypointStatus(context.Background(), "A", domain.StatusCompleted)
	require.Error(t, err)

	got, _ := h.session.Routes.Selected()
	assert.Equal(t, domain.StatusPending, got.Waypoints[0].Status)
	assert.NotContains(t, h.notes.Kinds(), ports.NotifyStatusChanged)
}
