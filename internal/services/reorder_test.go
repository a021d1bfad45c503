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

func TestReorderAppliesOptimistically(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.routeWith(t, "A", "B", "C")

	reached, release := h.svc.holdNext("UpdateRoute")
	done := make(chan error, 1)
	go func() {
		_, err := h.session.Coordinator.ReorderWaypoints(ctx, "A", "C")
		done <- err
	}()
	<-reached

	local, _ := h.session.Routes.Selected()
	assert.Equal(t, []string{"B", "C", "A"}, waypointIDs(local), "order applies before the server answers")

	release()
	require.NoError(t, <-done)

	got, _ := h.session.Routes.Selected()
	assert.Equal(t, []string{"B", "C", "A"}, waypointIDs(got))

	server, err := h.svc.RouteStore.ListRoutes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, waypointIDs(server[0]))
}

func TestReorderMovesUp(t *testing.T) {
	h := newHarness(t)
	h.routeWith(t, "A", "B", "C")

	r, err := h.session.Coordinator.ReorderWaypoints(context.Background(), "C", "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, waypointIDs(*r))
}

func TestReorderRejectedByServerResyncs(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.routeWith(t, "A", "B", "C")

	h.svc.failNext("UpdateRoute", apperr.New(apperr.KindConflict, "route changed"))

	_, err := h.session.Coordinator.ReorderWaypoints(ctx, "A", "C")
	require.Error(t, err)

	got, _ := h.session.Routes.Selected()
	assert.Equal(t, []string{"A", "B", "C"}, waypointIDs(got), "optimistic order must not linger")
	assert.Equal(t, []ports.NotificationKind{ports.NotifyFailure, ports.NotifyRouteResynced}, h.notes.Kinds())
	assert.Equal(t, 1, h.svc.count("ListRoutes"))
}

func TestReorderNoOps(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	r := h.routeWith(t, "A", "B")

	for _, tc := range [][2]string{{"A", "A"}, {"A", "Z"}, {"Z", "B"}} {
		got, err := h.session.Coordinator.ReorderWaypoints(ctx, tc[0], tc[1])
		require.NoError(t, err)
		assert.Equal(t, waypointIDs(r), waypointIDs(*got))
	}
	assert.Zero(t, h.svc.count("UpdateRoute"))
	assert.Empty(t, h.notes.Kinds())
}

func TestReorderWithoutSelection(t *testing.T) {
	h := newHarness(t)

	_, err := h.session.Coordinator.ReorderWaypoints(context.Background(), "A", "B")
	assert.ErrorIs(t, err, ErrNoRouteSelected)
}

func TestReorderRollsBackWhenResyncFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.routeWith(t, "A", "B", "C")

	h.svc.failNext("UpdateRoute", apperr.New(apperr.KindUnavailable, "connection refused"))
	h.svc.failNext("ListRoutes", apperr.New(apperr.KindUnavailable, "connection refused"))

	_, err := h.session.Coordinator.ReorderWaypoints(ctx, "A", "C")
	require.Error(t, err)

	got, _ := h.session.Routes.Selected()
	assert.Equal(t, []string{"A", "B", "C"}, waypointIDs(got), "last confirmed order is restored")
	assert.Equal(t,
		[]ports.NotificationKind{ports.NotifyFailure, ports.NotifyFailure, ports.NotifyRouteResynced},
		h.notes.Kinds())

	server, err := h.svc.RouteStore.ListRoutes(ctx)
	require.NoError(t, err)
	assert.Equal(t, waypointIDs(server[0]), waypointIDs(got))
}

func TestOlderResponseKeepsDraggedOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.routeWith(t, "A", "B", "C")

	reached, release := h.svc.holdNext("PatchWaypoint")
	statusDone := make(chan error, 1)
	go func() {
		_, err := h.session.Coordinator.SetWaypointStatus(ctx, "B", domain.StatusCompleted)
		statusDone <- err
	}()
	<-reached

	reorderReached, reorderRelease := h.svc.holdNext("UpdateRoute")
	reorderDone := make(chan error, 1)
	go func() {
		_, err := h.session.Coordinator.ReorderWaypoints(ctx, "A", "C")
		reorderDone <- err
	}()
	<-reorderReached

	release()
	require.NoError(t, <-statusDone)

	local, _ := h.session.Routes.Selected()
	assert.Equal(t, []string{"B", "C", "A"}, waypointIDs(local), "dragged order survives the earlier response")
	assert.Equal(t, domain.StatusCompleted, local.Waypoints[0].Status)

	reorderRelease()
	require.NoError(t, <-reorderDone)

	got, _ := h.session.Routes.Selected()
	assert.Equal(t, []string{"B", "C", "A"}, waypointIDs(got))
	assert.Equal(t, domain.StatusCompleted, got.Waypoints[0].Status)
}
