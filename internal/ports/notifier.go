package ports

import "context"

type NotificationKind string

const (
	NotifySuccess       NotificationKind = "success"
	NotifyValidation    NotificationKind = "validation"
	NotifyFailure       NotificationKind = "failure"
	NotifyNotFound      NotificationKind = "not_found"
	NotifyStatusChanged NotificationKind = "status_changed"
	NotifyUndone        NotificationKind = "undone"
	NotifyRouteResynced NotificationKind = "route_resynced"
)

// Notification is a user-facing acknowledgment or failure.
type Notification struct {
	Kind    NotificationKind
	Op      string
	RouteID string
	// Status is set for NotifyStatusChanged.
	Status  string
	Message string
}

// Port: where user-visible notifications go (UI toast, CLI output, log).
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
