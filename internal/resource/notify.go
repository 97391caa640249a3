package resource

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrBusy is returned when a mutation is already in flight.
	ErrBusy = errors.New("another change is still in progress")

	// ErrCancelled is returned when a confirmation was declined.
	ErrCancelled = errors.New("cancelled")

	// ErrReadOnly is returned for mutations on a read-only endpoint.
	ErrReadOnly = errors.New("resource is read-only")

	// ErrDialogClosed is returned when submitting a dialog that is not open.
	ErrDialogClosed = errors.New("dialog is not open")
)

// Notifier receives the user-facing outcome of controller operations.
type Notifier interface {
	Success(msg string)
	Failure(msg string, err error)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string)        {}
func (NopNotifier) Failure(string, error) {}

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Confirmed approves without asking. Used when the operator already
// confirmed, e.g. `--yes` or an answered dialog.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Declined rejects without asking.
var Declined Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })

// Messages are the notification texts of one entity.
type Messages struct {
	FetchFailed   string
	Created       string
	CreateFailed  string
	Updated       string
	UpdateFailed  string
	Deleted       string
	DeleteFailed  string
	ConfirmDelete string
}

// MessagesFor derives the standard texts from an endpoint's names.
func MessagesFor(e Endpoint) Messages {
	one := strings.ToLower(e.Singular)
	return Messages{
		FetchFailed:   "Failed to fetch " + e.Name,
		Created:       e.Singular + " created successfully",
		CreateFailed:  "Failed to create " + one,
		Updated:       e.Singular + " updated successfully",
		UpdateFailed:  "Failed to update " + one,
		Deleted:       e.Singular + " deleted successfully",
		DeleteFailed:  "Failed to delete " + one,
		ConfirmDelete: "Are you sure you want to delete this " + one + "?",
	}
}
