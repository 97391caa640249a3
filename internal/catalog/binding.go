package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

// ErrRecordNotFound is returned when a reference matches no loaded record.
var ErrRecordNotFound = errors.New("record not found")

// Binding is a live controller and dialog for one entity, erased of its
// record type.
type Binding interface {
	Descriptor() Descriptor

	Refresh(ctx context.Context) error
	State() resource.State
	Busy() bool
	Err() error

	Len() int
	Rows() [][]string
	Keys() []string
	IDAt(i int) string
	// Records returns the loaded records as a typed slice, for JSON and
	// YAML output.
	Records() any
	// Resolve maps an id or row key to the record's id.
	Resolve(ref string) (string, error)

	OpenCreate() (*resource.Draft, error)
	OpenEdit(ref string) (*resource.Draft, error)
	Dialog() (resource.Mode, *resource.Draft)
	Submit(ctx context.Context) error
	Cancel()

	Delete(ctx context.Context, id string, confirm resource.Confirmer) error
	ConfirmDeletePrompt() string
}

type binding[T any] struct {
	entity *Entity[T]
	ctrl   *resource.Controller[T]
	dialog *resource.Dialog[T]
}

// Bind creates a controller and dialog for the entity.
func (e *Entity[T]) Bind(req resource.Requester, n resource.Notifier) Binding {
	ctrl := resource.NewController[T](req, e.Resource, n)
	return &binding[T]{
		entity: e,
		ctrl:   ctrl,
		dialog: resource.NewDialog(ctrl, e.Create, e.Edit),
	}
}

// Controller returns the typed controller behind a binding created by Bind.
func Controller[T any](b Binding) (*resource.Controller[T], bool) {
	tb, ok := b.(*binding[T])
	if !ok {
		return nil, false
	}
	return tb.ctrl, true
}

func (b *binding[T]) Descriptor() Descriptor { return b.entity }

func (b *binding[T]) Refresh(ctx context.Context) error { return b.ctrl.Refresh(ctx) }
func (b *binding[T]) State() resource.State             { return b.ctrl.State() }
func (b *binding[T]) Busy() bool                        { return b.ctrl.Busy() }
func (b *binding[T]) Err() error                        { return b.ctrl.Snapshot().Err }
func (b *binding[T]) Len() int                          { return len(b.ctrl.Items()) }
func (b *binding[T]) Records() any                      { return b.ctrl.Items() }

func (b *binding[T]) Rows() [][]string {
	items := b.ctrl.Items()
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = b.entity.Row(it)
	}
	return rows
}

func (b *binding[T]) Keys() []string {
	items := b.ctrl.Items()
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = b.entity.Key(it)
	}
	return keys
}

func (b *binding[T]) IDAt(i int) string {
	items := b.ctrl.Items()
	if i < 0 || i >= len(items) {
		return ""
	}
	return b.entity.ID(items[i])
}

func (b *binding[T]) find(ref string) (T, bool) {
	items := b.ctrl.Items()
	for _, it := range items {
		if b.entity.ID(it) == ref {
			return it, true
		}
	}
	for _, it := range items {
		if b.entity.Key(it) == ref {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (b *binding[T]) Resolve(ref string) (string, error) {
	rec, ok := b.find(ref)
	if !ok {
		return "", fmt.Errorf("%s %q: %w", b.entity.Resource.Singular, ref, ErrRecordNotFound)
	}
	return b.entity.ID(rec), nil
}

func (b *binding[T]) OpenCreate() (*resource.Draft, error) { return b.dialog.OpenCreate() }

func (b *binding[T]) OpenEdit(ref string) (*resource.Draft, error) {
	rec, ok := b.find(ref)
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", b.entity.Resource.Singular, ref, ErrRecordNotFound)
	}
	return b.dialog.OpenEdit(rec, b.entity.ID(rec))
}

func (b *binding[T]) Dialog() (resource.Mode, *resource.Draft) {
	return b.dialog.Mode(), b.dialog.Draft()
}

func (b *binding[T]) Submit(ctx context.Context) error { return b.dialog.Submit(ctx) }
func (b *binding[T]) Cancel()                          { b.dialog.Cancel() }

func (b *binding[T]) Delete(ctx context.Context, id string, confirm resource.Confirmer) error {
	return b.ctrl.Delete(ctx, id, confirm)
}

func (b *binding[T]) ConfirmDeletePrompt() string { return b.ctrl.Messages().ConfirmDelete }
