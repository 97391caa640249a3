package resource

import (
	"context"
	"sync"
)

// Mode is what an open dialog will do on submit.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Dialog binds a Draft to a Controller for one create or edit round.
//
// A successful submit closes the dialog and clears the draft; a failed one
// leaves both untouched so the operator can retry.
type Dialog[T any] struct {
	ctrl   *Controller[T]
	create Schema
	edit   Schema

	mu       sync.Mutex
	mode     Mode
	draft    *Draft
	targetID string
}

// NewDialog creates a closed dialog. Either schema may be nil when the
// endpoint does not support that operation.
func NewDialog[T any](ctrl *Controller[T], create, edit Schema) *Dialog[T] {
	return &Dialog[T]{ctrl: ctrl, create: create, edit: edit}
}

// OpenCreate opens the dialog with a blank draft.
func (d *Dialog[T]) OpenCreate() (*Draft, error) {
	if !d.ctrl.Endpoint().CanCreate() || d.create == nil {
		return nil, ErrReadOnly
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = ModeCreate
	d.draft = NewDraft(d.create)
	d.targetID = ""
	return d.draft, nil
}

// OpenEdit opens the dialog with a copy of record, which has id.
func (d *Dialog[T]) OpenEdit(record T, id string) (*Draft, error) {
	if !d.ctrl.Endpoint().CanModify() || d.edit == nil {
		return nil, ErrReadOnly
	}
	draft, err := EditDraft(d.edit, record)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mode = ModeEdit
	d.draft = draft
	d.targetID = id
	return draft, nil
}

// Mode returns the dialog's mode.
func (d *Dialog[T]) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// IsOpen reports whether a draft is being edited.
func (d *Dialog[T]) IsOpen() bool { return d.Mode() != ModeClosed }

// Draft returns the open draft, or nil.
func (d *Dialog[T]) Draft() *Draft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// TargetID returns the id of the record being edited.
func (d *Dialog[T]) TargetID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.targetID
}

// Submit sends the draft through the controller.
//
// Form constraint violations are reported like any other failure: one
// notification, dialog kept open.
func (d *Dialog[T]) Submit(ctx context.Context) error {
	d.mu.Lock()
	mode, draft, id := d.mode, d.draft, d.targetID
	d.mu.Unlock()

	if mode == ModeClosed || draft == nil {
		return ErrDialogClosed
	}

	msgs := d.ctrl.Messages()
	failMsg := msgs.CreateFailed
	if mode == ModeEdit {
		failMsg = msgs.UpdateFailed
	}

	payload, err := draft.Payload()
	if err != nil {
		d.ctrl.notifier.Failure(failMsg, err)
		return err
	}

	if mode == ModeCreate {
		err = d.ctrl.Create(ctx, payload)
	} else {
		err = d.ctrl.Update(ctx, id, payload)
	}
	if err != nil {
		return err
	}

	d.mu.Lock()
	if d.draft == draft {
		d.close()
	}
	d.mu.Unlock()
	return nil
}

// Cancel closes the dialog and discards the draft.
func (d *Dialog[T]) Cancel() {
	d.mu.Lock()
	d.close()
	d.mu.Unlock()
}

func (d *Dialog[T]) close() {
	d.mode = ModeClosed
	d.draft = nil
	d.targetID = ""
}
