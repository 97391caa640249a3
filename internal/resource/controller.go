package resource

import (
	"context"
	"slices"
	"sync"
)

// State is the fetch state of a controller.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of a controller's view state.
type Snapshot[T any] struct {
	State State
	Items []T
	Err   error
	Busy  bool
}

// Controller owns the collection of one entity and serializes its mutations.
//
// Fetches move Idle → Loading → Loaded | Failed. A failed fetch keeps the
// previous items. Each mutation holds the busy flag for its duration; a
// second mutation while busy returns ErrBusy without touching the network.
type Controller[T any] struct {
	coll     *Collection[T]
	notifier Notifier
	messages Messages

	mu    sync.Mutex
	state State
	items []T
	err   error
	busy  bool
	// seq identifies the newest fetch; older results are dropped.
	seq uint64
}

// ControllerOption configures a Controller.
type ControllerOption[T any] func(*Controller[T])

// WithMessages overrides the derived notification texts.
func WithMessages[T any](m Messages) ControllerOption[T] {
	return func(c *Controller[T]) { c.messages = m }
}

// NewController creates an idle controller for endpoint.
func NewController[T any](req Requester, endpoint Endpoint, notifier Notifier, opts ...ControllerOption[T]) *Controller[T] {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	c := &Controller[T]{
		coll:     NewCollection[T](req, endpoint),
		notifier: notifier,
		messages: MessagesFor(endpoint),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the controller's endpoint.
func (c *Controller[T]) Endpoint() Endpoint { return c.coll.Endpoint() }

// Messages returns the notification texts in use.
func (c *Controller[T]) Messages() Messages { return c.messages }

// Snapshot returns the current state. Items is a copy.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{
		State: c.state,
		Items: slices.Clone(c.items),
		Err:   c.err,
		Busy:  c.busy,
	}
}

// Items returns a copy of the current collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// State returns the fetch state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a mutation is in flight.
func (c *Controller[T]) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Refresh fetches the collection and replaces it wholesale on success.
// A failure leaves the previous items in place and emits one notification.
// When fetches overlap only the most recently started one is applied.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = StateLoading
	c.mu.Unlock()

	items, err := c.coll.List(ctx)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return err
	}
	if err != nil {
		c.state = StateFailed
		c.err = err
		c.mu.Unlock()
		c.notifier.Failure(c.messages.FetchFailed, err)
		return err
	}
	c.state = StateLoaded
	c.items = items
	c.err = nil
	c.mu.Unlock()
	return nil
}

// Create submits a new record, then refetches.
func (c *Controller[T]) Create(ctx context.Context, payload any) error {
	if !c.Endpoint().CanCreate() {
		return ErrReadOnly
	}
	return c.mutate(ctx, c.messages.Created, c.messages.CreateFailed, func() error {
		_, err := c.coll.Create(ctx, payload)
		return err
	})
}

// Update submits changes to record id, then refetches.
func (c *Controller[T]) Update(ctx context.Context, id string, payload any) error {
	if !c.Endpoint().CanModify() {
		return ErrReadOnly
	}
	return c.mutate(ctx, c.messages.Updated, c.messages.UpdateFailed, func() error {
		_, err := c.coll.Update(ctx, id, payload)
		return err
	})
}

// Delete asks confirm first and only then removes record id. A declined
// confirmation returns ErrCancelled without any request.
func (c *Controller[T]) Delete(ctx context.Context, id string, confirm Confirmer) error {
	if !c.Endpoint().CanModify() {
		return ErrReadOnly
	}
	if confirm == nil {
		return ErrCancelled
	}
	ok, err := confirm.Confirm(ctx, c.messages.ConfirmDelete)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return c.mutate(ctx, c.messages.Deleted, c.messages.DeleteFailed, func() error {
		return c.coll.Delete(ctx, id)
	})
}

func (c *Controller[T]) mutate(ctx context.Context, okMsg, failMsg string, call func() error) error {
	if !c.acquire() {
		return ErrBusy
	}

	err := call()
	c.release()

	if err != nil {
		c.notifier.Failure(failMsg, err)
		return err
	}

	c.notifier.Success(okMsg)
	// The refetch reports its own failure; the mutation itself succeeded.
	_ = c.Refresh(ctx)
	return nil
}

func (c *Controller[T]) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller[T]) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}
