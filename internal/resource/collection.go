// Package resource implements the list and dialog logic shared by every
// entity the console manages.
//
// One generic Controller replaces per-entity fetch, create, update, delete and
// refetch code. The collection it holds is never patched locally: every
// successful mutation is followed by a full refetch so the view always shows
// what the server returned.
package resource

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Requester performs a single API call. *api.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Endpoint configures where a collection lives on the API.
//
// An endpoint without CreatePath and ItemPath is read-only.
type Endpoint struct {
	// Name is the plural, lower-case entity name ("users").
	Name string
	// Singular is the display name of one record ("User").
	Singular string

	ListPath   string
	CreatePath string
	// ItemPath is the prefix of a single record; the id is appended.
	ItemPath string
}

// ReadOnly reports whether the endpoint accepts no mutations.
func (e Endpoint) ReadOnly() bool {
	return e.CreatePath == "" && e.ItemPath == ""
}

// CanCreate reports whether records can be created.
func (e Endpoint) CanCreate() bool { return e.CreatePath != "" }

// CanModify reports whether records can be updated and deleted.
func (e Endpoint) CanModify() bool { return e.ItemPath != "" }

// Item returns the path of the record with id.
func (e Endpoint) Item(id string) string {
	return strings.TrimRight(e.ItemPath, "/") + "/" + url.PathEscape(id)
}

// Collection issues the list and mutation calls of one endpoint.
type Collection[T any] struct {
	endpoint Endpoint
	req      Requester
}

// NewCollection binds an endpoint to a requester.
func NewCollection[T any](req Requester, endpoint Endpoint) *Collection[T] {
	return &Collection[T]{endpoint: endpoint, req: req}
}

// Endpoint returns the collection's configuration.
func (c *Collection[T]) Endpoint() Endpoint { return c.endpoint }

// List fetches every record, in server order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := c.req.Do(ctx, http.MethodGet, c.endpoint.ListPath, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create posts payload and returns the record the server created.
func (c *Collection[T]) Create(ctx context.Context, payload any) (*T, error) {
	if !c.endpoint.CanCreate() {
		return nil, ErrReadOnly
	}
	var out T
	if err := c.req.Do(ctx, http.MethodPost, c.endpoint.CreatePath, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the fields in payload on record id.
func (c *Collection[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	if !c.endpoint.CanModify() {
		return nil, ErrReadOnly
	}
	var out T
	if err := c.req.Do(ctx, http.MethodPut, c.endpoint.Item(id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes record id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if !c.endpoint.CanModify() {
		return ErrReadOnly
	}
	return c.req.Do(ctx, http.MethodDelete, c.endpoint.Item(id), nil, nil)
}
