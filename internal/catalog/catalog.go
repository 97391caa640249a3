// Package catalog declares every entity the console manages: where it lives
// on the API, how a row is keyed and rendered, and which form fields its
// create and edit dialogs have.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

// Column renders one table cell of a record.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// Entity is the declarative description of one resource type.
type Entity[T any] struct {
	Resource resource.Endpoint
	// Key identifies a row for display; unique per collection.
	Key func(T) string
	// ID returns the API identifier used in item paths.
	ID      func(T) string
	Columns []Column[T]
	Create  resource.Schema
	Edit    resource.Schema
	// Effects marks entities that accept live effects.
	Effects bool
}

// Descriptor is the type-erased view of an Entity used by the CLI and the
// terminal console, which handle all entities uniformly.
type Descriptor interface {
	Name() string
	Title() string
	Endpoint() resource.Endpoint
	Headers() []string
	Widths() []int
	CreateSchema() resource.Schema
	EditSchema() resource.Schema
	SupportsEffects() bool
	Bind(req resource.Requester, n resource.Notifier) Binding
}

func (e *Entity[T]) Name() string { return e.Resource.Name }

func (e *Entity[T]) Title() string {
	return strings.ToUpper(e.Resource.Name[:1]) + e.Resource.Name[1:]
}

func (e *Entity[T]) Endpoint() resource.Endpoint { return e.Resource }

func (e *Entity[T]) Headers() []string {
	out := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		out[i] = c.Title
	}
	return out
}

func (e *Entity[T]) Widths() []int {
	out := make([]int, len(e.Columns))
	for i, c := range e.Columns {
		out[i] = c.Width
	}
	return out
}

func (e *Entity[T]) CreateSchema() resource.Schema { return e.Create }
func (e *Entity[T]) EditSchema() resource.Schema   { return e.Edit }
func (e *Entity[T]) SupportsEffects() bool         { return e.Effects }

// Row renders record as table cells.
func (e *Entity[T]) Row(record T) []string {
	out := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		out[i] = c.Value(record)
	}
	return out
}

var registry []Descriptor

func register(d Descriptor) {
	registry = append(registry, d)
}

// All returns every entity in navigation order.
func All() []Descriptor {
	return slices.Clone(registry)
}

// Names returns the entity names in navigation order.
func Names() []string {
	out := make([]string, len(registry))
	for i, d := range registry {
		out[i] = d.Name()
	}
	return out
}

// Lookup finds an entity by name.
func Lookup(name string) (Descriptor, error) {
	for _, d := range registry {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unknown entity %q (known: %s)", name, strings.Join(Names(), ", "))
}
