package resource

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

type call struct {
	Method string
	Path   string
	Body   any
}

// fakeRequester answers from a scripted table and records every call.
type fakeRequester struct {
	mu       sync.Mutex
	calls    []call
	lists    [][]item
	listErr  error
	writeErr error
	// block, when set, holds writes until closed.
	block chan struct{}
	// listGate, when set, holds the next GET until closed. Its answer is
	// taken after release, so later fetches consume lists first.
	listGate chan struct{}
}

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age,omitempty"`
}

func (f *fakeRequester) Do(ctx context.Context, method, path string, body, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})
	block := f.block
	var gate chan struct{}
	if method == "GET" {
		gate, f.listGate = f.listGate, nil
	}
	f.mu.Unlock()

	if method != "GET" && block != nil {
		<-block
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if method == "GET" {
		if f.listErr != nil {
			return f.listErr
		}
		var next []item
		if len(f.lists) > 0 {
			next = f.lists[0]
			f.lists = f.lists[1:]
		}
		return roundTrip(next, out)
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	if out != nil {
		return roundTrip(item{ID: "new"}, out)
	}
	return nil
}

func roundTrip(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeRequester) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *fakeRequester) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

type note struct {
	ok  bool
	msg string
	err error
}

type recorder struct {
	mu    sync.Mutex
	notes []note
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{ok: true, msg: msg})
}

func (r *recorder) Failure(msg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{msg: msg, err: err})
}

func (r *recorder) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

var errBoom = errors.New("boom")

var itemsEndpoint = Endpoint{
	Name:       "users",
	Singular:   "User",
	ListPath:   "/users",
	CreatePath: "/users",
	ItemPath:   "/users",
}

var readOnlyEndpoint = Endpoint{Name: "revenue", Singular: "Revenue record", ListPath: "/revenue"}
