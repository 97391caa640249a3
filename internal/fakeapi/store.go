package fakeapi

import (
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/felixgeelhaar/eduplay-console/internal/model"
)

type adminRecord struct {
	model.Admin
	hash []byte
}

// store is the in-memory state of the fake backend.
type store struct {
	mu sync.RWMutex

	cost    int
	now     func() time.Time
	admins  []adminRecord
	users   []model.User
	games   []model.Game
	builds  []model.Build
	updates []model.PlatformUpdate
	revenue []model.Revenue
	effects []model.LiveEffect
}

func newStore(cost int, now func() time.Time) *store {
	return &store{cost: cost, now: now}
}

func (s *store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *store) hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), s.cost)
}

func newID() string { return uuid.NewString() }

// findIndex returns the position of the record with id, or -1.
func findIndex[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(it T) bool { return idOf(it) == id })
}

// patch overlays body onto rec. A null field resets it to its zero value.
// The id never changes.
func patch[T any](rec T, body map[string]json.RawMessage) (T, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return rec, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return rec, err
	}
	for k, v := range body {
		switch {
		case k == "id":
		case string(v) == "null":
			delete(fields, k)
		default:
			fields[k] = v
		}
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return rec, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return rec, err
	}
	return out, nil
}
