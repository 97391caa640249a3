package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
)

func TestFileStore_AbsentByDefault(t *testing.T) {
	store := NewFileStore(t.TempDir())

	token, ok := store.Token()
	assert.False(t, ok)
	assert.Empty(t, token)
	assert.False(t, LoggedIn(store))
}

func TestFileStore_SetTokenPersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	store := NewFileStore(dir)

	require.NoError(t, store.SetToken("abc.def.ghi"))

	info, err := os.Stat(filepath.Join(dir, TokenFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A second store on the same directory simulates a process restart.
	reopened := NewFileStore(dir)
	token, ok := reopened.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestFileStore_Clear(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.SetToken("tok"))

	require.NoError(t, store.Clear())
	assert.False(t, LoggedIn(store))

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestFileStore_RejectsEmptyToken(t *testing.T) {
	store := NewFileStore(t.TempDir())

	err := store.SetToken("   ")
	require.Error(t, err)

	var ce *conerr.ConsoleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, conerr.ErrCodeSessionStore, ce.Code)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore("")
	assert.False(t, LoggedIn(store))

	require.NoError(t, store.SetToken("tok"))
	token, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Clear())
	_, ok = store.Token()
	assert.False(t, ok)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore("start")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SetToken("tok")
		}()
		go func() {
			defer wg.Done()
			store.Token()
		}()
	}
	wg.Wait()

	assert.True(t, LoggedIn(store))
}

func TestRequire(t *testing.T) {
	_, err := Require(NewMemoryStore(""))
	require.Error(t, err)

	var ce *conerr.ConsoleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, conerr.ErrCodeNotLoggedIn, ce.Code)

	token, err := Require(NewMemoryStore("tok"))
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("unknown-to-the-console"))
	require.NoError(t, err)

	claims, err := Inspect(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.Nil(t, claims.IssuedAt)
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Minute)))
}

func TestInspect_Malformed(t *testing.T) {
	_, err := Inspect("not-a-token")
	require.Error(t, err)

	var ce *conerr.ConsoleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, conerr.ErrCodeTokenMalformed, ce.Code)
}
