package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedStore(t *testing.T, ttl time.Duration) (*SessionStore, *time.Time) {
	t.Helper()
	store := NewSessionStore(ttl)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestSessionStore_StartAndGet(t *testing.T) {
	store, _ := newClockedStore(t, 0)

	started := store.Start(42, map[string]string{"step": "choose_channel"})
	assert.Equal(t, int64(42), started.ActorID)
	assert.Equal(t, 1, started.Version)

	session, ok := store.Get(42)
	require.True(t, ok)
	assert.Equal(t, "choose_channel", session.Config["step"])
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	store, now := newClockedStore(t, 0)
	store.Start(42, map[string]string{"step": "one"})

	// Just inside the default 900s TTL the session is live and untouched
	*now = now.Add(899 * time.Second)
	session, ok := store.Get(42)
	require.True(t, ok)
	assert.Equal(t, "one", session.Config["step"])
	assert.Equal(t, 1, session.Version)

	// Past the TTL it is absent and lazily purged
	*now = now.Add(2 * time.Second)
	_, ok = store.Get(42)
	assert.False(t, ok)

	// The purge is permanent even if time rolls on
	_, ok = store.Get(42)
	assert.False(t, ok)
}

func TestSessionStore_MutateBumpsVersion(t *testing.T) {
	store, now := newClockedStore(t, 0)
	store.Start(42, nil)

	*now = now.Add(time.Minute)
	session, ok := store.Mutate(42, func(config map[string]string) {
		config["channel"] = "123"
	})
	require.True(t, ok)
	assert.Equal(t, 2, session.Version)
	assert.Equal(t, "123", session.Config["channel"])
	assert.Equal(t, *now, session.LastUpdate)

	// Mutation refreshed the TTL window
	*now = now.Add(899 * time.Second)
	_, ok = store.Get(42)
	assert.True(t, ok)
}

func TestSessionStore_MutateWithoutSession(t *testing.T) {
	store, _ := newClockedStore(t, 0)

	_, ok := store.Mutate(42, func(config map[string]string) {
		config["x"] = "y"
	})
	assert.False(t, ok)
}

func TestSessionStore_End(t *testing.T) {
	store, _ := newClockedStore(t, 0)
	store.Start(42, nil)

	store.End(42)
	_, ok := store.Get(42)
	assert.False(t, ok)
}

func TestSessionStore_Extend(t *testing.T) {
	store, now := newClockedStore(t, 0)
	store.Start(42, nil)

	require.True(t, store.Extend(42, 10*time.Minute))

	// Well past the plain TTL, but inside the extended window
	*now = now.Add(20 * time.Minute)
	_, ok := store.Get(42)
	assert.True(t, ok)

	assert.False(t, store.Extend(99, time.Minute))
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	store, now := newClockedStore(t, 0)
	store.Start(1, nil)
	store.Start(2, nil)

	*now = now.Add(10 * time.Minute)
	store.Start(3, nil)

	*now = now.Add(6 * time.Minute)
	assert.Equal(t, 2, store.PurgeExpired())

	_, ok := store.Get(3)
	assert.True(t, ok)
}

func TestSessionStore_SnapshotsAreCopies(t *testing.T) {
	store, _ := newClockedStore(t, 0)
	store.Start(42, map[string]string{"step": "one"})

	session, ok := store.Get(42)
	require.True(t, ok)
	session.Config["step"] = "tampered"

	fresh, ok := store.Get(42)
	require.True(t, ok)
	assert.Equal(t, "one", fresh.Config["step"])
}
