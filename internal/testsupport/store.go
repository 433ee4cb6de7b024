package testsupport

import (
	"context"
	"testing"

	"eyetrack/internal/config"
	"eyetrack/internal/sessionstore"
)

// MustOpenStore opens a sessionstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *sessionstore.Store {
	t.Helper()

	store, err := sessionstore.Open(cfg)
	if err != nil {
		t.Fatalf("sessionstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustSaveState stores state for session or fails the test.
func MustSaveState(t testing.TB, store *sessionstore.Store, session string, state sessionstore.State) {
	t.Helper()

	if err := store.SaveState(context.Background(), session, state); err != nil {
		t.Fatalf("store.SaveState: %v", err)
	}
}

// MustLoadState loads state for session or fails the test.
func MustLoadState(t testing.TB, store *sessionstore.Store, session string) sessionstore.State {
	t.Helper()

	state, err := store.LoadState(context.Background(), session)
	if err != nil {
		t.Fatalf("store.LoadState: %v", err)
	}
	return state
}
