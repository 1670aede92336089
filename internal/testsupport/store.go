package testsupport

import (
	"testing"

	"clipper/internal/config"
	"clipper/internal/history"
)

// MustOpenHistory opens the history store for cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.OpenForConfig(cfg)
	if err != nil {
		t.Fatalf("history.OpenForConfig: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
