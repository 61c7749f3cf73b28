package testutil

import (
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
)

// SetupTestStorage returns a local object store rooted in a per-test
// temporary directory. The directory is removed when the test completes.
func SetupTestStorage(t *testing.T) storage.Store {
	t.Helper()

	store, err := storage.NewLocal(storage.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/objects",
	})
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	return store
}
