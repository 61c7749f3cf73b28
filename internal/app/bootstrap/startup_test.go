package bootstrap

import (
	"testing"

	"go.uber.org/zap"

	apikeystore "github.com/dalemusser/facilidocs/internal/app/store/apikeys"
	facilitystore "github.com/dalemusser/facilidocs/internal/app/store/facility"
	"github.com/dalemusser/facilidocs/internal/testutil"
)

func TestEnsureSeedFacility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoDatabase: db}
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureSeedFacility(ctx, deps, "Head Office", "HQ-001", zap.NewNop()); err != nil {
		t.Fatalf("ensureSeedFacility() error = %v", err)
	}

	store := facilitystore.New(db)
	facilities, err := store.List(ctx, facilitystore.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(facilities) != 1 {
		t.Fatalf("len(facilities) = %d, want 1", len(facilities))
	}
	if facilities[0].Name != "Head Office" || facilities[0].Code != "HQ-001" {
		t.Errorf("seeded facility = %s/%s, want Head Office/HQ-001", facilities[0].Name, facilities[0].Code)
	}

	// A second run with the same code is a no-op.
	if err := ensureSeedFacility(ctx, deps, "Head Office", "HQ-001", zap.NewNop()); err != nil {
		t.Fatalf("ensureSeedFacility() second run error = %v", err)
	}
	facilities, err = store.List(ctx, facilitystore.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(facilities) != 1 {
		t.Errorf("len(facilities) after rerun = %d, want 1", len(facilities))
	}
}

func TestEnsureBootstrapAPIKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoDatabase: db}
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureBootstrapAPIKey(ctx, deps, "bootstrap", zap.NewNop()); err != nil {
		t.Fatalf("ensureBootstrapAPIKey() error = %v", err)
	}

	store := apikeystore.New(db)
	active, err := store.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive() error = %v", err)
	}
	if active != 1 {
		t.Fatalf("active keys = %d, want 1", active)
	}

	// An active key already present skips the bootstrap key.
	if err := ensureBootstrapAPIKey(ctx, deps, "bootstrap", zap.NewNop()); err != nil {
		t.Fatalf("ensureBootstrapAPIKey() second run error = %v", err)
	}
	active, err = store.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive() error = %v", err)
	}
	if active != 1 {
		t.Errorf("active keys after rerun = %d, want 1", active)
	}
}
