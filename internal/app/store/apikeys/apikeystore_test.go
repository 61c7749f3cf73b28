package apikeystore_test

import (
	"strings"
	"testing"

	. "github.com/dalemusser/facilidocs/internal/app/store/apikeys"
	"github.com/dalemusser/facilidocs/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateKey(t *testing.T) {
	fullKey, prefix, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	if !strings.HasPrefix(fullKey, "fk_") {
		t.Errorf("fullKey = %v, want fk_ prefix", fullKey)
	}
	if len(prefix) != 11 || !strings.HasPrefix(fullKey, prefix) {
		t.Errorf("prefix = %v, want first 11 chars of key", prefix)
	}

	other, _, _ := GenerateKey()
	if other == fullKey {
		t.Error("GenerateKey() returned the same key twice")
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	result, err := store.Create(ctx, CreateInput{
		Name:        "backoffice-web",
		Description: "Back-office web frontend",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if result.FullKey == "" {
		t.Error("FullKey should be returned at creation")
	}
	if result.Key.Status != StatusActive {
		t.Errorf("Status = %v, want %v", result.Key.Status, StatusActive)
	}
	if result.Key.KeyHash == result.FullKey {
		t.Error("key must be stored hashed, not plaintext")
	}

	// Names are unique.
	_, err = store.Create(ctx, CreateInput{Name: "backoffice-web"})
	if err != ErrDuplicateName {
		t.Errorf("Create() duplicate name error = %v, want %v", err, ErrDuplicateName)
	}
}

func TestStore_Validate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	result, err := store.Create(ctx, CreateInput{Name: "validate-test"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	key, err := store.Validate(ctx, result.FullKey)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if key.ID != result.Key.ID {
		t.Errorf("Validate() returned key %v, want %v", key.ID, result.Key.ID)
	}

	// Wrong key with the right prefix fails.
	tampered := result.FullKey[:len(result.FullKey)-1] + "0"
	if tampered == result.FullKey {
		tampered = result.FullKey[:len(result.FullKey)-1] + "1"
	}
	if _, err := store.Validate(ctx, tampered); err != ErrInvalidKey {
		t.Errorf("Validate() tampered key error = %v, want %v", err, ErrInvalidKey)
	}

	// Too-short keys are rejected without a lookup.
	if _, err := store.Validate(ctx, "short"); err != ErrInvalidKey {
		t.Errorf("Validate() short key error = %v, want %v", err, ErrInvalidKey)
	}
}

func TestStore_Revoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	result, err := store.Create(ctx, CreateInput{Name: "revoke-test"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Revoke(ctx, result.Key.ID); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	// Revoked keys fail validation.
	if _, err := store.Validate(ctx, result.FullKey); err != ErrInvalidKey {
		t.Errorf("Validate() revoked key error = %v, want %v", err, ErrInvalidKey)
	}

	// Revoking twice or revoking an unknown key is ErrNotFound.
	if err := store.Revoke(ctx, result.Key.ID); err != ErrNotFound {
		t.Errorf("Revoke() second call error = %v, want %v", err, ErrNotFound)
	}
	if err := store.Revoke(ctx, primitive.NewObjectID()); err != ErrNotFound {
		t.Errorf("Revoke() unknown key error = %v, want %v", err, ErrNotFound)
	}
}

func TestStore_CountActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, CreateInput{Name: "key-a"})
	store.Create(ctx, CreateInput{Name: "key-b"})

	count, err := store.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive() error = %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	store.Revoke(ctx, a.Key.ID)

	count, err = store.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count after revoke = %d, want 1", count)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Create(ctx, CreateInput{Name: "first"})
	store.Create(ctx, CreateInput{Name: "second"})

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("len(keys) = %d, want 2", len(keys))
	}
}
