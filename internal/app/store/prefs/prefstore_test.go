package prefs

import (
	"testing"

	"github.com/dalemusser/facilidocs/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_GetMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pref, err := store.Get(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if pref != nil {
		t.Errorf("Get() = %+v, want nil for unsaved preference", pref)
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	facilityID := primitive.NewObjectID()

	if err := store.Save(ctx, userID, facilityID, SaveInput{
		SortBy:    "date",
		SortOrder: "desc",
		PerPage:   50,
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	pref, err := store.Get(ctx, userID, facilityID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if pref == nil {
		t.Fatal("Get() = nil after Save()")
	}
	if pref.SortBy != "date" || pref.SortOrder != "desc" || pref.PerPage != 50 {
		t.Errorf("pref = %+v, want date/desc/50", pref)
	}

	// Save again: upsert, not duplicate.
	if err := store.Save(ctx, userID, facilityID, SaveInput{
		SortBy:    "size",
		SortOrder: "asc",
		PerPage:   10,
	}); err != nil {
		t.Fatalf("Save() second error = %v", err)
	}

	pref, err = store.Get(ctx, userID, facilityID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if pref.SortBy != "size" || pref.PerPage != 10 {
		t.Errorf("pref after resave = %+v, want size/asc/10", pref)
	}
}

func TestStore_ScopedByFacility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	facilityA := primitive.NewObjectID()
	facilityB := primitive.NewObjectID()

	store.Save(ctx, userID, facilityA, SaveInput{SortBy: "name", SortOrder: "asc", PerPage: 20})
	store.Save(ctx, userID, facilityB, SaveInput{SortBy: "date", SortOrder: "desc", PerPage: 100})

	prefA, err := store.Get(ctx, userID, facilityA)
	if err != nil {
		t.Fatalf("Get() A error = %v", err)
	}
	prefB, err := store.Get(ctx, userID, facilityB)
	if err != nil {
		t.Fatalf("Get() B error = %v", err)
	}
	if prefA == nil || prefB == nil {
		t.Fatal("expected a preference for each facility")
	}
	if prefA.SortBy != "name" || prefB.SortBy != "date" {
		t.Errorf("prefs not scoped by facility: A=%v B=%v", prefA.SortBy, prefB.SortBy)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	facilityID := primitive.NewObjectID()

	store.Save(ctx, userID, facilityID, SaveInput{SortBy: "name", SortOrder: "asc", PerPage: 20})

	if err := store.Delete(ctx, userID, facilityID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	pref, err := store.Get(ctx, userID, facilityID)
	if err != nil {
		t.Fatalf("Get() after delete error = %v", err)
	}
	if pref != nil {
		t.Errorf("Get() = %+v after delete, want nil", pref)
	}

	// Deleting an absent record is not an error.
	if err := store.Delete(ctx, userID, facilityID); err != nil {
		t.Errorf("Delete() of absent record error = %v", err)
	}
}
