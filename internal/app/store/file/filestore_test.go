package file

import (
	"testing"

	"github.com/dalemusser/facilidocs/internal/domain/models"
	"github.com/dalemusser/facilidocs/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	input := CreateInput{
		FacilityID:  primitive.NewObjectID(),
		Category:    models.CategoryContract,
		Name:        "Lease Agreement.pdf",
		StoragePath: "docs/contract/abc/2026/08/deadbeef.pdf",
		Size:        2048,
		ContentType: "application/pdf",
		Description: "Signed copy",
		CreatedByID: primitive.NewObjectID(),
	}

	file, err := store.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if file.ID.IsZero() {
		t.Error("ID should not be zero")
	}
	if file.Name != input.Name {
		t.Errorf("Name = %v, want %v", file.Name, input.Name)
	}
	if file.NameCI == "" {
		t.Error("Create() did not set NameCI")
	}
	if file.Size != 2048 {
		t.Errorf("Size = %v, want 2048", file.Size)
	}
	if file.FolderID != nil {
		t.Error("FolderID should be nil for a root-level file")
	}
}

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	created, _ := store.Create(ctx, CreateInput{
		FacilityID:  facilityID,
		Category:    models.CategoryContract,
		Name:        "doc.pdf",
		StoragePath: "docs/contract/x/doc.pdf",
		Size:        10,
		ContentType: "application/pdf",
		CreatedByID: primitive.NewObjectID(),
	})

	file, err := store.GetByID(ctx, facilityID, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if file.ID != created.ID {
		t.Errorf("ID = %v, want %v", file.ID, created.ID)
	}

	// Existing ID, wrong facility: indistinguishable from absent.
	_, err = store.GetByID(ctx, primitive.NewObjectID(), created.ID)
	if err != mongo.ErrNoDocuments {
		t.Errorf("GetByID() for wrong facility error = %v, want %v", err, mongo.ErrNoDocuments)
	}
}

func TestStore_UpdateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	created, _ := store.Create(ctx, CreateInput{
		FacilityID:  facilityID,
		Category:    models.CategoryContract,
		Name:        "old.pdf",
		StoragePath: "docs/contract/x/old.pdf",
		Size:        10,
		ContentType: "application/pdf",
		CreatedByID: primitive.NewObjectID(),
	})

	if err := store.UpdateName(ctx, created.ID, "New Name.pdf"); err != nil {
		t.Fatalf("UpdateName() error = %v", err)
	}

	updated, _ := store.GetByID(ctx, facilityID, created.ID)
	if updated.Name != "New Name.pdf" {
		t.Errorf("Name = %v, want 'New Name.pdf'", updated.Name)
	}
	if updated.NameCI == created.NameCI {
		t.Error("NameCI should change on rename")
	}
	// The object key never changes on rename.
	if updated.StoragePath != created.StoragePath {
		t.Errorf("StoragePath = %v, want %v", updated.StoragePath, created.StoragePath)
	}
}

func TestStore_SetFolder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	folderID := primitive.NewObjectID()
	created, _ := store.Create(ctx, CreateInput{
		FacilityID:  facilityID,
		Category:    models.CategoryContract,
		Name:        "moving.pdf",
		StoragePath: "docs/contract/x/moving.pdf",
		Size:        10,
		ContentType: "application/pdf",
		CreatedByID: primitive.NewObjectID(),
	})

	if err := store.SetFolder(ctx, created.ID, &folderID); err != nil {
		t.Fatalf("SetFolder() error = %v", err)
	}
	got, _ := store.GetByID(ctx, facilityID, created.ID)
	if got.FolderID == nil || *got.FolderID != folderID {
		t.Errorf("FolderID = %v, want %v", got.FolderID, folderID)
	}

	// Back to root: folder_id unset.
	if err := store.SetFolder(ctx, created.ID, nil); err != nil {
		t.Fatalf("SetFolder() to root error = %v", err)
	}
	got, _ = store.GetByID(ctx, facilityID, created.ID)
	if got.FolderID != nil {
		t.Errorf("FolderID = %v, want nil after move to root", got.FolderID)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	created, _ := store.Create(ctx, CreateInput{
		FacilityID:  facilityID,
		Category:    models.CategoryContract,
		Name:        "gone.pdf",
		StoragePath: "docs/contract/x/gone.pdf",
		Size:        10,
		ContentType: "application/pdf",
		CreatedByID: primitive.NewObjectID(),
	})

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err := store.GetByID(ctx, facilityID, created.ID)
	if err != mongo.ErrNoDocuments {
		t.Errorf("GetByID() after delete error = %v, want %v", err, mongo.ErrNoDocuments)
	}
}

func seedFiles(t *testing.T, store *Store, facilityID primitive.ObjectID) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creatorID := primitive.NewObjectID()
	specs := []struct {
		name        string
		size        int64
		contentType string
	}{
		{"charlie.pdf", 300, "application/pdf"},
		{"alpha.docx", 100, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"bravo.jpg", 200, "image/jpeg"},
	}
	for _, spec := range specs {
		if _, err := store.Create(ctx, CreateInput{
			FacilityID:  facilityID,
			Category:    models.CategoryMaintenanceInterior,
			Name:        spec.name,
			StoragePath: "docs/maintenance-interior/x/" + spec.name,
			Size:        spec.size,
			ContentType: spec.contentType,
			CreatedByID: creatorID,
		}); err != nil {
			t.Fatalf("seed Create() error = %v", err)
		}
	}
}

func TestStore_ListByFolder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	seedFiles(t, store, facilityID)

	files, err := store.ListByFolder(ctx, facilityID, models.CategoryMaintenanceInterior, nil, ListOptions{})
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("len(files) = %d, want 3", len(files))
	}
	// Default sort: name ascending
	if files[0].Name != "alpha.docx" || files[2].Name != "charlie.pdf" {
		t.Errorf("default sort wrong: %v, %v, %v", files[0].Name, files[1].Name, files[2].Name)
	}
}

func TestStore_ListByFolder_SortBySize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	seedFiles(t, store, facilityID)

	files, err := store.ListByFolder(ctx, facilityID, models.CategoryMaintenanceInterior, nil, ListOptions{
		SortBy:    "size",
		SortOrder: -1,
	})
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("len(files) = %d, want 3", len(files))
	}
	if files[0].Size != 300 || files[2].Size != 100 {
		t.Errorf("size sort wrong: %d, %d, %d", files[0].Size, files[1].Size, files[2].Size)
	}
}

func TestStore_ListByFolder_FilterByType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	seedFiles(t, store, facilityID)

	// Prefix match
	images, err := store.ListByFolder(ctx, facilityID, models.CategoryMaintenanceInterior, nil, ListOptions{
		ContentType: "image/",
	})
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}
	if len(images) != 1 || images[0].Name != "bravo.jpg" {
		t.Errorf("image filter: got %d files, want bravo.jpg only", len(images))
	}

	// Contains match with OR terms
	docs, err := store.ListByFolder(ctx, facilityID, models.CategoryMaintenanceInterior, nil, ListOptions{
		ContentType: "~pdf,wordprocessingml",
	})
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("contains filter: got %d files, want 2", len(docs))
	}
}

func TestStore_ListByFolder_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	seedFiles(t, store, facilityID)

	files, err := store.ListByFolder(ctx, facilityID, models.CategoryMaintenanceInterior, nil, ListOptions{
		Search: "ALPHA",
	})
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}
	if len(files) != 1 || files[0].Name != "alpha.docx" {
		t.Errorf("search: got %d files, want alpha.docx only", len(files))
	}
}

func TestStore_CountAndTotalSize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	seedFiles(t, store, facilityID)

	count, err := store.CountByFolder(ctx, facilityID, models.CategoryMaintenanceInterior, nil)
	if err != nil {
		t.Fatalf("CountByFolder() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	total, err := store.TotalSizeByFolder(ctx, facilityID, models.CategoryMaintenanceInterior, nil)
	if err != nil {
		t.Fatalf("TotalSizeByFolder() error = %v", err)
	}
	if total != 600 {
		t.Errorf("total = %d, want 600", total)
	}

	// Empty folder aggregates to zero, not an error.
	empty := primitive.NewObjectID()
	total, err = store.TotalSizeByFolder(ctx, facilityID, models.CategoryMaintenanceInterior, &empty)
	if err != nil {
		t.Fatalf("TotalSizeByFolder() empty error = %v", err)
	}
	if total != 0 {
		t.Errorf("total for empty folder = %d, want 0", total)
	}
}

func TestStore_NameExistsInFolder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facilityID := primitive.NewObjectID()
	created, _ := store.Create(ctx, CreateInput{
		FacilityID:  facilityID,
		Category:    models.CategoryContract,
		Name:        "Report.pdf",
		StoragePath: "docs/contract/x/report.pdf",
		Size:        10,
		ContentType: "application/pdf",
		CreatedByID: primitive.NewObjectID(),
	})

	exists, err := store.NameExistsInFolder(ctx, facilityID, models.CategoryContract, "report.PDF", nil, nil)
	if err != nil {
		t.Fatalf("NameExistsInFolder() error = %v", err)
	}
	if !exists {
		t.Error("NameExistsInFolder() = false, want true for case-variant name")
	}

	exists, err = store.NameExistsInFolder(ctx, facilityID, models.CategoryContract, "Report.pdf", nil, &created.ID)
	if err != nil {
		t.Fatalf("NameExistsInFolder() error = %v", err)
	}
	if exists {
		t.Error("NameExistsInFolder() = true when the only match is excluded")
	}
}
