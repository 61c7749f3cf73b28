// Package folder provides storage for document folders.
package folder

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/facilidocs/internal/app/store/storeutil"
	"github.com/dalemusser/facilidocs/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the doc_folders collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new folder store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("doc_folders"),
	}
}

// CreateInput contains the input for creating a folder.
type CreateInput struct {
	FacilityID  primitive.ObjectID
	Category    models.Category
	Name        string
	Path        string
	ParentID    *primitive.ObjectID
	Description string
	CreatedByID primitive.ObjectID
}

// Create creates a new folder.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Folder, error) {
	now := time.Now().UTC()
	folder := models.Folder{
		ID:          primitive.NewObjectID(),
		FacilityID:  input.FacilityID,
		Category:    input.Category,
		Name:        input.Name,
		NameCI:      text.Fold(input.Name),
		Path:        input.Path,
		ParentID:    input.ParentID,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedByID: input.CreatedByID,
	}

	if _, err := s.c.InsertOne(ctx, folder); err != nil {
		return nil, err
	}

	return &folder, nil
}

// GetByID retrieves a folder by ID, scoped to a facility. A folder that
// exists but belongs to a different facility decodes to mongo.ErrNoDocuments,
// so callers cannot distinguish "absent" from "not yours".
func (s *Store) GetByID(ctx context.Context, facilityID, id primitive.ObjectID) (*models.Folder, error) {
	var folder models.Folder
	filter := bson.M{"_id": id, "facility_id": facilityID}
	if err := s.c.FindOne(ctx, filter).Decode(&folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// UpdateNameAndPath updates a folder's name and materialized path, typically
// after a rename. Descendant paths are rewritten separately via
// RewritePathPrefix.
func (s *Store) UpdateNameAndPath(ctx context.Context, id primitive.ObjectID, name, path string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"path":       path,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetParentAndPath re-parents a folder and writes its new materialized path.
// Pass nil parentID to move the folder to the root of its category tree.
func (s *Store) SetParentAndPath(ctx context.Context, id primitive.ObjectID, parentID *primitive.ObjectID, path string) error {
	set := bson.M{
		"path":       path,
		"updated_at": time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if parentID != nil {
		set["parent_id"] = *parentID
	} else {
		update["$unset"] = bson.M{"parent_id": ""}
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// UpdateDescription updates only the description.
func (s *Store) UpdateDescription(ctx context.Context, id primitive.ObjectID, description string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"description": description,
		"updated_at":  time.Now().UTC(),
	}})
	return err
}

// Delete deletes a folder record. Emptiness checks are the caller's job.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListOptions contains options for listing folders.
type ListOptions struct {
	SortBy    string // "name", "date" ("created_at"), "updated_at"
	SortOrder int    // 1 = asc, -1 = desc
	Search    string // Filter by folder name (case-insensitive substring)
	Page      int64  // 1-based page; 0 = no pagination
	PerPage   int64  // clamped to storeutil.MaxPerPage
}

func sortSpec(opts ListOptions) bson.D {
	sortField := "name_ci"
	switch opts.SortBy {
	case "created_at", "date":
		sortField = "created_at"
	case "updated_at":
		sortField = "updated_at"
	}
	sortOrder := 1
	if opts.SortOrder != 0 {
		sortOrder = opts.SortOrder
	}
	return bson.D{{Key: sortField, Value: sortOrder}}
}

// ListByParent returns the folders under a parent within one facility and
// category tree. Pass nil for parentID to list root folders.
func (s *Store) ListByParent(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, parentID *primitive.ObjectID, opts ListOptions) ([]models.Folder, error) {
	filter := bson.M{
		"facility_id": facilityID,
		"category":    cat,
		"parent_id":   parentID,
	}
	if opts.Search != "" {
		filter["name_ci"] = bson.M{"$regex": regexp.QuoteMeta(text.Fold(opts.Search))}
	}

	findOpts := options.Find().SetSort(sortSpec(opts))
	if opts.Page > 0 {
		findOpts = storeutil.Paginate(opts.PerPage, opts.Page).SetSort(sortSpec(opts))
	}

	cursor, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}

	return folders, nil
}

// CountByParent returns the number of folders directly under a parent.
func (s *Store) CountByParent(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, parentID *primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"facility_id": facilityID,
		"category":    cat,
		"parent_id":   parentID,
	})
}

// HasChildren reports whether a folder has any direct subfolder.
func (s *Store) HasChildren(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"parent_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetAncestors returns all ancestors of a folder, ordered from root to
// immediate parent.
func (s *Store) GetAncestors(ctx context.Context, facilityID, id primitive.ObjectID) ([]models.Folder, error) {
	folder, err := s.GetByID(ctx, facilityID, id)
	if err != nil {
		return nil, err
	}

	var ancestors []models.Folder

	currentParentID := folder.ParentID
	for currentParentID != nil {
		parent, err := s.GetByID(ctx, facilityID, *currentParentID)
		if err != nil {
			return nil, err
		}
		// Prepend to get root-first order
		ancestors = append([]models.Folder{*parent}, ancestors...)
		currentParentID = parent.ParentID
	}

	return ancestors, nil
}

// GetBreadcrumb returns the full chain of a folder (ancestors + the folder
// itself), root first.
func (s *Store) GetBreadcrumb(ctx context.Context, facilityID, id primitive.ObjectID) ([]models.Folder, error) {
	folder, err := s.GetByID(ctx, facilityID, id)
	if err != nil {
		return nil, err
	}

	ancestors, err := s.GetAncestors(ctx, facilityID, id)
	if err != nil {
		return nil, err
	}

	return append(ancestors, *folder), nil
}

// ListByPathPrefix returns every folder in a facility+category tree whose
// materialized path starts with prefix + "/". The folder owning the prefix
// itself is not included.
func (s *Store) ListByPathPrefix(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, prefix string) ([]models.Folder, error) {
	filter := bson.M{
		"facility_id": facilityID,
		"category":    cat,
		"path":        bson.M{"$regex": "^" + regexp.QuoteMeta(prefix+"/")},
	}

	cursor, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// RewritePathPrefix replaces the oldPrefix portion of every descendant path
// with newPrefix. Each descendant is updated individually; a failure aborts
// the sweep and leaves the remaining descendants stale (the caller logs the
// inconsistency, there is no automatic retry).
func (s *Store) RewritePathPrefix(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, oldPrefix, newPrefix string) (int64, error) {
	descendants, err := s.ListByPathPrefix(ctx, facilityID, cat, oldPrefix)
	if err != nil {
		return 0, err
	}

	var updated int64
	now := time.Now().UTC()
	for _, d := range descendants {
		newPath := newPrefix + strings.TrimPrefix(d.Path, oldPrefix)
		_, err := s.c.UpdateOne(ctx, bson.M{"_id": d.ID}, bson.M{"$set": bson.M{
			"path":       newPath,
			"updated_at": now,
		}})
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// NameExistsInParent checks if a folder with the given name exists in the
// parent. Sibling name collisions are allowed by the data model; this exists
// so callers can warn, not to enforce uniqueness.
func (s *Store) NameExistsInParent(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, name string, parentID *primitive.ObjectID, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"facility_id": facilityID,
		"category":    cat,
		"parent_id":   parentID,
		"name_ci":     text.Fold(name),
	}

	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}

	count, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
