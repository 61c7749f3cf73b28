// Package file provides storage for document file metadata.
package file

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

// Store provides access to the doc_files collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new file store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("doc_files"),
	}
}

// CreateInput contains the input for creating a file record.
type CreateInput struct {
	FacilityID  primitive.ObjectID
	Category    models.Category
	FolderID    *primitive.ObjectID
	Name        string
	StoragePath string
	Size        int64
	ContentType string
	Description string
	CreatedByID primitive.ObjectID
}

// Create creates a new file record.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.File, error) {
	now := time.Now().UTC()
	file := models.File{
		ID:          primitive.NewObjectID(),
		FacilityID:  input.FacilityID,
		Category:    input.Category,
		FolderID:    input.FolderID,
		Name:        input.Name,
		NameCI:      text.Fold(input.Name),
		StoragePath: input.StoragePath,
		Size:        input.Size,
		ContentType: input.ContentType,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedByID: input.CreatedByID,
	}

	if _, err := s.c.InsertOne(ctx, file); err != nil {
		return nil, err
	}

	return &file, nil
}

// GetByID retrieves a file by ID, scoped to a facility. A valid ID owned by
// another facility is mongo.ErrNoDocuments.
func (s *Store) GetByID(ctx context.Context, facilityID, id primitive.ObjectID) (*models.File, error) {
	var file models.File
	filter := bson.M{"_id": id, "facility_id": facilityID}
	if err := s.c.FindOne(ctx, filter).Decode(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// UpdateName updates the original filename only; the stored object and its
// key are untouched.
func (s *Store) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"updated_at": time.Now().UTC(),
	}})
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

// SetFolder moves a file to another folder. Pass nil to move it to the root.
func (s *Store) SetFolder(ctx context.Context, id primitive.ObjectID, folderID *primitive.ObjectID) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	update := bson.M{"$set": set}
	if folderID != nil {
		set["folder_id"] = *folderID
	} else {
		update["$unset"] = bson.M{"folder_id": ""}
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Delete deletes a file record.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ListOptions contains options for listing files.
type ListOptions struct {
	SortBy      string // "name", "date" ("created_at"), "size"
	SortOrder   int    // 1 = asc, -1 = desc
	ContentType string // Filter by MIME type: prefix match (e.g., "image/") or contains match with ~ prefix (e.g., "~word,document")
	Search      string // Filter by filename
	Page        int64  // 1-based page; 0 = no pagination
	PerPage     int64 // clamped to storeutil.MaxPerPage
}

func sortSpec(opts ListOptions) bson.D {
	sortField := "name_ci"
	switch opts.SortBy {
	case "created_at", "date":
		sortField = "created_at"
	case "size":
		sortField = "size"
	}
	sortOrder := 1
	if opts.SortOrder != 0 {
		sortOrder = opts.SortOrder
	}
	return bson.D{{Key: sortField, Value: sortOrder}}
}

// ListByFolder returns the files within a folder of one facility+category
// tree. Pass nil for folderID to list root-level files.
func (s *Store) ListByFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, folderID *primitive.ObjectID, opts ListOptions) ([]models.File, error) {
	filter := bson.M{
		"facility_id": facilityID,
		"category":    cat,
		"folder_id":   folderID,
	}

	if opts.ContentType != "" {
		if strings.HasPrefix(opts.ContentType, "~") {
			// Contains matching: ~word,document means contains "word" OR "document"
			terms := strings.Split(opts.ContentType[1:], ",")
			var orConditions []bson.M
			for _, term := range terms {
				term = strings.TrimSpace(term)
				if term == "" {
					continue
				}
				orConditions = append(orConditions, bson.M{
					"content_type": bson.M{"$regex": regexp.QuoteMeta(term)},
				})
			}
			if len(orConditions) > 0 {
				filter["$or"] = orConditions
			}
		} else {
			filter["content_type"] = bson.M{"$regex": "^" + regexp.QuoteMeta(opts.ContentType)}
		}
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

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}

	return files, nil
}

// CountByFolder returns the number of files directly inside a folder.
func (s *Store) CountByFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, folderID *primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"facility_id": facilityID,
		"category":    cat,
		"folder_id":   folderID,
	})
}

// TotalSizeByFolder returns the combined byte size of the files directly
// inside a folder.
func (s *Store) TotalSizeByFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, folderID *primitive.ObjectID) (int64, error) {
	match := bson.M{
		"facility_id": facilityID,
		"category":    cat,
		"folder_id":   folderID,
	}

	cursor, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$size"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// NameExistsInFolder checks if a file with the given name exists in a folder.
// Sibling name collisions are allowed by the data model; this exists so
// callers can warn, not to enforce uniqueness.
func (s *Store) NameExistsInFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, name string, folderID *primitive.ObjectID, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"facility_id": facilityID,
		"category":    cat,
		"folder_id":   folderID,
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
