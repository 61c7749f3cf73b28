package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File represents a document file stored for a facility.
//
// Name holds the original upload filename; StoragePath is the key of the
// physical object in the storage backend. Size and ContentType are recorded
// at upload time and re-verified against the physical object on download.
type File struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	FacilityID  primitive.ObjectID  `bson:"facility_id"`
	Category    Category            `bson:"category"`
	FolderID    *primitive.ObjectID `bson:"folder_id,omitempty"` // nil = root level
	Name        string              `bson:"name"`
	NameCI      string              `bson:"name_ci"` // Case-insensitive for sorting/search
	StoragePath string              `bson:"storage_path"`
	Size        int64               `bson:"size"`
	ContentType string              `bson:"content_type"`
	Description string              `bson:"description,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
	CreatedByID primitive.ObjectID  `bson:"created_by_id"`
}

// IsInRoot returns true if the file is at the root level (not in any folder).
func (f *File) IsInRoot() bool {
	return f.FolderID == nil
}
