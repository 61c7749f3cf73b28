package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder represents a folder node in a facility's document tree.
//
// Folders are partitioned by facility and category: a folder's parent must
// belong to the same facility and carry the same category tag. Path is the
// materialized slash-delimited chain of ancestor names ending in this
// folder's own name ("Inspections/2024"); root folders have Path == Name.
type Folder struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	FacilityID  primitive.ObjectID  `bson:"facility_id"`
	Category    Category            `bson:"category"`
	ParentID    *primitive.ObjectID `bson:"parent_id,omitempty"` // nil = root folder
	Name        string              `bson:"name"`
	NameCI      string              `bson:"name_ci"` // Case-insensitive for sorting/search
	Path        string              `bson:"path"`
	Description string              `bson:"description,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
	CreatedByID primitive.ObjectID  `bson:"created_by_id"`
}

// IsRoot returns true if the folder is at the root of its category tree.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
