package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DisplayPreference stores how a user last viewed a facility's document
// listing. Keyed by (user_id, facility_id); applied as defaults when a
// listing request carries no explicit sort/paging parameters.
type DisplayPreference struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id"`
	FacilityID primitive.ObjectID `bson:"facility_id"`
	SortBy     string             `bson:"sort_by"`    // "name", "date", "size"
	SortOrder  string             `bson:"sort_order"` // "asc", "desc"
	PerPage    int                `bson:"per_page"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}
