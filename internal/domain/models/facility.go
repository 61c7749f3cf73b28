package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Facility statuses.
const (
	FacilityStatusActive   = "active"
	FacilityStatusInactive = "inactive"
)

// Facility is a physical site managed by the back office. It is the
// ownership root for every folder and file in the document trees.
type Facility struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	NameCI    string             `bson:"name_ci"` // Case-insensitive for sorting/search
	Code      string             `bson:"code"`    // Short business identifier, e.g. "FAC-042"
	Address   string             `bson:"address,omitempty"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}
