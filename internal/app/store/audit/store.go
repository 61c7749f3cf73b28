// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryDocument = "document"
	CategorySecurity = "security"
	CategoryAdmin    = "admin"
)

// Document event types
const (
	EventFolderCreated = "folder_created"
	EventFolderRenamed = "folder_renamed"
	EventFolderMoved   = "folder_moved"
	EventFolderDeleted = "folder_deleted"
	EventFolderDescribed = "folder_described"

	EventFileUploaded  = "file_uploaded"
	EventFileRenamed   = "file_renamed"
	EventFileMoved     = "file_moved"
	EventFileDeleted   = "file_deleted"
	EventFileDownload  = "file_downloaded"
	EventFileDescribed = "file_described"
)

// Security event types
const (
	EventDownloadDenied = "download_denied"
	EventUploadRejected = "upload_rejected"
)

// Admin event types
const (
	EventFacilityCreated = "facility_created"
	EventFacilityUpdated = "facility_updated"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who and where
	ActorID    *primitive.ObjectID `bson:"actor_id,omitempty"`
	FacilityID *primitive.ObjectID `bson:"facility_id,omitempty"`
	TargetID   *primitive.ObjectID `bson:"target_id,omitempty"` // folder or file acted on

	// Context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	ActorID    *primitive.ObjectID
	FacilityID *primitive.ObjectID
	Category   string
	EventType  string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int64
	Offset     int64
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log stores an audit event. CreatedAt is set here if the caller left it zero.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query returns audit events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	q := bson.M{}
	if filter.ActorID != nil {
		q["actor_id"] = *filter.ActorID
	}
	if filter.FacilityID != nil {
		q["facility_id"] = *filter.FacilityID
	}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	if filter.EventType != "" {
		q["event_type"] = filter.EventType
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		created := bson.M{}
		if filter.StartTime != nil {
			created["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			created["$lte"] = *filter.EndTime
		}
		q["created_at"] = created
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, q, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns the number of events matching the category/event type.
func (s *Store) Count(ctx context.Context, category, eventType string) (int64, error) {
	q := bson.M{}
	if category != "" {
		q["category"] = category
	}
	if eventType != "" {
		q["event_type"] = eventType
	}
	return s.c.CountDocuments(ctx, q)
}
