// Package prefs provides storage for per-user display preferences.
//
// Preferences are keyed by (user_id, facility_id) and hold the sort and
// paging defaults applied to document listings when a request carries no
// explicit options. They replace what the legacy system kept in ambient
// session state.
package prefs

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/facilidocs/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the display_prefs collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new preference store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("display_prefs"),
	}
}

// Get returns the stored preference for (user, facility), or nil when the
// user has none saved yet.
func (s *Store) Get(ctx context.Context, userID, facilityID primitive.ObjectID) (*models.DisplayPreference, error) {
	var pref models.DisplayPreference
	err := s.c.FindOne(ctx, bson.M{
		"user_id":     userID,
		"facility_id": facilityID,
	}).Decode(&pref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

// SaveInput contains the preference fields to persist.
type SaveInput struct {
	SortBy    string
	SortOrder string
	PerPage   int
}

// Save upserts the preference for (user, facility).
func (s *Store) Save(ctx context.Context, userID, facilityID primitive.ObjectID, input SaveInput) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "facility_id": facilityID},
		bson.M{"$set": bson.M{
			"sort_by":    input.SortBy,
			"sort_order": input.SortOrder,
			"per_page":   input.PerPage,
			"updated_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Delete removes the stored preference for (user, facility).
func (s *Store) Delete(ctx context.Context, userID, facilityID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "facility_id": facilityID})
	return err
}
