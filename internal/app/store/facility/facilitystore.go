// Package facility provides storage for facility records.
package facility

import (
	"context"
	"regexp"
	"time"

	"github.com/dalemusser/facilidocs/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the facilities collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new facility store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("facilities"),
	}
}

// CreateInput contains the input for registering a facility.
type CreateInput struct {
	Name    string
	Code    string
	Address string
}

// Create registers a new facility.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Facility, error) {
	now := time.Now().UTC()
	facility := models.Facility{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		NameCI:    text.Fold(input.Name),
		Code:      input.Code,
		Address:   input.Address,
		Status:    models.FacilityStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, facility); err != nil {
		return nil, err
	}

	return &facility, nil
}

// GetByID retrieves a facility by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Facility, error) {
	var facility models.Facility
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&facility); err != nil {
		return nil, err
	}
	return &facility, nil
}

// UpdateInput contains the input for updating a facility.
type UpdateInput struct {
	Name    *string
	Address *string
	Status  *string
}

// Update updates a facility.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{"updated_at": time.Now().UTC()}

	if input.Name != nil {
		set["name"] = *input.Name
		set["name_ci"] = text.Fold(*input.Name)
	}
	if input.Address != nil {
		set["address"] = *input.Address
	}
	if input.Status != nil {
		set["status"] = *input.Status
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// ListOptions contains options for listing facilities.
type ListOptions struct {
	Status string // Filter by status ("" = all)
	Search string // Filter by name (case-insensitive substring)
	Page   int64
	PerPage int64
}

// List returns facilities sorted by name.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]models.Facility, error) {
	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}
	if opts.Search != "" {
		filter["name_ci"] = bson.M{"$regex": regexp.QuoteMeta(text.Fold(opts.Search))}
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	if opts.Page > 0 {
		perPage := opts.PerPage
		if perPage <= 0 {
			perPage = 20
		}
		findOpts.SetSkip((opts.Page - 1) * perPage).SetLimit(perPage)
	}

	cursor, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var facilities []models.Facility
	if err := cursor.All(ctx, &facilities); err != nil {
		return nil, err
	}

	return facilities, nil
}

// CodeExists checks if a facility with the given business code is already
// registered.
func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
