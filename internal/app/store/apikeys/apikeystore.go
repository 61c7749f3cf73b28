// internal/app/store/apikeys/apikeystore.go
package apikeystore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// APIKey represents an API key issued to a calling service (the back-office
// presentation layer, batch exporters, etc.).
type APIKey struct {
	ID          primitive.ObjectID `bson:"_id"`
	KeyHash     string             `bson:"key_hash"`   // bcrypt hash of the key
	KeyPrefix   string             `bson:"key_prefix"` // First chars for display and lookup
	Name        string             `bson:"name"`       // "backoffice-web", "report-batch"
	Description string             `bson:"description,omitempty"`
	Status      string             `bson:"status"` // "active", "revoked"
	LastUsedAt  *time.Time         `bson:"last_used_at,omitempty"`
	UsageCount  int64              `bson:"usage_count"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
	RevokedAt   *time.Time         `bson:"revoked_at,omitempty"`
}

// Status constants for API keys.
const (
	StatusActive  = "active"
	StatusRevoked = "revoked"
)

var (
	// ErrNotFound is returned when an API key is not found.
	ErrNotFound = errors.New("api key not found")
	// ErrInvalidKey is returned when an API key is invalid or does not match.
	ErrInvalidKey = errors.New("invalid api key")
	// ErrDuplicateName is returned when a key with the same name exists.
	ErrDuplicateName = errors.New("an api key with this name already exists")
)

// Store provides API key persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a new API key store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("api_keys")}
}

// GenerateKey generates a new cryptographically secure API key.
// Returns the full key (to show once to the operator) and its display prefix.
func GenerateKey() (fullKey, prefix string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", err
	}

	fullKey = "fk_" + hex.EncodeToString(bytes)
	prefix = fullKey[:11] // "fk_" + 8 chars
	return fullKey, prefix, nil
}

// hashKey creates a bcrypt hash of the API key.
func hashKey(key string) (string, error) {
	// Moderate cost since key verification happens on every request
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateInput holds the fields for creating a new API key.
type CreateInput struct {
	Name        string
	Description string
}

// CreateResult contains the created key record and the full key value.
type CreateResult struct {
	Key     APIKey
	FullKey string // Full key value - only available at creation time
}

// Create creates a new API key and returns the full key value (shown once).
func (s *Store) Create(ctx context.Context, input CreateInput) (CreateResult, error) {
	fullKey, prefix, err := GenerateKey()
	if err != nil {
		return CreateResult{}, err
	}

	keyHash, err := hashKey(fullKey)
	if err != nil {
		return CreateResult{}, err
	}

	now := time.Now().UTC()
	key := APIKey{
		ID:          primitive.NewObjectID(),
		KeyHash:     keyHash,
		KeyPrefix:   prefix,
		Name:        input.Name,
		Description: input.Description,
		Status:      StatusActive,
		UsageCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.c.InsertOne(ctx, key); err != nil {
		if isDuplicateKeyError(err) {
			return CreateResult{}, ErrDuplicateName
		}
		return CreateResult{}, err
	}

	return CreateResult{
		Key:     key,
		FullKey: fullKey,
	}, nil
}

// isDuplicateKeyError checks if the error is a duplicate key error.
func isDuplicateKeyError(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}

// Validate checks if the provided key is valid and returns the APIKey record.
// It also bumps last_used_at and usage_count (best effort).
func (s *Store) Validate(ctx context.Context, providedKey string) (*APIKey, error) {
	// Prefix lookup keeps the bcrypt comparisons to a handful of candidates.
	if len(providedKey) < 11 {
		return nil, ErrInvalidKey
	}
	prefix := providedKey[:11]

	cur, err := s.c.Find(ctx, bson.M{
		"key_prefix": prefix,
		"status":     StatusActive,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var matchedKey *APIKey
	for cur.Next(ctx) {
		var key APIKey
		if err := cur.Decode(&key); err != nil {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(providedKey)); err == nil {
			matchedKey = &key
			break
		}
	}

	if matchedKey == nil {
		return nil, ErrInvalidKey
	}

	now := time.Now().UTC()
	_, _ = s.c.UpdateOne(ctx, bson.M{"_id": matchedKey.ID}, bson.M{
		"$set": bson.M{"last_used_at": now, "updated_at": now},
		"$inc": bson.M{"usage_count": 1},
	})

	return matchedKey, nil
}

// Revoke marks a key as revoked. Revoked keys fail validation.
func (s *Store) Revoke(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": StatusActive},
		bson.M{"$set": bson.M{
			"status":     StatusRevoked,
			"revoked_at": now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all keys, newest first. Key hashes are included; callers
// must not expose them.
func (s *Store) List(ctx context.Context) ([]APIKey, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var keys []APIKey
	if err := cur.All(ctx, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// CountActive returns the number of active keys.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": StatusActive})
}
