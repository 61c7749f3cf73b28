// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureFacilities(ctx, db); err != nil {
		problems = append(problems, "facilities: "+err.Error())
	}
	if err := ensureDocFolders(ctx, db); err != nil {
		problems = append(problems, "doc_folders: "+err.Error())
	}
	if err := ensureDocFiles(ctx, db); err != nil {
		problems = append(problems, "doc_files: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}
	if err := ensureDisplayPrefs(ctx, db); err != nil {
		problems = append(problems, "display_prefs: "+err.Error())
	}
	if err := ensureAPIKeys(ctx, db); err != nil {
		problems = append(problems, "api_keys: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			defer cur.Close(ctx)
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// Names aligned (or we don't care) → reuse
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Bool("unique", ex.Unique != nil && *ex.Unique),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Warn("index ensure failed (options conflict)",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}

			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureFacilities(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("facilities")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Unique business code (optional field, so sparse)
		{
			Keys: bson.D{
				{Key: "code", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_facility_code"),
		},
		// Facility list: status + name sort
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_facility_status_nameci"),
		},
	})
}

// Note: there is deliberately no unique index on (parent_id, name_ci).
// Sibling folders and files may share a name; uniqueness is advisory only.
func ensureDocFolders(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("doc_folders")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// List folders by parent within a facility tree, sorted by name
		{
			Keys: bson.D{
				{Key: "facility_id", Value: 1},
				{Key: "category", Value: 1},
				{Key: "parent_id", Value: 1},
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_folder_tree_parent_nameci"),
		},
		// List folders by parent, sorted by date
		{
			Keys: bson.D{
				{Key: "facility_id", Value: 1},
				{Key: "category", Value: 1},
				{Key: "parent_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_folder_tree_parent_created"),
		},
		// Descendant sweeps: anchored prefix scans over materialized paths
		{
			Keys: bson.D{
				{Key: "facility_id", Value: 1},
				{Key: "category", Value: 1},
				{Key: "path", Value: 1},
			},
			Options: options.Index().SetName("idx_folder_tree_path"),
		},
	})
}

func ensureDocFiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("doc_files")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// List files by folder within a facility tree, sorted by name
		{
			Keys: bson.D{
				{Key: "facility_id", Value: 1},
				{Key: "category", Value: 1},
				{Key: "folder_id", Value: 1},
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_file_tree_folder_nameci"),
		},
		// List files by folder, sorted by date
		{
			Keys: bson.D{
				{Key: "facility_id", Value: 1},
				{Key: "category", Value: 1},
				{Key: "folder_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_file_tree_folder_created"),
		},
		// Filter files by content type
		{
			Keys: bson.D{
				{Key: "content_type", Value: 1},
			},
			Options: options.Index().SetName("idx_file_content_type"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Time-based queries (most common)
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_created"),
		},
		// Category + time queries
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_created"),
		},
		// Actor-specific audit trail
		{
			Keys: bson.D{
				{Key: "actor_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_actor_created"),
		},
		// Facility-specific audit trail
		{
			Keys: bson.D{
				{Key: "facility_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_facility_created"),
		},
	})
}

func ensureDisplayPrefs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("display_prefs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One preference record per user per facility
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "facility_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_prefs_user_facility"),
		},
	})
}

func ensureAPIKeys(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("api_keys")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Unique name per API key
		{
			Keys: bson.D{
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_apikey_name"),
		},
		// Lookup by key prefix for validation
		{
			Keys: bson.D{
				{Key: "key_prefix", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_apikey_prefix_status"),
		},
		// List by status and creation date
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_apikey_status_created"),
		},
	})
}
