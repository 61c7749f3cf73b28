package docs

import (
	"context"

	"github.com/dalemusser/facilidocs/internal/domain/models"
	"go.uber.org/zap"
)

// ComputePath builds the materialized path for a folder name under a parent.
// Root folders: path == name. Otherwise parent.path + "/" + name.
func ComputePath(name string, parent *models.Folder) string {
	if parent == nil {
		return name
	}
	return parent.Path + "/" + name
}

// rewriteDescendantPaths replaces the oldPath prefix with newPath in every
// descendant of a folder, one update per document. The sweep is not
// transactional: a failure part-way leaves the remaining descendants with
// stale paths, which is logged and surfaced to the caller without retry.
func (s *Service) rewriteDescendantPaths(ctx context.Context, folder *models.Folder, oldPath, newPath string) error {
	if oldPath == newPath {
		return nil
	}

	updated, err := s.folders.RewritePathPrefix(ctx, folder.FacilityID, folder.Category, oldPath, newPath)
	if err != nil {
		s.logger.Error("descendant path rewrite aborted mid-sweep",
			zap.String("facility_id", folder.FacilityID.Hex()),
			zap.String("folder_id", folder.ID.Hex()),
			zap.String("old_path", oldPath),
			zap.String("new_path", newPath),
			zap.Int64("rewritten_before_failure", updated),
			zap.Error(err))
		return err
	}

	if updated > 0 {
		s.logger.Debug("descendant paths rewritten",
			zap.String("folder_id", folder.ID.Hex()),
			zap.String("old_path", oldPath),
			zap.String("new_path", newPath),
			zap.Int64("count", updated))
	}
	return nil
}
