// Package docs implements the document tree service: folder and file CRUD
// scoped by facility and category, materialized-path maintenance, upload
// validation, and the download gateway.
//
// The service is the only writer of the doc_folders and doc_files
// collections. Handlers never touch the stores directly.
package docs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/facilidocs/internal/app/store/file"
	"github.com/dalemusser/facilidocs/internal/app/store/folder"
	"github.com/dalemusser/facilidocs/internal/app/store/storeutil"
	"github.com/dalemusser/facilidocs/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service orchestrates folder and file operations for facility document
// trees.
type Service struct {
	folders *folder.Store
	files   *file.Store
	objects storage.Store
	logger  *zap.Logger
}

// NewService creates a document Service.
func NewService(db *mongo.Database, objects storage.Store, logger *zap.Logger) *Service {
	return &Service{
		folders: folder.New(db),
		files:   file.New(db),
		objects: objects,
		logger:  logger,
	}
}

// ListOptions carries the listing controls accepted by FolderContents.
type ListOptions struct {
	SortBy        string // "name", "date", "size" (size applies to files only)
	SortDirection string // "asc" (default) or "desc"
	FilterType    string // content-type filter for files
	Search        string
	Page          int64 // 1-based; 0 lists everything
	PerPage       int64 // clamped to storeutil.MaxPerPage
}

func (o ListOptions) sortOrder() int {
	if strings.EqualFold(o.SortDirection, "desc") {
		return -1
	}
	return 1
}

// Stats aggregates the direct contents of a folder.
type Stats struct {
	FolderCount int64
	FileCount   int64
	TotalSize   int64
}

// Contents is the result of a folder listing.
type Contents struct {
	Folder      *models.Folder // nil at category root
	Breadcrumbs []models.Folder
	Folders     []models.Folder
	Files       []models.File
	Stats       Stats
	Page        int64
	PerPage     int64
}

// FolderContents returns the child folders and files of a folder (nil
// folderID = category root), the breadcrumb chain, and aggregate stats.
// A folderID owned by another facility is ErrNotFound.
func (s *Service) FolderContents(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, folderID *primitive.ObjectID, opts ListOptions) (*Contents, error) {
	if _, ok := LookupCategory(cat); !ok {
		return nil, ErrUnknownCategory
	}

	var current *models.Folder
	var breadcrumbs []models.Folder
	if folderID != nil {
		f, err := s.folders.GetByID(ctx, facilityID, *folderID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		if f.Category != cat {
			return nil, ErrNotFound
		}
		current = f

		breadcrumbs, err = s.folders.GetBreadcrumb(ctx, facilityID, *folderID)
		if err != nil {
			return nil, notFoundOr(err)
		}
	}

	perPage := int64(0)
	page := opts.Page
	if page > 0 {
		perPage = storeutil.ClampPerPage(opts.PerPage)
	}

	folders, err := s.folders.ListByParent(ctx, facilityID, cat, folderID, folder.ListOptions{
		SortBy:    opts.SortBy,
		SortOrder: opts.sortOrder(),
		Search:    opts.Search,
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		return nil, err
	}

	files, err := s.files.ListByFolder(ctx, facilityID, cat, folderID, file.ListOptions{
		SortBy:      opts.SortBy,
		SortOrder:   opts.sortOrder(),
		ContentType: opts.FilterType,
		Search:      opts.Search,
		Page:        page,
		PerPage:     perPage,
	})
	if err != nil {
		return nil, err
	}

	folderCount, err := s.folders.CountByParent(ctx, facilityID, cat, folderID)
	if err != nil {
		return nil, err
	}
	fileCount, err := s.files.CountByFolder(ctx, facilityID, cat, folderID)
	if err != nil {
		return nil, err
	}
	totalSize, err := s.files.TotalSizeByFolder(ctx, facilityID, cat, folderID)
	if err != nil {
		return nil, err
	}

	return &Contents{
		Folder:      current,
		Breadcrumbs: breadcrumbs,
		Folders:     folders,
		Files:       files,
		Stats: Stats{
			FolderCount: folderCount,
			FileCount:   fileCount,
			TotalSize:   totalSize,
		},
		Page:    page,
		PerPage: perPage,
	}, nil
}

// CreateFolder validates the name, computes the materialized path from the
// parent chain, and persists a new folder. A parent owned by another
// facility or carrying a different category is ErrNotFound.
func (s *Service) CreateFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, parentID *primitive.ObjectID, name, description string, actorID primitive.ObjectID) (*models.Folder, error) {
	if _, ok := LookupCategory(cat); !ok {
		return nil, ErrUnknownCategory
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	var parent *models.Folder
	if parentID != nil {
		p, err := s.folders.GetByID(ctx, facilityID, *parentID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		if p.Category != cat {
			return nil, ErrNotFound
		}
		parent = p
	}

	created, err := s.folders.Create(ctx, folder.CreateInput{
		FacilityID:  facilityID,
		Category:    cat,
		Name:        name,
		Path:        ComputePath(name, parent),
		ParentID:    parentID,
		Description: description,
		CreatedByID: actorID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		zap.String("facility_id", facilityID.Hex()),
		zap.String("category", cat.String()),
		zap.String("folder_id", created.ID.Hex()),
		zap.String("path", created.Path))
	return created, nil
}

// RenameFolder updates a folder's name and path and rewrites every
// descendant path.
func (s *Service) RenameFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID, newName string, actorID primitive.ObjectID) (*models.Folder, error) {
	newName = strings.TrimSpace(newName)
	if err := validateName(newName); err != nil {
		return nil, err
	}

	f, err := s.getFolder(ctx, facilityID, cat, id)
	if err != nil {
		return nil, err
	}

	var parent *models.Folder
	if f.ParentID != nil {
		parent, err = s.folders.GetByID(ctx, facilityID, *f.ParentID)
		if err != nil {
			return nil, notFoundOr(err)
		}
	}

	oldPath := f.Path
	newPath := ComputePath(newName, parent)
	if err := s.folders.UpdateNameAndPath(ctx, id, newName, newPath); err != nil {
		return nil, err
	}
	if err := s.rewriteDescendantPaths(ctx, f, oldPath, newPath); err != nil {
		return nil, err
	}

	f.Name = newName
	f.Path = newPath
	return f, nil
}

// MoveFolder re-parents a folder (nil target = category root). Moving a
// folder into itself or any of its descendants is ErrCycleMove; the
// path-prefix check is the cycle guard.
func (s *Service) MoveFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID, targetID *primitive.ObjectID, actorID primitive.ObjectID) (*models.Folder, error) {
	f, err := s.getFolder(ctx, facilityID, cat, id)
	if err != nil {
		return nil, err
	}

	var target *models.Folder
	if targetID != nil {
		if *targetID == id {
			return nil, ErrCycleMove
		}
		target, err = s.folders.GetByID(ctx, facilityID, *targetID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		if target.Category != cat {
			return nil, ErrNotFound
		}
		if strings.HasPrefix(target.Path, f.Path+"/") {
			return nil, ErrCycleMove
		}
	}

	oldPath := f.Path
	newPath := ComputePath(f.Name, target)
	if err := s.folders.SetParentAndPath(ctx, id, targetID, newPath); err != nil {
		return nil, err
	}
	if err := s.rewriteDescendantPaths(ctx, f, oldPath, newPath); err != nil {
		return nil, err
	}

	f.ParentID = targetID
	f.Path = newPath
	return f, nil
}

// DeleteFolder deletes a folder only when it has zero direct child folders
// and zero direct child files; otherwise ErrFolderNotEmpty. The check is
// deliberately non-recursive: callers empty subtrees bottom-up.
func (s *Service) DeleteFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID, actorID primitive.ObjectID) error {
	f, err := s.getFolder(ctx, facilityID, cat, id)
	if err != nil {
		return err
	}

	hasSub, err := s.folders.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasSub {
		return ErrFolderNotEmpty
	}

	fileCount, err := s.files.CountByFolder(ctx, facilityID, cat, &id)
	if err != nil {
		return err
	}
	if fileCount > 0 {
		return ErrFolderNotEmpty
	}

	if err := s.folders.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		zap.String("facility_id", facilityID.Hex()),
		zap.String("folder_id", id.Hex()),
		zap.String("path", f.Path))
	return nil
}

// UploadInput carries an upload request into the service.
type UploadInput struct {
	FolderID    *primitive.ObjectID
	Name        string
	Size        int64
	ContentType string
	Description string
	Content     io.Reader
	ActorID     primitive.ObjectID
}

// UploadFile validates the upload against the category's MIME allow-list and
// size ceiling, writes the physical object, and creates the file record. A
// record-insert failure removes the just-written object so a rejection never
// leaves either side behind.
func (s *Service) UploadFile(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, input UploadInput) (*models.File, error) {
	def, ok := LookupCategory(cat)
	if !ok {
		return nil, ErrUnknownCategory
	}

	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !def.AllowsType(input.ContentType) {
		return nil, ErrContentType
	}
	if input.Size <= 0 || input.Size > def.MaxUploadBytes {
		return nil, ErrFileTooLarge
	}

	if input.FolderID != nil {
		parent, err := s.folders.GetByID(ctx, facilityID, *input.FolderID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		if parent.Category != cat {
			return nil, ErrNotFound
		}
	}

	storagePath := buildStoragePath(cat, facilityID, name)

	// Bound the stored bytes to the declared size so a client cannot stream
	// past its own Content-Length.
	limited := io.LimitReader(input.Content, input.Size)
	if err := s.objects.Put(ctx, storagePath, limited, &storage.PutOptions{
		ContentType: input.ContentType,
	}); err != nil {
		return nil, fmt.Errorf("storing object: %w", err)
	}

	created, err := s.files.Create(ctx, file.CreateInput{
		FacilityID:  facilityID,
		Category:    cat,
		FolderID:    input.FolderID,
		Name:        name,
		StoragePath: storagePath,
		Size:        input.Size,
		ContentType: input.ContentType,
		Description: input.Description,
		CreatedByID: input.ActorID,
	})
	if err != nil {
		if delErr := s.objects.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to remove orphaned object after record insert failure",
				zap.String("storage_path", storagePath),
				zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("file uploaded",
		zap.String("facility_id", facilityID.Hex()),
		zap.String("category", cat.String()),
		zap.String("file_id", created.ID.Hex()),
		zap.Int64("size", created.Size))
	return created, nil
}

// RenameFile updates the original filename only; the stored object and its
// key never change.
func (s *Service) RenameFile(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID, newName string, actorID primitive.ObjectID) (*models.File, error) {
	newName = strings.TrimSpace(newName)
	if err := validateName(newName); err != nil {
		return nil, err
	}

	f, err := s.getFile(ctx, facilityID, cat, id)
	if err != nil {
		return nil, err
	}

	if err := s.files.UpdateName(ctx, id, newName); err != nil {
		return nil, err
	}
	f.Name = newName
	return f, nil
}

// MoveFile moves a file into another folder of the same facility+category
// tree (nil target = root).
func (s *Service) MoveFile(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID, targetID *primitive.ObjectID, actorID primitive.ObjectID) (*models.File, error) {
	f, err := s.getFile(ctx, facilityID, cat, id)
	if err != nil {
		return nil, err
	}

	if targetID != nil {
		target, err := s.folders.GetByID(ctx, facilityID, *targetID)
		if err != nil {
			return nil, notFoundOr(err)
		}
		if target.Category != cat {
			return nil, ErrNotFound
		}
	}

	if err := s.files.SetFolder(ctx, id, targetID); err != nil {
		return nil, err
	}
	f.FolderID = targetID
	return f, nil
}

// DeleteFile removes the physical object and the record. A storage delete
// failure is logged and the record is removed anyway; an orphaned object is
// preferable to a dangling record pointing at nothing.
func (s *Service) DeleteFile(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID, actorID primitive.ObjectID) error {
	f, err := s.getFile(ctx, facilityID, cat, id)
	if err != nil {
		return err
	}

	if err := s.objects.Delete(ctx, f.StoragePath); err != nil {
		s.logger.Warn("failed to delete object from storage",
			zap.String("storage_path", f.StoragePath),
			zap.Error(err))
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("file deleted",
		zap.String("facility_id", facilityID.Hex()),
		zap.String("file_id", id.Hex()))
	return nil
}

// SetFolderDescription replaces a folder's description note.
func (s *Service) SetFolderDescription(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID, description string, actorID primitive.ObjectID) (*models.Folder, error) {
	f, err := s.getFolder(ctx, facilityID, cat, id)
	if err != nil {
		return nil, err
	}

	if err := s.folders.UpdateDescription(ctx, id, description); err != nil {
		return nil, err
	}
	f.Description = description
	return f, nil
}

// SetFileDescription replaces a file's description note.
func (s *Service) SetFileDescription(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID, description string, actorID primitive.ObjectID) (*models.File, error) {
	f, err := s.getFile(ctx, facilityID, cat, id)
	if err != nil {
		return nil, err
	}

	if err := s.files.UpdateDescription(ctx, id, description); err != nil {
		return nil, err
	}
	f.Description = description
	return f, nil
}

// FolderNameTaken reports whether another folder under the same parent
// already carries the name. Sibling collisions are allowed by the data
// model; callers use this to warn, never to block.
func (s *Service) FolderNameTaken(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, name string, parentID, excludeID *primitive.ObjectID) (bool, error) {
	return s.folders.NameExistsInParent(ctx, facilityID, cat, name, parentID, excludeID)
}

// FileNameTaken reports whether another file in the same folder already
// carries the name.
func (s *Service) FileNameTaken(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, name string, folderID, excludeID *primitive.ObjectID) (bool, error) {
	return s.files.NameExistsInFolder(ctx, facilityID, cat, name, folderID, excludeID)
}

// GetFolder returns a folder scoped to facility and category.
func (s *Service) GetFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID) (*models.Folder, error) {
	return s.getFolder(ctx, facilityID, cat, id)
}

// GetFile returns a file scoped to facility and category.
func (s *Service) GetFile(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID) (*models.File, error) {
	return s.getFile(ctx, facilityID, cat, id)
}

func (s *Service) getFolder(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID) (*models.Folder, error) {
	f, err := s.folders.GetByID(ctx, facilityID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if f.Category != cat {
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *Service) getFile(ctx context.Context, facilityID primitive.ObjectID, cat models.Category, id primitive.ObjectID) (*models.File, error) {
	f, err := s.files.GetByID(ctx, facilityID, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if f.Category != cat {
		return nil, ErrNotFound
	}
	return f, nil
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// notFoundOr maps a missing-document error to ErrNotFound and passes
// everything else through.
func notFoundOr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// buildStoragePath generates the object key for an upload:
// docs/<category>/<facility>/YYYY/MM/<uuid8><ext>.
func buildStoragePath(cat models.Category, facilityID primitive.ObjectID, name string) string {
	now := time.Now().UTC()
	ext := filepath.Ext(name)
	uniqueName := uuid.New().String()[:8] + ext
	return fmt.Sprintf("docs/%s/%s/%04d/%02d/%s",
		cat, facilityID.Hex(), now.Year(), int(now.Month()), uniqueName)
}
