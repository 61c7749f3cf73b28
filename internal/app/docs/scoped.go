package docs

import (
	"context"

	"github.com/dalemusser/facilidocs/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scoped is a category adapter: the full Service surface with the category
// pinned. Business areas (contracts, maintenance, lifeline equipment) hold a
// Scoped instead of passing their tag through every call.
type Scoped struct {
	svc *Service
	def Definition
}

// ForCategory returns a Scoped adapter for a category tag, or
// ErrUnknownCategory for a tag outside the closed set.
func (s *Service) ForCategory(tag models.Category) (*Scoped, error) {
	def, ok := LookupCategory(tag)
	if !ok {
		return nil, ErrUnknownCategory
	}
	return &Scoped{svc: s, def: def}, nil
}

// Definition returns the adapter's category definition (root label, upload
// rules).
func (a *Scoped) Definition() Definition {
	return a.def
}

// FolderContents lists a folder within the adapter's category.
func (a *Scoped) FolderContents(ctx context.Context, facilityID primitive.ObjectID, folderID *primitive.ObjectID, opts ListOptions) (*Contents, error) {
	return a.svc.FolderContents(ctx, facilityID, a.def.Tag, folderID, opts)
}

// CreateFolder creates a folder within the adapter's category.
func (a *Scoped) CreateFolder(ctx context.Context, facilityID primitive.ObjectID, parentID *primitive.ObjectID, name, description string, actorID primitive.ObjectID) (*models.Folder, error) {
	return a.svc.CreateFolder(ctx, facilityID, a.def.Tag, parentID, name, description, actorID)
}

// RenameFolder renames a folder within the adapter's category.
func (a *Scoped) RenameFolder(ctx context.Context, facilityID, id primitive.ObjectID, newName string, actorID primitive.ObjectID) (*models.Folder, error) {
	return a.svc.RenameFolder(ctx, facilityID, a.def.Tag, id, newName, actorID)
}

// MoveFolder moves a folder within the adapter's category.
func (a *Scoped) MoveFolder(ctx context.Context, facilityID, id primitive.ObjectID, targetID *primitive.ObjectID, actorID primitive.ObjectID) (*models.Folder, error) {
	return a.svc.MoveFolder(ctx, facilityID, a.def.Tag, id, targetID, actorID)
}

// DeleteFolder deletes an empty folder within the adapter's category.
func (a *Scoped) DeleteFolder(ctx context.Context, facilityID, id primitive.ObjectID, actorID primitive.ObjectID) error {
	return a.svc.DeleteFolder(ctx, facilityID, a.def.Tag, id, actorID)
}

// UploadFile uploads a file within the adapter's category.
func (a *Scoped) UploadFile(ctx context.Context, facilityID primitive.ObjectID, input UploadInput) (*models.File, error) {
	return a.svc.UploadFile(ctx, facilityID, a.def.Tag, input)
}

// RenameFile renames a file within the adapter's category.
func (a *Scoped) RenameFile(ctx context.Context, facilityID, id primitive.ObjectID, newName string, actorID primitive.ObjectID) (*models.File, error) {
	return a.svc.RenameFile(ctx, facilityID, a.def.Tag, id, newName, actorID)
}

// MoveFile moves a file within the adapter's category.
func (a *Scoped) MoveFile(ctx context.Context, facilityID, id primitive.ObjectID, targetID *primitive.ObjectID, actorID primitive.ObjectID) (*models.File, error) {
	return a.svc.MoveFile(ctx, facilityID, a.def.Tag, id, targetID, actorID)
}

// DeleteFile deletes a file within the adapter's category.
func (a *Scoped) DeleteFile(ctx context.Context, facilityID, id primitive.ObjectID, actorID primitive.ObjectID) error {
	return a.svc.DeleteFile(ctx, facilityID, a.def.Tag, id, actorID)
}

// SetFolderDescription replaces a folder's description within the adapter's category.
func (a *Scoped) SetFolderDescription(ctx context.Context, facilityID, id primitive.ObjectID, description string, actorID primitive.ObjectID) (*models.Folder, error) {
	return a.svc.SetFolderDescription(ctx, facilityID, a.def.Tag, id, description, actorID)
}

// SetFileDescription replaces a file's description within the adapter's category.
func (a *Scoped) SetFileDescription(ctx context.Context, facilityID, id primitive.ObjectID, description string, actorID primitive.ObjectID) (*models.File, error) {
	return a.svc.SetFileDescription(ctx, facilityID, a.def.Tag, id, description, actorID)
}

// FolderNameTaken reports a sibling folder name collision within the adapter's category.
func (a *Scoped) FolderNameTaken(ctx context.Context, facilityID primitive.ObjectID, name string, parentID, excludeID *primitive.ObjectID) (bool, error) {
	return a.svc.FolderNameTaken(ctx, facilityID, a.def.Tag, name, parentID, excludeID)
}

// FileNameTaken reports a file name collision within the adapter's category.
func (a *Scoped) FileNameTaken(ctx context.Context, facilityID primitive.ObjectID, name string, folderID, excludeID *primitive.ObjectID) (bool, error) {
	return a.svc.FileNameTaken(ctx, facilityID, a.def.Tag, name, folderID, excludeID)
}

// GetFile returns a file within the adapter's category.
func (a *Scoped) GetFile(ctx context.Context, facilityID, id primitive.ObjectID) (*models.File, error) {
	return a.svc.GetFile(ctx, facilityID, a.def.Tag, id)
}

// GetFolder returns a folder within the adapter's category.
func (a *Scoped) GetFolder(ctx context.Context, facilityID, id primitive.ObjectID) (*models.Folder, error) {
	return a.svc.GetFolder(ctx, facilityID, a.def.Tag, id)
}
