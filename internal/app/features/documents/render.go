package documents

import (
	"time"

	"github.com/dalemusser/facilidocs/internal/app/docs"
	"github.com/dalemusser/facilidocs/internal/domain/models"
)

// folderView is the JSON shape for a folder.
type folderView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	ParentID    string    `json:"parent_id,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// NameConflict warns that a sibling already carries this name.
	// Collisions are allowed, so this is advisory only.
	NameConflict bool `json:"name_conflict,omitempty"`
}

// fileView is the JSON shape for a file record.
type fileView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FolderID    string    `json:"folder_id,omitempty"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// NameConflict warns that the folder already holds another file with
	// this name. Advisory only.
	NameConflict bool `json:"name_conflict,omitempty"`
}

// breadcrumbView is one segment of the ancestry trail.
type breadcrumbView struct {
	ID   string `json:"id,omitempty"` // empty for the category root
	Name string `json:"name"`
}

// contentsView is the JSON shape for a folder listing.
type contentsView struct {
	Category    string           `json:"category"`
	Folder      *folderView      `json:"folder,omitempty"` // nil at the category root
	Breadcrumbs []breadcrumbView `json:"breadcrumbs"`
	Folders     []folderView     `json:"folders"`
	Files       []fileView       `json:"files"`
	FolderCount int64            `json:"folder_count"`
	FileCount   int64            `json:"file_count"`
	TotalSize   int64            `json:"total_size"`
	Page        int64            `json:"page,omitempty"`
	PerPage     int64            `json:"per_page,omitempty"`
}

func renderFolder(f *models.Folder) folderView {
	v := folderView{
		ID:          f.ID.Hex(),
		Name:        f.Name,
		Path:        f.Path,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.ParentID != nil {
		v.ParentID = f.ParentID.Hex()
	}
	return v
}

func renderFile(f *models.File) fileView {
	v := fileView{
		ID:          f.ID.Hex(),
		Name:        f.Name,
		Size:        f.Size,
		ContentType: f.ContentType,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.FolderID != nil {
		v.FolderID = f.FolderID.Hex()
	}
	return v
}

func renderContents(def docs.Definition, c *docs.Contents) contentsView {
	view := contentsView{
		Category:    string(def.Tag),
		Breadcrumbs: []breadcrumbView{{Name: def.RootLabel}},
		Folders:     make([]folderView, 0, len(c.Folders)),
		Files:       make([]fileView, 0, len(c.Files)),
		FolderCount: c.Stats.FolderCount,
		FileCount:   c.Stats.FileCount,
		TotalSize:   c.Stats.TotalSize,
		Page:        c.Page,
		PerPage:     c.PerPage,
	}

	if c.Folder != nil {
		v := renderFolder(c.Folder)
		view.Folder = &v
	}
	for _, crumb := range c.Breadcrumbs {
		view.Breadcrumbs = append(view.Breadcrumbs, breadcrumbView{
			ID:   crumb.ID.Hex(),
			Name: crumb.Name,
		})
	}
	for _, f := range c.Folders {
		view.Folders = append(view.Folders, renderFolder(&f))
	}
	for _, f := range c.Files {
		view.Files = append(view.Files, renderFile(&f))
	}

	return view
}
