// Package documents provides the JSON API for the per-facility document
// tree: folder management, file upload and organization, and the download
// gateway, all scoped to a facility and a document category.
//
// Routes are mounted under /api/facilities/{facilityID}/documents and every
// operation is addressed as /{category}/... where category is one of the
// known document category tags (contract, drawing, maintenance-interior,
// lifeline-electrical, ...).
package documents

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/facilidocs/internal/app/docs"
	"github.com/dalemusser/facilidocs/internal/app/store/prefs"
	"github.com/dalemusser/facilidocs/internal/app/system/auditlog"
	"github.com/dalemusser/facilidocs/internal/app/system/auth"
	"github.com/dalemusser/facilidocs/internal/app/system/htmlsanitize"
	"github.com/dalemusser/facilidocs/internal/app/system/jsonutil"
	"github.com/dalemusser/facilidocs/internal/app/system/metrics"
	"github.com/dalemusser/facilidocs/internal/domain/models"
)

// uploadFormOverhead is added to the category ceiling when limiting the
// multipart request body; it covers boundary and field encoding.
const uploadFormOverhead = 1 << 20

// Handler handles document tree API requests.
type Handler struct {
	svc     *docs.Service
	gateway *docs.Gateway
	prefs   *prefs.Store
	audits  *auditlog.Logger
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a documents Handler.
func NewHandler(svc *docs.Service, gateway *docs.Gateway, prefStore *prefs.Store, audits *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		svc:     svc,
		gateway: gateway,
		prefs:   prefStore,
		audits:  audits,
		metrics: m,
		logger:  logger,
	}
}

// Routes returns a chi.Router with document routes mounted. It expects
// facilityID to be a URL parameter on the parent router.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Route("/{category}", func(r chi.Router) {
		r.Get("/", h.List)

		r.Route("/folders", func(r chi.Router) {
			r.Post("/", h.CreateFolder)
			r.Route("/{folderID}", func(r chi.Router) {
				r.Get("/", h.GetFolder)
				r.Post("/rename", h.RenameFolder)
				r.Post("/move", h.MoveFolder)
				r.Post("/describe", h.DescribeFolder)
				r.Delete("/", h.DeleteFolder)
			})
		})

		r.Route("/files", func(r chi.Router) {
			r.Post("/", h.Upload)
			r.Route("/{fileID}", func(r chi.Router) {
				r.Get("/", h.GetFile)
				r.Post("/rename", h.RenameFile)
				r.Post("/move", h.MoveFile)
				r.Post("/describe", h.DescribeFile)
				r.Delete("/", h.DeleteFile)
				r.Get("/download", h.Download)
				r.Get("/view", h.View)
			})
		})
	})

	return r
}

// scope resolves the facility id, category adapter, and actor for a request.
// It writes the error response itself and returns ok=false on failure.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (facilityID primitive.ObjectID, scoped *docs.Scoped, actorID primitive.ObjectID, ok bool) {
	facilityID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "facilityID"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid facility id")
		return
	}

	scoped, err = h.svc.ForCategory(models.Category(chi.URLParam(r, "category")))
	if err != nil {
		jsonutil.NotFound(w, "unknown document category")
		return
	}

	actorID, found := auth.ActorID(r.Context())
	if !found {
		jsonutil.Unauthorized(w, "missing actor identity")
		return
	}

	ok = true
	return
}

// urlObjectID parses a required ObjectID URL parameter.
func urlObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, name))
}

// optionalObjectID is an ozzo validation rule for optional hex object ids.
func optionalObjectID(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := primitive.ObjectIDFromHex(s); err != nil {
		return errors.New("must be a valid object id")
	}
	return nil
}

// parseOptionalID converts an optional payload id to a *ObjectID, nil for
// empty (the category root).
func parseOptionalID(s string) *primitive.ObjectID {
	if s == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil
	}
	return &id
}

// writeDocsError maps service errors to API responses.
func writeDocsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, docs.ErrNotFound):
		jsonutil.NotFound(w, "not found")
	case errors.Is(err, docs.ErrFolderNotEmpty):
		jsonutil.Error(w, http.StatusConflict, "folder is not empty")
	case errors.Is(err, docs.ErrCycleMove):
		jsonutil.Error(w, http.StatusConflict, "cannot move a folder into its own subtree")
	case errors.Is(err, docs.ErrNameRequired):
		jsonutil.BadRequest(w, "name is required")
	case errors.Is(err, docs.ErrNameTooLong):
		jsonutil.BadRequest(w, "name is too long")
	case errors.Is(err, docs.ErrFileTooLarge):
		jsonutil.Error(w, http.StatusRequestEntityTooLarge, "file exceeds the category size limit")
	case errors.Is(err, docs.ErrContentType):
		jsonutil.Error(w, http.StatusUnsupportedMediaType, "content type not allowed for this category")
	case errors.Is(err, docs.ErrUnknownCategory):
		jsonutil.NotFound(w, "unknown document category")
	default:
		jsonutil.InternalError(w, "internal error")
	}
}

// folderNameConflict reports whether a sibling folder already carries the
// name. Collisions are allowed, so a failed check degrades to "no warning"
// rather than failing the request.
func (h *Handler) folderNameConflict(r *http.Request, scoped *docs.Scoped, facilityID primitive.ObjectID, f *models.Folder) bool {
	taken, err := scoped.FolderNameTaken(r.Context(), facilityID, f.Name, f.ParentID, &f.ID)
	if err != nil {
		h.logger.Warn("sibling folder name check failed",
			zap.String("folder_id", f.ID.Hex()),
			zap.Error(err))
		return false
	}
	return taken
}

// fileNameConflict reports whether the folder already holds another file
// with the name.
func (h *Handler) fileNameConflict(r *http.Request, scoped *docs.Scoped, facilityID primitive.ObjectID, f *models.File) bool {
	taken, err := scoped.FileNameTaken(r.Context(), facilityID, f.Name, f.FolderID, &f.ID)
	if err != nil {
		h.logger.Warn("sibling file name check failed",
			zap.String("file_id", f.ID.Hex()),
			zap.Error(err))
		return false
	}
	return taken
}

// outcome classifies an error for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case docs.IsRejection(err):
		return "rejected"
	default:
		return "error"
	}
}

// List handles GET /{category} and returns the contents of a folder (or
// the category root when folder_id is absent), with sorting, filtering,
// search, and pagination. Sort and paging default to the actor's saved
// display preferences when the query carries no explicit values.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()

	var folderID *primitive.ObjectID
	if raw := q.Get("folder_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			jsonutil.BadRequest(w, "invalid folder_id")
			return
		}
		folderID = &id
	}

	opts := docs.ListOptions{
		SortBy:        q.Get("sort_by"),
		SortDirection: q.Get("sort_direction"),
		FilterType:    q.Get("filter_type"),
		Search:        strings.TrimSpace(q.Get("search")),
	}
	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			opts.Page = n
		}
	}
	if raw := q.Get("per_page"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			opts.PerPage = n
		}
	}
	h.applyPreferences(r, actorID, facilityID, &opts)

	contents, err := scoped.FolderContents(r.Context(), facilityID, folderID, opts)
	if err != nil {
		writeDocsError(w, err)
		return
	}

	jsonutil.OK(w, renderContents(scoped.Definition(), contents))
}

// applyPreferences fills in sort and paging defaults from the actor's
// saved display preferences. Explicit query values always win.
func (h *Handler) applyPreferences(r *http.Request, actorID, facilityID primitive.ObjectID, opts *docs.ListOptions) {
	if opts.SortBy != "" && opts.PerPage != 0 {
		return
	}
	pref, err := h.prefs.Get(r.Context(), actorID, facilityID)
	if err != nil {
		h.logger.Warn("loading display preferences failed",
			zap.String("actor_id", actorID.Hex()),
			zap.Error(err))
		return
	}
	if pref == nil {
		return
	}
	if opts.SortBy == "" {
		opts.SortBy = pref.SortBy
		if opts.SortDirection == "" {
			opts.SortDirection = pref.SortOrder
		}
	}
	if opts.PerPage == 0 && pref.PerPage > 0 {
		opts.PerPage = int64(pref.PerPage)
	}
}

// GetFolder handles GET /{category}/folders/{folderID}.
func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, _, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "folderID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid folder id")
		return
	}

	folder, err := scoped.GetFolder(r.Context(), facilityID, id)
	if err != nil {
		writeDocsError(w, err)
		return
	}
	jsonutil.OK(w, renderFolder(folder))
}

// CreateFolder handles POST /{category}/folders.
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var payload createFolderPayload
	if err := jsonutil.Decode(r, &payload); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	tag := string(scoped.Definition().Tag)
	folder, err := scoped.CreateFolder(r.Context(), facilityID, parseOptionalID(payload.ParentID),
		payload.Name, htmlsanitize.Description(payload.Description), actorID)
	h.metrics.RecordOp("folder_create", tag, outcome(err))
	if err != nil {
		writeDocsError(w, err)
		return
	}

	h.audits.FolderCreated(r.Context(), r, actorID, facilityID, folder.ID, tag, folder.Path)
	view := renderFolder(folder)
	view.NameConflict = h.folderNameConflict(r, scoped, facilityID, folder)
	jsonutil.Created(w, view)
}

// RenameFolder handles POST /{category}/folders/{folderID}/rename.
func (h *Handler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "folderID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid folder id")
		return
	}

	var payload renamePayload
	if err := jsonutil.Decode(r, &payload); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	tag := string(scoped.Definition().Tag)
	before, err := scoped.GetFolder(r.Context(), facilityID, id)
	if err != nil {
		writeDocsError(w, err)
		return
	}

	folder, err := scoped.RenameFolder(r.Context(), facilityID, id, payload.Name, actorID)
	h.metrics.RecordOp("folder_rename", tag, outcome(err))
	if err != nil {
		writeDocsError(w, err)
		return
	}

	h.audits.FolderRenamed(r.Context(), r, actorID, facilityID, folder.ID, before.Name, folder.Name)
	view := renderFolder(folder)
	view.NameConflict = h.folderNameConflict(r, scoped, facilityID, folder)
	jsonutil.OK(w, view)
}

// MoveFolder handles POST /{category}/folders/{folderID}/move.
func (h *Handler) MoveFolder(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "folderID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid folder id")
		return
	}

	var payload movePayload
	if err := jsonutil.Decode(r, &payload); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	tag := string(scoped.Definition().Tag)
	folder, err := scoped.MoveFolder(r.Context(), facilityID, id, parseOptionalID(payload.TargetID), actorID)
	h.metrics.RecordOp("folder_move", tag, outcome(err))
	if err != nil {
		writeDocsError(w, err)
		return
	}

	h.audits.FolderMoved(r.Context(), r, actorID, facilityID, folder.ID, folder.Path)
	jsonutil.OK(w, renderFolder(folder))
}

// DeleteFolder handles DELETE /{category}/folders/{folderID}. Only empty
// folders can be deleted.
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "folderID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid folder id")
		return
	}

	tag := string(scoped.Definition().Tag)
	folder, err := scoped.GetFolder(r.Context(), facilityID, id)
	if err != nil {
		writeDocsError(w, err)
		return
	}

	err = scoped.DeleteFolder(r.Context(), facilityID, id, actorID)
	h.metrics.RecordOp("folder_delete", tag, outcome(err))
	if err != nil {
		writeDocsError(w, err)
		return
	}

	h.audits.FolderDeleted(r.Context(), r, actorID, facilityID, id, folder.Path)
	jsonutil.NoContent(w)
}

// GetFile handles GET /{category}/files/{fileID}.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, _, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "fileID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid file id")
		return
	}

	file, err := scoped.GetFile(r.Context(), facilityID, id)
	if err != nil {
		writeDocsError(w, err)
		return
	}
	jsonutil.OK(w, renderFile(file))
}

// Upload handles POST /{category}/files with a multipart form. Fields:
//
//	file        (required) the file content
//	folder_id   (optional) destination folder; empty means the category root
//	name        (optional) overrides the uploaded filename
//	description (optional) rich-text note, sanitized before storage
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}

	def := scoped.Definition()
	tag := string(def.Tag)

	r.Body = http.MaxBytesReader(w, r.Body, def.MaxUploadBytes+uploadFormOverhead)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		h.metrics.RecordOp("file_upload", tag, "rejected")
		h.audits.UploadRejected(r.Context(), r, actorID, facilityID, "", "body too large or malformed")
		jsonutil.Error(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.BadRequest(w, "missing file field")
		return
	}
	defer part.Close()

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}

	var folderID *primitive.ObjectID
	if raw := r.FormValue("folder_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			jsonutil.BadRequest(w, "invalid folder_id")
			return
		}
		folderID = &id
	}

	contentType := header.Header.Get("Content-Type")

	file, err := scoped.UploadFile(r.Context(), facilityID, docs.UploadInput{
		FolderID:    folderID,
		Name:        name,
		Size:        header.Size,
		ContentType: contentType,
		Description: htmlsanitize.Description(r.FormValue("description")),
		Content:     part,
		ActorID:     actorID,
	})
	h.metrics.RecordOp("file_upload", tag, outcome(err))
	if err != nil {
		if docs.IsRejection(err) {
			h.audits.UploadRejected(r.Context(), r, actorID, facilityID, name, err.Error())
		}
		writeDocsError(w, err)
		return
	}

	h.metrics.UploadBytes.Observe(float64(file.Size))
	h.audits.FileUploaded(r.Context(), r, actorID, facilityID, file.ID, tag, file.Name, file.Size)
	view := renderFile(file)
	view.NameConflict = h.fileNameConflict(r, scoped, facilityID, file)
	jsonutil.Created(w, view)
}

// RenameFile handles POST /{category}/files/{fileID}/rename.
func (h *Handler) RenameFile(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "fileID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid file id")
		return
	}

	var payload renamePayload
	if err := jsonutil.Decode(r, &payload); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	tag := string(scoped.Definition().Tag)
	before, err := scoped.GetFile(r.Context(), facilityID, id)
	if err != nil {
		writeDocsError(w, err)
		return
	}

	file, err := scoped.RenameFile(r.Context(), facilityID, id, payload.Name, actorID)
	h.metrics.RecordOp("file_rename", tag, outcome(err))
	if err != nil {
		writeDocsError(w, err)
		return
	}

	h.audits.FileRenamed(r.Context(), r, actorID, facilityID, file.ID, before.Name, file.Name)
	view := renderFile(file)
	view.NameConflict = h.fileNameConflict(r, scoped, facilityID, file)
	jsonutil.OK(w, view)
}

// MoveFile handles POST /{category}/files/{fileID}/move.
func (h *Handler) MoveFile(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "fileID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid file id")
		return
	}

	var payload movePayload
	if err := jsonutil.Decode(r, &payload); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	tag := string(scoped.Definition().Tag)
	file, err := scoped.MoveFile(r.Context(), facilityID, id, parseOptionalID(payload.TargetID), actorID)
	h.metrics.RecordOp("file_move", tag, outcome(err))
	if err != nil {
		writeDocsError(w, err)
		return
	}

	h.audits.FileMoved(r.Context(), r, actorID, facilityID, file.ID)
	jsonutil.OK(w, renderFile(file))
}

// DeleteFile handles DELETE /{category}/files/{fileID}.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "fileID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid file id")
		return
	}

	tag := string(scoped.Definition().Tag)
	file, err := scoped.GetFile(r.Context(), facilityID, id)
	if err != nil {
		writeDocsError(w, err)
		return
	}

	err = scoped.DeleteFile(r.Context(), facilityID, id, actorID)
	h.metrics.RecordOp("file_delete", tag, outcome(err))
	if err != nil {
		writeDocsError(w, err)
		return
	}

	h.audits.FileDeleted(r.Context(), r, actorID, facilityID, id, file.Name)
	jsonutil.NoContent(w)
}

// DescribeFolder handles POST /{category}/folders/{folderID}/describe,
// replacing the folder's description note. An empty description clears it.
func (h *Handler) DescribeFolder(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "folderID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid folder id")
		return
	}

	var payload describePayload
	if err := jsonutil.Decode(r, &payload); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	tag := string(scoped.Definition().Tag)
	folder, err := scoped.SetFolderDescription(r.Context(), facilityID, id,
		htmlsanitize.Description(payload.Description), actorID)
	h.metrics.RecordOp("folder_describe", tag, outcome(err))
	if err != nil {
		writeDocsError(w, err)
		return
	}

	h.audits.FolderDescribed(r.Context(), r, actorID, facilityID, folder.ID)
	jsonutil.OK(w, renderFolder(folder))
}

// DescribeFile handles POST /{category}/files/{fileID}/describe.
func (h *Handler) DescribeFile(w http.ResponseWriter, r *http.Request) {
	facilityID, scoped, actorID, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := urlObjectID(r, "fileID")
	if err != nil {
		jsonutil.BadRequest(w, "invalid file id")
		return
	}

	var payload describePayload
	if err := jsonutil.Decode(r, &payload); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	tag := string(scoped.Definition().Tag)
	file, err := scoped.SetFileDescription(r.Context(), facilityID, id,
		htmlsanitize.Description(payload.Description), actorID)
	h.metrics.RecordOp("file_describe", tag, outcome(err))
	if err != nil {
		writeDocsError(w, err)
		return
	}

	h.audits.FileDescribed(r.Context(), r, actorID, facilityID, file.ID)
	jsonutil.OK(w, renderFile(file))
}
