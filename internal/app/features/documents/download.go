package documents

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/dalemusser/facilidocs/internal/app/system/jsonutil"
)

// Download handles GET /{category}/files/{fileID}/download, streaming the
// file as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "attachment")
}

// View handles GET /{category}/files/{fileID}/view, streaming the file
// inline for browser preview.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "inline")
}

// serveFile re-resolves the file under the facility scope, runs the
// gateway's validation, and streams the content. Disposition is
// "attachment" or "inline".
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, disposition string) {
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

	// The facility-scoped lookup is the authorization re-check: a file id
	// from another facility resolves to not found here.
	file, err := scoped.GetFile(r.Context(), facilityID, id)
	if err != nil {
		h.metrics.RecordOp("file_download", tag, "rejected")
		writeDocsError(w, err)
		return
	}

	dl, err := h.gateway.Open(r.Context(), file, actorID)
	if err != nil {
		h.metrics.RecordOp("file_download", tag, "rejected")
		h.audits.DownloadDenied(r.Context(), r, actorID, facilityID, file.ID, err.Error())
		jsonutil.Forbidden(w, "download not permitted")
		return
	}
	defer dl.Close()

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(dl.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, dl.Filename))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	written, err := dl.Stream(w)
	if err != nil {
		// Headers are already out; all we can do is log the broken stream.
		h.logger.Warn("download stream interrupted",
			zap.String("file_id", file.ID.Hex()),
			zap.String("facility_id", facilityID.Hex()),
			zap.Int64("written", written),
			zap.Error(err))
		return
	}

	h.metrics.RecordOp("file_download", tag, "ok")
	h.metrics.DownloadBytes.Observe(float64(written))
	h.audits.FileDownloaded(r.Context(), r, actorID, facilityID, file.ID, file.Name, disposition)
}
