// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/facilidocs/internal/app/store/audit"
	"github.com/dalemusser/facilidocs/internal/app/system/network"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Document controls logging for folder and file events (create, rename,
	// move, delete, upload, download).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Document string
	// Security controls logging for rejected downloads and uploads.
	// Values: "all", "db", "log", "off"
	Security string
	// Admin controls logging for facility administration events.
	// Values: "all", "db", "log", "off"
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FacilityID != nil {
		fields = append(fields, zap.String("facility_id", event.FacilityID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String("target_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryDocument:
		setting = l.config.Document
	case audit.CategorySecurity:
		setting = l.config.Security
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Document Events ---

// documentEvent is the common shape for successful folder and file events.
func (l *Logger) documentEvent(ctx context.Context, r *http.Request, eventType string, actorID, facilityID, targetID primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryDocument,
		EventType:  eventType,
		ActorID:    &actorID,
		FacilityID: &facilityID,
		TargetID:   &targetID,
		IP:         network.GetClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details:    details,
	})
}

// FolderCreated logs a successful folder creation.
func (l *Logger) FolderCreated(ctx context.Context, r *http.Request, actorID, facilityID, folderID primitive.ObjectID, category, path string) {
	l.documentEvent(ctx, r, audit.EventFolderCreated, actorID, facilityID, folderID, map[string]string{
		"category": category,
		"path":     path,
	})
}

// FolderRenamed logs a successful folder rename.
func (l *Logger) FolderRenamed(ctx context.Context, r *http.Request, actorID, facilityID, folderID primitive.ObjectID, oldName, newName string) {
	l.documentEvent(ctx, r, audit.EventFolderRenamed, actorID, facilityID, folderID, map[string]string{
		"old_name": oldName,
		"new_name": newName,
	})
}

// FolderMoved logs a successful folder move.
func (l *Logger) FolderMoved(ctx context.Context, r *http.Request, actorID, facilityID, folderID primitive.ObjectID, newPath string) {
	l.documentEvent(ctx, r, audit.EventFolderMoved, actorID, facilityID, folderID, map[string]string{
		"new_path": newPath,
	})
}

// FolderDeleted logs a successful folder deletion.
func (l *Logger) FolderDeleted(ctx context.Context, r *http.Request, actorID, facilityID, folderID primitive.ObjectID, path string) {
	l.documentEvent(ctx, r, audit.EventFolderDeleted, actorID, facilityID, folderID, map[string]string{
		"path": path,
	})
}

// FolderDescribed logs a folder description edit.
func (l *Logger) FolderDescribed(ctx context.Context, r *http.Request, actorID, facilityID, folderID primitive.ObjectID) {
	l.documentEvent(ctx, r, audit.EventFolderDescribed, actorID, facilityID, folderID, nil)
}

// FileUploaded logs a successful file upload.
func (l *Logger) FileUploaded(ctx context.Context, r *http.Request, actorID, facilityID, fileID primitive.ObjectID, category, name string, size int64) {
	l.documentEvent(ctx, r, audit.EventFileUploaded, actorID, facilityID, fileID, map[string]string{
		"category": category,
		"name":     name,
		"size":     int64ToString(size),
	})
}

// FileRenamed logs a successful file rename.
func (l *Logger) FileRenamed(ctx context.Context, r *http.Request, actorID, facilityID, fileID primitive.ObjectID, oldName, newName string) {
	l.documentEvent(ctx, r, audit.EventFileRenamed, actorID, facilityID, fileID, map[string]string{
		"old_name": oldName,
		"new_name": newName,
	})
}

// FileMoved logs a successful file move.
func (l *Logger) FileMoved(ctx context.Context, r *http.Request, actorID, facilityID, fileID primitive.ObjectID) {
	l.documentEvent(ctx, r, audit.EventFileMoved, actorID, facilityID, fileID, nil)
}

// FileDeleted logs a successful file deletion.
func (l *Logger) FileDeleted(ctx context.Context, r *http.Request, actorID, facilityID, fileID primitive.ObjectID, name string) {
	l.documentEvent(ctx, r, audit.EventFileDeleted, actorID, facilityID, fileID, map[string]string{
		"name": name,
	})
}

// FileDescribed logs a file description edit.
func (l *Logger) FileDescribed(ctx context.Context, r *http.Request, actorID, facilityID, fileID primitive.ObjectID) {
	l.documentEvent(ctx, r, audit.EventFileDescribed, actorID, facilityID, fileID, nil)
}

// FileDownloaded logs a successful file download or preview.
func (l *Logger) FileDownloaded(ctx context.Context, r *http.Request, actorID, facilityID, fileID primitive.ObjectID, name, mode string) {
	l.documentEvent(ctx, r, audit.EventFileDownload, actorID, facilityID, fileID, map[string]string{
		"name": name,
		"mode": mode,
	})
}

// --- Security Events ---

// DownloadDenied logs a download rejected by the gateway.
func (l *Logger) DownloadDenied(ctx context.Context, r *http.Request, actorID, facilityID, fileID primitive.ObjectID, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventDownloadDenied,
		ActorID:       &actorID,
		FacilityID:    &facilityID,
		TargetID:      &fileID,
		IP:            network.GetClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
	})
}

// UploadRejected logs an upload rejected by validation.
func (l *Logger) UploadRejected(ctx context.Context, r *http.Request, actorID, facilityID primitive.ObjectID, name, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventUploadRejected,
		ActorID:       &actorID,
		FacilityID:    &facilityID,
		IP:            network.GetClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
		Details: map[string]string{
			"name": name,
		},
	})
}

// --- Admin Events ---

// FacilityCreated logs the creation of a facility.
func (l *Logger) FacilityCreated(ctx context.Context, r *http.Request, actorID, facilityID primitive.ObjectID, name string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventFacilityCreated,
		ActorID:    &actorID,
		FacilityID: &facilityID,
		IP:         network.GetClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
		Details: map[string]string{
			"name": name,
		},
	})
}

// FacilityUpdated logs an update to a facility.
func (l *Logger) FacilityUpdated(ctx context.Context, r *http.Request, actorID, facilityID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategoryAdmin,
		EventType:  audit.EventFacilityUpdated,
		ActorID:    &actorID,
		FacilityID: &facilityID,
		IP:         network.GetClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
	})
}

func int64ToString(n int64) string {
	return strconv.FormatInt(n, 10)
}
