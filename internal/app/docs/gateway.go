package docs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/facilidocs/internal/domain/models"
)

// Download-gateway failures. All of them abort before any byte is streamed.
var (
	// ErrDownloadType rejects a file whose recorded MIME type is outside
	// the download allow-list.
	ErrDownloadType = errors.New("content type not allowed for download")

	// ErrDownloadTooLarge rejects a file above the hard download ceiling.
	ErrDownloadTooLarge = errors.New("file exceeds the download size ceiling")

	// ErrUnsafePath rejects a storage path containing traversal or control
	// sequences.
	ErrUnsafePath = errors.New("unsafe storage path")

	// ErrIntegrity rejects a file whose stored content does not match its
	// record.
	ErrIntegrity = errors.New("stored object does not match its record")
)

const (
	// downloadCeiling is the hard per-file download limit, above every
	// category's upload ceiling.
	downloadCeiling = 100 << 20

	// streamChunkSize is the fixed buffer size used when streaming file
	// content; the file is never loaded into memory whole.
	streamChunkSize = 8 * 1024

	// maxDispositionBytes caps the sanitized filename used in the
	// Content-Disposition header.
	maxDispositionBytes = 255
)

// downloadTypes is the closed allow-list of MIME types the gateway will
// serve.
var downloadTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"image/gif":          true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// sniffCompat maps a recorded MIME type to the sniffed types accepted for
// it. Sniffing is prefix-based ("text/plain; charset=utf-8" matches
// "text/plain"). Legacy Office formats sniff as generic containers.
var sniffCompat = map[string][]string{
	"application/pdf":    {"application/pdf"},
	"image/jpeg":         {"image/jpeg"},
	"image/jpg":          {"image/jpeg"},
	"image/png":          {"image/png"},
	"image/gif":          {"image/gif"},
	"text/plain":         {"text/plain"},
	"application/msword": {"application/msword", "application/octet-stream", "text/plain"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {
		"application/zip", "application/octet-stream",
	},
}

// Gateway validates and streams stored document files. Callers are
// responsible for authorizing the actor before calling Open; the gateway
// enforces content rules, not access control.
type Gateway struct {
	objects storage.Store
	logger  *zap.Logger
}

// NewGateway creates a download gateway over the document object store.
func NewGateway(objects storage.Store, logger *zap.Logger) *Gateway {
	return &Gateway{objects: objects, logger: logger}
}

// Download is a fully validated file ready to stream. Open has already
// verified the stored object's type and length against the record.
type Download struct {
	Size        int64
	ContentType string
	Filename    string // sanitized, safe for Content-Disposition

	content io.ReadCloser
}

// Stream copies the file content to w in fixed-size chunks and returns the
// number of bytes written. It fails if the object no longer matches the
// length Open verified, which can only happen when the object was replaced
// between validation and streaming.
func (d *Download) Stream(w io.Writer) (int64, error) {
	var written int64

	buf := make([]byte, streamChunkSize)
	for {
		n, err := d.content.Read(buf)
		if n > 0 {
			wn, werr := w.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, err
		}
	}

	if written != d.Size {
		return written, fmt.Errorf("%w: streamed %d bytes, recorded %d", ErrIntegrity, written, d.Size)
	}
	return written, nil
}

// Close releases the underlying object reader.
func (d *Download) Close() error {
	return d.content.Close()
}

// Open validates a file record and its stored object and returns a
// Download ready to stream. Every failure aborts with zero bytes streamed
// and is logged with the file, facility, and actor ids.
func (g *Gateway) Open(ctx context.Context, f *models.File, actorID primitive.ObjectID) (*Download, error) {
	fail := func(reason string, err error) (*Download, error) {
		g.logger.Warn("download rejected",
			zap.String("file_id", f.ID.Hex()),
			zap.String("facility_id", f.FacilityID.Hex()),
			zap.String("actor_id", actorID.Hex()),
			zap.String("reason", reason),
			zap.Error(err))
		return nil, err
	}

	recorded := baseMIME(f.ContentType)
	if !downloadTypes[recorded] {
		return fail("content type not allowed", ErrDownloadType)
	}
	if f.Size > downloadCeiling {
		return fail("size over ceiling", ErrDownloadTooLarge)
	}
	if err := validateStoragePath(f.StoragePath); err != nil {
		return fail("unsafe path", err)
	}

	// First pass: read the object once to sniff its type and measure its
	// length. Nothing reaches the client until both match the record.
	reader, err := g.objects.Get(ctx, f.StoragePath)
	if err != nil {
		return fail("object missing", ErrIntegrity)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		reader.Close()
		return fail("read failed", err)
	}
	head = head[:n]

	sniffed := http.DetectContentType(head)
	if !sniffCompatible(recorded, sniffed) {
		reader.Close()
		return fail(fmt.Sprintf("type mismatch: sniffed=%s recorded=%s", sniffed, recorded), ErrIntegrity)
	}

	stored := int64(len(head))
	buf := make([]byte, streamChunkSize)
	for {
		rn, rerr := reader.Read(buf)
		stored += int64(rn)
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			reader.Close()
			return fail("read failed", rerr)
		}
	}
	reader.Close()

	if stored != f.Size {
		return fail(fmt.Sprintf("size mismatch: stored=%d recorded=%d", stored, f.Size), ErrIntegrity)
	}

	content, err := g.objects.Get(ctx, f.StoragePath)
	if err != nil {
		return fail("object missing", ErrIntegrity)
	}

	return &Download{
		Size:        f.Size,
		ContentType: f.ContentType,
		Filename:    SanitizeFilename(f.Name),
		content:     content,
	}, nil
}

// validateStoragePath rejects traversal, absolute paths, backslashes, and
// control characters in a storage key.
func validateStoragePath(p string) error {
	if p == "" {
		return ErrUnsafePath
	}
	for _, r := range p {
		if r < 0x20 || r == 0x7f {
			return ErrUnsafePath
		}
	}
	if strings.Contains(p, "\\") || strings.HasPrefix(p, "/") {
		return ErrUnsafePath
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." || part == "" {
			return ErrUnsafePath
		}
	}
	if path.Clean(p) != p {
		return ErrUnsafePath
	}
	return nil
}

// sniffCompatible checks the sniffed type against the variance table for
// the recorded type.
func sniffCompatible(recorded, sniffed string) bool {
	accepted, ok := sniffCompat[recorded]
	if !ok {
		return false
	}
	for _, a := range accepted {
		if strings.HasPrefix(sniffed, a) {
			return true
		}
	}
	return false
}

// SanitizeFilename makes an original filename safe for a
// Content-Disposition header: control characters are stripped,
// filesystem-hostile characters replaced, the result capped at 255 bytes
// preserving the extension, with a timestamped fallback when nothing
// survives.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			// drop control characters
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.Trim(b.String(), " .")
	if cleaned == "" {
		return "document-" + time.Now().UTC().Format("20060102-150405")
	}

	if len(cleaned) > maxDispositionBytes {
		ext := path.Ext(cleaned)
		if len(ext) >= maxDispositionBytes {
			ext = ""
		}
		base := cleaned[:len(cleaned)-len(ext)]
		keep := maxDispositionBytes - len(ext)
		// Cut on a rune boundary.
		for keep > 0 && !utf8RuneStart(base, keep) {
			keep--
		}
		cleaned = base[:keep] + ext
	}

	return cleaned
}

// utf8RuneStart reports whether s[i] begins a UTF-8 rune (or is the end of
// the string).
func utf8RuneStart(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	return s[i]&0xC0 != 0x80
}
