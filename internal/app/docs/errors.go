package docs

import "errors"

// Operation failures are reported through these sentinel errors so callers
// can map them to responses without inspecting driver errors. Anything not
// listed here is an infrastructure failure and surfaces as-is.
var (
	// ErrNotFound covers both a genuinely absent record and a record owned
	// by a different facility; the two are deliberately indistinguishable.
	ErrNotFound = errors.New("document record not found")

	// ErrNameRequired is returned when a folder or file name is empty after
	// trimming.
	ErrNameRequired = errors.New("name is required")

	// ErrNameTooLong is returned when a name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("name exceeds maximum length")

	// ErrFolderNotEmpty rejects deletion of a folder that still has direct
	// child folders or files.
	ErrFolderNotEmpty = errors.New("folder is not empty")

	// ErrCycleMove rejects moving a folder into itself or a descendant.
	ErrCycleMove = errors.New("cannot move a folder into its own subtree")

	// ErrContentType rejects an upload whose MIME type is not in the
	// category's allow-list.
	ErrContentType = errors.New("content type not allowed for this category")

	// ErrFileTooLarge rejects an upload above the category's size ceiling.
	ErrFileTooLarge = errors.New("file exceeds the category size limit")

	// ErrUnknownCategory is returned for a category tag outside the closed
	// set.
	ErrUnknownCategory = errors.New("unknown document category")
)

// MaxNameLength bounds folder and file names.
const MaxNameLength = 255

// IsRejection reports whether err is a business or validation rejection as
// opposed to an infrastructure failure. Rejections leave state unchanged.
func IsRejection(err error) bool {
	for _, e := range []error{
		ErrNotFound, ErrNameRequired, ErrNameTooLong, ErrFolderNotEmpty,
		ErrCycleMove, ErrContentType, ErrFileTooLarge, ErrUnknownCategory,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
