package docs

import (
	"strings"

	"github.com/dalemusser/facilidocs/internal/domain/models"
)

// Definition describes one category of a facility's document tree: its
// canonical root label for display, the upload size ceiling, and the MIME
// types accepted on upload. The set is closed; category strings never drive
// behavior anywhere else.
type Definition struct {
	Tag            models.Category
	RootLabel      string
	MaxUploadBytes int64
	AllowedTypes   []string
}

const (
	mb = int64(1) << 20
)

// MIME types shared across several categories.
var (
	pdfOnly = []string{"application/pdf"}

	documentTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}

	imageTypes = []string{
		"image/jpeg",
		"image/png",
		"image/gif",
	}

	reportTypes = append(append([]string{}, documentTypes...), imageTypes...)
)

// definitions is the closed category table. Ceilings reflect the business
// rules: drawings carry large scans, lifeline equipment records are small
// inspection sheets.
var definitions = []Definition{
	{
		Tag:            models.CategoryContract,
		RootLabel:      "Contracts",
		MaxUploadBytes: 20 * mb,
		AllowedTypes:   documentTypes,
	},
	{
		Tag:            models.CategoryDrawing,
		RootLabel:      "Drawings",
		MaxUploadBytes: 50 * mb,
		AllowedTypes:   append(append([]string{}, pdfOnly...), imageTypes...),
	},
	{
		Tag:            models.CategoryMaintenanceInterior,
		RootLabel:      "Interior Maintenance",
		MaxUploadBytes: 30 * mb,
		AllowedTypes:   append(append([]string{}, reportTypes...), "text/plain"),
	},
	{
		Tag:            models.CategoryMaintenanceExterior,
		RootLabel:      "Exterior Maintenance",
		MaxUploadBytes: 30 * mb,
		AllowedTypes:   append(append([]string{}, reportTypes...), "text/plain"),
	},
	{
		Tag:            models.CategoryLifelineElectrical,
		RootLabel:      "Electrical Equipment",
		MaxUploadBytes: 10 * mb,
		AllowedTypes:   reportTypes,
	},
	{
		Tag:            models.CategoryLifelineWater,
		RootLabel:      "Water Supply & Drainage",
		MaxUploadBytes: 10 * mb,
		AllowedTypes:   reportTypes,
	},
	{
		Tag:            models.CategoryLifelineGas,
		RootLabel:      "Gas Equipment",
		MaxUploadBytes: 10 * mb,
		AllowedTypes:   reportTypes,
	},
	{
		Tag:            models.CategoryLifelineElevator,
		RootLabel:      "Elevators",
		MaxUploadBytes: 10 * mb,
		AllowedTypes:   reportTypes,
	},
	{
		Tag:            models.CategoryLifelineHVAC,
		RootLabel:      "HVAC",
		MaxUploadBytes: 10 * mb,
		AllowedTypes:   reportTypes,
	},
}

// byTag is built once from definitions.
var byTag = func() map[models.Category]Definition {
	m := make(map[models.Category]Definition, len(definitions))
	for _, d := range definitions {
		m[d.Tag] = d
	}
	return m
}()

// Categories returns the full category table in declaration order.
func Categories() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// LookupCategory resolves a category tag against the closed set.
func LookupCategory(tag models.Category) (Definition, bool) {
	d, ok := byTag[tag]
	return d, ok
}

// AllowsType reports whether the category accepts the given MIME type on
// upload. Parameters ("; charset=...") are ignored.
func (d Definition) AllowsType(contentType string) bool {
	ct := baseMIME(contentType)
	for _, allowed := range d.AllowedTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}

// baseMIME strips any parameters from a MIME type string.
func baseMIME(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
