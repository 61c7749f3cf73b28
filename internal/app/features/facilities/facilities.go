// Package facilities provides the JSON API for registering and listing the
// facilities whose document trees this service manages.
package facilities

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/facilidocs/internal/app/store/facility"
	"github.com/dalemusser/facilidocs/internal/app/system/auditlog"
	"github.com/dalemusser/facilidocs/internal/app/system/auth"
	"github.com/dalemusser/facilidocs/internal/app/system/jsonutil"
	"github.com/dalemusser/facilidocs/internal/domain/models"
)

// Handler handles facility management requests.
type Handler struct {
	store  *facility.Store
	audits *auditlog.Logger
	logger *zap.Logger
}

// NewHandler creates a facilities Handler.
func NewHandler(store *facility.Store, audits *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{store: store, audits: audits, logger: logger}
}

// Routes returns a chi.Router with facility routes mounted. The documents
// and preferences routers are nested under /{facilityID} so they can read
// the facility id from the URL.
func Routes(h *Handler, documents, preferences http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{facilityID}", func(sr chi.Router) {
		sr.Get("/", h.Get)
		sr.Patch("/", h.Update)
		sr.Mount("/documents", documents)
		sr.Mount("/preferences", preferences)
	})
	return r
}

type createPayload struct {
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func (p createPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Code, validation.Length(0, 64)),
		validation.Field(&p.Address, validation.Length(0, 1000)),
	)
}

type updatePayload struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Status  *string `json:"status,omitempty"`
}

func (p updatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&p.Address, validation.Length(0, 1000)),
		validation.Field(&p.Status, validation.In(models.FacilityStatusActive, models.FacilityStatusInactive)),
	)
}

type facilityView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func render(f *models.Facility) facilityView {
	return facilityView{
		ID:        f.ID.Hex(),
		Name:      f.Name,
		Code:      f.Code,
		Address:   f.Address,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// List handles GET /api/facilities with optional status, search, page, and
// per_page query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := facility.ListOptions{
		Status: q.Get("status"),
		Search: strings.TrimSpace(q.Get("search")),
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

	list, err := h.store.List(r.Context(), opts)
	if err != nil {
		h.logger.Error("listing facilities failed", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	views := make([]facilityView, 0, len(list))
	for _, f := range list {
		views = append(views, render(&f))
	}
	jsonutil.OK(w, map[string]any{"facilities": views})
}

// Create handles POST /api/facilities.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.ActorID(r.Context())
	if !ok {
		jsonutil.Unauthorized(w, "missing actor identity")
		return
	}

	var payload createPayload
	if err := jsonutil.Decode(r, &payload); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	if payload.Code != "" {
		exists, err := h.store.CodeExists(r.Context(), payload.Code)
		if err != nil {
			h.logger.Error("checking facility code failed", zap.Error(err))
			jsonutil.InternalError(w, "internal error")
			return
		}
		if exists {
			jsonutil.Error(w, http.StatusConflict, "facility code already in use")
			return
		}
	}

	f, err := h.store.Create(r.Context(), facility.CreateInput{
		Name:    strings.TrimSpace(payload.Name),
		Code:    strings.TrimSpace(payload.Code),
		Address: strings.TrimSpace(payload.Address),
	})
	if err != nil {
		h.logger.Error("creating facility failed", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	h.audits.FacilityCreated(r.Context(), r, actorID, f.ID, f.Name)
	jsonutil.Created(w, render(f))
}

// Get handles GET /api/facilities/{facilityID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "facilityID"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid facility id")
		return
	}

	f, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		jsonutil.NotFound(w, "facility not found")
		return
	}
	jsonutil.OK(w, render(f))
}

// Update handles PATCH /api/facilities/{facilityID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.ActorID(r.Context())
	if !ok {
		jsonutil.Unauthorized(w, "missing actor identity")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "facilityID"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid facility id")
		return
	}

	var payload updatePayload
	if err := jsonutil.Decode(r, &payload); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := payload.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	if err := h.store.Update(r.Context(), id, facility.UpdateInput{
		Name:    payload.Name,
		Address: payload.Address,
		Status:  payload.Status,
	}); err != nil {
		h.logger.Error("updating facility failed", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	f, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		jsonutil.NotFound(w, "facility not found")
		return
	}

	h.audits.FacilityUpdated(r.Context(), r, actorID, id)
	jsonutil.OK(w, render(f))
}
