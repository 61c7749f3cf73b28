// Package preferences provides the JSON API for per-user display
// preferences. Preferences are scoped to a facility and feed the default
// sort and paging of document listings.
package preferences

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/facilidocs/internal/app/store/prefs"
	"github.com/dalemusser/facilidocs/internal/app/system/auth"
	"github.com/dalemusser/facilidocs/internal/app/system/jsonutil"
)

// Handler handles display preference requests.
type Handler struct {
	store  *prefs.Store
	logger *zap.Logger
}

// NewHandler creates a preferences Handler.
func NewHandler(store *prefs.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Routes returns a chi.Router with preference routes mounted. It expects
// facilityID to be a URL parameter on the parent router.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Put("/", h.Put)
	r.Delete("/", h.Delete)
	return r
}

type payload struct {
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
	PerPage   int    `json:"per_page"`
}

func (p payload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.SortBy, validation.Required, validation.In("name", "date", "size")),
		validation.Field(&p.SortOrder, validation.Required, validation.In("asc", "desc")),
		validation.Field(&p.PerPage, validation.Min(0), validation.Max(100)),
	)
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (actorID, facilityID primitive.ObjectID, ok bool) {
	actorID, found := auth.ActorID(r.Context())
	if !found {
		jsonutil.Unauthorized(w, "missing actor identity")
		return
	}
	facilityID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "facilityID"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid facility id")
		return
	}
	ok = true
	return
}

// Get handles GET .../preferences, returning the actor's saved preference
// for the facility or the built-in defaults.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, facilityID, ok := h.scope(w, r)
	if !ok {
		return
	}

	pref, err := h.store.Get(r.Context(), actorID, facilityID)
	if err != nil {
		h.logger.Error("loading preference failed", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	out := payload{SortBy: "name", SortOrder: "asc", PerPage: 0}
	if pref != nil {
		out = payload{SortBy: pref.SortBy, SortOrder: pref.SortOrder, PerPage: pref.PerPage}
	}
	jsonutil.OK(w, out)
}

// Put handles PUT .../preferences, saving the actor's preference for the
// facility.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	actorID, facilityID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var p payload
	if err := jsonutil.Decode(r, &p); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if err := p.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	if err := h.store.Save(r.Context(), actorID, facilityID, prefs.SaveInput{
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
		PerPage:   p.PerPage,
	}); err != nil {
		h.logger.Error("saving preference failed", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}

	jsonutil.OK(w, p)
}

// Delete handles DELETE .../preferences, reverting the actor to defaults.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, facilityID, ok := h.scope(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), actorID, facilityID); err != nil {
		h.logger.Error("deleting preference failed", zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}
	jsonutil.NoContent(w)
}
