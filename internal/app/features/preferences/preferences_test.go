package preferences

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/facilidocs/internal/app/store/prefs"
	"github.com/dalemusser/facilidocs/internal/app/system/auth"
	"github.com/dalemusser/facilidocs/internal/testutil"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	h := NewHandler(prefs.New(db), zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/api/facilities/{facilityID}/preferences", Routes(h))
	return r
}

// do sends a request as a fixed actor so saved state is visible across
// calls within a test.
func do(t *testing.T, router http.Handler, actorID primitive.ObjectID, method, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := auth.WithTestActor(httptest.NewRequest(method, target, reader), actorID)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodePayload(t *testing.T, rec *testutil.ResponseRecorder) payload {
	t.Helper()
	var p payload
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return p
}

func TestHandler_Get_Defaults(t *testing.T) {
	router := newRouter(t)
	target := "/api/facilities/" + primitive.NewObjectID().Hex() + "/preferences"

	rec := do(t, router, primitive.NewObjectID(), http.MethodGet, target, nil)
	rec.AssertStatus(t, http.StatusOK)

	p := decodePayload(t, rec)
	if p.SortBy != "name" || p.SortOrder != "asc" || p.PerPage != 0 {
		t.Errorf("defaults = %+v, want name/asc/0", p)
	}
}

func TestHandler_PutGetDelete(t *testing.T) {
	router := newRouter(t)
	actorID := primitive.NewObjectID()
	target := "/api/facilities/" + primitive.NewObjectID().Hex() + "/preferences"

	rec := do(t, router, actorID, http.MethodPut, target, payload{
		SortBy:    "size",
		SortOrder: "desc",
		PerPage:   25,
	})
	rec.AssertStatus(t, http.StatusOK)

	rec = do(t, router, actorID, http.MethodGet, target, nil)
	rec.AssertStatus(t, http.StatusOK)
	p := decodePayload(t, rec)
	if p.SortBy != "size" || p.SortOrder != "desc" || p.PerPage != 25 {
		t.Errorf("saved preference = %+v, want size/desc/25", p)
	}

	// Another actor still sees defaults.
	rec = do(t, router, primitive.NewObjectID(), http.MethodGet, target, nil)
	rec.AssertStatus(t, http.StatusOK)
	if p := decodePayload(t, rec); p.SortBy != "name" {
		t.Errorf("other actor sees %+v, want defaults", p)
	}

	// Delete reverts to defaults.
	rec = do(t, router, actorID, http.MethodDelete, target, nil)
	rec.AssertStatus(t, http.StatusNoContent)
	rec = do(t, router, actorID, http.MethodGet, target, nil)
	rec.AssertStatus(t, http.StatusOK)
	if p := decodePayload(t, rec); p.SortBy != "name" || p.PerPage != 0 {
		t.Errorf("after delete = %+v, want defaults", p)
	}
}

func TestHandler_Put_Validation(t *testing.T) {
	router := newRouter(t)
	actorID := primitive.NewObjectID()
	target := "/api/facilities/" + primitive.NewObjectID().Hex() + "/preferences"

	for _, p := range []payload{
		{SortBy: "color", SortOrder: "asc", PerPage: 10},
		{SortBy: "name", SortOrder: "sideways", PerPage: 10},
		{SortBy: "name", SortOrder: "asc", PerPage: 5000},
	} {
		rec := do(t, router, actorID, http.MethodPut, target, p)
		rec.AssertStatus(t, http.StatusBadRequest)
	}
}

func TestHandler_InvalidFacilityID(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, primitive.NewObjectID(), http.MethodGet, "/api/facilities/not-hex/preferences", nil)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandler_RequiresActor(t *testing.T) {
	router := newRouter(t)
	target := "/api/facilities/" + primitive.NewObjectID().Hex() + "/preferences"

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}
