package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/facilidocs/internal/app/system/auth"
)

// NewActorRequest creates an HTTP request with an actor id on the context,
// as APIKeyAuth would have placed it. It returns the request and the actor
// id for assertions.
func NewActorRequest(method, target string, body io.Reader) (*http.Request, primitive.ObjectID) {
	actorID := primitive.NewObjectID()
	req := httptest.NewRequest(method, target, body)
	return auth.WithTestActor(req, actorID), actorID
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}
