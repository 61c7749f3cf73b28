package auth

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithTestActor returns a copy of the request with the actor id placed on
// its context, bypassing APIKeyAuth. For handler tests only.
func WithTestActor(r *http.Request, actorID primitive.ObjectID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), actorIDKey, actorID))
}
