// Package auth provides API authentication middleware and actor identity
// helpers for the JSON API.
//
// Terminology:
//   - ActorID / actor_id: the MongoDB ObjectID of the back-office user the
//     request acts on behalf of, supplied in the X-Actor-ID header
//   - API key: a database-backed bearer credential managed in the api_keys
//     collection
package auth

import (
	"context"
	"net/http"
	"strings"

	apikeystore "github.com/dalemusser/facilidocs/internal/app/store/apikeys"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type contextKey string

const (
	actorIDKey contextKey = "actor_id"
	apiKeyKey  contextKey = "api_key"
)

// ActorHeader carries the acting user's id on API requests.
const ActorHeader = "X-Actor-ID"

// APIKeyAuth returns middleware that validates requests against the api_keys
// collection using the Bearer scheme: "Authorization: Bearer <api-key>".
//
// On success the validated key record and the actor id from X-Actor-ID are
// placed on the request context. Requests without a parseable actor id are
// rejected; every write and download is attributed to a real user.
func APIKeyAuth(keys *apikeystore.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("API request rejected: missing Authorization header",
					zap.String("path", r.URL.Path))
				http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Debug("API request rejected: invalid Authorization format",
					zap.String("path", r.URL.Path))
				http.Error(w, "Invalid Authorization format (expected: Bearer <api-key>)", http.StatusUnauthorized)
				return
			}

			key, err := keys.Validate(r.Context(), parts[1])
			if err != nil {
				logger.Warn("API request rejected: invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr))
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			actorID, err := primitive.ObjectIDFromHex(r.Header.Get(ActorHeader))
			if err != nil {
				logger.Debug("API request rejected: missing or invalid actor id",
					zap.String("path", r.URL.Path),
					zap.String("key_name", key.Name))
				http.Error(w, "Missing or invalid "+ActorHeader+" header", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), apiKeyKey, key)
			ctx = context.WithValue(ctx, actorIDKey, actorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorID returns the acting user's id from the request context. The zero
// ObjectID and false mean the request did not pass APIKeyAuth.
func ActorID(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(actorIDKey).(primitive.ObjectID)
	return id, ok
}

// APIKey returns the validated key record from the request context, or nil.
func APIKey(ctx context.Context) *apikeystore.APIKey {
	key, _ := ctx.Value(apiKeyKey).(*apikeystore.APIKey)
	return key
}
