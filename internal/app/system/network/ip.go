// Package network extracts client network details from requests. The
// document audit trail records the caller's IP on every folder and file
// event, so extraction has to work behind the reverse proxies this service
// is normally deployed under.
package network

import (
	"net/http"
	"strings"
)

// GetClientIP returns the client IP for a request. X-Forwarded-For wins
// over X-Real-IP; with neither header present the RemoteAddr is used with
// its port stripped.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// The first entry in the chain is the originating client.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}
