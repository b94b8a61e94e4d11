package middleware

import (
	"net/http"
	"strings"
)

const unknownClient = "unknown"

// ClientIdentifier picks the rate-limit bucket for a request: the first
// X-Forwarded-For entry, then X-Real-IP, then a shared "unknown" bucket.
func ClientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return unknownClient
}
