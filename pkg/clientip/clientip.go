// Package clientip resolves the originating client address of a request,
// honoring proxy forwarding headers.
package clientip

import (
	"net/http"
	"strings"
)

// FromRequest returns the client IP, preferring X-Forwarded-For, then
// X-Real-IP, then the connection's remote address.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ips := strings.Split(forwarded, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
