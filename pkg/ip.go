package pkg

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the client address without port. Proxy headers win over the
// remote address; for X-Forwarded-For the first (original client) entry is used.
func ClientIP(r *http.Request) string {
	ipAddr := strings.TrimSpace(r.Header.Get("X-Real-Ip"))
	if ipAddr == "" {
		forwarded := r.Header.Get("X-Forwarded-For")
		ipAddr = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}
	if net.ParseIP(ipAddr) == nil {
		return ""
	}
	return ipAddr
}
