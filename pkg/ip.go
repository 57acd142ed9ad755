package pkg

import (
	"net"
	"net/http"
	"strings"
)

// ReadUserIP returns the client address, preferring the proxy headers set by nginx.
func ReadUserIP(r *http.Request) string {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		ipAddr = r.Header.Get("X-Forwarded-For")
		// first one is the client, the rest are proxies
		if i := strings.Index(ipAddr, ","); i >= 0 {
			ipAddr = ipAddr[:i]
		}
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}
	ipAddr = strings.TrimSpace(ipAddr)

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		return host
	}
	return ipAddr
}
