package metrics

import (
	"strconv"
	"strings"
	"time"
)

var operationalPaths = map[string]bool{
	"/metrics": true,
	"/health":  true,
	"/ready":   true,
}

// RecordHTTPRequest counts a finished request under its status class and
// observes its latency. endpoint is the route template, not the raw path.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusClass(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// statusClass returns "2xx".."5xx", or "unknown" outside 200-599
func statusClass(code int) string {
	if code < 200 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// ShouldSkipEndpoint reports whether path is an operational endpoint, at the
// root or under basePath
func ShouldSkipEndpoint(path, basePath string) bool {
	return operationalPaths[strings.TrimPrefix(path, strings.TrimRight(basePath, "/"))]
}
