package metrics

import (
	"strings"
	"time"
)

// RecordObjectStoreCall records one call to the object store. statusCode is
// the HTTP status of the response, or 0 when no response arrived.
func (m *Metrics) RecordObjectStoreCall(operation string, statusCode int, duration time.Duration, err error) {
	m.safeExecute("RecordObjectStoreCall", func() {
		outcome := "ok"
		if err != nil || statusCode >= 400 {
			outcome = "error"
			m.ObjectStoreErrors.WithLabelValues(operation, classifyObjectStoreError(statusCode, err)).Inc()
		}
		m.ObjectStoreRequestsTotal.WithLabelValues(operation, outcome).Inc()
		m.ObjectStoreRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	})
}

// classifyObjectStoreError maps a failed call to a small, fixed label set
func classifyObjectStoreError(statusCode int, err error) string {
	switch {
	case statusCode == 403:
		return "access_denied"
	case statusCode == 404:
		return "not_found"
	case statusCode == 429 || statusCode == 503:
		return "throttled"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode >= 500:
		return "server_error"
	}

	if err == nil {
		return "unknown"
	}
	msg := err.Error()
	for _, c := range transportErrors {
		for _, needle := range c.needles {
			if strings.Contains(msg, needle) {
				return c.kind
			}
		}
	}
	return "transport_error"
}

var transportErrors = []struct {
	kind    string
	needles []string
}{
	{"canceled", []string{"context canceled"}},
	{"timeout", []string{"timeout", "deadline exceeded"}},
	{"connection_refused", []string{"connection refused"}},
	{"dns_error", []string{"no such host"}},
	{"connection_reset", []string{"EOF", "connection reset"}},
	{"tls_error", []string{"tls:", "x509:", "certificate"}},
	{"access_denied", []string{"AccessDenied"}},
	{"not_found", []string{"NoSuchKey", "NoSuchBucket"}},
	{"file_error", []string{"no such file", "permission denied"}},
}
