package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ExtractTraceID extracts the trace_id from a W3C traceparent header
// (00-<trace-id>-<span-id>-<flags>). Returns empty string when the
// header is missing or malformed.
func ExtractTraceID(traceparent string) string {
	if traceparent == "" || !strings.HasPrefix(traceparent, "00-") {
		return ""
	}

	parts := strings.Split(traceparent, "-")
	if len(parts) < 2 {
		return ""
	}

	traceID := parts[1]
	// Validate trace-id is 32 hex characters
	if len(traceID) != 32 {
		return ""
	}

	return traceID
}

// GenerateTraceparent generates a sampled W3C traceparent header.
func GenerateTraceparent() string {
	traceID := strings.ReplaceAll(uuid.New().String(), "-", "")
	spanID := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	return "00-" + traceID + "-" + spanID + "-01"
}

// EnsureTraceparent returns the provided traceparent when it looks
// valid, otherwise a freshly generated one. Gateway callbacks arrive
// without tracing headers, so every request still gets a trace id.
func EnsureTraceparent(traceparent string) string {
	if traceparent == "" || !strings.HasPrefix(traceparent, "00-") {
		return GenerateTraceparent()
	}
	return traceparent
}
