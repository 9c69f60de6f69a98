package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized means the server rejected the credential. Session
	// teardown is handled centrally by the gateway; callers only see this
	// sentinel.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied means the credential is valid but the role may
	// not perform the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnavailable covers network failures and 5xx responses. The
	// operation may be retried; no client state was changed.
	ErrUnavailable = errors.New("server unavailable")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrBadPayload means the response body did not have the expected
	// shape. Callers degrade to an empty result and show the error.
	ErrBadPayload = errors.New("unexpected response payload")
)

// ValidationError carries structured per-field messages from a 400/422
// response, plus an optional overall detail message.
type ValidationError struct {
	Detail string
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
