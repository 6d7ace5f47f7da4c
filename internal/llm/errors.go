package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/milkyai/milky-relay/internal/models"
)

// FailKind classifies what went wrong with a vendor call. The router keys
// its retry and fallback decisions off this, never off raw status codes.
type FailKind string

const (
	FailTimeout      FailKind = "timeout"
	FailRateLimited  FailKind = "rate_limited"
	FailUpstream     FailKind = "upstream"     // 5xx
	FailFatal        FailKind = "fatal"        // other 4xx, malformed envelope
	FailEmpty        FailKind = "empty"        // 200 with no extractable text
	FailUnconfigured FailKind = "unconfigured" // vendor credential absent
)

// Error is a classified vendor failure.
type Error struct {
	Kind   FailKind
	Vendor models.Vendor
	Status int
	Msg    string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Vendor, e.Kind, e.Msg, e.Cause)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %s", e.Vendor, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Vendor, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Retryable reports whether the same vendor may be tried again.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case FailTimeout, FailRateLimited, FailUpstream:
		return true
	}
	return false
}

// KindOf extracts the failure kind, mapping unclassified errors to FailFatal.
func KindOf(err error) FailKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return FailFatal
}

func newUnconfigured(v models.Vendor) *Error {
	return &Error{Kind: FailUnconfigured, Vendor: v, Msg: "api key not configured"}
}

// classifyTransport maps a transport-level error. Deadline expiry, whether
// from the context or the socket, counts as a timeout.
func classifyTransport(v models.Vendor, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: FailTimeout, Vendor: v, Cause: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: FailTimeout, Vendor: v, Cause: err}
	}
	return &Error{Kind: FailUpstream, Vendor: v, Cause: err}
}

// classifyStatus maps a non-2xx response status.
func classifyStatus(v models.Vendor, status int, body string) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: FailRateLimited, Vendor: v, Status: status, Msg: body}
	case status >= 500:
		return &Error{Kind: FailUpstream, Vendor: v, Status: status, Msg: body}
	default:
		return &Error{Kind: FailFatal, Vendor: v, Status: status, Msg: body}
	}
}
