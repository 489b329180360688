package model

import (
	"errors"
	"fmt"
)

// Reason classifies why a network-facing lookup failed
type Reason string

const (
	ReasonTransport  Reason = "transport"  // Connection error or timeout
	ReasonStatus     Reason = "status"     // Non-2xx HTTP status
	ReasonMalformed  Reason = "malformed"  // Payload could not be decoded or had the wrong shape
	ReasonNotFound   Reason = "not_found"  // Upstream reports the entity or page as missing
	ReasonDisallowed Reason = "disallowed" // Blocked by robots.txt
	ReasonCancelled  Reason = "cancelled"  // Context cancelled or deadline exceeded
)

// LookupError is returned by every operation that talks to the network
type LookupError struct {
	Op     string // e.g. "wbgetentities", "fetch page"
	Target string // identifier or URL
	Reason Reason
	Err    error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Target, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Target, e.Reason, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewLookupError builds a LookupError
func NewLookupError(op, target string, reason Reason, err error) *LookupError {
	return &LookupError{Op: op, Target: target, Reason: reason, Err: err}
}

// ReasonOf extracts the failure reason from an error chain. Errors that are not
// LookupErrors are reported as transport failures.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Reason
	}
	return ReasonTransport
}

// IsNotFound reports whether err says the target does not exist upstream
func IsNotFound(err error) bool {
	return ReasonOf(err) == ReasonNotFound
}
