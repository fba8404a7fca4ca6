package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by store lookups that match no record.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed registration input. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// InvalidDocumentError marks acquired bytes that fail the signature or
// parse check. The source is skipped; ingestion continues for others.
type InvalidDocumentError struct {
	Location string
	Reason   string
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid document %s: %s", e.Location, e.Reason)
}

// FetchError marks a network or timeout failure while retrieving a remote
// document. Recorded per source; ingestion continues.
type FetchError struct {
	Location string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// GenerationInvocationError marks an unreachable, timed-out, or
// non-conforming external generator call. It is absorbed into the
// insufficient_context fallback and never surfaced to callers.
type GenerationInvocationError struct {
	Reason string
	Err    error
}

func (e *GenerationInvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation invocation: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation invocation: %s", e.Reason)
}

func (e *GenerationInvocationError) Unwrap() error { return e.Err }
