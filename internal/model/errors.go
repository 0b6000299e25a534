package model

import (
	"fmt"
	"time"
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// RegistryError marks a company-registry problem for one ATS. The scan skips
// that ATS's boards and proceeds with the rest.
type RegistryError struct {
	ATS string
	Err error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry %s: %v", e.ATS, e.Err)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

// PersistenceError marks a store-level failure. It is the only error class
// that fails a whole scan; the merge bridge guarantees the prior store state
// is intact when it is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
