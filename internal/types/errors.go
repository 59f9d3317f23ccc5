package types

import (
	"errors"
	"fmt"
)

// ErrNotFound means a course genuinely has no recorded statistics. It is a
// normal outcome, not a failure; handlers map it to a "no data" response.
var ErrNotFound = errors.New("no data recorded")

// ErrUnknownInstitution means the caller passed an institution tag with no
// registry entry. It is reported synchronously, before any fetch is
// scheduled.
var ErrUnknownInstitution = errors.New("unknown institution")

// TransportError wraps a network or parse failure while reaching the
// upstream statistics service or a catalog resource. It must stay
// distinguishable from ErrNotFound so callers can offer a retry instead of
// claiming the data does not exist.
type TransportError struct {
	Op     string // "fetch catalog", "fetch grades"
	URL    string
	Status int // HTTP status when one was received, else 0
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s: status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
