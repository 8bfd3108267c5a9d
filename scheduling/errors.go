/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Constraint errors - per-row store violations the writer skips over
  2. Not-found errors  - resolution misses carrying did-you-mean candidates
  3. Pipeline errors   - total failures that propagate to the request level

PROPAGATION POLICY:
  Resolution-stage misses are recovered locally into user-facing suggestions.
  Store-stage per-row conflicts are recovered by skipping and continuing.
  Only total-pipeline failures (no staff resolved, no project resolved, store
  unreachable) propagate as request-level errors.

USAGE:
  if errors.Is(err, scheduling.ErrDuplicateAssignment) { ... skip row ... }

  var nf *scheduling.NotFoundError
  if errors.As(err, &nf) { ... render nf.Candidates ... }
*/
package scheduling

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateAssignment is returned by stores when a row violates the
	// (staffId, projectId, date) uniqueness invariant. The writer treats it
	// as an expected skip, not a failure.
	ErrDuplicateAssignment = errors.New("duplicate assignment for staff/project/date")

	// ErrMissingReference is returned by stores when an assignment points at
	// a staff or project record that does not exist.
	ErrMissingReference = errors.New("assignment references missing staff or project")

	// ErrNotBookingCommand marks text the parser produced nil for. Callers
	// that need an error value (rather than a nil command) use this.
	ErrNotBookingCommand = errors.New("text is not a booking command")
)

// =============================================================================
// NOT FOUND - Typed resolution misses with suggestions
// =============================================================================

// Error codes surfaced in API responses.
const (
	CodeStaffNotFound   = "staff_not_found"
	CodeProjectNotFound = "project_not_found"
)

// NotFoundError reports a resolution miss. Candidates carries known names for
// UI-level did-you-mean suggestions; it may be empty for project misses.
type NotFoundError struct {
	Code       string
	Requested  string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("%s: %q", e.Code, e.Requested)
	}
	return fmt.Sprintf("%s: %q (known: %s)", e.Code, e.Requested, strings.Join(e.Candidates, ", "))
}

// Message renders the user-facing explanation for the miss.
func (e *NotFoundError) Message() string {
	subject := "staff member"
	if e.Code == CodeProjectNotFound {
		subject = "project"
	}
	msg := fmt.Sprintf("I couldn't find a %s matching %q.", subject, e.Requested)
	if len(e.Candidates) > 0 {
		msg += " Did you mean: " + strings.Join(e.Candidates, ", ") + "?"
	}
	return msg
}
