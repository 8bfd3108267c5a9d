/*
Package scheduling provides the core booking and assignment-resolution engine.

PURPOSE:
  This package contains the domain types and algorithms that turn a free-text
  or structured scheduling request ("book the Analytics department on Nebula
  for 4 hours next week") into a validated, conflict-free set of
  staff-to-project assignments.

KEY CONCEPTS IN THIS FILE (types.go):
  - StaffMember/Project/Assignment: The persistent entity records
  - BookingCommand: An ephemeral, parsed booking request (single or bulk)
  - ProjectBooking: One {projectName, hours} pair inside a command
  - AssignmentRow: A fully resolved row ready for the writer
  - ResolvedMatch: The unit reported back for each created assignment

DESIGN PRINCIPLES:
  1. Precision: budgets and rates use decimal.Decimal, never float64
  2. Day granularity: assignments are keyed by calendar day (see dates.go)
  3. Open records: request bodies may carry extra fields; they land in a
     string-keyed Metadata bag and are never validated

PIPELINE:
  Parse -> Resolve -> Expand -> Build -> Write
  (parser.go) (resolver.go) (dates.go) (builder.go) (writer.go)

SEE ALSO:
  - store.go: Persistence interfaces the engine consumes
  - errors.go: Sentinel and typed errors shared across stages
*/
package scheduling

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTITY RECORDS
// =============================================================================

// StaffMember is one schedulable person.
// Uniqueness of (Name, Grade, Department) is enforced by the store.
type StaffMember struct {
	ID         string
	Name       string
	Grade      string
	Department string
	City       string
	Country    string
	Email      string
	Skills     []string

	// Rate overrides the grade-rate table for this person when set.
	Rate *decimal.Decimal

	// Metadata carries unvalidated extension fields from open request bodies.
	Metadata map[string]string
}

// Project is one bookable engagement.
// Uniqueness of (Name, PartnerName) is enforced by the store.
type Project struct {
	ID          string
	Name        string
	Description string
	PartnerName string
	TeamLead    string

	// Budget is in hours-equivalent units. nil means no budget is tracked,
	// which makes remaining-budget queries return null rather than zero.
	Budget *decimal.Decimal
}

// Assignment is one staff/project/day/hours record.
// (StaffID, ProjectID, Date) is globally unique: at most one row per
// staff/project/day. The same staff member may appear on several projects
// on the same day as separate rows.
type Assignment struct {
	ID        string
	StaffID   string
	ProjectID string
	Date      Date
	Hours     int
}

// =============================================================================
// BOOKING COMMAND - Ephemeral parsed request
// =============================================================================

// ProjectBooking is one "<project> for <n> hours" clause of a command.
type ProjectBooking struct {
	ProjectName string
	Hours       int
}

// BookingCommand is the typed form of one booking request. It is constructed
// by Parse, consumed once by the resolver/builder, and never persisted.
//
// Exactly one of Department or StaffNames is populated:
//   - Department set:       bulk booking for everyone in that department
//   - len(StaffNames) > 1:  bulk booking for the named people
//   - len(StaffNames) == 1: single booking
type BookingCommand struct {
	StaffNames []string
	Department string
	Bookings   []ProjectBooking
	Range      DateRange
}

// Bulk reports whether the command fans out over multiple staff.
func (c *BookingCommand) Bulk() bool {
	return c.Department != "" || len(c.StaffNames) > 1
}

// =============================================================================
// BUILDER / WRITER UNITS
// =============================================================================

// AssignmentRow is one fully resolved staff x project x date cell produced by
// the builder. Names are carried alongside IDs so the writer can report
// human-readable matches without re-reading the store.
type AssignmentRow struct {
	StaffID     string
	StaffName   string
	ProjectID   string
	ProjectName string
	Date        Date
	Hours       int
}

// ResolvedMatch describes one successfully created assignment, in the shape
// the orchestrator contract expects.
type ResolvedMatch struct {
	StaffID       string `json:"staffId"`
	StaffName     string `json:"staffName"`
	AssignedHours int    `json:"assignedHours"`
	Date          string `json:"date"`
}
