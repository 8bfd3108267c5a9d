/*
store.go - Persistence interfaces consumed by the scheduling engine

PURPOSE:
  Defines the contract between the engine and the entity store. The engine
  never owns CRUD semantics; it only requires lookups, per-row inserts, and
  the store-enforced uniqueness invariant.

KEY INTERFACES:
  Directory:       Read access to staff and projects (resolver, analytics)
  AssignmentStore: Assignment reads and per-row writes (writer, analytics)
  Store:           The full surface, implemented by store/sqlite and the
                   in-memory store under scheduling/store

CONSTRAINT CONTRACT:
  CreateAssignment must return ErrDuplicateAssignment when the
  (staffId, projectId, date) triple already exists and ErrMissingReference
  when a foreign key is violated. The conflict-aware writer depends on this
  classification to skip rows instead of failing batches. Concurrency safety
  for the uniqueness invariant is delegated entirely to the store; the engine
  takes no application-level locks.

IMPLEMENTATIONS:
  - store/sqlite:     production SQLite store
  - scheduling/store: in-memory store for tests
*/
package scheduling

import "context"

// Directory provides read access to the entity records the resolver and
// analytics work from.
type Directory interface {
	ListStaff(ctx context.Context) ([]StaffMember, error)
	GetStaff(ctx context.Context, id string) (StaffMember, error)
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
}

// AssignmentStore persists and queries assignment rows.
type AssignmentStore interface {
	// CreateAssignment inserts one row. Constraint violations are reported
	// as ErrDuplicateAssignment or ErrMissingReference.
	CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)

	// ListAssignments returns rows with date inside the range, ascending by
	// date. An empty range (From after To) yields no rows.
	ListAssignments(ctx context.Context, r DateRange) ([]Assignment, error)

	// DeleteAssignmentsInRange removes rows for one staff member inside the
	// range and reports how many were deleted. staffID == "" removes rows
	// for all staff.
	DeleteAssignmentsInRange(ctx context.Context, staffID string, r DateRange) (int, error)
}

// EntityWriter covers the CRUD surface the HTTP layer exposes. The engine
// itself only creates; updates and deletes exist for the admin endpoints.
type EntityWriter interface {
	CreateStaff(ctx context.Context, s StaffMember) (StaffMember, error)
	DeleteStaff(ctx context.Context, id string) error
	CreateProject(ctx context.Context, p Project) (Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// Store is the complete persistence surface.
type Store interface {
	Directory
	AssignmentStore
	EntityWriter
}
