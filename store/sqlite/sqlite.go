/*
Package sqlite provides the SQLite-backed implementation of scheduling.Store.

PURPOSE:
  Persists staff, project, and assignment records. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

CONSTRAINTS (the engine depends on these):
  assignments UNIQUE(staff_id, project_id, date):
      at most one assignment row per staff/project/day. Violations map to
      scheduling.ErrDuplicateAssignment so the conflict-aware writer can
      skip and continue.
  assignments.staff_id / project_id foreign keys, ON DELETE RESTRICT:
      callers must delete dependent assignments first. Violations map to
      scheduling.ErrMissingReference.
  staff UNIQUE(name, grade, department), projects UNIQUE(name, partner_name).

CONCURRENCY:
  The uniqueness invariant is enforced here, not by application locks.
  Concurrent bookings racing on the same (staff, project, date) triple
  resolve at the database; the loser sees ErrDuplicateAssignment.

WAL MODE:
  Opened with WAL and foreign keys on, as multiple readers plus a single
  writer is exactly the booking workload.

USAGE:
  store, err := sqlite.New("./data/scheduler.db")  // ":memory:" for tests
  defer store.Close()

SEE ALSO:
  - scheduling/store.go: Interface definitions and the constraint contract
  - scheduling/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// Store implements scheduling.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (and migrates) a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS staff (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL CHECK (name <> ''),
		grade         TEXT NOT NULL DEFAULT '',
		department    TEXT NOT NULL DEFAULT '',
		city          TEXT NOT NULL DEFAULT '',
		country       TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		skills_json   TEXT NOT NULL DEFAULT '[]',
		rate          TEXT,
		metadata_json TEXT NOT NULL DEFAULT '{}',
		created_at    TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_staff_identity
		ON staff(name, grade, department);

	CREATE TABLE IF NOT EXISTS projects (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL CHECK (name <> ''),
		description  TEXT NOT NULL DEFAULT '',
		partner_name TEXT NOT NULL DEFAULT '',
		team_lead    TEXT NOT NULL DEFAULT '',
		budget       TEXT,
		created_at   TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_identity
		ON projects(name, partner_name);

	CREATE TABLE IF NOT EXISTS assignments (
		id         TEXT PRIMARY KEY,
		staff_id   TEXT NOT NULL REFERENCES staff(id) ON DELETE RESTRICT,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE RESTRICT,
		date       TEXT NOT NULL,
		hours      INTEGER NOT NULL CHECK (hours > 0),
		created_at TEXT NOT NULL,
		UNIQUE (staff_id, project_id, date)
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_date ON assignments(date);
	CREATE INDEX IF NOT EXISTS idx_assignments_staff_date ON assignments(staff_id, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// classify maps SQLite constraint violations onto the engine's sentinel
// errors. Everything else passes through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%v: %w", err, scheduling.ErrDuplicateAssignment)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%v: %w", err, scheduling.ErrMissingReference)
		}
	}
	return err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// STAFF
// =============================================================================

func (s *Store) CreateStaff(ctx context.Context, m scheduling.StaffMember) (scheduling.StaffMember, error) {
	if strings.TrimSpace(m.Name) == "" {
		return scheduling.StaffMember{}, fmt.Errorf("staff name is required")
	}
	skills, _ := json.Marshal(m.Skills)
	metadata, _ := json.Marshal(m.Metadata)
	var rate *string
	if m.Rate != nil {
		v := m.Rate.String()
		rate = &v
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (id, name, grade, department, city, country, email, skills_json, rate, metadata_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Grade, m.Department, m.City, m.Country, m.Email, string(skills), rate, string(metadata), now())
	if err != nil {
		return scheduling.StaffMember{}, classify(err)
	}
	return m, nil
}

func (s *Store) GetStaff(ctx context.Context, id string) (scheduling.StaffMember, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, grade, department, city, country, email, skills_json, rate, metadata_json
		FROM staff WHERE id = ?`, id)
	m, err := scanStaff(row)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduling.StaffMember{}, fmt.Errorf("staff %q: %w", id, scheduling.ErrMissingReference)
	}
	return m, err
}

func (s *Store) ListStaff(ctx context.Context) ([]scheduling.StaffMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, grade, department, city, country, email, skills_json, rate, metadata_json
		FROM staff ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scheduling.StaffMember
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DeleteStaff(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM staff WHERE id = ?`, id)
	return classify(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaff(r rowScanner) (scheduling.StaffMember, error) {
	var m scheduling.StaffMember
	var skillsJSON, metadataJSON string
	var rate sql.NullString
	if err := r.Scan(&m.ID, &m.Name, &m.Grade, &m.Department, &m.City, &m.Country, &m.Email, &skillsJSON, &rate, &metadataJSON); err != nil {
		return scheduling.StaffMember{}, err
	}
	if err := json.Unmarshal([]byte(skillsJSON), &m.Skills); err != nil {
		m.Skills = nil
	}
	if err := json.Unmarshal([]byte(metadataJSON), &m.Metadata); err != nil {
		m.Metadata = nil
	}
	if rate.Valid {
		if d, err := decimal.NewFromString(rate.String); err == nil {
			m.Rate = &d
		}
	}
	return m, nil
}

// =============================================================================
// PROJECTS
// =============================================================================

func (s *Store) CreateProject(ctx context.Context, p scheduling.Project) (scheduling.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return scheduling.Project{}, fmt.Errorf("project name is required")
	}
	if p.Budget != nil && p.Budget.IsNegative() {
		return scheduling.Project{}, fmt.Errorf("project budget must not be negative")
	}
	var budget *string
	if p.Budget != nil {
		v := p.Budget.String()
		budget = &v
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, partner_name, team_lead, budget, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.PartnerName, p.TeamLead, budget, now())
	if err != nil {
		return scheduling.Project{}, classify(err)
	}
	return p, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (scheduling.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, partner_name, team_lead, budget
		FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduling.Project{}, fmt.Errorf("project %q: %w", id, scheduling.ErrMissingReference)
	}
	return p, err
}

func (s *Store) ListProjects(ctx context.Context) ([]scheduling.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, partner_name, team_lead, budget
		FROM projects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scheduling.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return classify(err)
}

func scanProject(r rowScanner) (scheduling.Project, error) {
	var p scheduling.Project
	var budget sql.NullString
	if err := r.Scan(&p.ID, &p.Name, &p.Description, &p.PartnerName, &p.TeamLead, &budget); err != nil {
		return scheduling.Project{}, err
	}
	if budget.Valid {
		if d, err := decimal.NewFromString(budget.String); err == nil {
			p.Budget = &d
		}
	}
	return p, nil
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (s *Store) CreateAssignment(ctx context.Context, a scheduling.Assignment) (scheduling.Assignment, error) {
	if a.Hours <= 0 {
		return scheduling.Assignment{}, fmt.Errorf("assignment hours must be positive, got %d", a.Hours)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignments (id, staff_id, project_id, date, hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.StaffID, a.ProjectID, a.Date.String(), a.Hours, now())
	if err != nil {
		return scheduling.Assignment{}, classify(err)
	}
	return a, nil
}

func (s *Store) ListAssignments(ctx context.Context, r scheduling.DateRange) ([]scheduling.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, staff_id, project_id, date, hours
		FROM assignments WHERE date >= ? AND date <= ?
		ORDER BY date, id`, r.From.String(), r.To.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scheduling.Assignment
	for rows.Next() {
		var a scheduling.Assignment
		var date string
		if err := rows.Scan(&a.ID, &a.StaffID, &a.ProjectID, &date, &a.Hours); err != nil {
			return nil, err
		}
		if a.Date, err = scheduling.ParseDate(date); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAssignmentsInRange(ctx context.Context, staffID string, r scheduling.DateRange) (int, error) {
	query := `DELETE FROM assignments WHERE date >= ? AND date <= ?`
	args := []any{r.From.String(), r.To.String()}
	if staffID != "" {
		query += ` AND staff_id = ?`
		args = append(args, staffID)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
