/*
Package store provides an in-memory implementation of scheduling.Store.

PURPOSE:
  Used by unit tests and by the gateway/assistant tests that need a store
  without SQLite. It enforces the same constraints the SQLite store does:
  uniqueness of (staffId, projectId, date) and referential integrity of
  assignments, reported through the same sentinel errors.

CONCURRENCY:
  Guarded by a single RWMutex. Good enough for tests and dev; production
  traffic goes through store/sqlite where the database enforces constraints.
*/
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// Memory is an in-memory scheduling.Store.
type Memory struct {
	mu          sync.RWMutex
	staff       map[string]scheduling.StaffMember
	projects    map[string]scheduling.Project
	assignments map[string]scheduling.Assignment
	seen        map[string]bool // (staffID|projectID|date) uniqueness
}

func NewMemory() *Memory {
	return &Memory{
		staff:       make(map[string]scheduling.StaffMember),
		projects:    make(map[string]scheduling.Project),
		assignments: make(map[string]scheduling.Assignment),
		seen:        make(map[string]bool),
	}
}

func assignmentKey(a scheduling.Assignment) string {
	return a.StaffID + "|" + a.ProjectID + "|" + a.Date.String()
}

// =============================================================================
// STAFF
// =============================================================================

func (m *Memory) CreateStaff(_ context.Context, s scheduling.StaffMember) (scheduling.StaffMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		return scheduling.StaffMember{}, fmt.Errorf("staff id is required")
	}
	m.staff[s.ID] = s
	return s, nil
}

func (m *Memory) GetStaff(_ context.Context, id string) (scheduling.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.staff[id]
	if !ok {
		return scheduling.StaffMember{}, fmt.Errorf("staff %q: %w", id, scheduling.ErrMissingReference)
	}
	return s, nil
}

func (m *Memory) ListStaff(_ context.Context) ([]scheduling.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]scheduling.StaffMember, 0, len(m.staff))
	for _, s := range m.staff {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteStaff(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.StaffID == id {
			return fmt.Errorf("staff %q has assignments: %w", id, scheduling.ErrMissingReference)
		}
	}
	delete(m.staff, id)
	return nil
}

// =============================================================================
// PROJECTS
// =============================================================================

func (m *Memory) CreateProject(_ context.Context, p scheduling.Project) (scheduling.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		return scheduling.Project{}, fmt.Errorf("project id is required")
	}
	m.projects[p.ID] = p
	return p, nil
}

func (m *Memory) GetProject(_ context.Context, id string) (scheduling.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return scheduling.Project{}, fmt.Errorf("project %q: %w", id, scheduling.ErrMissingReference)
	}
	return p, nil
}

func (m *Memory) ListProjects(_ context.Context) ([]scheduling.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]scheduling.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.ProjectID == id {
			return fmt.Errorf("project %q has assignments: %w", id, scheduling.ErrMissingReference)
		}
	}
	delete(m.projects, id)
	return nil
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (m *Memory) CreateAssignment(_ context.Context, a scheduling.Assignment) (scheduling.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[a.StaffID]; !ok {
		return scheduling.Assignment{}, fmt.Errorf("staff %q: %w", a.StaffID, scheduling.ErrMissingReference)
	}
	if _, ok := m.projects[a.ProjectID]; !ok {
		return scheduling.Assignment{}, fmt.Errorf("project %q: %w", a.ProjectID, scheduling.ErrMissingReference)
	}
	key := assignmentKey(a)
	if m.seen[key] {
		return scheduling.Assignment{}, fmt.Errorf("%s: %w", key, scheduling.ErrDuplicateAssignment)
	}
	m.seen[key] = true
	m.assignments[a.ID] = a
	return a, nil
}

func (m *Memory) ListAssignments(_ context.Context, r scheduling.DateRange) ([]scheduling.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []scheduling.Assignment
	for _, a := range m.assignments {
		if r.Contains(a.Date) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) DeleteAssignmentsInRange(_ context.Context, staffID string, r scheduling.DateRange) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, a := range m.assignments {
		if !r.Contains(a.Date) {
			continue
		}
		if staffID != "" && a.StaffID != staffID {
			continue
		}
		delete(m.assignments, id)
		delete(m.seen, assignmentKey(a))
		n++
	}
	return n, nil
}
