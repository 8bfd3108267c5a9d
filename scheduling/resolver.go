/*
resolver.go - Free-text staff and project resolution

PURPOSE:
  Maps the name fragments a BookingCommand carries to concrete store records.
  Resolution is deliberately lenient for staff (fuzzy contains-match, silent
  dropping of unmatched fragments) and strict for projects (a miss aborts the
  whole build).

MATCHING RULES:
  Staff by department: department field contains the phrase, case-insensitive.
  Staff by name:       fragments split on and/,/& match any staff whose name
                       contains the fragment, case-insensitive. Unmatched
                       fragments are dropped; only an EMPTY final result is an
                       error, which carries did-you-mean candidates.
  Projects:            bidirectional contains (query-in-name OR name-in-query),
                       case-insensitive, first match wins.

SUGGESTIONS:
  On a staff miss, candidates are known names sharing a 3-character prefix
  with the query when any exist, otherwise the first 5 known names.

AMBIGUITY:
  Never an error. Single bookings take the first match; bulk bookings
  enumerate every match.
*/
package scheduling

import (
	"context"
	"strings"
)

const (
	suggestionPrefixLen = 3
	suggestionDefaultN  = 5
)

// Resolver maps free-text references to entity records.
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// =============================================================================
// STAFF RESOLUTION
// =============================================================================

// ResolveCommandStaff resolves the staff side of a parsed command: either a
// department fan-out or a list of name fragments.
func (r *Resolver) ResolveCommandStaff(ctx context.Context, cmd *BookingCommand) ([]StaffMember, error) {
	if cmd.Department != "" {
		return r.ResolveDepartment(ctx, cmd.Department)
	}
	return r.ResolveNames(ctx, cmd.StaffNames)
}

// ResolveStaff resolves a free-form phrase: a department phrase when it looks
// like one, otherwise a name list.
func (r *Resolver) ResolveStaff(ctx context.Context, phrase string) ([]StaffMember, error) {
	if dm := deptRE.FindStringSubmatch(strings.TrimSpace(phrase)); dm != nil {
		return r.ResolveDepartment(ctx, dm[1])
	}
	var fragments []string
	for _, f := range conjRE.Split(phrase, -1) {
		if f = strings.TrimSpace(f); f != "" {
			fragments = append(fragments, f)
		}
	}
	return r.ResolveNames(ctx, fragments)
}

// ResolveDepartment returns every staff member whose department contains the
// phrase, case-insensitively.
func (r *Resolver) ResolveDepartment(ctx context.Context, dept string) ([]StaffMember, error) {
	all, err := r.dir.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(dept))
	var matched []StaffMember
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Department), needle) {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return nil, &NotFoundError{
			Code:       CodeStaffNotFound,
			Requested:  dept,
			Candidates: suggestions(staffNames(all), dept),
		}
	}
	return matched, nil
}

// ResolveNames matches each fragment against staff names by case-insensitive
// contains. Unmatched fragments are silently dropped; an empty final result
// returns staff_not_found with candidates.
func (r *Resolver) ResolveNames(ctx context.Context, fragments []string) ([]StaffMember, error) {
	all, err := r.dir.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var matched []StaffMember
	for _, frag := range fragments {
		needle := strings.ToLower(strings.TrimSpace(frag))
		if needle == "" {
			continue
		}
		for _, s := range all {
			if strings.Contains(strings.ToLower(s.Name), needle) && !seen[s.ID] {
				seen[s.ID] = true
				matched = append(matched, s)
			}
		}
	}
	if len(matched) == 0 {
		return nil, &NotFoundError{
			Code:       CodeStaffNotFound,
			Requested:  strings.Join(fragments, ", "),
			Candidates: suggestions(staffNames(all), strings.Join(fragments, " ")),
		}
	}
	return matched, nil
}

// =============================================================================
// PROJECT RESOLUTION
// =============================================================================

// ResolveProject matches a name fragment bidirectionally against project
// names; the first match wins. A miss is a typed project_not_found error
// carrying the requested fragment.
func (r *Resolver) ResolveProject(ctx context.Context, fragment string) (Project, error) {
	all, err := r.dir.ListProjects(ctx)
	if err != nil {
		return Project{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(fragment))
	for _, p := range all {
		name := strings.ToLower(p.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return p, nil
		}
	}
	return Project{}, &NotFoundError{Code: CodeProjectNotFound, Requested: fragment}
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func staffNames(staff []StaffMember) []string {
	names := make([]string, len(staff))
	for i, s := range staff {
		names[i] = s.Name
	}
	return names
}

// suggestions filters known names to those sharing a short prefix with the
// query when any such match exists, otherwise the first handful.
func suggestions(known []string, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	prefix := query
	if len(prefix) > suggestionPrefixLen {
		prefix = prefix[:suggestionPrefixLen]
	}
	if prefix != "" {
		var byPrefix []string
		for _, name := range known {
			if strings.HasPrefix(strings.ToLower(name), prefix) {
				byPrefix = append(byPrefix, name)
			}
		}
		if len(byPrefix) > 0 {
			return byPrefix
		}
	}
	if len(known) > suggestionDefaultN {
		return known[:suggestionDefaultN]
	}
	return known
}
