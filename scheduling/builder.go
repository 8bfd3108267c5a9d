/*
builder.go - Cartesian expansion of resolved bookings into assignment rows

PURPOSE:
  Computes the full staff x projectBookings x dates product. For every staff
  member, for every {project, hours} booking, for every date, one row.

FAILURE POLICY:
  Any project booking that fails to resolve aborts the WHOLE build with
  project_not_found. This is the opposite of staff-name resolution, which is
  lenient; a misspelled project in a bulk command must not silently shrink
  the request.

PURITY:
  Side-effect free. Rows are deduplicated on (staffId, projectId, date)
  within the build output; nothing is persisted here.
*/
package scheduling

import "context"

// Builder turns resolved staff and parsed bookings into assignment rows.
type Builder struct {
	resolver *Resolver
}

func NewBuilder(resolver *Resolver) *Builder {
	return &Builder{resolver: resolver}
}

// Build emits the cartesian product of staff x bookings x dates. Output size
// is |staff| * |bookings| * |dates| before deduplication; duplicate
// (staffId, projectId, date) triples keep the first occurrence.
func (b *Builder) Build(ctx context.Context, staff []StaffMember, bookings []ProjectBooking, dates []Date) ([]AssignmentRow, error) {
	// Resolve each booking once up front so a miss aborts before any fan-out.
	projects := make([]Project, len(bookings))
	for i, pb := range bookings {
		p, err := b.resolver.ResolveProject(ctx, pb.ProjectName)
		if err != nil {
			return nil, err
		}
		projects[i] = p
	}

	type key struct {
		staffID, projectID string
		date               Date
	}
	seen := make(map[key]bool)

	var rows []AssignmentRow
	for _, s := range staff {
		for i, pb := range bookings {
			for _, d := range dates {
				k := key{staffID: s.ID, projectID: projects[i].ID, date: d}
				if seen[k] {
					continue
				}
				seen[k] = true
				rows = append(rows, AssignmentRow{
					StaffID:     s.ID,
					StaffName:   s.Name,
					ProjectID:   projects[i].ID,
					ProjectName: projects[i].Name,
					Date:        d,
					Hours:       pb.Hours,
				})
			}
		}
	}
	return rows, nil
}
