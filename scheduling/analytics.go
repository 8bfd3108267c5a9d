/*
analytics.go - Read-only aggregation over the entity store

PURPOSE:
  Derives budget consumption, availability, and productive-hours metrics
  from staff, project, and assignment records. Pure read/reduce: never
  mutates state, safe to call concurrently and repeatedly.

DEFINITIONS:
  available hours  = workdays-in-window x 8, minus leave-type hours
  consumed budget  = sum over assignments of hours x rate(staff)
  remaining budget = budget - consumed HOURS (budgets are hours-equivalent),
                     null when the project has no budget
  chargeability    = productive (non-leave) hours / available hours

RATES:
  rate(staff) is the per-staff explicit Rate field when set, otherwise the
  grade-rate table lookup, otherwise the table's default. The table comes
  from configuration (GRADE_RATES / DEFAULT_RATE).

LEAVE:
  Assignments whose project name contains "leave" (annual leave, sick leave)
  count against availability and are excluded from productive hours.
*/
package scheduling

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const workdayHours = 8

// =============================================================================
// RATE TABLE
// =============================================================================

// RateTable maps staff grades to hourly rates.
type RateTable struct {
	Default decimal.Decimal
	ByGrade map[string]decimal.Decimal
}

// RateFor resolves the hourly rate for one staff member: explicit per-staff
// rate first, then grade lookup, then the table default.
func (rt RateTable) RateFor(s StaffMember) decimal.Decimal {
	if s.Rate != nil {
		return *s.Rate
	}
	if rate, ok := rt.ByGrade[strings.ToLower(s.Grade)]; ok {
		return rate
	}
	return rt.Default
}

// =============================================================================
// RESULT SHAPES
// =============================================================================

// StaffAvailability compares assigned to theoretical available hours for one
// staff member over a window.
type StaffAvailability struct {
	StaffID        string `json:"staffId"`
	StaffName      string `json:"staffName"`
	AssignedHours  int    `json:"assignedHours"`
	AvailableHours int    `json:"availableHours"`
	LeaveHours     int    `json:"leaveHours"`
}

// DayAvailability is the single-date shape the orchestrator's availability
// fetch consumes.
type DayAvailability struct {
	StaffID        string `json:"staffId"`
	StaffName      string `json:"staffName"`
	AssignedHours  int    `json:"assignedHours"`
	AvailableHours int    `json:"availableHours"`
}

// ProjectDetails reports consumption against one project's budget.
// RemainingBudget is nil exactly when the project carries no budget.
type ProjectDetails struct {
	ProjectID       string           `json:"projectId"`
	ProjectName     string           `json:"projectName"`
	Budget          *decimal.Decimal `json:"budget"`
	ConsumedHours   int              `json:"consumedHours"`
	ConsumedBudget  decimal.Decimal  `json:"consumedBudget"`
	RemainingBudget *decimal.Decimal `json:"remainingBudget"`
}

// ProjectHours is one per-project line in a range summary.
type ProjectHours struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Hours       int    `json:"hours"`
	Count       int    `json:"count"`
}

// StaffHours is one per-staff line in a range summary.
type StaffHours struct {
	StaffID   string `json:"staffId"`
	StaffName string `json:"staffName"`
	Hours     int    `json:"hours"`
}

// RangeSummary is the report shape the PDF/report tooling reads.
type RangeSummary struct {
	TotalHours           int            `json:"totalHours"`
	AssignmentsByProject []ProjectHours `json:"assignmentsByProject"`
	AssignmentsByStaff   []StaffHours   `json:"assignmentsByStaff"`
}

// ProductiveHours reports billable vs available hours for one staff member.
type ProductiveHours struct {
	StaffID         string          `json:"staffId"`
	StaffName       string          `json:"staffName"`
	ProductiveHours int             `json:"productiveHours"`
	AvailableHours  int             `json:"availableHours"`
	Chargeability   decimal.Decimal `json:"chargeability"`
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator computes metrics from the store. Stateless apart from its
// dependencies; all methods are safe for concurrent use.
type Aggregator struct {
	store interface {
		Directory
		AssignmentStore
	}
	rates RateTable
}

func NewAggregator(store Store, rates RateTable) *Aggregator {
	return &Aggregator{store: store, rates: rates}
}

// isLeaveProject classifies leave-type bookings by project name.
func isLeaveProject(name string) bool {
	return strings.Contains(strings.ToLower(name), "leave")
}

// Availability computes per-staff assigned vs available hours over a window.
func (a *Aggregator) Availability(ctx context.Context, r DateRange) ([]StaffAvailability, error) {
	staff, assignments, projects, err := a.load(ctx, r)
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]int)
	leave := make(map[string]int)
	for _, asg := range assignments {
		if isLeaveProject(projects[asg.ProjectID].Name) {
			leave[asg.StaffID] += asg.Hours
		} else {
			assigned[asg.StaffID] += asg.Hours
		}
	}

	base := r.Workdays() * workdayHours
	out := make([]StaffAvailability, len(staff))
	for i, s := range staff {
		available := base - leave[s.ID]
		if available < 0 {
			available = 0
		}
		out[i] = StaffAvailability{
			StaffID:        s.ID,
			StaffName:      s.Name,
			AssignedHours:  assigned[s.ID],
			AvailableHours: available,
			LeaveHours:     leave[s.ID],
		}
	}
	return out, nil
}

// AvailabilityOn reports, for one date, how many hours each staff member has
// left out of the standard workday.
func (a *Aggregator) AvailabilityOn(ctx context.Context, d Date) ([]DayAvailability, error) {
	staff, assignments, _, err := a.load(ctx, SingleDay(d))
	if err != nil {
		return nil, err
	}
	assigned := make(map[string]int)
	for _, asg := range assignments {
		assigned[asg.StaffID] += asg.Hours
	}
	out := make([]DayAvailability, len(staff))
	for i, s := range staff {
		available := workdayHours - assigned[s.ID]
		if available < 0 {
			available = 0
		}
		out[i] = DayAvailability{
			StaffID:        s.ID,
			StaffName:      s.Name,
			AssignedHours:  assigned[s.ID],
			AvailableHours: available,
		}
	}
	return out, nil
}

// ProjectDetails sums consumption for the project matching the fragment, from
// the beginning of records through asOf.
func (a *Aggregator) ProjectDetails(ctx context.Context, fragment string, asOf Date) (ProjectDetails, error) {
	project, err := NewResolver(a.store).ResolveProject(ctx, fragment)
	if err != nil {
		return ProjectDetails{}, err
	}
	window := DateRange{From: NewDate(1970, 1, 1), To: asOf}
	staff, assignments, _, err := a.load(ctx, window)
	if err != nil {
		return ProjectDetails{}, err
	}
	byID := staffByID(staff)

	details := ProjectDetails{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Budget:      project.Budget,
	}
	for _, asg := range assignments {
		if asg.ProjectID != project.ID {
			continue
		}
		details.ConsumedHours += asg.Hours
		rate := a.rates.RateFor(byID[asg.StaffID])
		details.ConsumedBudget = details.ConsumedBudget.Add(rate.Mul(decimal.NewFromInt(int64(asg.Hours))))
	}
	if project.Budget != nil {
		remaining := project.Budget.Sub(decimal.NewFromInt(int64(details.ConsumedHours)))
		details.RemainingBudget = &remaining
	}
	return details, nil
}

// TotalBudget sums budgets across projects that carry one.
func (a *Aggregator) TotalBudget(ctx context.Context) (decimal.Decimal, error) {
	projects, err := a.store.ListProjects(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range projects {
		if p.Budget != nil {
			total = total.Add(*p.Budget)
		}
	}
	return total, nil
}

// RangeSummary aggregates total hours plus per-project and per-staff
// breakdowns over a window.
func (a *Aggregator) RangeSummary(ctx context.Context, r DateRange) (RangeSummary, error) {
	staff, assignments, projects, err := a.load(ctx, r)
	if err != nil {
		return RangeSummary{}, err
	}
	byStaffID := staffByID(staff)

	projHours := make(map[string]*ProjectHours)
	staffHours := make(map[string]*StaffHours)
	summary := RangeSummary{
		AssignmentsByProject: []ProjectHours{},
		AssignmentsByStaff:   []StaffHours{},
	}
	for _, asg := range assignments {
		summary.TotalHours += asg.Hours
		ph := projHours[asg.ProjectID]
		if ph == nil {
			ph = &ProjectHours{ProjectID: asg.ProjectID, ProjectName: projects[asg.ProjectID].Name}
			projHours[asg.ProjectID] = ph
		}
		ph.Hours += asg.Hours
		ph.Count++

		sh := staffHours[asg.StaffID]
		if sh == nil {
			sh = &StaffHours{StaffID: asg.StaffID, StaffName: byStaffID[asg.StaffID].Name}
			staffHours[asg.StaffID] = sh
		}
		sh.Hours += asg.Hours
	}
	for _, ph := range projHours {
		summary.AssignmentsByProject = append(summary.AssignmentsByProject, *ph)
	}
	for _, sh := range staffHours {
		summary.AssignmentsByStaff = append(summary.AssignmentsByStaff, *sh)
	}
	sort.Slice(summary.AssignmentsByProject, func(i, j int) bool {
		return summary.AssignmentsByProject[i].ProjectName < summary.AssignmentsByProject[j].ProjectName
	})
	sort.Slice(summary.AssignmentsByStaff, func(i, j int) bool {
		return summary.AssignmentsByStaff[i].StaffName < summary.AssignmentsByStaff[j].StaffName
	})
	return summary, nil
}

// Productive computes billable vs available hours and chargeability per
// staff member over a window.
func (a *Aggregator) Productive(ctx context.Context, r DateRange) ([]ProductiveHours, error) {
	availability, err := a.Availability(ctx, r)
	if err != nil {
		return nil, err
	}
	out := make([]ProductiveHours, len(availability))
	for i, av := range availability {
		ph := ProductiveHours{
			StaffID:         av.StaffID,
			StaffName:       av.StaffName,
			ProductiveHours: av.AssignedHours,
			AvailableHours:  av.AvailableHours,
		}
		if av.AvailableHours > 0 {
			ph.Chargeability = decimal.NewFromInt(int64(av.AssignedHours)).
				Div(decimal.NewFromInt(int64(av.AvailableHours))).Round(4)
		}
		out[i] = ph
	}
	return out, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (a *Aggregator) load(ctx context.Context, r DateRange) ([]StaffMember, []Assignment, map[string]Project, error) {
	staff, err := a.store.ListStaff(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	assignments, err := a.store.ListAssignments(ctx, r)
	if err != nil {
		return nil, nil, nil, err
	}
	projects, err := a.store.ListProjects(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	byID := make(map[string]Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	return staff, assignments, byID, nil
}

func staffByID(staff []StaffMember) map[string]StaffMember {
	byID := make(map[string]StaffMember, len(staff))
	for _, s := range staff {
		byID[s.ID] = s
	}
	return byID
}
