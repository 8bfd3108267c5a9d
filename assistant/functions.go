/*
functions.go - The fixed function set behind /api/ask

PURPOSE:
  The nine functions the LLM may pick from. Each handler runs locally
  against the store and the analytics aggregator and renders a textual
  answer; the model only ever chooses names and arguments.

THE SET (fixed, matches the external contract):
  getAllStaff             list staff names
  getAllProjects          list project names
  findProjects            fuzzy project lookup
  aggregateProjects       hours booked per project over a window
  getTotalBudget          sum of tracked project budgets
  getProjectDetails       budget consumption for one project
  getTeamAvailability     assigned vs available per staff over a window
  getProductiveHours      chargeability per staff over a window
  getStaffProductiveHours chargeability for one named staff member
*/
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// registry executes the fixed function set.
type registry struct {
	store scheduling.Store
	agg   *scheduling.Aggregator
	res   *scheduling.Resolver
}

// decls is the schema presented to the oracle. Order is stable so prompts
// and tests are deterministic.
func (r *registry) decls() []FunctionDecl {
	window := map[string]string{
		"from": "start date, YYYY-MM-DD (defaults to this week)",
		"to":   "end date, YYYY-MM-DD (defaults to this week)",
	}
	return []FunctionDecl{
		{Name: "getAllStaff", Description: "List every staff member."},
		{Name: "getAllProjects", Description: "List every project."},
		{Name: "findProjects", Description: "Find projects matching a name fragment.",
			Params: map[string]string{"query": "project name or fragment"}},
		{Name: "aggregateProjects", Description: "Total booked hours per project over a date window.",
			Params: window},
		{Name: "getTotalBudget", Description: "Sum of budgets across projects that track one."},
		{Name: "getProjectDetails", Description: "Budget and consumption details for one project.",
			Params: map[string]string{"project": "project name or fragment", "asOf": "date, YYYY-MM-DD (defaults to today)"}},
		{Name: "getTeamAvailability", Description: "Assigned versus available hours per staff member over a date window.",
			Params: window},
		{Name: "getProductiveHours", Description: "Productive hours and chargeability per staff member over a date window.",
			Params: window},
		{Name: "getStaffProductiveHours", Description: "Productive hours and chargeability for one staff member.",
			Params: map[string]string{"staff": "staff member name", "from": window["from"], "to": window["to"]}},
	}
}

// execute runs one chosen function and renders its answer.
func (r *registry) execute(ctx context.Context, call FunctionCall, today scheduling.Date) (string, error) {
	args := call.Args
	window := argWindow(args, today)

	switch call.Name {
	case "getAllStaff":
		staff, err := r.store.ListStaff(ctx)
		if err != nil {
			return "", err
		}
		if len(staff) == 0 {
			return "There are no staff members on record.", nil
		}
		names := make([]string, len(staff))
		for i, s := range staff {
			names[i] = s.Name
		}
		return fmt.Sprintf("There are %d staff members: %s.", len(staff), strings.Join(names, ", ")), nil

	case "getAllProjects":
		projects, err := r.store.ListProjects(ctx)
		if err != nil {
			return "", err
		}
		if len(projects) == 0 {
			return "There are no projects on record.", nil
		}
		names := make([]string, len(projects))
		for i, p := range projects {
			names[i] = p.Name
		}
		return fmt.Sprintf("There are %d projects: %s.", len(projects), strings.Join(names, ", ")), nil

	case "findProjects":
		project, err := r.res.ResolveProject(ctx, args["query"])
		if err != nil {
			return "", err
		}
		line := fmt.Sprintf("Found project %s", project.Name)
		if project.PartnerName != "" {
			line += " (partner: " + project.PartnerName + ")"
		}
		if project.Description != "" {
			line += ": " + project.Description
		}
		return line + ".", nil

	case "aggregateProjects":
		summary, err := r.agg.RangeSummary(ctx, window)
		if err != nil {
			return "", err
		}
		if len(summary.AssignmentsByProject) == 0 {
			return fmt.Sprintf("No hours are booked between %s and %s.", window.From, window.To), nil
		}
		lines := make([]string, len(summary.AssignmentsByProject))
		for i, p := range summary.AssignmentsByProject {
			lines[i] = fmt.Sprintf("%s: %dh", p.ProjectName, p.Hours)
		}
		return fmt.Sprintf("Hours booked between %s and %s - %s (total %dh).",
			window.From, window.To, strings.Join(lines, "; "), summary.TotalHours), nil

	case "getTotalBudget":
		total, err := r.agg.TotalBudget(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("The total tracked budget across projects is %s.", total), nil

	case "getProjectDetails":
		asOf := today
		if s := args["asOf"]; s != "" {
			if d, err := scheduling.ParseDate(s); err == nil {
				asOf = d
			}
		}
		details, err := r.agg.ProjectDetails(ctx, args["project"], asOf)
		if err != nil {
			return "", err
		}
		line := fmt.Sprintf("%s has consumed %d hours as of %s", details.ProjectName, details.ConsumedHours, asOf)
		if details.RemainingBudget != nil {
			line += fmt.Sprintf("; budget %s, remaining %s", details.Budget, details.RemainingBudget)
		} else {
			line += "; no budget is tracked for it"
		}
		return line + ".", nil

	case "getTeamAvailability":
		avail, err := r.agg.Availability(ctx, window)
		if err != nil {
			return "", err
		}
		lines := make([]string, len(avail))
		for i, a := range avail {
			lines[i] = fmt.Sprintf("%s: %d/%dh assigned", a.StaffName, a.AssignedHours, a.AvailableHours)
		}
		return fmt.Sprintf("Availability between %s and %s - %s.",
			window.From, window.To, strings.Join(lines, "; ")), nil

	case "getProductiveHours":
		productive, err := r.agg.Productive(ctx, window)
		if err != nil {
			return "", err
		}
		lines := make([]string, len(productive))
		for i, p := range productive {
			lines[i] = fmt.Sprintf("%s: %dh productive of %dh available (%s)",
				p.StaffName, p.ProductiveHours, p.AvailableHours, p.Chargeability)
		}
		return fmt.Sprintf("Productive hours between %s and %s - %s.",
			window.From, window.To, strings.Join(lines, "; ")), nil

	case "getStaffProductiveHours":
		staff, err := r.res.ResolveNames(ctx, []string{args["staff"]})
		if err != nil {
			return "", err
		}
		productive, err := r.agg.Productive(ctx, window)
		if err != nil {
			return "", err
		}
		for _, p := range productive {
			if p.StaffID == staff[0].ID {
				return fmt.Sprintf("%s has %dh productive of %dh available between %s and %s (chargeability %s).",
					p.StaffName, p.ProductiveHours, p.AvailableHours, window.From, window.To, p.Chargeability), nil
			}
		}
		return fmt.Sprintf("%s has no hours recorded between %s and %s.", staff[0].Name, window.From, window.To), nil
	}

	return "", fmt.Errorf("unknown function %q", call.Name)
}

// argWindow reads from/to arguments, defaulting to the current week.
func argWindow(args map[string]string, today scheduling.Date) scheduling.DateRange {
	window, _ := scheduling.ParseTimeframe("this week", today)
	if s := args["from"]; s != "" {
		if d, err := scheduling.ParseDate(s); err == nil {
			window.From = d
		}
	}
	if s := args["to"]; s != "" {
		if d, err := scheduling.ParseDate(s); err == nil {
			window.To = d
		}
	}
	return window
}
