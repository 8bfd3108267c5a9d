/*
intents.go - Deterministic intent cascade ahead of the LLM

PURPOSE:
  An ordered list of (matcher, handler) pairs evaluated in priority order.
  The first match wins; nothing matching falls through to the LLM
  function-calling path. Cheap, deterministic questions (greetings, counts,
  availability yes/no) never pay for a model round trip.

ORDER MATTERS:
  Booking commands are checked before everything else so "book Aisha on
  Nebula for 5 hours" is never misread as a question. The report intent is
  last before fallthrough because it may leave a clarification pending.
*/
package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// Reply is what every turn produces.
type Reply struct {
	Content string                     `json:"content"`
	Type    string                     `json:"type"`
	Booking *scheduling.BookingOutcome `json:"booking,omitempty"`
}

// turn carries one inbound message plus its session state through handlers.
type turn struct {
	message string
	today   scheduling.Date
	conv    scheduling.Conversation
}

// intent is one (matcher, handler) pair of the cascade.
type intent struct {
	name    string
	match   func(*turn) bool
	handler func(ctx context.Context, a *Assistant, t *turn) (Reply, error)
}

var (
	greetingRE     = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|good (morning|afternoon|evening))\b`)
	staffCountRE   = regexp.MustCompile(`(?i)how many (staff|people|employees)`)
	projectCountRE = regexp.MustCompile(`(?i)how many projects`)
	availableRE    = regexp.MustCompile(`(?i)is\s+(.+?)\s+(?:available|free)(?:\s+on\s+(.+?))?\s*\??\s*$`)
	weeklyHoursRE  = regexp.MustCompile(`(?i)\b(?:weekly hours|hours this week|this week'?s hours)\b`)
	budgetRE       = regexp.MustCompile(`(?i)how much budget (?:has|have)\s+(.+?)\s+(?:consumed|used)(?:\s+as of\s+(.+?))?\s*\??\s*$`)
	reportRE       = regexp.MustCompile(`(?i)\breport\b`)
	timeframeInRE  = regexp.MustCompile(`(?i)\b(this week|last week|this month|last month)\b`)
)

// cascade is the ordered intent list. Evaluated top to bottom, first match
// wins, fallthrough is the LLM oracle.
var cascade = []intent{
	{
		name:    "booking",
		match:   func(t *turn) bool { return scheduling.ParseAt(t.message, t.today) != nil },
		handler: handleBooking,
	},
	{
		name:    "greeting",
		match:   func(t *turn) bool { return greetingRE.MatchString(t.message) },
		handler: func(context.Context, *Assistant, *turn) (Reply, error) {
			return Reply{Content: "Hello! Ask me about staff, projects, budgets, or book someone onto a project.", Type: "text"}, nil
		},
	},
	{
		name:    "staff-count",
		match:   func(t *turn) bool { return staffCountRE.MatchString(t.message) },
		handler: handleStaffCount,
	},
	{
		name:    "project-count",
		match:   func(t *turn) bool { return projectCountRE.MatchString(t.message) },
		handler: handleProjectCount,
	},
	{
		name:    "availability",
		match:   func(t *turn) bool { return availableRE.MatchString(t.message) },
		handler: handleAvailability,
	},
	{
		name:    "weekly-hours",
		match:   func(t *turn) bool { return weeklyHoursRE.MatchString(t.message) },
		handler: handleWeeklyHours,
	},
	{
		name:    "budget-consumed",
		match:   func(t *turn) bool { return budgetRE.MatchString(t.message) },
		handler: handleBudgetConsumed,
	},
	{
		name:    "report",
		match:   func(t *turn) bool { return reportRE.MatchString(t.message) },
		handler: handleReport,
	},
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleBooking(ctx context.Context, a *Assistant, t *turn) (Reply, error) {
	cmd := scheduling.ParseAt(t.message, t.today)
	outcome, err := a.pipeline.RunCommand(ctx, cmd)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Content: outcome.Message, Type: "booking", Booking: &outcome}, nil
}

func handleStaffCount(ctx context.Context, a *Assistant, _ *turn) (Reply, error) {
	staff, err := a.store.ListStaff(ctx)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Content: fmt.Sprintf("There are %d staff members on record.", len(staff)), Type: "text"}, nil
}

func handleProjectCount(ctx context.Context, a *Assistant, _ *turn) (Reply, error) {
	projects, err := a.store.ListProjects(ctx)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Content: fmt.Sprintf("There are %d projects on record.", len(projects)), Type: "text"}, nil
}

// handleAvailability answers date-scoped yes/no availability questions.
func handleAvailability(ctx context.Context, a *Assistant, t *turn) (Reply, error) {
	m := availableRE.FindStringSubmatch(t.message)
	name := strings.TrimSpace(m[1])
	day := t.today
	if m[2] != "" {
		if d, err := scheduling.ParseDate(strings.TrimSpace(m[2])); err == nil {
			day = d
		}
	}
	staff, err := a.resolver.ResolveNames(ctx, []string{name})
	if err != nil {
		return Reply{}, err
	}
	avail, err := a.agg.AvailabilityOn(ctx, day)
	if err != nil {
		return Reply{}, err
	}
	for _, av := range avail {
		if av.StaffID != staff[0].ID {
			continue
		}
		if av.AvailableHours > 0 {
			return Reply{
				Content: fmt.Sprintf("Yes, %s has %d hours free on %s.", av.StaffName, av.AvailableHours, day),
				Type:    "text",
			}, nil
		}
		return Reply{
			Content: fmt.Sprintf("No, %s is fully booked on %s.", av.StaffName, day),
			Type:    "text",
		}, nil
	}
	return Reply{Content: fmt.Sprintf("Yes, %s is free on %s.", staff[0].Name, day), Type: "text"}, nil
}

func handleWeeklyHours(ctx context.Context, a *Assistant, t *turn) (Reply, error) {
	week, _ := scheduling.ParseTimeframe("this week", t.today)
	summary, err := a.agg.RangeSummary(ctx, week)
	if err != nil {
		return Reply{}, err
	}
	if summary.TotalHours == 0 {
		return Reply{Content: "No hours are booked this week.", Type: "text"}, nil
	}
	lines := make([]string, len(summary.AssignmentsByStaff))
	for i, s := range summary.AssignmentsByStaff {
		lines[i] = fmt.Sprintf("%s: %dh", s.StaffName, s.Hours)
	}
	return Reply{
		Content: fmt.Sprintf("This week (%s to %s): %s. Total %dh.",
			week.From, week.To, strings.Join(lines, "; "), summary.TotalHours),
		Type: "text",
	}, nil
}

func handleBudgetConsumed(ctx context.Context, a *Assistant, t *turn) (Reply, error) {
	m := budgetRE.FindStringSubmatch(t.message)
	asOf := t.today
	if m[2] != "" {
		if d, err := scheduling.ParseDate(strings.TrimSpace(m[2])); err == nil {
			asOf = d
		}
	}
	details, err := a.agg.ProjectDetails(ctx, strings.TrimSpace(m[1]), asOf)
	if err != nil {
		return Reply{}, err
	}
	content := fmt.Sprintf("%s has consumed %d hours (%s in budget terms) as of %s.",
		details.ProjectName, details.ConsumedHours, details.ConsumedBudget, asOf)
	if details.RemainingBudget != nil {
		content += fmt.Sprintf(" Remaining budget: %s.", details.RemainingBudget)
	}
	return Reply{Content: content, Type: "text"}, nil
}

// handleReport answers directly when the message names a timeframe and
// otherwise leaves the timeframe clarification pending for the next turn.
func handleReport(ctx context.Context, a *Assistant, t *turn) (Reply, error) {
	if m := timeframeInRE.FindString(t.message); m != "" {
		window, _ := scheduling.ParseTimeframe(m, t.today)
		return reportReply(ctx, a, window)
	}
	t.conv = t.conv.AskReportTimeframe()
	return Reply{Content: scheduling.ReportTimeframeQuestion, Type: "clarification"}, nil
}

func reportReply(ctx context.Context, a *Assistant, window scheduling.DateRange) (Reply, error) {
	summary, err := a.agg.RangeSummary(ctx, window)
	if err != nil {
		return Reply{}, err
	}
	lines := make([]string, len(summary.AssignmentsByProject))
	for i, p := range summary.AssignmentsByProject {
		lines[i] = fmt.Sprintf("%s: %dh across %d entries", p.ProjectName, p.Hours, p.Count)
	}
	body := "No assignments in that window."
	if len(lines) > 0 {
		body = strings.Join(lines, "; ")
	}
	return Reply{
		Content: fmt.Sprintf("Report %s to %s - %s Total %dh.", window.From, window.To, body+".", summary.TotalHours),
		Type:    "report",
	}, nil
}
