/*
parser.go - Free-text booking command parser

PURPOSE:
  Turns raw chat text into a typed BookingCommand, or nil when the text
  carries no booking intent. Callers must treat nil as "not a booking
  command", never as an error.

GRAMMAR (informal):
  <verb> <subject> on <project> for <n> hours
         [and <project> for <n> hours]...
         [on <date> | from <date> to <date>]

  verb:    book | schedule | assign
  subject: "Aisha Patel"                      single booking
           "Aisha Patel and Liam Chen"        bulk (conjunction)
           "the Analytics department"          bulk (department phrase)
  date:    2025-05-19 | 20th May | May 20 2025 | today | tomorrow | next week

DATE DEFAULTS:
  Month-name dates without a year default to the current year. A command with
  no date phrase at all defaults to a single-day range covering today.

PURITY:
  Parsing is pure and synchronous. No I/O, no store access; name and project
  fragments are resolved later by the resolver.
*/
package scheduling

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	verbRE    = regexp.MustCompile(`(?i)^\s*(?:please\s+)?(?:book|schedule|assign)\s+(.+?)\s*$`)
	rangeRE   = regexp.MustCompile(`(?i)\s+from\s+(.+?)\s+(?:to|until|through)\s+(.+?)\s*$`)
	subjectRE = regexp.MustCompile(`(?i)\s+(?:on|to)\s+`)
	deptRE    = regexp.MustCompile(`(?i)^(?:the\s+)?(.+?)\s+(?:department|team)$`)
	bookingRE = regexp.MustCompile(`(?i)^(.+?)\s+for\s+(\d+)\s*h(?:ou)?rs?$`)
	conjRE    = regexp.MustCompile(`(?i)\s*(?:,|&|\band\b)\s*`)
	ordinalRE = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)
	onSplitRE = regexp.MustCompile(`(?i)\s+on\s+`)
	bareDayRE = regexp.MustCompile(`(?i)\s+(today|tomorrow|next\s+week)\s*$`)
	spacesRE  = regexp.MustCompile(`\s+`)
)

// =============================================================================
// PARSE
// =============================================================================

// Parse recognizes a booking command in text. It returns nil when no booking
// intent is detected.
func Parse(text string) *BookingCommand {
	return ParseAt(text, Today())
}

// ParseAt is Parse with an explicit "today", so date defaulting is testable.
func ParseAt(text string, today Date) *BookingCommand {
	m := verbRE.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	rest := m[1]

	rest, dates := splitDateClause(rest, today)

	// Subject and booking clauses split at the first "on"/"to".
	loc := subjectRE.FindStringIndex(rest)
	if loc == nil {
		return nil
	}
	subject := strings.TrimSpace(rest[:loc[0]])
	bookings := parseBookings(rest[loc[1]:])
	if subject == "" || len(bookings) == 0 {
		return nil
	}

	cmd := &BookingCommand{Bookings: bookings, Range: dates}
	if dm := deptRE.FindStringSubmatch(subject); dm != nil {
		cmd.Department = strings.TrimSpace(dm[1])
		return cmd
	}
	for _, name := range conjRE.Split(subject, -1) {
		if name = strings.TrimSpace(name); name != "" {
			cmd.StaffNames = append(cmd.StaffNames, name)
		}
	}
	if len(cmd.StaffNames) == 0 {
		return nil
	}
	return cmd
}

// parseBookings extracts the {project, hours} pairs from the clause after the
// subject. Fragments without a recognizable "for <n> hours" tail are dropped.
func parseBookings(clause string) []ProjectBooking {
	var out []ProjectBooking
	for _, seg := range conjRE.Split(clause, -1) {
		seg = strings.TrimSpace(seg)
		bm := bookingRE.FindStringSubmatch(seg)
		if bm == nil {
			continue
		}
		hours, err := strconv.Atoi(bm[2])
		if err != nil || hours <= 0 {
			continue
		}
		out = append(out, ProjectBooking{
			ProjectName: strings.TrimSpace(bm[1]),
			Hours:       hours,
		})
	}
	return out
}

// =============================================================================
// DATE CLAUSE EXTRACTION
// =============================================================================

// splitDateClause strips a trailing date phrase off the command remainder and
// returns the range it denotes. With no date phrase present the range
// defaults to a single day covering today.
func splitDateClause(rest string, today Date) (string, DateRange) {
	// "from <date> to <date>" range
	if rm := rangeRE.FindStringSubmatchIndex(rest); rm != nil {
		from, okFrom := parseDay(rest[rm[2]:rm[3]], today)
		to, okTo := parseDay(rest[rm[4]:rm[5]], today)
		if okFrom && okTo {
			return rest[:rm[0]], DateRange{From: from, To: to}
		}
	}

	// trailing "on <date>": try each "on" from the right so project clauses
	// ("on Nebula for 5 hours") are not mistaken for dates.
	ons := onSplitRE.FindAllStringIndex(rest, -1)
	for i := len(ons) - 1; i >= 0; i-- {
		tail := rest[ons[i][1]:]
		if r, ok := parseDayPhrase(tail, today); ok {
			return rest[:ons[i][0]], r
		}
	}

	// bare "today" / "tomorrow" / "next week" without "on"
	if bm := bareDayRE.FindStringSubmatchIndex(rest); bm != nil {
		if r, ok := parseDayPhrase(rest[bm[2]:bm[3]], today); ok {
			return rest[:bm[0]], r
		}
	}

	return rest, SingleDay(today)
}

// parseDayPhrase handles both single days and the relative phrases that
// expand to ranges.
func parseDayPhrase(s string, today Date) (DateRange, bool) {
	switch spacesRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ") {
	case "today":
		return SingleDay(today), true
	case "tomorrow":
		return SingleDay(today.AddDays(1)), true
	case "next week":
		return nextWorkweek(today), true
	}
	if d, ok := parseDay(s, today); ok {
		return SingleDay(d), true
	}
	return DateRange{}, false
}

var dayLayouts = []string{"2 January 2006", "January 2 2006", "2 Jan 2006", "Jan 2 2006"}
var dayLayoutsNoYear = []string{"2 January", "January 2", "2 Jan", "Jan 2"}

// parseDay parses one calendar day phrase: ISO, or day/month-name forms with
// optional ordinal suffix and optional year ("20th May", "May 20, 2025").
func parseDay(s string, today Date) (Date, bool) {
	s = strings.TrimSpace(strings.Trim(s, ".,"))
	if d, err := ParseDate(s); err == nil {
		return d, true
	}
	clean := ordinalRE.ReplaceAllString(s, "$1")
	clean = strings.ReplaceAll(clean, ",", " ")
	clean = spacesRE.ReplaceAllString(strings.TrimSpace(clean), " ")
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return DateOf(t), true
		}
	}
	for _, layout := range dayLayoutsNoYear {
		if t, err := time.Parse(layout, clean); err == nil {
			return NewDate(today.Year(), t.Month(), t.Day()), true
		}
	}
	return Date{}, false
}

// nextWorkweek is Monday through Friday of the week after today's.
func nextWorkweek(today Date) DateRange {
	daysUntilMonday := (int(time.Monday) - int(today.Weekday()) + 7) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}
	monday := today.AddDays(daysUntilMonday)
	return DateRange{From: monday, To: monday.AddDays(4)}
}
