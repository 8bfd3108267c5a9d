/*
conversation.go - Multi-turn clarification state

PURPOSE:
  At most one clarification may be outstanding per conversation (currently:
  "which report timeframe?"). When one is pending, the next user turn is
  consumed as the answer rather than re-parsed as a new command. An
  unrecognized answer re-prompts with the same question and leaves the
  pending state unchanged.

OWNERSHIP:
  Conversation is an explicit session-scoped value passed into and returned
  from each turn-handling call. It lives in process memory for the life of
  the chat session only; it is never store-backed.
*/
package scheduling

import "strings"

// Clarification identifies what a pending question is asking for.
type Clarification string

const (
	// ClarifyNone means no question is outstanding.
	ClarifyNone Clarification = ""

	// ClarifyReportTimeframe asks which window a report should cover.
	ClarifyReportTimeframe Clarification = "report_timeframe"
)

// ReportTimeframeQuestion is the prompt used both when asking and when
// re-prompting after an unrecognized answer.
const ReportTimeframeQuestion = "Which timeframe should the report cover? You can say: this week, last week, this month, or last month."

// Conversation holds the per-session clarification state. The zero value is
// a conversation with nothing pending.
type Conversation struct {
	Pending Clarification
}

// AwaitingAnswer reports whether the next turn should be consumed as a
// clarification answer.
func (c Conversation) AwaitingAnswer() bool { return c.Pending != ClarifyNone }

// AskReportTimeframe returns the conversation with the report-timeframe
// question outstanding.
func (c Conversation) AskReportTimeframe() Conversation {
	c.Pending = ClarifyReportTimeframe
	return c
}

// Resolve consumes a turn as the answer to the pending clarification. On a
// recognized answer it returns the cleared conversation, the window the
// answer denotes, and ok=true. On an unrecognized answer it returns the
// conversation unchanged with ok=false so the caller re-prompts.
func (c Conversation) Resolve(turn string, today Date) (Conversation, DateRange, bool) {
	if c.Pending != ClarifyReportTimeframe {
		return c, DateRange{}, false
	}
	r, ok := ParseTimeframe(turn, today)
	if !ok {
		return c, DateRange{}, false
	}
	c.Pending = ClarifyNone
	return c, r, true
}

// ParseTimeframe maps the closed vocabulary of accepted timeframe answers to
// concrete date windows. Weeks run Monday through Sunday.
func ParseTimeframe(answer string, today Date) (DateRange, bool) {
	switch spacesRE.ReplaceAllString(strings.ToLower(strings.Trim(strings.TrimSpace(answer), ".!")), " ") {
	case "this week":
		return weekOf(today), true
	case "last week":
		return weekOf(today.AddDays(-7)), true
	case "this month":
		return monthOf(today), true
	case "last month":
		return monthOf(NewDate(today.Year(), today.Month(), 1).AddDays(-1)), true
	}
	return DateRange{}, false
}

// weekOf is the Monday..Sunday week containing d.
func weekOf(d Date) DateRange {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	monday := d.AddDays(-offset)
	return DateRange{From: monday, To: monday.AddDays(6)}
}

// monthOf is the first..last day of d's month.
func monthOf(d Date) DateRange {
	first := NewDate(d.Year(), d.Month(), 1)
	return DateRange{From: first, To: NewDate(d.Year(), d.Month()+1, 1).AddDays(-1)}
}
