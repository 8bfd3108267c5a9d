package scheduling

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day with no time-of-day component
// =============================================================================

// Date is a calendar day at whole-day granularity. All values are normalized
// to midnight UTC so comparison and map keys behave regardless of the time
// zone the value was built from.
type Date struct {
	t time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses an ISO calendar date ("2025-05-19").
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Arithmetic and properties
func (d Date) AddDays(n int) Date    { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsWorkday() bool { return !d.IsWeekend() }

func (d Date) String() string { return d.t.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date json %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// DATE RANGE - Inclusive [From, To] span expanded to individual days
// =============================================================================

// DateRange is an inclusive span of calendar days.
// From after To is a documented empty range, not an error.
type DateRange struct {
	From Date
	To   Date
}

// SingleDay returns the one-day range covering d.
func SingleDay(d Date) DateRange {
	return DateRange{From: d, To: d}
}

// Dates expands the range to every day from From to To inclusive, ascending.
// From == To yields exactly one date; From > To yields none.
func (r DateRange) Dates() []Date {
	if r.From.After(r.To) {
		return nil
	}
	var out []Date
	for d := r.From; !d.After(r.To); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// Days is the number of days Dates would yield.
func (r DateRange) Days() int {
	if r.From.After(r.To) {
		return 0
	}
	return int(r.To.t.Sub(r.From.t).Hours()/24) + 1
}

// Workdays counts Monday-Friday days in the range.
func (r DateRange) Workdays() int {
	n := 0
	for _, d := range r.Dates() {
		if d.IsWorkday() {
			n++
		}
	}
	return n
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

func (r DateRange) String() string {
	if r.From.Equal(r.To) {
		return r.From.String()
	}
	return r.From.String() + ".." + r.To.String()
}
