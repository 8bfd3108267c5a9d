package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// =============================================================================
// RANGE EXPANSION
// =============================================================================

func TestDateRange_Dates_InclusiveAscending(t *testing.T) {
	// GIVEN: A three-day range
	// WHEN: Expanding it
	// THEN: Exactly (to-from)+1 dates, ascending, bounds included

	r := scheduling.DateRange{
		From: scheduling.NewDate(2025, time.June, 2),
		To:   scheduling.NewDate(2025, time.June, 4),
	}
	dates := r.Dates()

	require.Len(t, dates, 3)
	assert.Equal(t, "2025-06-02", dates[0].String())
	assert.Equal(t, "2025-06-03", dates[1].String())
	assert.Equal(t, "2025-06-04", dates[2].String())
}

func TestDateRange_Dates_Cardinality(t *testing.T) {
	from := scheduling.NewDate(2025, time.January, 15)
	for _, span := range []int{0, 1, 6, 30, 365} {
		r := scheduling.DateRange{From: from, To: from.AddDays(span)}
		assert.Len(t, r.Dates(), span+1, "span of %d days", span)
		assert.Equal(t, span+1, r.Days())
	}
}

func TestDateRange_Dates_SameDay_YieldsOne(t *testing.T) {
	d := scheduling.NewDate(2025, time.May, 19)
	dates := scheduling.SingleDay(d).Dates()

	require.Len(t, dates, 1)
	assert.True(t, dates[0].Equal(d))
}

func TestDateRange_Dates_FromAfterTo_YieldsNone(t *testing.T) {
	// Documented edge case: an inverted range is empty, not an error.
	r := scheduling.DateRange{
		From: scheduling.NewDate(2025, time.June, 4),
		To:   scheduling.NewDate(2025, time.June, 2),
	}
	assert.Empty(t, r.Dates())
	assert.Equal(t, 0, r.Days())
}

func TestDateRange_CrossesMonthAndYearBoundaries(t *testing.T) {
	r := scheduling.DateRange{
		From: scheduling.NewDate(2024, time.December, 30),
		To:   scheduling.NewDate(2025, time.January, 2),
	}
	dates := r.Dates()

	require.Len(t, dates, 4)
	assert.Equal(t, "2024-12-31", dates[1].String())
	assert.Equal(t, "2025-01-01", dates[2].String())
}

// =============================================================================
// WORKDAYS
// =============================================================================

func TestDateRange_Workdays_SkipsWeekends(t *testing.T) {
	// 2025-06-02 is a Monday; a full calendar week has 5 workdays.
	r := scheduling.DateRange{
		From: scheduling.NewDate(2025, time.June, 2),
		To:   scheduling.NewDate(2025, time.June, 8),
	}
	assert.Equal(t, 5, r.Workdays())
}

// =============================================================================
// PARSING AND JSON
// =============================================================================

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := scheduling.ParseDate("2025-05-19")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-19", d.String())

	_, err = scheduling.ParseDate("19/05/2025")
	assert.Error(t, err)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := scheduling.NewDate(2025, time.May, 19)
	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2025-05-19"`, string(b))

	var back scheduling.Date
	require.NoError(t, back.UnmarshalJSON(b))
	assert.True(t, back.Equal(d))
}
