package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// A Wednesday, so "next week" and the no-date default are deterministic.
var parseToday = scheduling.NewDate(2025, time.May, 14)

// =============================================================================
// SINGLE BOOKINGS
// =============================================================================

func TestParse_SingleBooking_ExplicitDate(t *testing.T) {
	cmd := scheduling.ParseAt("book Aisha Patel on Nebula for 5 hours on 2025-05-19", parseToday)

	require.NotNil(t, cmd)
	assert.False(t, cmd.Bulk())
	assert.Equal(t, []string{"Aisha Patel"}, cmd.StaffNames)
	require.Len(t, cmd.Bookings, 1)
	assert.Equal(t, scheduling.ProjectBooking{ProjectName: "Nebula", Hours: 5}, cmd.Bookings[0])
	assert.Equal(t, "2025-05-19", cmd.Range.From.String())
	assert.Equal(t, "2025-05-19", cmd.Range.To.String())
}

func TestParse_MultiProject_SameDay(t *testing.T) {
	// The multi-project scenario: two bookings, one staff, one date.
	cmd := scheduling.ParseAt("book Aisha Patel on Nebula for 5 hours and Vanguard for 3 hours on 2025-05-19", parseToday)

	require.NotNil(t, cmd)
	assert.False(t, cmd.Bulk())
	require.Len(t, cmd.Bookings, 2)
	assert.Equal(t, scheduling.ProjectBooking{ProjectName: "Nebula", Hours: 5}, cmd.Bookings[0])
	assert.Equal(t, scheduling.ProjectBooking{ProjectName: "Vanguard", Hours: 3}, cmd.Bookings[1])
	assert.Equal(t, "2025-05-19", cmd.Range.From.String())
}

func TestParse_NoDatePhrase_DefaultsToToday(t *testing.T) {
	cmd := scheduling.ParseAt("schedule Liam Chen on Apollo for 8 hours", parseToday)

	require.NotNil(t, cmd)
	assert.True(t, cmd.Range.From.Equal(parseToday))
	assert.True(t, cmd.Range.To.Equal(parseToday))
}

// =============================================================================
// BULK BOOKINGS
// =============================================================================

func TestParse_DepartmentPhrase_IsBulk(t *testing.T) {
	cmd := scheduling.ParseAt("book the Analytics department on Nebula for 4 hours from 2025-06-02 to 2025-06-04", parseToday)

	require.NotNil(t, cmd)
	assert.True(t, cmd.Bulk())
	assert.Equal(t, "Analytics", cmd.Department)
	assert.Empty(t, cmd.StaffNames)
	require.Len(t, cmd.Bookings, 1)
	assert.Equal(t, 4, cmd.Bookings[0].Hours)
	assert.Equal(t, "2025-06-02", cmd.Range.From.String())
	assert.Equal(t, "2025-06-04", cmd.Range.To.String())
}

func TestParse_NameConjunction_IsBulk(t *testing.T) {
	cmd := scheduling.ParseAt("assign Aisha, Liam & Sofia to Vanguard for 6 hours on 2025-05-20", parseToday)

	require.NotNil(t, cmd)
	assert.True(t, cmd.Bulk())
	assert.Equal(t, []string{"Aisha", "Liam", "Sofia"}, cmd.StaffNames)
}

func TestParse_TwoNames_And(t *testing.T) {
	cmd := scheduling.ParseAt("book Aisha Patel and Liam Chen on Nebula for 2 hours", parseToday)

	require.NotNil(t, cmd)
	assert.Equal(t, []string{"Aisha Patel", "Liam Chen"}, cmd.StaffNames)
}

// =============================================================================
// DATE PHRASES
// =============================================================================

func TestParse_OrdinalDate_DefaultsToCurrentYear(t *testing.T) {
	cmd := scheduling.ParseAt("book Aisha Patel on Nebula for 5 hours on 20th May", parseToday)

	require.NotNil(t, cmd)
	assert.Equal(t, "2025-05-20", cmd.Range.From.String())
}

func TestParse_MonthNameWithYear(t *testing.T) {
	cmd := scheduling.ParseAt("book Aisha Patel on Nebula for 5 hours on May 20, 2026", parseToday)

	require.NotNil(t, cmd)
	assert.Equal(t, "2026-05-20", cmd.Range.From.String())
}

func TestParse_Tomorrow(t *testing.T) {
	cmd := scheduling.ParseAt("book Aisha Patel on Nebula for 5 hours tomorrow", parseToday)

	require.NotNil(t, cmd)
	assert.Equal(t, "2025-05-15", cmd.Range.From.String())
}

func TestParse_NextWeek_ExpandsToWorkweek(t *testing.T) {
	// Next Monday after Wed 2025-05-14 is 2025-05-19.
	cmd := scheduling.ParseAt("book Aisha Patel on Nebula for 5 hours next week", parseToday)

	require.NotNil(t, cmd)
	assert.Equal(t, "2025-05-19", cmd.Range.From.String())
	assert.Equal(t, "2025-05-23", cmd.Range.To.String())
	assert.Len(t, cmd.Range.Dates(), 5)
}

// =============================================================================
// NON-BOOKING TEXT
// =============================================================================

func TestParse_NonBookingText_ReturnsNil(t *testing.T) {
	for _, text := range []string{
		"",
		"hello there",
		"how many staff members do we have?",
		"is Aisha available on 2025-05-19?",
		"book a meeting room",
		"schedule a call with the partner",
	} {
		assert.Nil(t, scheduling.ParseAt(text, parseToday), "text: %q", text)
	}
}

func TestParse_ZeroHours_Dropped(t *testing.T) {
	assert.Nil(t, scheduling.ParseAt("book Aisha Patel on Nebula for 0 hours", parseToday))
}
