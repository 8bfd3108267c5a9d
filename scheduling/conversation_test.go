package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// Wednesday 2025-05-14, same anchor the parser tests use.
var convToday = scheduling.NewDate(2025, time.May, 14)

// =============================================================================
// TIMEFRAME VOCABULARY
// =============================================================================

func TestParseTimeframe_ClosedVocabulary(t *testing.T) {
	tests := []struct {
		answer string
		from   string
		to     string
	}{
		{"this week", "2025-05-12", "2025-05-18"},
		{"last week", "2025-05-05", "2025-05-11"},
		{"this month", "2025-05-01", "2025-05-31"},
		{"last month", "2025-04-01", "2025-04-30"},
		{"  This Week! ", "2025-05-12", "2025-05-18"},
	}
	for _, tc := range tests {
		t.Run(tc.answer, func(t *testing.T) {
			r, ok := scheduling.ParseTimeframe(tc.answer, convToday)
			require.True(t, ok)
			assert.Equal(t, tc.from, r.From.String())
			assert.Equal(t, tc.to, r.To.String())
		})
	}
}

func TestParseTimeframe_OutsideVocabulary(t *testing.T) {
	for _, answer := range []string{"next week", "Q3", "yesterday", "", "the whole year"} {
		_, ok := scheduling.ParseTimeframe(answer, convToday)
		assert.False(t, ok, "answer %q should not be recognized", answer)
	}
}

func TestParseTimeframe_MonthBoundary(t *testing.T) {
	// January: "last month" crosses the year boundary.
	jan := scheduling.NewDate(2025, time.January, 15)
	r, ok := scheduling.ParseTimeframe("last month", jan)
	require.True(t, ok)
	assert.Equal(t, "2024-12-01", r.From.String())
	assert.Equal(t, "2024-12-31", r.To.String())
}

// =============================================================================
// CLARIFICATION LIFECYCLE
// =============================================================================

func TestConversation_AskThenAnswer(t *testing.T) {
	// GIVEN: A report request that triggered the timeframe question
	// WHEN: The next turn answers "last week"
	// THEN: The window comes back and the pending state clears

	conv := scheduling.Conversation{}.AskReportTimeframe()
	require.True(t, conv.AwaitingAnswer())

	conv, window, ok := conv.Resolve("last week", convToday)
	require.True(t, ok)
	assert.False(t, conv.AwaitingAnswer())
	assert.Equal(t, "2025-05-05", window.From.String())
	assert.Equal(t, "2025-05-11", window.To.String())
}

func TestConversation_UnrecognizedAnswer_StaysPending(t *testing.T) {
	// GIVEN: A pending timeframe question
	// WHEN: The answer is outside the vocabulary
	// THEN: State is unchanged so the caller re-prompts

	conv := scheduling.Conversation{}.AskReportTimeframe()

	after, _, ok := conv.Resolve("sometime soon", convToday)
	assert.False(t, ok)
	assert.Equal(t, conv, after)
	assert.True(t, after.AwaitingAnswer())
}

func TestConversation_ZeroValue_NothingPending(t *testing.T) {
	var conv scheduling.Conversation
	assert.False(t, conv.AwaitingAnswer())

	_, _, ok := conv.Resolve("this week", convToday)
	assert.False(t, ok)
}
