package scheduling_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// =============================================================================
// FREE-TEXT PATH
// =============================================================================

func TestPipeline_RunText_EndToEnd(t *testing.T) {
	// GIVEN: A seeded store and a dated booking sentence
	// WHEN: Running the full parse -> resolve -> build -> write pipeline
	// THEN: One row per date lands and the outcome counts agree

	store := newTestStore(t)
	p := scheduling.NewPipeline(store, nil)

	out, err := p.RunText(context.Background(),
		"book Aisha on Nebula for 5 hours from 2025-06-02 to 2025-06-04")
	require.NoError(t, err)

	assert.Equal(t, 3, out.Requested)
	assert.Equal(t, 3, out.CreatedCount)
	assert.Len(t, out.Created, 3)
	assert.Zero(t, out.Skipped)
	assert.False(t, out.MultiProject)
	assert.Equal(t, "Aisha Patel", out.Created[0].StaffName)
}

func TestPipeline_RunText_NotABooking(t *testing.T) {
	p := scheduling.NewPipeline(newTestStore(t), nil)

	_, err := p.RunText(context.Background(), "how many staff do we have?")
	assert.ErrorIs(t, err, scheduling.ErrNotBookingCommand)
}

func TestPipeline_RunText_MultiProjectFlag(t *testing.T) {
	p := scheduling.NewPipeline(newTestStore(t), nil)

	out, err := p.RunText(context.Background(),
		"book Liam on Nebula for 4 hours and Vanguard for 2 hours on 2025-06-02")
	require.NoError(t, err)
	assert.True(t, out.MultiProject)
	assert.Equal(t, 2, out.CreatedCount)
}

func TestPipeline_RunText_RerunSkipsExisting(t *testing.T) {
	store := newTestStore(t)
	p := scheduling.NewPipeline(store, nil)
	ctx := context.Background()
	text := "book Aisha on Nebula for 5 hours on 2025-06-02"

	first, err := p.RunText(ctx, text)
	require.NoError(t, err)
	require.Equal(t, 1, first.CreatedCount)

	second, err := p.RunText(ctx, text)
	require.NoError(t, err)
	assert.Zero(t, second.CreatedCount)
	assert.Equal(t, 1, second.Skipped)
}

// =============================================================================
// EXPLICIT-ID PATH
// =============================================================================

func TestPipeline_RunExplicit(t *testing.T) {
	store := newTestStore(t)
	p := scheduling.NewPipeline(store, nil)
	r := scheduling.DateRange{
		From: scheduling.NewDate(2025, 6, 2),
		To:   scheduling.NewDate(2025, 6, 3),
	}

	out, err := p.RunExplicit(context.Background(), []string{"s1", "s2"}, []string{"p1"}, r, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, out.CreatedCount)
	assert.False(t, out.MultiProject)
}

func TestPipeline_RunExplicit_UnknownStaffPropagates(t *testing.T) {
	p := scheduling.NewPipeline(newTestStore(t), nil)
	r := scheduling.SingleDay(scheduling.NewDate(2025, 6, 2))

	_, err := p.RunExplicit(context.Background(), []string{"ghost"}, []string{"p1"}, r, 4)
	assert.Error(t, err)
}

func TestPipeline_RunExplicit_RejectsNonPositiveHours(t *testing.T) {
	p := scheduling.NewPipeline(newTestStore(t), nil)
	r := scheduling.SingleDay(scheduling.NewDate(2025, 6, 2))

	_, err := p.RunExplicit(context.Background(), []string{"s1"}, []string{"p1"}, r, 0)
	assert.Error(t, err)
}
