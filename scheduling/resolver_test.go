package scheduling_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
	memstore "github.com/hathim-t-ai/StaffScheduler-sub001/scheduling/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func dec(v int) *decimal.Decimal {
	d := decimal.NewFromInt(int64(v))
	return &d
}

// newTestStore seeds the in-memory store with the demo-shaped dataset the
// scenario tests run against.
func newTestStore(t *testing.T) *memstore.Memory {
	t.Helper()
	ctx := context.Background()
	m := memstore.NewMemory()

	staff := []scheduling.StaffMember{
		{ID: "s1", Name: "Aisha Patel", Grade: "Senior Consultant", Department: "Analytics"},
		{ID: "s2", Name: "Liam Chen", Grade: "Consultant", Department: "Analytics"},
		{ID: "s3", Name: "Sofia Rossi", Grade: "Manager", Department: "Analytics"},
		{ID: "s4", Name: "David Okafor", Grade: "Senior Manager", Department: "Strategy"},
	}
	for _, s := range staff {
		_, err := m.CreateStaff(ctx, s)
		require.NoError(t, err)
	}
	projects := []scheduling.Project{
		{ID: "p1", Name: "Nebula", Budget: dec(1000)},
		{ID: "p2", Name: "Vanguard", Budget: dec(600)},
		{ID: "p3", Name: "Apollo"},
		{ID: "p4", Name: "Annual Leave"},
	}
	for _, p := range projects {
		_, err := m.CreateProject(ctx, p)
		require.NoError(t, err)
	}
	return m
}

// =============================================================================
// STAFF RESOLUTION
// =============================================================================

func TestResolver_NameFragment_ContainsMatch(t *testing.T) {
	// GIVEN: A single "Aisha Patel" record
	// WHEN: Resolving the fragment "Ais"
	// THEN: The contains-match succeeds

	r := scheduling.NewResolver(newTestStore(t))
	staff, err := r.ResolveNames(context.Background(), []string{"Ais"})

	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Aisha Patel", staff[0].Name)
}

func TestResolver_UnknownName_NotFoundWithCandidates(t *testing.T) {
	// GIVEN: No staff matching "Zzz"
	// WHEN: Resolving it
	// THEN: staff_not_found carrying a candidate list

	r := scheduling.NewResolver(newTestStore(t))
	_, err := r.ResolveNames(context.Background(), []string{"Zzz"})

	var nf *scheduling.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, scheduling.CodeStaffNotFound, nf.Code)
	assert.Equal(t, "Zzz", nf.Requested)
	assert.NotEmpty(t, nf.Candidates)
}

func TestResolver_Suggestions_PrefixFiltered(t *testing.T) {
	// GIVEN: A near-miss query sharing a 3-character prefix with "Liam Chen"
	// WHEN: Resolution fails
	// THEN: Candidates are the prefix matches, not the whole roster

	r := scheduling.NewResolver(newTestStore(t))
	_, err := r.ResolveNames(context.Background(), []string{"Liax"})

	var nf *scheduling.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"Liam Chen"}, nf.Candidates)
}

func TestResolver_UnmatchedFragments_SilentlyDropped(t *testing.T) {
	r := scheduling.NewResolver(newTestStore(t))
	staff, err := r.ResolveNames(context.Background(), []string{"Aisha", "Nobody"})

	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Aisha Patel", staff[0].Name)
}

func TestResolver_Department_ContainsMatch(t *testing.T) {
	r := scheduling.NewResolver(newTestStore(t))
	staff, err := r.ResolveDepartment(context.Background(), "analytics")

	require.NoError(t, err)
	assert.Len(t, staff, 3)
}

func TestResolver_ResolveStaff_DepartmentPhrase(t *testing.T) {
	r := scheduling.NewResolver(newTestStore(t))
	staff, err := r.ResolveStaff(context.Background(), "the Analytics department")

	require.NoError(t, err)
	assert.Len(t, staff, 3)
}

func TestResolver_DuplicateFragments_NoDuplicateStaff(t *testing.T) {
	r := scheduling.NewResolver(newTestStore(t))
	staff, err := r.ResolveNames(context.Background(), []string{"Aisha", "Patel"})

	require.NoError(t, err)
	assert.Len(t, staff, 1)
}

// =============================================================================
// PROJECT RESOLUTION
// =============================================================================

func TestResolver_Project_BidirectionalMatch(t *testing.T) {
	r := scheduling.NewResolver(newTestStore(t))
	ctx := context.Background()

	// query contained in name
	p, err := r.ResolveProject(ctx, "Neb")
	require.NoError(t, err)
	assert.Equal(t, "Nebula", p.Name)

	// name contained in query
	p, err = r.ResolveProject(ctx, "the Vanguard engagement")
	require.NoError(t, err)
	assert.Equal(t, "Vanguard", p.Name)
}

func TestResolver_Project_NotFound_CarriesFragment(t *testing.T) {
	r := scheduling.NewResolver(newTestStore(t))
	_, err := r.ResolveProject(context.Background(), "Titan")

	var nf *scheduling.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, scheduling.CodeProjectNotFound, nf.Code)
	assert.Equal(t, "Titan", nf.Requested)
}
