/*
seed.go - Demo scenario data

PURPOSE:
  Seeds the store with a small, deterministic dataset for demos and tests:
  a few staff across two departments, projects with and without budgets,
  and a leave project so availability math has something to subtract.

IDEMPOTENCE:
  Records use fixed ids and the store's uniqueness constraints, so seeding
  twice leaves one copy of everything.
*/
package api

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

func dec(v int) *decimal.Decimal {
	d := decimal.NewFromInt(int64(v))
	return &d
}

// SeedDemo loads the demo staff and projects. Existing records with the same
// identity are left untouched.
func SeedDemo(ctx context.Context, store scheduling.Store) error {
	staff := []scheduling.StaffMember{
		{ID: "staff-aisha", Name: "Aisha Patel", Grade: "Senior Consultant", Department: "Analytics", City: "London", Country: "UK", Email: "aisha.patel@example.com", Skills: []string{"SQL", "Python"}},
		{ID: "staff-liam", Name: "Liam Chen", Grade: "Consultant", Department: "Analytics", City: "Manchester", Country: "UK", Skills: []string{"R", "Tableau"}},
		{ID: "staff-sofia", Name: "Sofia Rossi", Grade: "Manager", Department: "Analytics", City: "Milan", Country: "Italy"},
		{ID: "staff-david", Name: "David Okafor", Grade: "Senior Manager", Department: "Strategy", City: "Lagos", Country: "Nigeria"},
		{ID: "staff-emma", Name: "Emma Larsen", Grade: "Associate", Department: "Strategy", City: "Copenhagen", Country: "Denmark"},
	}
	projects := []scheduling.Project{
		{ID: "proj-nebula", Name: "Nebula", Description: "Data platform build-out", PartnerName: "Orbit Partners", TeamLead: "Sofia Rossi", Budget: dec(1000)},
		{ID: "proj-vanguard", Name: "Vanguard", Description: "Market entry study", PartnerName: "Crestline", TeamLead: "David Okafor", Budget: dec(600)},
		{ID: "proj-apollo", Name: "Apollo", Description: "Internal tooling", TeamLead: "Aisha Patel"},
		{ID: "proj-leave", Name: "Annual Leave"},
	}

	for _, s := range staff {
		if _, err := store.CreateStaff(ctx, s); err != nil && !isConstraint(err) {
			return err
		}
	}
	for _, p := range projects {
		if _, err := store.CreateProject(ctx, p); err != nil && !isConstraint(err) {
			return err
		}
	}
	return nil
}

func isConstraint(err error) bool {
	return errors.Is(err, scheduling.ErrDuplicateAssignment) || errors.Is(err, scheduling.ErrMissingReference)
}
