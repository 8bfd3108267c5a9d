/*
pipeline.go - The local parse -> resolve -> expand -> build -> write pipeline

PURPOSE:
  Wires the engine stages into the one call sites actually make. The
  orchestration gateway runs this pipeline as its fallback path; the chat
  layer runs it directly for recognized booking commands.

CONCURRENCY:
  Each request runs its pipeline synchronously with no in-process locking.
  Suspension points are store calls only; races on the uniqueness invariant
  resolve at the store and surface as skipped rows.
*/
package scheduling

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BookingOutcome is the result shape both the primary orchestrator path and
// the local fallback produce.
type BookingOutcome struct {
	Created      []ResolvedMatch `json:"created"`
	Requested    int             `json:"requested"`
	CreatedCount int             `json:"createdCount"`
	Skipped      int             `json:"skipped"`
	Message      string          `json:"message"`
	MultiProject bool            `json:"isMultiProject"`
}

// Pipeline runs booking commands end to end against one store.
type Pipeline struct {
	resolver *Resolver
	builder  *Builder
	writer   *Writer
	store    Store
}

func NewPipeline(store Store, log *zap.Logger) *Pipeline {
	resolver := NewResolver(store)
	return &Pipeline{
		resolver: resolver,
		builder:  NewBuilder(resolver),
		writer:   NewWriter(store, log),
		store:    store,
	}
}

func (p *Pipeline) Resolver() *Resolver { return p.resolver }

// RunText parses free text and runs the resulting command.
// Non-booking text returns ErrNotBookingCommand.
func (p *Pipeline) RunText(ctx context.Context, text string) (BookingOutcome, error) {
	cmd := Parse(text)
	if cmd == nil {
		return BookingOutcome{}, ErrNotBookingCommand
	}
	return p.RunCommand(ctx, cmd)
}

// RunCommand resolves, expands, builds and writes one parsed command.
func (p *Pipeline) RunCommand(ctx context.Context, cmd *BookingCommand) (BookingOutcome, error) {
	staff, err := p.resolver.ResolveCommandStaff(ctx, cmd)
	if err != nil {
		return BookingOutcome{}, err
	}
	rows, err := p.builder.Build(ctx, staff, cmd.Bookings, cmd.Range.Dates())
	if err != nil {
		return BookingOutcome{}, err
	}
	res, err := p.writer.Write(ctx, rows)
	if err != nil {
		return BookingOutcome{}, err
	}
	return outcome(res, len(cmd.Bookings) > 1), nil
}

// RunExplicit books already-identified staff and projects for every date in
// the range, bypassing parsing and resolution. Used when a structured payload
// carries IDs instead of free text.
func (p *Pipeline) RunExplicit(ctx context.Context, staffIDs, projectIDs []string, r DateRange, hours int) (BookingOutcome, error) {
	if hours <= 0 {
		return BookingOutcome{}, fmt.Errorf("hours must be positive, got %d", hours)
	}
	var rows []AssignmentRow
	for _, sid := range staffIDs {
		s, err := p.store.GetStaff(ctx, sid)
		if err != nil {
			return BookingOutcome{}, err
		}
		for _, pid := range projectIDs {
			proj, err := p.store.GetProject(ctx, pid)
			if err != nil {
				return BookingOutcome{}, err
			}
			for _, d := range r.Dates() {
				rows = append(rows, AssignmentRow{
					StaffID:     s.ID,
					StaffName:   s.Name,
					ProjectID:   proj.ID,
					ProjectName: proj.Name,
					Date:        d,
					Hours:       hours,
				})
			}
		}
	}
	res, err := p.writer.Write(ctx, rows)
	if err != nil {
		return BookingOutcome{}, err
	}
	return outcome(res, len(projectIDs) > 1), nil
}

func outcome(res WriteResult, multi bool) BookingOutcome {
	return BookingOutcome{
		Created:      res.Created,
		Requested:    res.Requested,
		CreatedCount: len(res.Created),
		Skipped:      res.Skipped,
		Message:      res.Message,
		MultiProject: multi,
	}
}
