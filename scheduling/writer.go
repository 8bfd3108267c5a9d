/*
writer.go - Conflict-aware best-effort bulk writer

PURPOSE:
  Persists assignment rows one at a time, continuing past per-row constraint
  violations. This is a documented partial-success contract, not a bug:
  the operation reports success with however many rows landed, and callers
  compare Requested against Created.

WHY NOT A TRANSACTION:
  Bulk bookings routinely overlap existing schedules. Failing a 30-row
  department fan-out because two staff already had that project booked would
  make bulk commands unusable. Losing a store-level race for the
  (staffId, projectId, date) uniqueness invariant surfaces the same way:
  as a skipped row, never as a request-level failure.

WHAT STILL FAILS:
  Errors that are not constraint violations (store unreachable, malformed
  row) abort the loop and propagate.
*/
package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WriteResult reports the outcome of a best-effort bulk write.
type WriteResult struct {
	Created []ResolvedMatch
	// Requested and Skipped let callers detect partial success:
	// Requested == len(Created) + Skipped always holds on a nil-error return.
	Requested int
	Skipped   int
	Message   string
}

// Writer persists assignment rows with per-row conflict recovery.
type Writer struct {
	store AssignmentStore
	log   *zap.Logger
}

func NewWriter(store AssignmentStore, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{store: store, log: log}
}

// Write inserts each row independently. Duplicate-key and foreign-key
// violations are logged and skipped while the loop continues. Any other
// store error aborts and propagates.
func (w *Writer) Write(ctx context.Context, rows []AssignmentRow) (WriteResult, error) {
	res := WriteResult{Requested: len(rows), Created: []ResolvedMatch{}}

	for _, row := range rows {
		_, err := w.store.CreateAssignment(ctx, Assignment{
			ID:        uuid.NewString(),
			StaffID:   row.StaffID,
			ProjectID: row.ProjectID,
			Date:      row.Date,
			Hours:     row.Hours,
		})
		switch {
		case err == nil:
			res.Created = append(res.Created, ResolvedMatch{
				StaffID:       row.StaffID,
				StaffName:     row.StaffName,
				AssignedHours: row.Hours,
				Date:          row.Date.String(),
			})
		case errors.Is(err, ErrDuplicateAssignment), errors.Is(err, ErrMissingReference):
			res.Skipped++
			w.log.Info("skipping assignment row",
				zap.String("staff_id", row.StaffID),
				zap.String("project_id", row.ProjectID),
				zap.String("date", row.Date.String()),
				zap.Error(err))
		default:
			return res, fmt.Errorf("writing assignment for %s on %s: %w", row.StaffName, row.Date, err)
		}
	}

	res.Message = writeMessage(res)
	return res, nil
}

func writeMessage(res WriteResult) string {
	switch {
	case res.Requested == 0:
		return "No assignments requested."
	case res.Skipped == 0:
		return fmt.Sprintf("Created %d assignment(s).", len(res.Created))
	default:
		return fmt.Sprintf("Created %d of %d assignment(s); %d already existed or could not be written.",
			len(res.Created), res.Requested, res.Skipped)
	}
}
