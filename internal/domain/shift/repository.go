package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access for canonical shifts
type ShiftRepository interface {
	// InsertIgnoreDuplicate inserts s unless an identical shift exists.
	// It reports whether a row was written.
	InsertIgnoreDuplicate(ctx context.Context, s Shift) (bool, error)

	// List returns shifts ordered by shift_date, time_in
	List(ctx context.Context, filter ShiftFilter) ([]Shift, error)

	// MaxShiftDate returns nil when the employee has no shifts
	MaxShiftDate(ctx context.Context, employeeID int64) (*time.Time, error)
}

// StagedShiftRepository defines data access for the review queue
type StagedShiftRepository interface {
	// InsertIgnoreDuplicate inserts s unless the (employee, date, in, out, clover id)
	// tuple already exists. It reports whether a row was written.
	InsertIgnoreDuplicate(ctx context.Context, s StagedShift) (bool, error)

	// ListUnpromoted returns unpromoted rows ordered by shift_date, time_in.
	// A nil employeeID lists every employee.
	ListUnpromoted(ctx context.Context, employeeID *int64) ([]StagedShift, error)

	// MarkPromoted flips is_promoted for ids in one statement and returns the ids it changed
	MarkPromoted(ctx context.Context, ids []int64) ([]int64, error)

	// MaxShiftDate returns nil when nothing was staged for the employee
	MaxShiftDate(ctx context.Context, employeeID int64) (*time.Time, error)
}
