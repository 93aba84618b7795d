package shift

import (
	"context"
)

// ShiftService defines the import, review and promotion workflow
type ShiftService interface {
	// ImportForEmployee pulls the not-yet-imported window for one employee into staging
	ImportForEmployee(ctx context.Context, req ImportEmployeeRequest) (ImportEmployeeResponse, error)

	// ImportForAllActive runs ImportForEmployee for every active mapped employee.
	// Per-employee failures are collected, never returned.
	ImportForAllActive(ctx context.Context) (ImportAllResponse, error)

	// Promote copies approved shifts into the canonical table and marks their staged rows
	Promote(ctx context.Context, req PromoteRequest) (PromoteResponse, error)

	// ListStaged returns the unpromoted review queue
	ListStaged(ctx context.Context) ([]ShiftRecord, error)

	// ListShifts returns canonical shifts
	ListShifts(ctx context.Context, filter ShiftFilter) ([]ShiftRecord, error)
}
