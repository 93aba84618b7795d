package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
)

// ShiftImportJobName identifies the scheduled bulk Clover import
const ShiftImportJobName = "clover-shift-import"

// NewShiftImportJob returns a job that stages shifts for every active mapped employee
func NewShiftImportJob(shiftService shift.ShiftService) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		result, err := shiftService.ImportForAllActive(ctx)
		if err != nil {
			return fmt.Errorf("scheduled shift import: %w", err)
		}

		slog.Info("Scheduled shift import finished",
			"run_id", result.RunID,
			"status", result.Status,
			"imported", result.Imported,
			"skipped", result.Skipped,
			"errors", len(result.Errors),
		)
		return nil
	}
}
