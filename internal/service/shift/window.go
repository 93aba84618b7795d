package shift

import (
	"context"
	"fmt"
	"time"
)

// window is an inclusive range of calendar days, each at midnight in the import zone
type window struct {
	Start time.Time
	End   time.Time
}

func (w window) Empty() bool {
	return w.Start.After(w.End)
}

func (w window) String() string {
	return w.Start.Format(time.DateOnly) + ".." + w.End.Format(time.DateOnly)
}

// resolveWindow returns the days not yet imported for employeeID: the day after
// the latest staged or canonical shift, or the lookback period when there is none,
// through today.
func (s *ShiftServiceImpl) resolveWindow(ctx context.Context, employeeID int64) (window, error) {
	today := s.codec.Today(s.now())

	latest, err := s.latestShiftDate(ctx, employeeID)
	if err != nil {
		return window{}, err
	}

	var start time.Time
	if latest != nil {
		y, m, d := latest.Date()
		start = time.Date(y, m, d+1, 0, 0, 0, 0, s.codec.Location())
	} else {
		start = today.AddDate(0, 0, -(s.lookbackDays - 1))
	}

	return window{Start: start, End: today}, nil
}

func (s *ShiftServiceImpl) latestShiftDate(ctx context.Context, employeeID int64) (*time.Time, error) {
	staged, err := s.stagedRepo.MaxShiftDate(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest staged date: %w", err)
	}
	canonical, err := s.shiftRepo.MaxShiftDate(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest shift date: %w", err)
	}

	switch {
	case staged == nil:
		return canonical, nil
	case canonical == nil:
		return staged, nil
	case canonical.After(*staged):
		return canonical, nil
	default:
		return staged, nil
	}
}
