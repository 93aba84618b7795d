package shift

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
)

// Promote implements shift.ShiftService.
//
// Inserting the canonical rows and flipping is_promoted happen in one
// transaction, so a failure leaves both tables untouched.
func (s *ShiftServiceImpl) Promote(ctx context.Context, req shift.PromoteRequest) (shift.PromoteResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.PromoteResponse{}, err
	}

	approved, err := req.ToApproved()
	if err != nil {
		return shift.PromoteResponse{}, err
	}

	var inserted int
	var promotedIDs []int64
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		inserted = 0
		stagedIDs := make([]int64, 0, len(approved))
		for _, a := range approved {
			ok, err := s.shiftRepo.InsertIgnoreDuplicate(txCtx, a.Shift)
			if err != nil {
				return err
			}
			if ok {
				inserted++
			}
			if a.StagedShiftID != nil {
				stagedIDs = append(stagedIDs, *a.StagedShiftID)
			}
		}

		ids, err := s.stagedRepo.MarkPromoted(txCtx, stagedIDs)
		if err != nil {
			return err
		}
		promotedIDs = ids
		return nil
	})
	if err != nil {
		return shift.PromoteResponse{}, fmt.Errorf("failed to promote shifts: %w", err)
	}

	slog.Info("Promoted shifts", "requested", len(approved), "inserted", inserted, "staged_marked", len(promotedIDs))

	return shift.PromoteResponse{
		Status:      StatusSuccess,
		Message:     fmt.Sprintf("%d shift(s) promoted", len(approved)),
		Inserted:    inserted,
		PromotedIDs: promotedIDs,
	}, nil
}
