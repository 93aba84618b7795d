package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
	"github.com/shiftsync/timeclock-backend/internal/pkg/clover"
	"github.com/shiftsync/timeclock-backend/internal/pkg/timewindow"
	"golang.org/x/sync/errgroup"
)

const (
	StatusSuccess             = "success"
	StatusCompletedWithErrors = "completed_with_errors"
)

type importResult struct {
	imported int
	skipped  int
}

// ImportForEmployee implements shift.ShiftService.
func (s *ShiftServiceImpl) ImportForEmployee(ctx context.Context, req shift.ImportEmployeeRequest) (shift.ImportEmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ImportEmployeeResponse{}, err
	}
	employeeID := *req.EmployeeID

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return shift.ImportEmployeeResponse{}, err
	}

	cloverID, err := s.employeeRepo.GetCloverEmployeeID(ctx, employeeID)
	if err != nil {
		return shift.ImportEmployeeResponse{}, err
	}

	result, err := s.importEmployee(ctx, employee.MappedEmployee{
		ID:               emp.ID,
		Name:             emp.DisplayName(),
		WorkArea:         emp.Role,
		CloverEmployeeID: cloverID,
	})
	if err != nil {
		return shift.ImportEmployeeResponse{}, err
	}

	preview, err := s.stagedRepo.ListUnpromoted(ctx, &employeeID)
	if err != nil {
		return shift.ImportEmployeeResponse{}, fmt.Errorf("failed to load preview: %w", err)
	}

	return shift.ImportEmployeeResponse{
		Status:     StatusSuccess,
		EmployeeID: employeeID,
		Imported:   result.imported,
		Skipped:    result.skipped,
		Preview:    stagedRecords(preview),
	}, nil
}

// ImportForAllActive implements shift.ShiftService.
func (s *ShiftServiceImpl) ImportForAllActive(ctx context.Context) (shift.ImportAllResponse, error) {
	runID := uuid.NewString()

	employees, err := s.employeeRepo.ListActiveMapped(ctx)
	if err != nil {
		return shift.ImportAllResponse{}, fmt.Errorf("failed to list mapped employees: %w", err)
	}

	slog.Info("Starting bulk shift import", "run_id", runID, "employees", len(employees), "concurrency", s.concurrency)

	results := make([]importResult, len(employees))
	errs := make([]error, len(employees))

	// goroutines never return an error so one employee cannot cancel the others
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, emp := range employees {
		g.Go(func() error {
			results[i], errs[i] = s.importEmployee(ctx, emp)
			return nil
		})
	}
	_ = g.Wait()

	resp := shift.ImportAllResponse{
		Status: StatusSuccess,
		RunID:  runID,
		Errors: []shift.ImportError{},
	}
	for i, emp := range employees {
		if errs[i] != nil {
			slog.Error("Failed to import shifts for employee",
				"run_id", runID, "employee_id", emp.ID, "clover_employee_id", emp.CloverEmployeeID, "error", errs[i])
			resp.Errors = append(resp.Errors, shift.ImportError{
				EmployeeID: emp.ID,
				Error:      publicImportError(errs[i]),
			})
			continue
		}
		resp.Imported += results[i].imported
		resp.Skipped += results[i].skipped
	}
	if len(resp.Errors) > 0 {
		resp.Status = StatusCompletedWithErrors
	}

	preview, err := s.stagedRepo.ListUnpromoted(ctx, nil)
	if err != nil {
		return shift.ImportAllResponse{}, fmt.Errorf("failed to load preview: %w", err)
	}
	resp.Preview = stagedRecords(preview)

	slog.Info("Finished bulk shift import",
		"run_id", runID, "imported", resp.Imported, "skipped", resp.Skipped, "errors", len(resp.Errors))

	return resp, nil
}

// importEmployee stages the not-yet-imported window of one employee.
// The Clover call happens outside the transaction.
func (s *ShiftServiceImpl) importEmployee(ctx context.Context, emp employee.MappedEmployee) (importResult, error) {
	w, err := s.resolveWindow(ctx, emp.ID)
	if err != nil {
		return importResult{}, err
	}
	if w.Empty() {
		slog.Debug("Shift import window is empty", "employee_id", emp.ID, "window", w.String())
		return importResult{}, nil
	}

	startMillis, err := s.codec.DateToEpochMillis(w.Start, timewindow.AnchorStart)
	if err != nil {
		return importResult{}, err
	}
	endMillis, err := s.codec.DateToEpochMillis(w.End, timewindow.AnchorEnd)
	if err != nil {
		return importResult{}, err
	}

	fetched, err := s.fetcher.FetchShifts(ctx, emp.CloverEmployeeID, startMillis, endMillis)
	if err != nil {
		return importResult{}, fmt.Errorf("failed to fetch clover shifts: %w", err)
	}

	skipped := fetched.Malformed
	staged := make([]shift.StagedShift, 0, len(fetched.Punches))
	for _, p := range fetched.Punches {
		st, err := normalizePunch(p, emp, s.codec)
		if err != nil {
			slog.Warn("Skipping clover punch", "employee_id", emp.ID, "punch_id", p.ID, "error", err)
			skipped++
			continue
		}
		staged = append(staged, st)
	}

	var result importResult
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		result = importResult{skipped: skipped}
		for _, st := range staged {
			inserted, err := s.stagedRepo.InsertIgnoreDuplicate(txCtx, st)
			if err != nil {
				return err
			}
			if inserted {
				result.imported++
			} else {
				result.skipped++
			}
		}
		return nil
	})
	if err != nil {
		return importResult{}, fmt.Errorf("failed to stage shifts: %w", err)
	}

	slog.Info("Imported shifts for employee",
		"employee_id", emp.ID, "window", w.String(), "fetched", len(fetched.Punches),
		"imported", result.imported, "skipped", result.skipped)

	return result, nil
}

// publicImportError renders err for API callers without leaking internals
func publicImportError(err error) string {
	var fetchErr *clover.FetchError
	switch {
	case errors.As(err, &fetchErr):
		return fmt.Sprintf("clover API returned status %d", fetchErr.StatusCode)
	case errors.Is(err, employee.ErrMappingNotFound):
		return employee.ErrMappingNotFound.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "import timed out"
	default:
		return "internal error"
	}
}
