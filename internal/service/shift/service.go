package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftsync/timeclock-backend/internal/config"
	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
	"github.com/shiftsync/timeclock-backend/internal/pkg/clover"
	"github.com/shiftsync/timeclock-backend/internal/pkg/database"
	"github.com/shiftsync/timeclock-backend/internal/pkg/timewindow"
)

// ShiftFetcher is the part of the Clover client the importer depends on
type ShiftFetcher interface {
	FetchShifts(ctx context.Context, cloverEmployeeID string, startMillis, endMillis int64) (clover.FetchResult, error)
}

type ShiftServiceImpl struct {
	transactor   database.Transactor
	employeeRepo employee.EmployeeRepository
	shiftRepo    shift.ShiftRepository
	stagedRepo   shift.StagedShiftRepository
	fetcher      ShiftFetcher
	codec        *timewindow.Codec
	lookbackDays int
	concurrency  int
	now          func() time.Time
}

func NewShiftService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	stagedRepo shift.StagedShiftRepository,
	fetcher ShiftFetcher,
	codec *timewindow.Codec,
	cfg config.ImportConfig,
) shift.ShiftService {
	lookback := cfg.LookbackDays
	if lookback < 1 {
		lookback = 7
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &ShiftServiceImpl{
		transactor:   transactor,
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
		stagedRepo:   stagedRepo,
		fetcher:      fetcher,
		codec:        codec,
		lookbackDays: lookback,
		concurrency:  concurrency,
		now:          time.Now,
	}
}

// ListStaged implements shift.ShiftService.
func (s *ShiftServiceImpl) ListStaged(ctx context.Context) ([]shift.ShiftRecord, error) {
	staged, err := s.stagedRepo.ListUnpromoted(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list staged shifts: %w", err)
	}
	return stagedRecords(staged), nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) ([]shift.ShiftRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	shifts, err := s.shiftRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	records := make([]shift.ShiftRecord, 0, len(shifts))
	for _, sh := range shifts {
		records = append(records, shift.NewShiftRecord(sh))
	}
	return records, nil
}

func stagedRecords(staged []shift.StagedShift) []shift.ShiftRecord {
	records := make([]shift.ShiftRecord, 0, len(staged))
	for _, st := range staged {
		records = append(records, shift.NewStagedRecord(st))
	}
	return records
}
