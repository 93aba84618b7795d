package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
	"github.com/shiftsync/timeclock-backend/internal/pkg/database"
)

type stagedShiftRepositoryImpl struct {
	db *database.DB
}

func NewStagedShiftRepository(db *database.DB) shift.StagedShiftRepository {
	return &stagedShiftRepositoryImpl{
		db: db,
	}
}

// InsertIgnoreDuplicate implements shift.StagedShiftRepository.
func (r *stagedShiftRepositoryImpl) InsertIgnoreDuplicate(ctx context.Context, s shift.StagedShift) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staged_shifts (
			employee_id, clover_shift_id, shift_date, time_in, time_out,
			work_area, shift_label, decimal_hours, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, shift_date, time_in, time_out, clover_shift_id) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		s.EmployeeID,
		s.CloverShiftID,
		dateOnly(s.ShiftDate),
		toPgTime(s.TimeIn),
		toPgTime(s.TimeOut),
		s.WorkArea,
		s.ShiftLabel,
		s.DecimalHours,
		s.Notes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to stage shift: %w", translateWriteError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// ListUnpromoted implements shift.StagedShiftRepository.
func (r *stagedShiftRepositoryImpl) ListUnpromoted(ctx context.Context, employeeID *int64) ([]shift.StagedShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, clover_shift_id, shift_date, time_in, time_out,
			   COALESCE(work_area, ''), COALESCE(shift_label, ''), decimal_hours, notes, is_promoted
		FROM staged_shifts
		WHERE is_promoted = false
	`
	var args []interface{}
	if employeeID != nil {
		query += ` AND employee_id = $1`
		args = append(args, *employeeID)
	}
	query += ` ORDER BY shift_date ASC, time_in ASC, id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staged shifts: %w", err)
	}
	defer rows.Close()

	staged := []shift.StagedShift{}
	for rows.Next() {
		var s shift.StagedShift
		var in, out pgtype.Time
		if err := rows.Scan(
			&s.ID, &s.EmployeeID, &s.CloverShiftID, &s.ShiftDate, &in, &out,
			&s.WorkArea, &s.ShiftLabel, &s.DecimalHours, &s.Notes, &s.IsPromoted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan staged shift: %w", err)
		}
		s.TimeIn = fromPgTime(in)
		s.TimeOut = fromPgTime(out)
		staged = append(staged, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staged shifts: %w", err)
	}

	return staged, nil
}

// MarkPromoted implements shift.StagedShiftRepository.
func (r *stagedShiftRepositoryImpl) MarkPromoted(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		UPDATE staged_shifts
		SET is_promoted = true
		WHERE id = ANY($1) AND is_promoted = false
		RETURNING id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to mark staged shifts promoted: %w", err)
	}
	defer rows.Close()

	promoted := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan promoted id: %w", err)
		}
		promoted = append(promoted, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate promoted ids: %w", err)
	}

	return promoted, nil
}

// MaxShiftDate implements shift.StagedShiftRepository.
func (r *stagedShiftRepositoryImpl) MaxShiftDate(ctx context.Context, employeeID int64) (*time.Time, error) {
	return maxShiftDate(ctx, GetQuerier(ctx, r.db), "staged_shifts", employeeID)
}
