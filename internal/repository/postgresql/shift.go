package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
	"github.com/shiftsync/timeclock-backend/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{
		db: db,
	}
}

func toPgTime(c shift.ClockTime) pgtype.Time {
	return pgtype.Time{Microseconds: c.Duration().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) shift.ClockTime {
	d := time.Duration(t.Microseconds) * time.Microsecond
	return shift.ClockTime{
		Hour:   int(d / time.Hour),
		Minute: int(d % time.Hour / time.Minute),
		Second: int(d % time.Minute / time.Second),
	}
}

// dateOnly keeps the calendar date and drops the zone so DATE columns store what was meant
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// translateWriteError maps constraint violations to domain errors
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return employee.ErrEmployeeNotFound
		}
	}
	return err
}

// InsertIgnoreDuplicate implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) InsertIgnoreDuplicate(ctx context.Context, s shift.Shift) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			shift_date, employee_id, time_in, time_out, work_area, shift_label, decimal_hours, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, shift_date, time_in, time_out) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		dateOnly(s.ShiftDate),
		s.EmployeeID,
		toPgTime(s.TimeIn),
		toPgTime(s.TimeOut),
		s.WorkArea,
		s.ShiftLabel,
		s.DecimalHours,
		s.Notes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert shift: %w", translateWriteError(err))
	}

	return tag.RowsAffected() == 1, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	where := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		start, err := time.Parse(time.DateOnly, *filter.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		where += fmt.Sprintf(" AND shift_date >= $%d", argIdx)
		args = append(args, start)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		end, err := time.Parse(time.DateOnly, *filter.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
		where += fmt.Sprintf(" AND shift_date <= $%d", argIdx)
		args = append(args, end)
	}

	query := `
		SELECT id, employee_id, shift_date, time_in, time_out,
			   COALESCE(work_area, ''), COALESCE(shift_label, ''), decimal_hours, notes
		FROM shifts
		WHERE ` + where + `
		ORDER BY shift_date ASC, time_in ASC, id ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := []shift.Shift{}
	for rows.Next() {
		var s shift.Shift
		var in, out pgtype.Time
		if err := rows.Scan(
			&s.ID, &s.EmployeeID, &s.ShiftDate, &in, &out,
			&s.WorkArea, &s.ShiftLabel, &s.DecimalHours, &s.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		s.TimeIn = fromPgTime(in)
		s.TimeOut = fromPgTime(out)
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return shifts, nil
}

// MaxShiftDate implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) MaxShiftDate(ctx context.Context, employeeID int64) (*time.Time, error) {
	return maxShiftDate(ctx, GetQuerier(ctx, r.db), "shifts", employeeID)
}

func maxShiftDate(ctx context.Context, q database.Querier, table string, employeeID int64) (*time.Time, error) {
	var d *time.Time
	err := q.QueryRow(ctx,
		`SELECT MAX(shift_date) FROM `+pgx.Identifier{table}.Sanitize()+` WHERE employee_id = $1`,
		employeeID,
	).Scan(&d)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest %s date: %w", table, err)
	}
	return d, nil
}
