package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
	"github.com/shiftsync/timeclock-backend/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{
		db: db,
	}
}

const employeeColumns = `
	id, COALESCE(first_name, ''), preferred_name, middle_name, COALESCE(last_name, ''),
	COALESCE(role, ''), phone_number, email, start_date, end_date, is_active, position, address`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.FirstName, &e.PreferredName, &e.MiddleName, &e.LastName,
		&e.Role, &e.PhoneNumber, &e.Email, &e.StartDate, &e.EndDate, &e.IsActive, &e.Position, &e.Address,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees`
	var args []interface{}
	if filter.IsActive != nil {
		query += ` WHERE is_active = $1`
		args = append(args, *filter.IsActive)
	}
	query += ` ORDER BY last_name, first_name, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// ListActiveMapped implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActiveMapped(ctx context.Context) ([]employee.MappedEmployee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id,
			   TRIM(COALESCE(NULLIF(e.preferred_name, ''), e.first_name, '') || ' ' || COALESCE(e.last_name, '')),
			   COALESCE(e.role, ''),
			   m.clover_employee_id
		FROM employees e
		JOIN clover_employee_map m ON m.employee_id = e.id
		WHERE e.is_active = true
		ORDER BY e.id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list mapped employees: %w", err)
	}
	defer rows.Close()

	var mapped []employee.MappedEmployee
	for rows.Next() {
		var m employee.MappedEmployee
		if err := rows.Scan(&m.ID, &m.Name, &m.WorkArea, &m.CloverEmployeeID); err != nil {
			return nil, fmt.Errorf("failed to scan mapped employee: %w", err)
		}
		mapped = append(mapped, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mapped employees: %w", err)
	}

	return mapped, nil
}

// GetCloverEmployeeID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetCloverEmployeeID(ctx context.Context, employeeID int64) (string, error) {
	q := GetQuerier(ctx, r.db)

	var cloverID string
	err := q.QueryRow(ctx,
		`SELECT clover_employee_id FROM clover_employee_map WHERE employee_id = $1`,
		employeeID,
	).Scan(&cloverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", employee.ErrMappingNotFound
		}
		return "", fmt.Errorf("failed to get clover mapping: %w", err)
	}

	return cloverID, nil
}
