package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)

	// ListActiveMapped returns active employees that have a Clover mapping, ordered by id
	ListActiveMapped(ctx context.Context) ([]MappedEmployee, error)

	// GetCloverEmployeeID returns ErrMappingNotFound when the employee is not mapped
	GetCloverEmployeeID(ctx context.Context, employeeID int64) (string, error)
}
