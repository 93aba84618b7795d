package employee

import (
	"context"
)

// EmployeeService defines read-only employee operations
type EmployeeService interface {
	// ListEmployees lists employees, optionally filtered by active flag
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)
}
