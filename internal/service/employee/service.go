package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

// Helper function to map Employee to EmployeeResponse
func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	var startDateStr *string
	if emp.StartDate != nil {
		s := emp.StartDate.Format(time.DateOnly)
		startDateStr = &s
	}

	var endDateStr *string
	if emp.EndDate != nil {
		s := emp.EndDate.Format(time.DateOnly)
		endDateStr = &s
	}

	return employee.EmployeeResponse{
		ID:            emp.ID,
		FirstName:     emp.FirstName,
		PreferredName: emp.PreferredName,
		MiddleName:    emp.MiddleName,
		LastName:      emp.LastName,
		DisplayName:   emp.DisplayName(),
		Role:          emp.Role,
		PhoneNumber:   emp.PhoneNumber,
		Email:         emp.Email,
		StartDate:     startDateStr,
		EndDate:       endDateStr,
		IsActive:      emp.IsActive,
		Position:      emp.Position,
		Address:       emp.Address,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}
	return responses, nil
}
