package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
	"github.com/shiftsync/timeclock-backend/internal/handler/http/response"
	"github.com/shiftsync/timeclock-backend/internal/pkg/validator"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter employee.EmployeeFilter

	if active := r.URL.Query().Get("active"); active != "" {
		isActive, err := strconv.ParseBool(active)
		if err != nil {
			response.HandleError(w, validator.ValidationErrors{{
				Field:   "active",
				Message: "active must be true or false",
			}})
			return
		}
		filter.IsActive = &isActive
	}

	employees, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list employees", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}
