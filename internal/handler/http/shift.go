package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
	"github.com/shiftsync/timeclock-backend/internal/handler/http/response"
	"github.com/shiftsync/timeclock-backend/internal/pkg/validator"
)

// maxBodyBytes bounds request bodies; promotion batches are the largest payload
const maxBodyBytes = 1 << 20

type ShiftHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	ListStaged(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	ImportAll(w http.ResponseWriter, r *http.Request)
	Promote(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// decodeBody decodes a JSON body into dst; an empty body leaves dst untouched
func decodeBody(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter shift.ShiftFilter

	if v := query.Get("employee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			response.HandleError(w, validator.ValidationErrors{{
				Field:   "employee_id",
				Message: "employee_id must be a positive number",
			}})
			return
		}
		filter.EmployeeID = &id
	}
	if v := query.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := query.Get("end_date"); v != "" {
		filter.EndDate = &v
	}

	shifts, err := h.shiftService.ListShifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shifts)
}

// ListStaged implements ShiftHandler.
func (h *shiftHandlerImpl) ListStaged(w http.ResponseWriter, r *http.Request) {
	staged, err := h.shiftService.ListStaged(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, staged)
}

// Import implements ShiftHandler.
func (h *shiftHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	var req shift.ImportEmployeeRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.ImportForEmployee(r.Context(), req)
	if err != nil {
		slog.Error("Failed to import shifts", "employee_id", *req.EmployeeID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shifts imported to staging", result)
}

// ImportAll implements ShiftHandler.
func (h *shiftHandlerImpl) ImportAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.ImportForAllActive(r.Context())
	if err != nil {
		slog.Error("Failed to run bulk shift import", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bulk import finished", result)
}

// Promote implements ShiftHandler.
func (h *shiftHandlerImpl) Promote(w http.ResponseWriter, r *http.Request) {
	var req shift.PromoteRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.Promote(r.Context(), req)
	if err != nil {
		slog.Error("Failed to promote shifts", "count", len(req.Shifts), "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}
