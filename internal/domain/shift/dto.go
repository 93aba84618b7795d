package shift

import (
	"fmt"
	"time"

	"github.com/shiftsync/timeclock-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// RECORDS
// ========================================

// ShiftRecord is the JSON shape of both staged and canonical shifts.
// Dates and times are ISO-8601 strings.
type ShiftRecord struct {
	ID            *int64  `json:"id,omitempty"`
	EmployeeID    int64   `json:"employee_id"`
	CloverShiftID *string `json:"clover_shift_id,omitempty"`
	ShiftDate     string  `json:"shift_date"`
	TimeIn        string  `json:"time_in"`
	TimeOut       string  `json:"time_out"`
	WorkArea      string  `json:"work_area"`
	ShiftLabel    string  `json:"shift_label"`
	DecimalHours  float64 `json:"decimal_hours"`
	Notes         *string `json:"notes,omitempty"`
	IsPromoted    *bool   `json:"is_promoted,omitempty"`
}

func NewStagedRecord(s StagedShift) ShiftRecord {
	id := s.ID
	promoted := s.IsPromoted
	hours, _ := s.DecimalHours.Float64()
	return ShiftRecord{
		ID:            &id,
		EmployeeID:    s.EmployeeID,
		CloverShiftID: s.CloverShiftID,
		ShiftDate:     s.ShiftDate.Format(time.DateOnly),
		TimeIn:        s.TimeIn.String(),
		TimeOut:       s.TimeOut.String(),
		WorkArea:      s.WorkArea,
		ShiftLabel:    s.ShiftLabel,
		DecimalHours:  hours,
		Notes:         s.Notes,
		IsPromoted:    &promoted,
	}
}

func NewShiftRecord(s Shift) ShiftRecord {
	id := s.ID
	hours, _ := s.DecimalHours.Float64()
	return ShiftRecord{
		ID:           &id,
		EmployeeID:   s.EmployeeID,
		ShiftDate:    s.ShiftDate.Format(time.DateOnly),
		TimeIn:       s.TimeIn.String(),
		TimeOut:      s.TimeOut.String(),
		WorkArea:     s.WorkArea,
		ShiftLabel:   s.ShiftLabel,
		DecimalHours: hours,
		Notes:        s.Notes,
	}
}

// ========================================
// IMPORT DTOs
// ========================================

type ImportEmployeeRequest struct {
	EmployeeID *int64 `json:"employee_id"`
}

func (r *ImportEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if *r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ImportEmployeeResponse struct {
	Status     string        `json:"status"`
	EmployeeID int64         `json:"employee_id"`
	Imported   int           `json:"imported"`
	Skipped    int           `json:"skipped"`
	Preview    []ShiftRecord `json:"preview"`
}

// ImportError reports one employee that could not be imported during a bulk run
type ImportError struct {
	EmployeeID int64  `json:"employee_id"`
	Error      string `json:"error"`
}

type ImportAllResponse struct {
	Status   string        `json:"status"`
	RunID    string        `json:"run_id"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
	Preview  []ShiftRecord `json:"preview"`
}

// ========================================
// PROMOTION DTOs
// ========================================

// ApprovedShiftRequest is a reviewed, possibly edited, shift. ID is the staged shift it came from.
type ApprovedShiftRequest struct {
	ID           *int64  `json:"id,omitempty"`
	EmployeeID   int64   `json:"employee_id"`
	ShiftDate    string  `json:"shift_date"`
	TimeIn       string  `json:"time_in"`
	TimeOut      string  `json:"time_out"`
	WorkArea     string  `json:"work_area"`
	ShiftLabel   string  `json:"shift_label"`
	DecimalHours float64 `json:"decimal_hours"`
	Notes        *string `json:"notes,omitempty"`
}

type PromoteRequest struct {
	Shifts []ApprovedShiftRequest `json:"shifts"`
}

// Validate returns ErrEmptyBatch for an empty request and ValidationErrors for bad items
func (r *PromoteRequest) Validate() error {
	if len(r.Shifts) == 0 {
		return ErrEmptyBatch
	}

	var errs validator.ValidationErrors
	for i, s := range r.Shifts {
		field := func(name string) string { return fmt.Sprintf("shifts[%d].%s", i, name) }

		if s.EmployeeID <= 0 {
			errs = append(errs, validator.ValidationError{Field: field("employee_id"), Message: "employee_id is required"})
		}
		if _, ok := validator.IsValidDate(s.ShiftDate); !ok {
			errs = append(errs, validator.ValidationError{Field: field("shift_date"), Message: "shift_date must be YYYY-MM-DD"})
		}
		if _, ok := validator.IsValidClockTime(s.TimeIn); !ok {
			errs = append(errs, validator.ValidationError{Field: field("time_in"), Message: "time_in must be HH:MM or HH:MM:SS"})
		}
		if _, ok := validator.IsValidClockTime(s.TimeOut); !ok {
			errs = append(errs, validator.ValidationError{Field: field("time_out"), Message: "time_out must be HH:MM or HH:MM:SS"})
		}
		if s.DecimalHours < 0 {
			errs = append(errs, validator.ValidationError{Field: field("decimal_hours"), Message: "decimal_hours must not be negative"})
		}
		if s.ID != nil && *s.ID <= 0 {
			errs = append(errs, validator.ValidationError{Field: field("id"), Message: "id must be a positive number"})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToApproved converts a validated request into domain values
func (r *PromoteRequest) ToApproved() ([]ApprovedShift, error) {
	out := make([]ApprovedShift, 0, len(r.Shifts))
	for _, s := range r.Shifts {
		date, err := time.Parse(time.DateOnly, s.ShiftDate)
		if err != nil {
			return nil, fmt.Errorf("parse shift_date: %w", err)
		}
		in, err := ParseClockTime(s.TimeIn)
		if err != nil {
			return nil, err
		}
		outTime, err := ParseClockTime(s.TimeOut)
		if err != nil {
			return nil, err
		}

		out = append(out, ApprovedShift{
			StagedShiftID: s.ID,
			Shift: Shift{
				EmployeeID:   s.EmployeeID,
				ShiftDate:    date,
				TimeIn:       in,
				TimeOut:      outTime,
				WorkArea:     s.WorkArea,
				ShiftLabel:   s.ShiftLabel,
				DecimalHours: decimal.NewFromFloat(s.DecimalHours).Round(2),
				Notes:        s.Notes,
			},
		})
	}
	return out, nil
}

type PromoteResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Inserted    int     `json:"inserted"`
	PromotedIDs []int64 `json:"promoted_ids"`
}

// ========================================
// LISTING
// ========================================

type ShiftFilter struct {
	EmployeeID *int64  `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *ShiftFilter) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var okStart, okEnd bool
	if f.StartDate != nil {
		if start, okStart = validator.IsValidDate(*f.StartDate); !okStart {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
	}
	if f.EndDate != nil {
		if end, okEnd = validator.IsValidDate(*f.EndDate); !okEnd {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
