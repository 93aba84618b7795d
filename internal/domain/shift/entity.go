package shift

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Meal-period labels derived from the clock-in time
const (
	LabelLunch  = "Lunch"
	LabelBreak  = "Break"
	LabelDinner = "Dinner"
)

// ClockTime is a local wall-clock time of day without a date
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ClockTimeOf returns the wall-clock time of t in t's location
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// ParseClockTime accepts "15:04:05" or "15:04"
func ParseClockTime(s string) (ClockTime, error) {
	for _, layout := range []string{time.TimeOnly, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTimeOf(t), nil
		}
	}
	return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
}

// Truncate drops the seconds
func (c ClockTime) Truncate() ClockTime {
	return ClockTime{Hour: c.Hour, Minute: c.Minute}
}

// MinuteOfDay returns minutes since midnight, ignoring seconds
func (c ClockTime) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

// Duration returns the offset from midnight
func (c ClockTime) Duration() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute + time.Duration(c.Second)*time.Second
}

// String renders the ISO-8601 time "15:04:05"
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Shift is the canonical, payroll-facing record
type Shift struct {
	ID           int64
	EmployeeID   int64
	ShiftDate    time.Time // date only, midnight UTC
	TimeIn       ClockTime
	TimeOut      ClockTime
	WorkArea     string
	ShiftLabel   string
	DecimalHours decimal.Decimal
	Notes        *string
}

// StagedShift is an imported shift waiting for review
type StagedShift struct {
	ID            int64
	EmployeeID    int64
	CloverShiftID *string
	ShiftDate     time.Time // date only, midnight UTC
	TimeIn        ClockTime
	TimeOut       ClockTime
	WorkArea      string
	ShiftLabel    string
	DecimalHours  decimal.Decimal
	Notes         *string
	IsPromoted    bool
}

// ApprovedShift is a reviewed shift on its way into the canonical table.
// StagedShiftID is set when it originated from a staged row.
type ApprovedShift struct {
	StagedShiftID *int64
	Shift         Shift
}
