package shift

import (
	"fmt"
	"time"

	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
	"github.com/shiftsync/timeclock-backend/internal/pkg/clover"
	"github.com/shiftsync/timeclock-backend/internal/pkg/timewindow"
	"github.com/shopspring/decimal"
)

// Clock-in minute-of-day boundaries for meal-period labels
const (
	breakStartsAt  = 14*60 + 30
	dinnerStartsAt = 17 * 60
)

var sixty = decimal.NewFromInt(60)

// normalizePunch turns one Clover punch into a staged shift for emp.
//
// Override times win over nominal ones. Times are truncated to the minute in
// the codec's zone. Punches that end on another calendar day or across a UTC
// offset change are rejected with shift.ErrUnsupportedShiftSpan.
func normalizePunch(p clover.Punch, emp employee.MappedEmployee, codec *timewindow.Codec) (shift.StagedShift, error) {
	inMs, outMs := p.EffectiveIn(), p.EffectiveOut()
	if inMs == nil || outMs == nil {
		return shift.StagedShift{}, shift.ErrIncompletePunch
	}

	in := codec.FromEpochMillis(*inMs)
	out := codec.FromEpochMillis(*outMs)

	if err := checkSpan(in, out); err != nil {
		return shift.StagedShift{}, fmt.Errorf("%w: punch %s", err, p.ID)
	}

	timeIn := shift.ClockTimeOf(in).Truncate()
	timeOut := shift.ClockTimeOf(out).Truncate()

	y, m, d := in.Date()
	punchID := p.ID

	return shift.StagedShift{
		EmployeeID:    emp.ID,
		CloverShiftID: &punchID,
		ShiftDate:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		TimeIn:        timeIn,
		TimeOut:       timeOut,
		WorkArea:      emp.WorkArea,
		ShiftLabel:    labelFor(timeIn),
		DecimalHours:  decimalHours(timeIn, timeOut),
	}, nil
}

func checkSpan(in, out time.Time) error {
	if out.Before(in) {
		return shift.ErrUnsupportedShiftSpan
	}
	inY, inM, inD := in.Date()
	outY, outM, outD := out.Date()
	if inY != outY || inM != outM || inD != outD {
		return shift.ErrUnsupportedShiftSpan
	}
	_, inOffset := in.Zone()
	_, outOffset := out.Zone()
	if inOffset != outOffset {
		return shift.ErrUnsupportedShiftSpan
	}
	return nil
}

// decimalHours is (out - in) in hours rounded to 2 places
func decimalHours(in, out shift.ClockTime) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(out.MinuteOfDay() - in.MinuteOfDay()))
	return minutes.Div(sixty).Round(2)
}

func labelFor(in shift.ClockTime) string {
	switch minute := in.MinuteOfDay(); {
	case minute < breakStartsAt:
		return shift.LabelLunch
	case minute < dinnerStartsAt:
		return shift.LabelBreak
	default:
		return shift.LabelDinner
	}
}
