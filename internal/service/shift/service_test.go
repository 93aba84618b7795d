package shift

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shiftsync/timeclock-backend/internal/config"
	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
	"github.com/shiftsync/timeclock-backend/internal/pkg/clover"
	"github.com/shiftsync/timeclock-backend/internal/pkg/timewindow"
	"github.com/shiftsync/timeclock-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc       *ShiftServiceImpl
	employees *fakeEmployeeRepo
	shifts    *fakeShiftRepo
	staged    *fakeStagedRepo
	fetcher   *fakeFetcher
	codec     *timewindow.Codec
}

// newTestEnv builds a service whose clock reads 2025-07-20 12:00 in the test zone
func newTestEnv(t *testing.T, concurrency int) *testEnv {
	t.Helper()
	codec := newTestCodec(t)

	env := &testEnv{
		employees: &fakeEmployeeRepo{employees: map[int64]employee.Employee{}, mapping: map[int64]string{}},
		shifts:    &fakeShiftRepo{},
		staged:    &fakeStagedRepo{},
		fetcher: &fakeFetcher{
			punches:   map[string][]clover.Punch{},
			malformed: map[string]int{},
			errs:      map[string]error{},
		},
		codec: codec,
	}

	svc := NewShiftService(fakeTransactor{}, env.employees, env.shifts, env.staged, env.fetcher, codec,
		config.ImportConfig{Timezone: testZone, LookbackDays: 7, Concurrency: concurrency})
	env.svc = svc.(*ShiftServiceImpl)
	now := time.Date(2025, 7, 20, 12, 0, 0, 0, codec.Location())
	env.svc.now = func() time.Time { return now }
	return env
}

func (e *testEnv) addEmployee(id int64, role, cloverID string) {
	e.employees.employees[id] = employee.Employee{
		ID:        id,
		FirstName: fmt.Sprintf("Emp%d", id),
		LastName:  "Tester",
		Role:      role,
		IsActive:  true,
	}
	if cloverID != "" {
		e.employees.mapping[id] = cloverID
	}
}

func (e *testEnv) addPunch(t *testing.T, cloverID, punchID string, day, inHour, outHour int) {
	e.fetcher.punches[cloverID] = append(e.fetcher.punches[cloverID], clover.Punch{
		ID:      punchID,
		InTime:  ptr(millisAt(t, 2025, 7, day, inHour, 0, 0)),
		OutTime: ptr(millisAt(t, 2025, 7, day, outHour, 0, 0)),
	})
}

func stagedOn(employeeID int64, day int) shift.StagedShift {
	return shift.StagedShift{
		EmployeeID:   employeeID,
		ShiftDate:    time.Date(2025, 7, day, 0, 0, 0, 0, time.UTC),
		TimeIn:       shift.ClockTime{Hour: 9},
		TimeOut:      shift.ClockTime{Hour: 12},
		DecimalHours: decimal.NewFromInt(3),
	}
}

func (e *testEnv) anchored(t *testing.T, day int, anchor timewindow.Anchor) int64 {
	t.Helper()
	ms, err := e.codec.DateToEpochMillis(time.Date(2025, 7, day, 0, 0, 0, 0, e.codec.Location()), anchor)
	require.NoError(t, err)
	return ms
}

// ===== IMPORT ONE =====

func TestImportForEmployee_StagesAndPreviews(t *testing.T) {
	env := newTestEnv(t, 1)
	env.addEmployee(1, "Front", "C1")
	env.addPunch(t, "C1", "P2", 19, 17, 21)
	env.addPunch(t, "C1", "P1", 18, 11, 15)

	resp, err := env.svc.ImportForEmployee(context.Background(), shift.ImportEmployeeRequest{EmployeeID: ptr(int64(1))})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 0, resp.Skipped)
	require.Len(t, resp.Preview, 2)
	assert.Equal(t, "2025-07-18", resp.Preview[0].ShiftDate)
	assert.Equal(t, "11:00:00", resp.Preview[0].TimeIn)
	assert.Equal(t, shift.LabelLunch, resp.Preview[0].ShiftLabel)
	assert.Equal(t, "Front", resp.Preview[0].WorkArea)
	assert.Equal(t, shift.LabelDinner, resp.Preview[1].ShiftLabel)
	assert.Equal(t, 4.0, resp.Preview[1].DecimalHours)
}

func TestImportForEmployee_IdempotentStaging(t *testing.T) {
	env := newTestEnv(t, 1)
	env.addEmployee(1, "Front", "C1")
	env.addPunch(t, "C1", "P1", 18, 11, 15)

	ctx := context.Background()
	req := shift.ImportEmployeeRequest{EmployeeID: ptr(int64(1))}

	first, err := env.svc.ImportForEmployee(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)

	second, err := env.svc.ImportForEmployee(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, env.staged.rows, 1)
}

func TestImportForEmployee_CountsDroppedPunchesAsSkipped(t *testing.T) {
	env := newTestEnv(t, 1)
	env.addEmployee(1, "Back", "C1")
	env.addPunch(t, "C1", "P1", 18, 11, 15)
	env.fetcher.punches["C1"] = append(env.fetcher.punches["C1"], clover.Punch{
		ID:     "OPEN",
		InTime: ptr(millisAt(t, 2025, 7, 19, 9, 0, 0)),
	})
	env.fetcher.malformed["C1"] = 2

	resp, err := env.svc.ImportForEmployee(context.Background(), shift.ImportEmployeeRequest{EmployeeID: ptr(int64(1))})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 3, resp.Skipped)
}

func TestImportForEmployee_Errors(t *testing.T) {
	env := newTestEnv(t, 1)
	env.addEmployee(1, "Front", "C1")
	env.addEmployee(2, "Front", "")
	env.fetcher.errs["C1"] = &clover.FetchError{StatusCode: 401, Body: "unauthorized"}

	ctx := context.Background()

	_, err := env.svc.ImportForEmployee(ctx, shift.ImportEmployeeRequest{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = env.svc.ImportForEmployee(ctx, shift.ImportEmployeeRequest{EmployeeID: ptr(int64(99))})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = env.svc.ImportForEmployee(ctx, shift.ImportEmployeeRequest{EmployeeID: ptr(int64(2))})
	assert.ErrorIs(t, err, employee.ErrMappingNotFound)

	_, err = env.svc.ImportForEmployee(ctx, shift.ImportEmployeeRequest{EmployeeID: ptr(int64(1))})
	var fetchErr *clover.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 401, fetchErr.StatusCode)
}

// ===== WINDOW =====

func TestResolveWindow(t *testing.T) {
	tests := []struct {
		name      string
		staged    []int
		canonical []int
		wantStart int
		wantEmpty bool
	}{
		{name: "no history uses lookback", wantStart: 14},
		{name: "day after latest staged", staged: []int{12, 17}, wantStart: 18},
		{name: "canonical newer than staged", staged: []int{15}, canonical: []int{19}, wantStart: 20},
		{name: "staged newer than canonical", staged: []int{18}, canonical: []int{16}, wantStart: 19},
		{name: "imported through today", staged: []int{20}, wantStart: 21, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 1)
			for _, d := range tt.staged {
				env.staged.rows = append(env.staged.rows, stagedOn(1, d))
			}
			for _, d := range tt.canonical {
				env.shifts.rows = append(env.shifts.rows, shift.Shift{EmployeeID: 1, ShiftDate: stagedOn(1, d).ShiftDate})
			}

			w, err := env.svc.resolveWindow(context.Background(), 1)

			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("2025-07-%02d", tt.wantStart), w.Start.Format(time.DateOnly))
			assert.Equal(t, "2025-07-20", w.End.Format(time.DateOnly))
			assert.Equal(t, tt.wantEmpty, w.Empty())
		})
	}
}

func TestImportForEmployee_RequestsResolvedWindow(t *testing.T) {
	env := newTestEnv(t, 1)
	env.addEmployee(1, "Front", "C1")
	env.staged.rows = append(env.staged.rows, stagedOn(1, 17))

	_, err := env.svc.ImportForEmployee(context.Background(), shift.ImportEmployeeRequest{EmployeeID: ptr(int64(1))})
	require.NoError(t, err)

	calls := env.fetcher.callsFor("C1")
	require.Len(t, calls, 1)
	assert.Equal(t, env.anchored(t, 18, timewindow.AnchorStart), calls[0].start)
	assert.Equal(t, env.anchored(t, 20, timewindow.AnchorEnd), calls[0].end)
}

func TestImportForEmployee_EmptyWindowSkipsFetch(t *testing.T) {
	env := newTestEnv(t, 1)
	env.addEmployee(1, "Front", "C1")
	env.staged.rows = append(env.staged.rows, stagedOn(1, 20))
	env.addPunch(t, "C1", "P1", 20, 11, 15)

	resp, err := env.svc.ImportForEmployee(context.Background(), shift.ImportEmployeeRequest{EmployeeID: ptr(int64(1))})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Imported)
	assert.Empty(t, env.fetcher.callsFor("C1"))
}

// ===== BULK IMPORT =====

func TestImportForAllActive_PartialBatchResilience(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			env := newTestEnv(t, concurrency)
			env.addEmployee(1, "Front", "C1")
			env.addEmployee(2, "Back", "C2")
			env.addEmployee(3, "Front", "C3")
			env.addPunch(t, "C1", "P1", 18, 11, 15)
			env.addPunch(t, "C2", "P2", 18, 11, 15)
			env.addPunch(t, "C3", "P3", 19, 17, 21)
			env.fetcher.errs["C2"] = &clover.FetchError{StatusCode: 503, Body: "upstream secret detail"}

			resp, err := env.svc.ImportForAllActive(context.Background())

			require.NoError(t, err)
			assert.Equal(t, StatusCompletedWithErrors, resp.Status)
			assert.Equal(t, 2, resp.Imported)
			require.Len(t, resp.Errors, 1)
			assert.Equal(t, int64(2), resp.Errors[0].EmployeeID)
			assert.Equal(t, "clover API returned status 503", resp.Errors[0].Error)
			assert.NotContains(t, resp.Errors[0].Error, "secret")
			_, err = uuid.Parse(resp.RunID)
			assert.NoError(t, err)

			require.Len(t, resp.Preview, 2)
			ids := []int64{resp.Preview[0].EmployeeID, resp.Preview[1].EmployeeID}
			assert.ElementsMatch(t, []int64{1, 3}, ids)
		})
	}
}

func TestImportForAllActive_SkipsInactiveAndUnmapped(t *testing.T) {
	env := newTestEnv(t, 2)
	env.addEmployee(1, "Front", "C1")
	env.addEmployee(2, "Front", "")
	env.addEmployee(3, "Front", "C3")
	inactive := env.employees.employees[3]
	inactive.IsActive = false
	env.employees.employees[3] = inactive
	env.addPunch(t, "C1", "P1", 18, 11, 15)
	env.addPunch(t, "C3", "P3", 18, 11, 15)

	resp, err := env.svc.ImportForAllActive(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, 1, resp.Imported)
	assert.Empty(t, resp.Errors)
	assert.Empty(t, env.fetcher.callsFor("C3"))
}

// ===== PROMOTION =====

func TestPromote_OneWay(t *testing.T) {
	env := newTestEnv(t, 1)
	env.addEmployee(1, "Front", "C1")
	env.addPunch(t, "C1", "P1", 18, 11, 15)
	env.addPunch(t, "C1", "P2", 19, 17, 21)
	ctx := context.Background()

	imported, err := env.svc.ImportForEmployee(ctx, shift.ImportEmployeeRequest{EmployeeID: ptr(int64(1))})
	require.NoError(t, err)
	require.Len(t, imported.Preview, 2)

	first := imported.Preview[0]
	notes := "approved by manager"
	resp, err := env.svc.Promote(ctx, shift.PromoteRequest{Shifts: []shift.ApprovedShiftRequest{{
		ID:           first.ID,
		EmployeeID:   first.EmployeeID,
		ShiftDate:    first.ShiftDate,
		TimeIn:       first.TimeIn,
		TimeOut:      "15:30",
		WorkArea:     first.WorkArea,
		ShiftLabel:   first.ShiftLabel,
		DecimalHours: 4.5,
		Notes:        &notes,
	}}})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Equal(t, 1, resp.Inserted)
	assert.Equal(t, []int64{*first.ID}, resp.PromotedIDs)

	require.Len(t, env.shifts.rows, 1)
	assert.Equal(t, "15:30:00", env.shifts.rows[0].TimeOut.String())
	assert.Equal(t, "4.5", env.shifts.rows[0].DecimalHours.String())

	// re-importing the same punches must not bring the promoted row back
	bulk, err := env.svc.ImportForAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, bulk.Preview, 1)
	assert.NotEqual(t, *first.ID, *bulk.Preview[0].ID)

	staged, err := env.svc.ListStaged(ctx)
	require.NoError(t, err)
	require.Len(t, staged, 1)
	assert.Equal(t, "2025-07-19", staged[0].ShiftDate)
}

func TestPromote_ManualShiftWithoutStagedID(t *testing.T) {
	env := newTestEnv(t, 1)
	env.addEmployee(1, "Front", "")

	resp, err := env.svc.Promote(context.Background(), shift.PromoteRequest{Shifts: []shift.ApprovedShiftRequest{{
		EmployeeID:   1,
		ShiftDate:    "2025-07-10",
		TimeIn:       "09:00",
		TimeOut:      "13:00",
		WorkArea:     "Front",
		ShiftLabel:   shift.LabelLunch,
		DecimalHours: 4,
	}}})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Inserted)
	assert.Empty(t, resp.PromotedIDs)
	assert.Len(t, env.shifts.rows, 1)
}

func TestPromote_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()

	_, err := env.svc.Promote(ctx, shift.PromoteRequest{})
	assert.ErrorIs(t, err, shift.ErrEmptyBatch)

	_, err = env.svc.Promote(ctx, shift.PromoteRequest{Shifts: []shift.ApprovedShiftRequest{{
		EmployeeID: 1,
		ShiftDate:  "07/10/2025",
		TimeIn:     "09:00",
		TimeOut:    "13:00",
	}}})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "shifts[0].shift_date", verrs[0].Field)
	assert.Empty(t, env.shifts.rows)
}

func TestListShifts_ValidatesFilter(t *testing.T) {
	env := newTestEnv(t, 1)
	start, end := "2025-07-20", "2025-07-01"

	_, err := env.svc.ListShifts(context.Background(), shift.ShiftFilter{StartDate: &start, EndDate: &end})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestPublicImportError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrapped: %w", &clover.FetchError{StatusCode: 500, Body: "stack trace"}), "clover API returned status 500"},
		{employee.ErrMappingNotFound, employee.ErrMappingNotFound.Error()},
		{fmt.Errorf("fetch: %w", context.DeadlineExceeded), "import timed out"},
		{errors.New("pq: relation does not exist"), "internal error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, publicImportError(tt.err))
	}
}
