package shift

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shiftsync/timeclock-backend/internal/domain/employee"
	"github.com/shiftsync/timeclock-backend/internal/domain/shift"
	"github.com/shiftsync/timeclock-backend/internal/pkg/clover"
)

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	employees map[int64]employee.Employee
	mapping   map[int64]string
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListActiveMapped(_ context.Context) ([]employee.MappedEmployee, error) {
	var out []employee.MappedEmployee
	for id, e := range r.employees {
		cloverID, ok := r.mapping[id]
		if !ok || !e.IsActive {
			continue
		}
		out = append(out, employee.MappedEmployee{ID: id, Name: e.DisplayName(), WorkArea: e.Role, CloverEmployeeID: cloverID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEmployeeRepo) GetCloverEmployeeID(_ context.Context, employeeID int64) (string, error) {
	id, ok := r.mapping[employeeID]
	if !ok {
		return "", employee.ErrMappingNotFound
	}
	return id, nil
}

type shiftKey struct {
	employeeID int64
	date       string
	in, out    string
	cloverID   string
}

type fakeShiftRepo struct {
	mu   sync.Mutex
	rows []shift.Shift
}

func (r *fakeShiftRepo) InsertIgnoreDuplicate(_ context.Context, s shift.Shift) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.EmployeeID == s.EmployeeID && row.ShiftDate.Equal(s.ShiftDate) && row.TimeIn == s.TimeIn && row.TimeOut == s.TimeOut {
			return false, nil
		}
	}
	s.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, s)
	return true, nil
}

func (r *fakeShiftRepo) List(_ context.Context, _ shift.ShiftFilter) ([]shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shift.Shift(nil), r.rows...), nil
}

func (r *fakeShiftRepo) MaxShiftDate(_ context.Context, employeeID int64) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *time.Time
	for _, row := range r.rows {
		if row.EmployeeID == employeeID && (latest == nil || row.ShiftDate.After(*latest)) {
			d := row.ShiftDate
			latest = &d
		}
	}
	return latest, nil
}

type fakeStagedRepo struct {
	mu   sync.Mutex
	rows []shift.StagedShift
}

func keyOf(s shift.StagedShift) shiftKey {
	k := shiftKey{
		employeeID: s.EmployeeID,
		date:       s.ShiftDate.Format(time.DateOnly),
		in:         s.TimeIn.String(),
		out:        s.TimeOut.String(),
	}
	if s.CloverShiftID != nil {
		k.cloverID = *s.CloverShiftID
	}
	return k
}

func (r *fakeStagedRepo) InsertIgnoreDuplicate(_ context.Context, s shift.StagedShift) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if keyOf(row) == keyOf(s) {
			return false, nil
		}
	}
	s.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, s)
	return true, nil
}

func (r *fakeStagedRepo) ListUnpromoted(_ context.Context, employeeID *int64) ([]shift.StagedShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []shift.StagedShift{}
	for _, row := range r.rows {
		if row.IsPromoted || (employeeID != nil && row.EmployeeID != *employeeID) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ShiftDate.Equal(out[j].ShiftDate) {
			return out[i].ShiftDate.Before(out[j].ShiftDate)
		}
		return out[i].TimeIn.Duration() < out[j].TimeIn.Duration()
	})
	return out, nil
}

func (r *fakeStagedRepo) MarkPromoted(_ context.Context, ids []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []int64{}
	for _, id := range ids {
		for i := range r.rows {
			if r.rows[i].ID == id && !r.rows[i].IsPromoted {
				r.rows[i].IsPromoted = true
				out = append(out, id)
			}
		}
	}
	return out, nil
}

func (r *fakeStagedRepo) MaxShiftDate(_ context.Context, employeeID int64) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *time.Time
	for _, row := range r.rows {
		if row.EmployeeID == employeeID && (latest == nil || row.ShiftDate.After(*latest)) {
			d := row.ShiftDate
			latest = &d
		}
	}
	return latest, nil
}

type fetchCall struct {
	cloverID   string
	start, end int64
}

// fakeFetcher returns every configured punch regardless of the window, like a
// provider answering with overlapping data
type fakeFetcher struct {
	mu        sync.Mutex
	punches   map[string][]clover.Punch
	malformed map[string]int
	errs      map[string]error
	calls     []fetchCall
}

func (f *fakeFetcher) FetchShifts(_ context.Context, cloverEmployeeID string, startMillis, endMillis int64) (clover.FetchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fetchCall{cloverID: cloverEmployeeID, start: startMillis, end: endMillis})
	if err := f.errs[cloverEmployeeID]; err != nil {
		return clover.FetchResult{}, err
	}
	return clover.FetchResult{
		Punches:   f.punches[cloverEmployeeID],
		Malformed: f.malformed[cloverEmployeeID],
	}, nil
}

func (f *fakeFetcher) callsFor(cloverID string) []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fetchCall
	for _, c := range f.calls {
		if c.cloverID == cloverID {
			out = append(out, c)
		}
	}
	return out
}
