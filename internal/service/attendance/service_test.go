package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.EventName
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, name notification.EventName, _ map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, name)
	return p.err
}

func (p *recordingPublisher) names() []notification.EventName {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notification.EventName(nil), p.events...)
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	svc       *AttendanceServiceImpl
	store     *memory.Store
	publisher *recordingPublisher
	clock     *clock
}

// Tuesday 2 September 2025, local time in WIB.
func at(hour, minute int) time.Time {
	return time.Date(2025, 9, 2, hour, minute, 0, 0, wib)
}

func newFixture(t *testing.T, employeeIDs ...string) *fixture {
	t.Helper()
	store := memory.NewStore()
	for _, id := range employeeIDs {
		store.PutEmployee(employee.Employee{ID: id, FullName: "Name " + id, Role: employee.RoleEmployee})
	}
	c := &clock{t: at(9, 30)}
	pub := &recordingPublisher{}
	svc := NewAttendanceService(store.Attendances(), store.Employees(), pub, Config{
		Location:         wib,
		PunchInStartHour: 9,
		PunchInEndHour:   11,
		Now:              c.Now,
	})
	return &fixture{svc: svc, store: store, publisher: pub, clock: c}
}

func TestPunchIn_WindowBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"one minute early", at(8, 59), attendance.ErrOutOfWindow},
		{"window opens", at(9, 0), nil},
		{"last minute", at(10, 59), nil},
		{"window closed", at(11, 0), attendance.ErrOutOfWindow},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t, "emp-1")
			f.clock.Set(c.now)

			resp, err := f.svc.PunchIn(context.Background(), attendance.PunchRequest{EmployeeID: "emp-1"})
			if c.wantErr != nil {
				assert.ErrorIs(t, err, c.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, attendance.StatusPresent, resp.Status)
			assert.Equal(t, "2025-09-02", resp.Date)
			assert.Equal(t, c.now.Format("15:04"), resp.CheckIn)
			assert.Equal(t, attendance.NoTime, resp.CheckOut)
		})
	}
}

func TestPunchIn_OutOfWindowTouchesNothing(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(at(7, 0))

	// Unknown employee, but the window is checked first.
	_, err := f.svc.PunchIn(context.Background(), attendance.PunchRequest{EmployeeID: "ghost"})
	assert.ErrorIs(t, err, attendance.ErrOutOfWindow)
	assert.Empty(t, f.publisher.names())
}

func TestPunchIn_Twice(t *testing.T) {
	f := newFixture(t, "emp-1")
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
}

func TestPunchIn_UnknownEmployee(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.PunchIn(context.Background(), attendance.PunchRequest{EmployeeID: "ghost"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPunchIn_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.PunchIn(context.Background(), attendance.PunchRequest{})

	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestPunchIn_ConcurrentOnlyOneWins(t *testing.T) {
	f := newFixture(t, "emp-1")
	ctx := context.Background()

	const n = 25
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, attendance.ErrAlreadyPunchedIn) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, rejected)

	entries, err := f.store.Attendances().ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPunchOut(t *testing.T) {
	f := newFixture(t, "emp-1")
	ctx := context.Background()

	_, err := f.svc.PunchOut(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenPunchIn)

	_, err = f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	// No window on punch-out.
	f.clock.Set(at(18, 15))
	resp, err := f.svc.PunchOut(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "09:30", resp.CheckIn)
	assert.Equal(t, "18:15", resp.CheckOut)
	assert.Equal(t, attendance.StatusPresent, resp.Status)

	_, err = f.svc.PunchOut(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenPunchIn)
}

func TestPunchOut_AfterManualMark(t *testing.T) {
	f := newFixture(t, "emp-1")
	ctx := context.Background()

	_, err := f.svc.MarkManual(ctx, attendance.ManualAttendanceRequest{EmployeeID: "emp-1", Date: "2025-09-02", Status: attendance.StatusPresent})
	require.NoError(t, err)

	// A manual Present has no check-in, so there is nothing to close.
	_, err = f.svc.PunchOut(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenPunchIn)
}

func TestMarkManual_Overrides(t *testing.T) {
	f := newFixture(t, "emp-1")
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	f.clock.Set(at(7, 0))
	resp, err := f.svc.MarkManual(ctx, attendance.ManualAttendanceRequest{EmployeeID: "emp-1", Date: "2025-09-02", Status: attendance.StatusHalfDay})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, resp.Status)
	assert.Equal(t, attendance.NoTime, resp.CheckIn)

	entries, err := f.store.Attendances().ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].CheckIn)
}

func TestMarkManual_Invalid(t *testing.T) {
	f := newFixture(t, "emp-1")
	ctx := context.Background()

	_, err := f.svc.MarkManual(ctx, attendance.ManualAttendanceRequest{EmployeeID: "emp-1", Date: "02/09/2025", Status: attendance.Status("Late")})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)

	for _, status := range []attendance.Status{attendance.StatusPunchedIn, attendance.StatusNotPunchedIn} {
		_, err = f.svc.MarkManual(ctx, attendance.ManualAttendanceRequest{EmployeeID: "emp-1", Date: "2025-09-02", Status: status})
		assert.ErrorIs(t, err, attendance.ErrInvalidManualStatus, status)
	}
	entries, err := f.store.Attendances().ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = f.svc.MarkManual(ctx, attendance.ManualAttendanceRequest{EmployeeID: "ghost", Date: "2025-09-02", Status: attendance.StatusAbsent})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPublishFailureIsNotReturned(t *testing.T) {
	f := newFixture(t, "emp-1")
	f.publisher.err = notification.ErrQueueFull

	_, err := f.svc.PunchIn(context.Background(), attendance.PunchRequest{EmployeeID: "emp-1"})
	assert.NoError(t, err)
	assert.Equal(t, []notification.EventName{notification.EventAttendanceChanged}, f.publisher.names())
}

func TestListToday_DerivedStatus(t *testing.T) {
	f := newFixture(t, "emp-1", "emp-2", "emp-3")
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	_, err = f.svc.MarkManual(ctx, attendance.ManualAttendanceRequest{EmployeeID: "emp-2", Date: "2025-09-02", Status: attendance.StatusSickLeave})
	require.NoError(t, err)

	rows, err := f.svc.ListToday(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byID := map[string]attendance.TodayStatusResponse{}
	for _, r := range rows {
		byID[r.EmployeeID] = r
	}
	assert.Equal(t, attendance.StatusPunchedIn, byID["emp-1"].Status)
	assert.Equal(t, "09:30", byID["emp-1"].CheckIn)
	assert.Equal(t, attendance.StatusSickLeave, byID["emp-2"].Status)
	assert.Equal(t, attendance.StatusNotPunchedIn, byID["emp-3"].Status)
	assert.Equal(t, attendance.NoTime, byID["emp-3"].CheckIn)

	// The projection leaves the stored entry alone.
	stored, err := f.store.Attendances().GetByEmployeeAndDate(ctx, "emp-1", f.svc.Today())
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, stored.Status)
	assert.Nil(t, stored.CheckOut)
}

func TestListSheet(t *testing.T) {
	f := newFixture(t, "emp-1", "emp-2")
	ctx := context.Background()

	_, err := f.svc.MarkManual(ctx, attendance.ManualAttendanceRequest{EmployeeID: "emp-1", Date: "2025-09-01", Status: attendance.StatusPresent})
	require.NoError(t, err)
	_, err = f.svc.MarkManual(ctx, attendance.ManualAttendanceRequest{EmployeeID: "emp-1", Date: "2025-09-02", Status: attendance.StatusShortLeave})
	require.NoError(t, err)
	_, err = f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-2"})
	require.NoError(t, err)

	sheet, err := f.svc.ListSheet(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-09-02", "2025-09-01"}, sheet.Dates)
	require.Len(t, sheet.Employees, 2)

	rows := map[string]attendance.SheetRow{}
	for _, r := range sheet.Employees {
		rows[r.EmployeeID] = r
	}
	assert.Equal(t, attendance.StatusShortLeave, rows["emp-1"].Statuses["2025-09-02"])
	assert.Equal(t, attendance.StatusPresent, rows["emp-1"].Statuses["2025-09-01"])
	// The sheet shows stored status, not the derived one.
	assert.Equal(t, attendance.StatusPresent, rows["emp-2"].Statuses["2025-09-02"])
	_, ok := rows["emp-2"].Statuses["2025-09-01"]
	assert.False(t, ok)
}

func TestRunDailySweep(t *testing.T) {
	f := newFixture(t, "emp-1", "emp-2", "emp-3")
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	tuesday := f.svc.Today()
	result, err := f.svc.RunDailySweep(ctx, tuesday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, result.Status)
	assert.Equal(t, 2, result.MarkedCount)
	assert.ElementsMatch(t, []string{"emp-2", "emp-3"}, result.EmployeeIDs)

	again, err := f.svc.RunDailySweep(ctx, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 0, again.MarkedCount)

	entries, err := f.store.Attendances().ListByDate(ctx, tuesday)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	events := f.publisher.names()
	assert.Equal(t, 1, countOf(events, notification.EventAbsenteesMarked))
}

func TestRunDailySweep_Sunday(t *testing.T) {
	f := newFixture(t, "emp-1")
	sunday := time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)

	result, err := f.svc.RunDailySweep(context.Background(), sunday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, result.Status)
	assert.Equal(t, 1, result.MarkedCount)

	entry, err := f.store.Attendances().GetByEmployeeAndDate(context.Background(), "emp-1", sunday)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Nil(t, entry.CheckIn)
	assert.Equal(t, attendance.StatusPresent, attendance.DerivedStatus(entry))
}

func TestRunDailySweep_ThenPunchIn(t *testing.T) {
	f := newFixture(t, "emp-1")
	ctx := context.Background()

	_, err := f.svc.RunDailySweep(ctx, f.svc.Today())
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
}

func TestRunDailySweep_ConcurrentSweepsCreateOneEntry(t *testing.T) {
	ids := []string{"emp-1", "emp-2", "emp-3", "emp-4", "emp-5"}
	f := newFixture(t, ids...)
	ctx := context.Background()
	today := f.svc.Today()

	const n = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		marked int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.svc.RunDailySweep(ctx, today)
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			marked += result.MarkedCount
		}()
	}
	wg.Wait()

	assert.Equal(t, len(ids), marked)

	entries, err := f.store.Attendances().ListByDate(ctx, today)
	require.NoError(t, err)
	perEmployee := make(map[string]int)
	for _, e := range entries {
		perEmployee[e.EmployeeID]++
	}
	for _, id := range ids {
		assert.Equal(t, 1, perEmployee[id], id)
	}
	assert.Len(t, entries, len(ids))
}

func TestRunDailySweep_RacingPunchIn(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t, "emp-1")
		ctx := context.Background()
		today := f.svc.Today()

		var (
			wg       sync.WaitGroup
			sweepErr error
			punchErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, sweepErr = f.svc.RunDailySweep(ctx, today)
		}()
		go func() {
			defer wg.Done()
			_, punchErr = f.svc.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1"})
		}()
		wg.Wait()

		require.NoError(t, sweepErr)
		if punchErr != nil {
			require.ErrorIs(t, punchErr, attendance.ErrAlreadyPunchedIn)
		}

		entries, err := f.store.Attendances().ListByDate(ctx, today)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "emp-1", entries[0].EmployeeID)
		if punchErr == nil {
			assert.Equal(t, attendance.StatusPresent, entries[0].Status)
			assert.NotNil(t, entries[0].CheckIn)
		} else {
			assert.Equal(t, attendance.StatusAbsent, entries[0].Status)
		}
	}
}

func countOf(events []notification.EventName, name notification.EventName) int {
	n := 0
	for _, e := range events {
		if e == name {
			n++
		}
	}
	return n
}
