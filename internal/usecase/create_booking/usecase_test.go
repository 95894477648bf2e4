package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/bookingrules"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const professionalID int64 = 10

var monday = types.NewDate(2026, time.October, 26)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeLoader struct {
	policy *domain.BookingPolicy
	snap   bookingrules.Snapshot
}

func (f *fakeLoader) Policy(context.Context, int64) (*domain.BookingPolicy, error) {
	return f.policy, nil
}

func (f *fakeLoader) Snapshot(context.Context, int64, types.Date) (bookingrules.Snapshot, error) {
	return f.snap, nil
}

type fakeServices struct{}

func (fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	switch id {
	case 1:
		return &domain.Service{ID: 1, ProfessionalID: professionalID, Name: "haircut", DurationMinutes: 45, IsActive: true}, nil
	case 2:
		return &domain.Service{ID: 2, ProfessionalID: professionalID, Name: "retired", DurationMinutes: 30}, nil
	case 3:
		return &domain.Service{ID: 3, ProfessionalID: professionalID + 1, Name: "foreign", DurationMinutes: 30, IsActive: true}, nil
	}
	return nil, serviceRepo.ErrServiceNotFound
}

type fakeAppointments struct {
	created []*domain.Appointment
	err     error
}

func (f *fakeAppointments) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	appt.ID = int64(len(f.created) + 1)
	f.created = append(f.created, appt)
	return appt, nil
}

type fakeTx struct{ calls int }

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeMetrics struct{ results []string }

func (f *fakeMetrics) ObserveValidation(_, result string) { f.results = append(f.results, result) }

type fixture struct {
	uc      *UseCase
	appts   *fakeAppointments
	loader  *fakeLoader
	tx      *fakeTx
	metrics *fakeMetrics
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		appts: &fakeAppointments{},
		loader: &fakeLoader{
			policy: &domain.BookingPolicy{TimeZone: "UTC"},
			snap: bookingrules.Snapshot{
				Windows: []domain.WeeklyWindow{{
					ID: 1, ProfessionalID: professionalID, DayOfWeek: time.Monday,
					StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 30,
				}},
				Appointments: []*domain.Appointment{{
					ID: 100, ProfessionalID: professionalID, Date: monday,
					StartTime: "10:00", DurationMinutes: 30, Status: domain.StatusConfirmed,
				}},
			},
		},
		tx:      &fakeTx{},
		metrics: &fakeMetrics{},
	}
	f.uc = NewUseCase(f.appts, fakeServices{}, f.loader, f.tx, f.metrics, logger.NewNop())
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

func request(start string) *Request {
	return &Request{
		ProfessionalID: professionalID,
		ServiceID:      1,
		Date:           monday,
		StartTime:      types.TimeString(start),
		ClientName:     "Anna",
		ClientPhone:    ptr.Ptr("+70000000000"),
	}
}

var beforeMonday = time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC)

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	f := newFixture(beforeMonday)

	resp, err := f.uc.Execute(context.Background(), request("09:00"))

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, "haircut", resp.ServiceName)
	require.Len(t, f.appts.created, 1)
	assert.Equal(t, 45, f.appts.created[0].DurationMinutes)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []string{"ok"}, f.metrics.results)
}

func TestExecute_TimeConflict(t *testing.T) {
	f := newFixture(beforeMonday)

	_, err := f.uc.Execute(context.Background(), request("09:30"))

	assert.ErrorIs(t, err, bookingrules.ErrTimeConflict)
	assert.Empty(t, f.appts.created)
	assert.Equal(t, []string{string(bookingrules.KindTimeConflict)}, f.metrics.results)
}

func TestExecute_OutsideBusinessHours(t *testing.T) {
	f := newFixture(beforeMonday)

	_, err := f.uc.Execute(context.Background(), request("11:30"))

	assert.ErrorIs(t, err, bookingrules.ErrOutsideBusinessHours)
}

func TestExecute_PastDateRejectedBeforeTransaction(t *testing.T) {
	f := newFixture(time.Date(2026, time.October, 27, 8, 0, 0, 0, time.UTC))

	_, err := f.uc.Execute(context.Background(), request("09:00"))

	assert.ErrorIs(t, err, bookingrules.ErrPastDate)
	assert.Zero(t, f.tx.calls)
}

func TestExecute_StorageConflictMapsToTimeConflict(t *testing.T) {
	f := newFixture(beforeMonday)
	f.appts.err = fmt.Errorf("%w: Create: exclusion violation", appointmentRepo.ErrTimeConflict)

	_, err := f.uc.Execute(context.Background(), request("09:00"))

	kind, ok := bookingrules.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, bookingrules.KindTimeConflict, kind)
}

func TestExecute_StorageFailure(t *testing.T) {
	f := newFixture(beforeMonday)
	f.appts.err = errors.New("disk full")

	_, err := f.uc.Execute(context.Background(), request("09:00"))

	assert.ErrorIs(t, err, ErrInternal)
	_, ok := bookingrules.KindOf(err)
	assert.False(t, ok)
}

func TestExecute_ServiceChecks(t *testing.T) {
	cases := []struct {
		serviceID int64
		wantErr   error
	}{
		{2, ErrServiceInactive},
		{3, ErrServiceNotFound},
		{42, ErrServiceNotFound},
	}

	for _, tc := range cases {
		f := newFixture(beforeMonday)
		req := request("09:00")
		req.ServiceID = tc.serviceID

		_, err := f.uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, tc.wantErr, "service %d", tc.serviceID)
	}
}

func TestExecute_AdvanceLimitAndNotice(t *testing.T) {
	f := newFixture(beforeMonday)
	f.loader.policy.AdvanceBookingDays = 2

	_, err := f.uc.Execute(context.Background(), request("09:00"))
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	f = newFixture(time.Date(2026, time.October, 26, 8, 30, 0, 0, time.UTC))
	f.loader.policy.MinBookingNoticeMinutes = 60

	_, err = f.uc.Execute(context.Background(), request("09:00"))
	assert.ErrorIs(t, err, ErrTooLateToBook)

	_, err = f.uc.Execute(context.Background(), request("10:30"))
	assert.NoError(t, err)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(beforeMonday)

	mutations := []func(r *Request){
		func(r *Request) { r.ProfessionalID = 0 },
		func(r *Request) { r.ServiceID = -1 },
		func(r *Request) { r.Date = types.Date{} },
		func(r *Request) { r.StartTime = "" },
		func(r *Request) { r.StartTime = "9:00" },
		func(r *Request) { r.ClientName = "   " },
	}

	for i, mutate := range mutations {
		req := request("09:00")
		mutate(req)
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}
	assert.Zero(t, f.tx.calls)
}
