package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/bookingrules"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
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
	policy    *domain.BookingPolicy
	snap      bookingrules.Snapshot
	snapErr   error
	snapCalls int
}

func (f *fakeLoader) Policy(context.Context, int64) (*domain.BookingPolicy, error) {
	return f.policy, nil
}

func (f *fakeLoader) Snapshot(context.Context, int64, types.Date) (bookingrules.Snapshot, error) {
	f.snapCalls++
	return f.snap, f.snapErr
}

type fakeServices struct {
	services map[int64]*domain.Service
}

func (f *fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

type fakeMetrics struct{ observed []int }

func (f *fakeMetrics) ObserveSlots(count int) { f.observed = append(f.observed, count) }

func morningSnapshot() bookingrules.Snapshot {
	return bookingrules.Snapshot{
		Windows: []domain.WeeklyWindow{{
			ID: 1, ProfessionalID: professionalID, DayOfWeek: time.Monday,
			StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 30,
		}},
		Appointments: []*domain.Appointment{{
			ID: 1, ProfessionalID: professionalID, Date: monday,
			StartTime: "10:00", DurationMinutes: 30, Status: domain.StatusConfirmed,
		}},
	}
}

func newTestUseCase(loader *fakeLoader, m *fakeMetrics, now time.Time) *UseCase {
	services := &fakeServices{services: map[int64]*domain.Service{
		1: {ID: 1, ProfessionalID: professionalID, Name: "haircut", DurationMinutes: 60, IsActive: true},
		2: {ID: 2, ProfessionalID: professionalID + 1, Name: "foreign", DurationMinutes: 30, IsActive: true},
		3: {ID: 3, ProfessionalID: professionalID, Name: "retired", DurationMinutes: 30, IsActive: false},
	}}
	uc := NewUseCase(loader, services, m, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func TestExecute_WithExplicitDuration(t *testing.T) {
	loader := &fakeLoader{policy: &domain.BookingPolicy{TimeZone: "UTC"}, snap: morningSnapshot()}
	m := &fakeMetrics{}
	uc := newTestUseCase(loader, m, time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: professionalID, Date: monday, DurationMinutes: ptr.Ptr(30),
	})

	require.NoError(t, err)
	var starts []string
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime.String())
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, starts)
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[0].EndTime)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, "UTC", resp.TimeZone)
	assert.Equal(t, []int{5}, m.observed)
}

func TestExecute_DurationFromService(t *testing.T) {
	loader := &fakeLoader{policy: &domain.BookingPolicy{TimeZone: "UTC"}, snap: morningSnapshot()}
	uc := newTestUseCase(loader, &fakeMetrics{}, time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: professionalID, Date: monday, ServiceID: ptr.Ptr(int64(1)),
	})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].EndTime)
	assert.Equal(t, types.TimeString("10:30"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[2].StartTime)
}

func TestExecute_ServiceErrors(t *testing.T) {
	loader := &fakeLoader{policy: &domain.BookingPolicy{}, snap: morningSnapshot()}
	uc := newTestUseCase(loader, &fakeMetrics{}, time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC))

	cases := []struct {
		serviceID int64
		wantErr   error
	}{
		{99, ErrServiceNotFound},
		{2, ErrServiceNotFound},
		{3, ErrServiceInactive},
	}

	for _, tc := range cases {
		_, err := uc.Execute(context.Background(), &Request{
			ProfessionalID: professionalID, Date: monday, ServiceID: ptr.Ptr(tc.serviceID),
		})
		assert.ErrorIs(t, err, tc.wantErr, "service %d", tc.serviceID)
	}
	assert.Zero(t, loader.snapCalls)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeLoader{policy: &domain.BookingPolicy{}}, &fakeMetrics{}, time.Now())

	cases := []*Request{
		{ProfessionalID: 0, Date: monday, DurationMinutes: ptr.Ptr(30)},
		{ProfessionalID: professionalID, DurationMinutes: ptr.Ptr(30)},
		{ProfessionalID: professionalID, Date: monday},
		{ProfessionalID: professionalID, Date: monday, DurationMinutes: ptr.Ptr(30), ServiceID: ptr.Ptr(int64(1))},
		{ProfessionalID: professionalID, Date: monday, DurationMinutes: ptr.Ptr(0)},
		{ProfessionalID: professionalID, Date: monday, DurationMinutes: ptr.Ptr(2000)},
	}

	for i, req := range cases {
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
	}
}

func TestExecute_AdvanceBookingLimit(t *testing.T) {
	loader := &fakeLoader{policy: &domain.BookingPolicy{AdvanceBookingDays: 3}, snap: morningSnapshot()}
	uc := newTestUseCase(loader, &fakeMetrics{}, time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: professionalID, Date: monday, DurationMinutes: ptr.Ptr(30),
	})

	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_TodayInProfessionalTimeZone(t *testing.T) {
	loader := &fakeLoader{
		policy: &domain.BookingPolicy{MinBookingNoticeMinutes: 30},
		snap:   morningSnapshot(),
	}
	// 10:40 UTC on the same Monday
	uc := newTestUseCase(loader, &fakeMetrics{}, time.Date(2026, time.October, 26, 10, 40, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: professionalID, Date: monday, DurationMinutes: ptr.Ptr(30),
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("11:30"), resp.Slots[0].StartTime)
}

func TestExecute_PastDateIsEmpty(t *testing.T) {
	loader := &fakeLoader{policy: &domain.BookingPolicy{}, snap: morningSnapshot()}
	uc := newTestUseCase(loader, &fakeMetrics{}, time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: professionalID, Date: monday, DurationMinutes: ptr.Ptr(30),
	})

	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_SnapshotFailure(t *testing.T) {
	boom := errors.New("connection refused")
	loader := &fakeLoader{policy: &domain.BookingPolicy{}, snapErr: boom}
	uc := newTestUseCase(loader, &fakeMetrics{}, time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), &Request{
		ProfessionalID: professionalID, Date: monday, DurationMinutes: ptr.Ptr(30),
	})

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, boom)
}
