package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/bookingrules"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const professionalID int64 = 10

var monday = types.NewDate(2026, time.October, 26)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeStore держит записи и отдает их как снимок
type fakeStore struct {
	appts   map[int64]*domain.Appointment
	windows []domain.WeeklyWindow
	updated []int64
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := s.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *fakeStore) UpdateSchedule(_ context.Context, id int64, date types.Date, start types.TimeString) error {
	s.appts[id].Date = date
	s.appts[id].StartTime = start
	s.updated = append(s.updated, id)
	return nil
}

func (s *fakeStore) Policy(context.Context, int64) (*domain.BookingPolicy, error) {
	return &domain.BookingPolicy{}, nil
}

func (s *fakeStore) Snapshot(_ context.Context, _ int64, date types.Date) (bookingrules.Snapshot, error) {
	snap := bookingrules.Snapshot{Windows: s.windows}
	for _, a := range s.appts {
		if a.Date.Equal(date) && a.IsOccupying() {
			snap.Appointments = append(snap.Appointments, a)
		}
	}
	return snap, nil
}

type passTx struct{}

func (passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopMetrics struct{}

func (nopMetrics) ObserveValidation(string, string) {}

func newStore() *fakeStore {
	return &fakeStore{
		windows: []domain.WeeklyWindow{{
			ID: 1, ProfessionalID: professionalID, DayOfWeek: time.Monday,
			StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 30,
		}},
		appts: map[int64]*domain.Appointment{
			1: {ID: 1, ProfessionalID: professionalID, Date: monday, StartTime: "10:00", DurationMinutes: 30, Status: domain.StatusConfirmed,
				ClientPhone: ptr.Ptr("+7 (900) 000-00-00")},
			2: {ID: 2, ProfessionalID: professionalID, Date: monday, StartTime: "11:00", DurationMinutes: 60, Status: domain.StatusPending},
			3: {ID: 3, ProfessionalID: professionalID, Date: monday, StartTime: "09:00", DurationMinutes: 30, Status: domain.StatusCancelled},
			4: {ID: 4, ProfessionalID: professionalID + 1, Date: monday, StartTime: "09:00", DurationMinutes: 30, Status: domain.StatusPending},
		},
	}
}

func newUseCase(store *fakeStore) *UseCase {
	uc := NewUseCase(store, store, passTx{}, nopMetrics{}, logger.NewNop())
	uc.timeProvider = fixedTime{now: time.Date(2026, time.October, 20, 12, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_SameTimeIsNotSelfConflict(t *testing.T) {
	store := newStore()

	resp, err := newUseCase(store).Execute(context.Background(), &Request{
		AppointmentID: 1, ProfessionalID: professionalID, Date: monday, StartTime: "10:00",
	})

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, []int64{1}, store.updated)
}

func TestExecute_ShiftOverlappingOwnInterval(t *testing.T) {
	store := newStore()

	resp, err := newUseCase(store).Execute(context.Background(), &Request{
		AppointmentID: 1, ProfessionalID: professionalID, Date: monday, StartTime: "10:15",
	})

	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), resp.PreviousStartTime)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, types.TimeString("10:15"), store.appts[1].StartTime)
}

func TestExecute_ConflictWithAnotherAppointment(t *testing.T) {
	store := newStore()

	_, err := newUseCase(store).Execute(context.Background(), &Request{
		AppointmentID: 1, ProfessionalID: professionalID, Date: monday, StartTime: "11:15",
	})

	assert.ErrorIs(t, err, bookingrules.ErrTimeConflict)
	assert.Empty(t, store.updated)
}

func TestExecute_CancelledSlotIsFree(t *testing.T) {
	store := newStore()

	_, err := newUseCase(store).Execute(context.Background(), &Request{
		AppointmentID: 1, ProfessionalID: professionalID, Date: monday, StartTime: "09:00",
	})

	assert.NoError(t, err)
}

func TestExecute_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"not found", Request{AppointmentID: 99, ProfessionalID: professionalID, Date: monday, StartTime: "09:00"}, ErrAppointmentNotFound},
		{"foreign appointment", Request{AppointmentID: 4, ProfessionalID: professionalID, Date: monday, StartTime: "09:30"}, ErrAccessDenied},
		{"terminal status", Request{AppointmentID: 3, ProfessionalID: professionalID, Date: monday, StartTime: "09:30"}, ErrCannotReschedule},
		{"outside hours", Request{AppointmentID: 1, ProfessionalID: professionalID, Date: monday.AddDays(1), StartTime: "09:30"}, bookingrules.ErrOutsideBusinessHours},
		{"past", Request{AppointmentID: 1, ProfessionalID: professionalID, Date: types.NewDate(2026, time.October, 19), StartTime: "09:30"}, bookingrules.ErrPastDate},
		{"bad time", Request{AppointmentID: 1, ProfessionalID: professionalID, Date: monday, StartTime: "930"}, ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStore()
			req := tc.req

			_, err := newUseCase(store).Execute(context.Background(), &req)

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, store.updated)
		})
	}
}

func TestExecute_ClientReschedulesWithOwnPhone(t *testing.T) {
	store := newStore()

	resp, err := newUseCase(store).Execute(context.Background(), &Request{
		AppointmentID: 1, ClientPhone: ptr.Ptr("+79000000000"), Date: monday, StartTime: "09:00",
	})

	require.NoError(t, err)
	assert.Equal(t, professionalID, resp.ProfessionalID)
	assert.Equal(t, types.TimeString("09:00"), store.appts[1].StartTime)
	assert.Equal(t, []int64{1}, store.updated)
}

func TestExecute_ClientRejections(t *testing.T) {
	cases := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"wrong phone", Request{AppointmentID: 1, ClientPhone: ptr.Ptr("+79001112233"), Date: monday, StartTime: "09:00"}, ErrAccessDenied},
		{"no phone on appointment", Request{AppointmentID: 2, ClientPhone: ptr.Ptr("+79000000000"), Date: monday, StartTime: "09:00"}, ErrAccessDenied},
		{"missing phone", Request{AppointmentID: 1, Date: monday, StartTime: "09:00"}, ErrInvalidInput},
		{"blank phone", Request{AppointmentID: 1, ClientPhone: ptr.Ptr(" - "), Date: monday, StartTime: "09:00"}, ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStore()
			req := tc.req

			_, err := newUseCase(store).Execute(context.Background(), &req)

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, store.updated)
		})
	}
}
