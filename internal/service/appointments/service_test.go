package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const professionalID int64 = 5

type fakeRepo struct {
	appts      map[int64]*domain.Appointment
	lastFilter domain.AppointmentsFilter
	updateErr  error
	updates    int
	deleteErr  error
	deleted    []int64
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeRepo) GetByProfessionalWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.lastFilter = filter
	var out []*domain.Appointment
	for _, a := range r.appts {
		if a.ProfessionalID == filter.ProfessionalID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	r.appts[id].Status = status
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.appts[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.appts, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeTx struct{ calls int }

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func newRepo() *fakeRepo {
	day := types.NewDate(2026, time.October, 26)
	return &fakeRepo{appts: map[int64]*domain.Appointment{
		1: {ID: 1, ProfessionalID: professionalID, Date: day, StartTime: "09:00", DurationMinutes: 30, Status: domain.StatusPending},
		2: {ID: 2, ProfessionalID: professionalID, Date: day, StartTime: "10:00", DurationMinutes: 45, Status: domain.StatusConfirmed},
		3: {ID: 3, ProfessionalID: professionalID, Date: day, StartTime: "11:00", DurationMinutes: 30, Status: domain.StatusCompleted},
		4: {ID: 4, ProfessionalID: professionalID + 1, Date: day, StartTime: "09:00", DurationMinutes: 30, Status: domain.StatusPending},
	}}
}

func TestUpdateStatus_AllowedTransitions(t *testing.T) {
	cases := []struct {
		id     int64
		status domain.AppointmentStatus
	}{
		{1, domain.StatusConfirmed},
		{1, domain.StatusCancelled},
		{2, domain.StatusCompleted},
		{2, domain.StatusCancelled},
		{2, domain.StatusNoShow},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			repo := newRepo()
			svc := NewService(repo, &fakeTx{}, logger.NewNop())

			resp, err := svc.UpdateStatus(context.Background(), tc.id, &models.UpdateStatusRequest{
				ProfessionalID: professionalID, Status: string(tc.status),
			})

			require.NoError(t, err)
			assert.Equal(t, string(tc.status), resp.Status)
			assert.Equal(t, tc.status, repo.appts[tc.id].Status)
		})
	}
}

func TestUpdateStatus_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		id      int64
		status  string
		wantErr error
	}{
		{"pending to completed", 1, "completed", ErrInvalidTransition},
		{"pending to no_show", 1, "no_show", ErrInvalidTransition},
		{"confirmed to pending", 2, "pending", ErrInvalidTransition},
		{"terminal", 3, "cancelled", ErrInvalidTransition},
		{"same status", 1, "pending", ErrInvalidTransition},
		{"unknown status", 1, "archived", ErrInvalidStatus},
		{"foreign", 4, "confirmed", ErrAccessDenied},
		{"missing", 99, "confirmed", ErrAppointmentNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo()
			svc := NewService(repo, &fakeTx{}, logger.NewNop())

			_, err := svc.UpdateStatus(context.Background(), tc.id, &models.UpdateStatusRequest{
				ProfessionalID: professionalID, Status: tc.status,
			})

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Zero(t, repo.updates)
		})
	}
}

func TestUpdateStatus_RepositoryFailure(t *testing.T) {
	repo := newRepo()
	repo.updateErr = errors.New("connection reset")
	svc := NewService(repo, &fakeTx{}, logger.NewNop())

	_, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		ProfessionalID: professionalID, Status: "confirmed",
	})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetByID(t *testing.T) {
	svc := NewService(newRepo(), &fakeTx{}, logger.NewNop())

	resp, err := svc.GetByID(context.Background(), 2, professionalID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-26", resp.Date)
	assert.Equal(t, "10:45", resp.EndTime)

	_, err = svc.GetByID(context.Background(), 4, professionalID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 42, professionalID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetProfessionalAppointments(t *testing.T) {
	repo := newRepo()
	svc := NewService(repo, &fakeTx{}, logger.NewNop())

	resp, err := svc.GetProfessionalAppointments(context.Background(), &models.GetProfessionalAppointmentsRequest{
		ProfessionalID: professionalID,
		Status:         ptr.Ptr("cancelled"),
	})

	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 3)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusCancelled, *repo.lastFilter.Status)
	assert.True(t, repo.lastFilter.IncludeInactive)
}

func TestGetProfessionalAppointments_InvalidFilter(t *testing.T) {
	svc := NewService(newRepo(), &fakeTx{}, logger.NewNop())
	from := types.NewDate(2026, time.October, 27)
	to := types.NewDate(2026, time.October, 26)

	_, err := svc.GetProfessionalAppointments(context.Background(), &models.GetProfessionalAppointmentsRequest{
		ProfessionalID: professionalID, StartDate: &from, EndDate: &to,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetProfessionalAppointments(context.Background(), &models.GetProfessionalAppointmentsRequest{
		ProfessionalID: professionalID, Status: ptr.Ptr("bogus"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetProfessionalAppointments_EmptyListIsNotNil(t *testing.T) {
	svc := NewService(&fakeRepo{appts: map[int64]*domain.Appointment{}}, &fakeTx{}, logger.NewNop())

	resp, err := svc.GetProfessionalAppointments(context.Background(), &models.GetProfessionalAppointmentsRequest{
		ProfessionalID: professionalID,
	})

	require.NoError(t, err)
	assert.NotNil(t, resp.Appointments)
	assert.Empty(t, resp.Appointments)
}

func TestDelete(t *testing.T) {
	repo := newRepo()
	tx := &fakeTx{}
	svc := NewService(repo, tx, logger.NewNop())

	require.NoError(t, svc.Delete(context.Background(), 3, professionalID))

	assert.Equal(t, []int64{3}, repo.deleted)
	assert.NotContains(t, repo.appts, int64(3))
	assert.Equal(t, 1, tx.calls)
}

func TestDelete_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		id      int64
		repoErr error
		wantErr error
	}{
		{"foreign", 4, nil, ErrAccessDenied},
		{"missing", 99, nil, ErrAppointmentNotFound},
		{"repository failure", 1, errors.New("connection reset"), ErrInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo()
			repo.deleteErr = tc.repoErr
			svc := NewService(repo, &fakeTx{}, logger.NewNop())

			err := svc.Delete(context.Background(), tc.id, professionalID)

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, repo.deleted)
		})
	}
}
