package availability

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const professionalID int64 = 3

var monday = types.NewDate(2026, time.October, 26)

type fakeRepo struct {
	windows    []domain.WeeklyWindow
	exceptions []domain.Exception
	policy     *domain.BookingPolicy
	replaceErr error
	nextID     int64
}

func (r *fakeRepo) GetWeeklyWindows(context.Context, int64) ([]domain.WeeklyWindow, error) {
	return r.windows, nil
}

func (r *fakeRepo) ReplaceWeeklyWindows(_ context.Context, _ int64, windows []domain.WeeklyWindow) ([]domain.WeeklyWindow, error) {
	if r.replaceErr != nil {
		return nil, r.replaceErr
	}
	r.windows = nil
	for _, w := range windows {
		r.nextID++
		w.ID = r.nextID
		r.windows = append(r.windows, w)
	}
	return r.windows, nil
}

func (r *fakeRepo) GetExceptions(_ context.Context, _ int64, from, to *types.Date) ([]domain.Exception, error) {
	var out []domain.Exception
	for _, e := range r.exceptions {
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeRepo) GetExceptionsByDate(_ context.Context, professionalID int64, date types.Date) ([]domain.Exception, error) {
	var out []domain.Exception
	for _, e := range r.exceptions {
		if e.ProfessionalID == professionalID && e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetExceptionByID(_ context.Context, id int64) (*domain.Exception, error) {
	for _, e := range r.exceptions {
		if e.ID == id {
			copied := e
			return &copied, nil
		}
	}
	return nil, availabilityRepo.ErrExceptionNotFound
}

func (r *fakeRepo) CreateException(_ context.Context, e *domain.Exception) (*domain.Exception, error) {
	r.nextID++
	e.ID = r.nextID
	r.exceptions = append(r.exceptions, *e)
	return e, nil
}

func (r *fakeRepo) DeleteException(_ context.Context, id int64) error {
	for i, e := range r.exceptions {
		if e.ID == id {
			r.exceptions = append(r.exceptions[:i], r.exceptions[i+1:]...)
			return nil
		}
	}
	return availabilityRepo.ErrExceptionNotFound
}

func (r *fakeRepo) UpsertPolicy(_ context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	r.policy = p
	return p, nil
}

func (r *fakeRepo) Policy(_ context.Context, professionalID int64) (*domain.BookingPolicy, error) {
	if r.policy != nil {
		return r.policy, nil
	}
	return &domain.BookingPolicy{ProfessionalID: professionalID, TimeZone: domain.DefaultTimeZone}, nil
}

type fakeTx struct {
	plain        int
	serializable int
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.plain++
	return fn(ctx)
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.serializable++
	return fn(ctx)
}

func newService(repo *fakeRepo) (*Service, *fakeTx) {
	tx := &fakeTx{}
	return NewService(repo, repo, tx, logger.NewNop()), tx
}

func TestReplaceWeeklySchedule(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newService(repo)

	resp, err := svc.ReplaceWeeklySchedule(context.Background(), &models.ReplaceWeeklyScheduleRequest{
		ProfessionalID: professionalID,
		Windows: []models.WindowRequest{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 30},
			{DayOfWeek: 1, StartTime: "12:00", EndTime: "18:00", SlotIntervalMinutes: 30},
			{DayOfWeek: 3, StartTime: "10:00", EndTime: "14:00", SlotIntervalMinutes: 60},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Windows, 3)
	assert.Equal(t, 1, resp.Windows[1].DayOfWeek)
	assert.Equal(t, "12:00", resp.Windows[1].StartTime)
	assert.Equal(t, professionalID, repo.windows[0].ProfessionalID)

	schedule, err := svc.GetWeeklySchedule(context.Background(), professionalID)
	require.NoError(t, err)
	assert.Len(t, schedule.Windows, 3)
}

func TestReplaceWeeklySchedule_RunsSerializable(t *testing.T) {
	repo := &fakeRepo{}
	svc, tx := newService(repo)

	_, err := svc.ReplaceWeeklySchedule(context.Background(), &models.ReplaceWeeklyScheduleRequest{
		ProfessionalID: professionalID,
		Windows:        []models.WindowRequest{{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 30}},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.serializable)
	assert.Zero(t, tx.plain)
}

func TestReplaceWeeklySchedule_Invalid(t *testing.T) {
	cases := map[string][]models.WindowRequest{
		"overlap":       {{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 30}, {DayOfWeek: 2, StartTime: "11:00", EndTime: "13:00", SlotIntervalMinutes: 30}},
		"inverted":      {{DayOfWeek: 2, StartTime: "12:00", EndTime: "09:00", SlotIntervalMinutes: 30}},
		"bad day":       {{DayOfWeek: 7, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 30}},
		"bad interval":  {{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 0}},
		"bad time text": {{DayOfWeek: 2, StartTime: "9am", EndTime: "12:00", SlotIntervalMinutes: 30}},
	}

	for name, windows := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc, _ := newService(repo)

			_, err := svc.ReplaceWeeklySchedule(context.Background(), &models.ReplaceWeeklyScheduleRequest{
				ProfessionalID: professionalID, Windows: windows,
			})

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.windows)
		})
	}
}

func TestReplaceWeeklySchedule_EmptyClearsSchedule(t *testing.T) {
	repo := &fakeRepo{windows: []domain.WeeklyWindow{{ID: 1, ProfessionalID: professionalID}}}
	svc, _ := newService(repo)

	resp, err := svc.ReplaceWeeklySchedule(context.Background(), &models.ReplaceWeeklyScheduleRequest{ProfessionalID: professionalID})

	require.NoError(t, err)
	assert.NotNil(t, resp.Windows)
	assert.Empty(t, resp.Windows)
}

func TestReplaceWeeklySchedule_RepositoryFailure(t *testing.T) {
	repo := &fakeRepo{replaceErr: errors.New("deadlock")}
	svc, _ := newService(repo)

	_, err := svc.ReplaceWeeklySchedule(context.Background(), &models.ReplaceWeeklyScheduleRequest{
		ProfessionalID: professionalID,
		Windows:        []models.WindowRequest{{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 30}},
	})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestCreateException(t *testing.T) {
	repo := &fakeRepo{}
	svc, tx := newService(repo)

	full, err := svc.CreateException(context.Background(), &models.CreateExceptionRequest{
		ProfessionalID: professionalID, Date: monday, Reason: ptr.Ptr("vacation"),
	})
	require.NoError(t, err)
	assert.True(t, full.IsBlocked)
	assert.Nil(t, full.StartTime)
	assert.Equal(t, 1, tx.serializable)

	// Второй день, частичная блокировка
	partial, err := svc.CreateException(context.Background(), &models.CreateExceptionRequest{
		ProfessionalID: professionalID,
		Date:           monday.AddDays(1),
		StartTime:      ptr.Ptr(types.TimeString("12:00")),
		EndTime:        ptr.Ptr(types.TimeString("13:00")),
	})
	require.NoError(t, err)
	require.NotNil(t, partial.StartTime)
	assert.Equal(t, "12:00", *partial.StartTime)

	list, err := svc.GetExceptions(context.Background(), &models.GetExceptionsRequest{
		ProfessionalID: professionalID, From: &monday, To: &monday,
	})
	require.NoError(t, err)
	assert.Len(t, list.Exceptions, 1)
}

func TestCreateException_Rejections(t *testing.T) {
	existing := []domain.Exception{
		{ID: 10, ProfessionalID: professionalID, Date: monday, StartTime: ptr.Ptr(types.TimeString("12:00")), EndTime: ptr.Ptr(types.TimeString("14:00")), IsBlocked: true},
	}

	cases := []struct {
		name    string
		req     models.CreateExceptionRequest
		wantErr error
	}{
		{"overlapping range", models.CreateExceptionRequest{
			Date: monday, StartTime: ptr.Ptr(types.TimeString("13:00")), EndTime: ptr.Ptr(types.TimeString("15:00")),
		}, ErrExceptionConflict},
		{"full day over range", models.CreateExceptionRequest{Date: monday}, ErrExceptionConflict},
		{"half specified", models.CreateExceptionRequest{
			Date: monday.AddDays(1), StartTime: ptr.Ptr(types.TimeString("13:00")),
		}, ErrInvalidInput},
		{"inverted", models.CreateExceptionRequest{
			Date: monday.AddDays(1), StartTime: ptr.Ptr(types.TimeString("15:00")), EndTime: ptr.Ptr(types.TimeString("13:00")),
		}, ErrInvalidInput},
		{"missing date", models.CreateExceptionRequest{}, ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{exceptions: append([]domain.Exception(nil), existing...), nextID: 10}
			svc, _ := newService(repo)
			req := tc.req
			req.ProfessionalID = professionalID

			_, err := svc.CreateException(context.Background(), &req)

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Len(t, repo.exceptions, 1)
		})
	}
}

func TestCreateException_AdjacentAndNonBlocking(t *testing.T) {
	repo := &fakeRepo{nextID: 10, exceptions: []domain.Exception{
		{ID: 10, ProfessionalID: professionalID, Date: monday, StartTime: ptr.Ptr(types.TimeString("12:00")), EndTime: ptr.Ptr(types.TimeString("14:00")), IsBlocked: true},
	}}
	svc, _ := newService(repo)

	_, err := svc.CreateException(context.Background(), &models.CreateExceptionRequest{
		ProfessionalID: professionalID, Date: monday,
		StartTime: ptr.Ptr(types.TimeString("14:00")), EndTime: ptr.Ptr(types.TimeString("15:00")),
	})
	require.NoError(t, err)

	_, err = svc.CreateException(context.Background(), &models.CreateExceptionRequest{
		ProfessionalID: professionalID, Date: monday, IsBlocked: ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.Len(t, repo.exceptions, 3)
}

func TestDeleteException(t *testing.T) {
	repo := &fakeRepo{exceptions: []domain.Exception{
		{ID: 1, ProfessionalID: professionalID, Date: monday, IsBlocked: true},
		{ID: 2, ProfessionalID: professionalID + 1, Date: monday, IsBlocked: true},
	}}
	svc, _ := newService(repo)

	assert.ErrorIs(t, svc.DeleteException(context.Background(), professionalID, 2), ErrAccessDenied)
	assert.ErrorIs(t, svc.DeleteException(context.Background(), professionalID, 99), ErrExceptionNotFound)
	require.NoError(t, svc.DeleteException(context.Background(), professionalID, 1))
	assert.Len(t, repo.exceptions, 1)
}

func TestBookingPolicy(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := newService(repo)

	def, err := svc.GetBookingPolicy(context.Background(), professionalID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTimeZone, def.TimeZone)

	updated, err := svc.UpdateBookingPolicy(context.Background(), &models.UpdateBookingPolicyRequest{
		ProfessionalID: professionalID, TimeZone: "Europe/Moscow", MinBookingNoticeMinutes: 60, AdvanceBookingDays: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", updated.TimeZone)

	got, err := svc.GetBookingPolicy(context.Background(), professionalID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.MinBookingNoticeMinutes)
	assert.Equal(t, 30, got.AdvanceBookingDays)
}

func TestUpdateBookingPolicy_Invalid(t *testing.T) {
	cases := []models.UpdateBookingPolicyRequest{
		{TimeZone: ""},
		{TimeZone: "Mars/Olympus"},
		{TimeZone: "UTC", MinBookingNoticeMinutes: -1},
		{TimeZone: "UTC", AdvanceBookingDays: domain.MaxAdvanceBookingDays + 1},
	}

	for i, req := range cases {
		repo := &fakeRepo{}
		svc, _ := newService(repo)
		req.ProfessionalID = professionalID

		_, err := svc.UpdateBookingPolicy(context.Background(), &req)

		assert.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
		assert.Nil(t, repo.policy)
	}
}
