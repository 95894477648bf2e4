package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/bookingrules"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/common"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

const operation = "reschedule"

// UseCase use case для переноса записи на другое время
type UseCase struct {
	appointmentRepo AppointmentRepository
	loader          SnapshotLoader
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	loader SnapshotLoader,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		loader:          loader,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переносит запись. Длительность остается прежней,
// при проверке конфликтов сама запись исключается из занятых интервалов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: appointment=%d, professional=%d, by_client=%t, date=%s, time=%s",
		req.AppointmentID, req.ProfessionalID, req.byClient(), req.Date, req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	var result *Response

	// 2. Все чтения и обновление в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Запись блокируется FOR UPDATE
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		if err := validateAppointment(appt, req); err != nil {
			return err
		}

		// 2.2. Политика и текущее время профессионала
		policy, err := uc.loader.Policy(txCtx, appt.ProfessionalID)
		if err != nil {
			return fmt.Errorf("%w: failed to get policy: %w", ErrInternal, err)
		}
		now := common.CivilNow(uc.timeProvider.Now(), policy)

		candidate := domain.CandidateSlot{
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: appt.DurationMinutes,
		}

		if err := bookingrules.ValidateNotPastDate(candidate, now); err != nil {
			return err
		}
		if common.ExceedsAdvanceLimit(req.Date, now, policy) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
		}
		if err := validateBookingNotice(req.Date, req.StartTime, now, policy.MinBookingNoticeMinutes); err != nil {
			return err
		}

		// 2.3. Снимок нового дня
		snap, err := uc.loader.Snapshot(txCtx, appt.ProfessionalID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to load snapshot: %w", ErrInternal, err)
		}

		if err := bookingrules.ValidateBooking(appt.ProfessionalID, candidate, ptr.Ptr(appt.ID), snap, now); err != nil {
			return err
		}

		// 2.4. Обновляем дату и время
		if err := uc.appointmentRepo.UpdateSchedule(txCtx, appt.ID, req.Date, req.StartTime); err != nil {
			if errors.Is(err, appointmentRepo.ErrTimeConflict) {
				return &bookingrules.BookingError{
					Kind:   bookingrules.KindTimeConflict,
					Reason: fmt.Sprintf("%s %s is already taken", req.Date, req.StartTime),
				}
			}
			return fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
		}

		result = &Response{
			ID:                appt.ID,
			ProfessionalID:    appt.ProfessionalID,
			ServiceID:         appt.ServiceID,
			Date:              req.Date,
			StartTime:         req.StartTime,
			DurationMinutes:   appt.DurationMinutes,
			Status:            string(appt.Status),
			PreviousDate:      appt.Date,
			PreviousStartTime: appt.StartTime,
		}
		return nil
	})

	if err != nil {
		return nil, uc.handleError(req, err)
	}

	uc.metrics.ObserveValidation(operation, "ok")
	uc.logger.Info("RescheduleBooking: appointment id=%d moved from %s %s to %s %s",
		result.ID, result.PreviousDate, result.PreviousStartTime, result.Date, result.StartTime)

	return result, nil
}

func (uc *UseCase) handleError(req *Request, err error) error {
	if kind, ok := bookingrules.KindOf(err); ok {
		uc.metrics.ObserveValidation(operation, string(kind))
		uc.logger.Warn("RescheduleBooking: appointment=%d rejected: %v", req.AppointmentID, err)
		return err
	}

	switch {
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrCannotReschedule),
		errors.Is(err, ErrDateTooFarInFuture),
		errors.Is(err, ErrTooLateToBook),
		errors.Is(err, ErrInvalidInput):
		uc.logger.Warn("RescheduleBooking: appointment=%d: %v", req.AppointmentID, err)
		return err
	case errors.Is(err, bookingrules.ErrFormat), errors.Is(err, bookingrules.ErrInvalidDuration):
		uc.logger.Error("RescheduleBooking: stored data rejected by booking rules: %v", err)
		return fmt.Errorf("%w: %w", ErrInternal, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("RescheduleBooking: appointment=%d: %v", req.AppointmentID, err)
		return err
	default:
		uc.logger.Error("RescheduleBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}
}
