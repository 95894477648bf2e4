package appointments

import (
	"context"
	"errors"
	"fmt"

	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments/models"
)

// Service сервис для работы с записями профессионала
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Профессионал видит только свои записи.
func (s *Service) GetByID(ctx context.Context, id int64, professionalID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for professional=%d", id, professionalID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if appt.ProfessionalID != professionalID {
		s.logger.Warn("GetByID: access denied for professional=%d to appointment id=%d", professionalID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// GetProfessionalAppointments получает записи профессионала с фильтрацией
// по периоду, статусу и включению неактивных записей
func (s *Service) GetProfessionalAppointments(ctx context.Context, req *models.GetProfessionalAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetProfessionalAppointments: fetching appointments for professional=%d", req.ProfessionalID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate, req.EndDate)
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.ProfessionalID <= 0 {
		return nil, fmt.Errorf("%w: professional id must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProfessionalAppointments: invalid filter for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appts, err := s.appointmentRepo.GetByProfessionalWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProfessionalAppointments: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: GetProfessionalAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProfessionalAppointments: fetched %d appointments for professional=%d", len(appts), req.ProfessionalID)
	return models.FromDomainAppointmentList(appts), nil
}

// UpdateStatus переводит запись в новый статус.
// Разрешены pending -> confirmed|cancelled и confirmed -> completed|cancelled|no_show,
// остальные статусы конечные.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by professional=%d",
		appointmentID, req.Status, req.ProfessionalID)

	// 1. Валидируем и конвертируем статус
	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	var result *models.AppointmentResponse

	// 2. Чтение и обновление в одной транзакции, запись блокируется FOR UPDATE
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		// 2.1. Только владелец календаря
		if appt.ProfessionalID != req.ProfessionalID {
			return ErrAccessDenied
		}

		// 2.2. Машина состояний
		if !appt.Status.CanTransitionTo(newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, newStatus)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appointmentID, newStatus); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		appt.Status = newStatus
		result = models.FromDomainAppointment(appt)
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound),
			errors.Is(err, ErrAccessDenied),
			errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("UpdateStatus: appointment id=%d: %v", appointmentID, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			s.logger.Error("UpdateStatus: appointment id=%d: %v", appointmentID, err)
			return nil, err
		default:
			s.logger.Error("UpdateStatus: transaction failed for appointment id=%d: %v", appointmentID, err)
			return nil, fmt.Errorf("%w: UpdateStatus - transaction failed: %v", ErrInternal, err)
		}
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", appointmentID, newStatus)
	return result, nil
}

// Delete удаляет запись профессионала.
// Удаление освобождает интервал сразу, история при этом не сохраняется.
func (s *Service) Delete(ctx context.Context, appointmentID, professionalID int64) error {
	s.logger.Info("Delete: deleting appointment id=%d by professional=%d", appointmentID, professionalID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Запись блокируется FOR UPDATE
		appt, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		if appt.ProfessionalID != professionalID {
			return ErrAccessDenied
		}

		if err := s.appointmentRepo.Delete(txCtx, appointmentID); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound), errors.Is(err, ErrAccessDenied):
			s.logger.Warn("Delete: appointment id=%d: %v", appointmentID, err)
			return err
		case errors.Is(err, ErrInternal):
			s.logger.Error("Delete: appointment id=%d: %v", appointmentID, err)
			return err
		default:
			s.logger.Error("Delete: transaction failed for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Delete - transaction failed: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Delete: appointment id=%d deleted", appointmentID)
	return nil
}
