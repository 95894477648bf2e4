package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/bookingrules"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/common"
)

const operation = "create"

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	serviceRepo     ServiceRepository
	loader          SnapshotLoader
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	loader SnapshotLoader,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		loader:          loader,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Чтение снимка, проверка и вставка выполняются в одной сериализуемой транзакции,
// поэтому две параллельные записи на пересекающееся время не могут пройти обе.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: professional=%d, service=%d, date=%s, time=%s",
		req.ProfessionalID, req.ServiceID, req.Date, req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу, длительность фиксируется в момент бронирования
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	if err := validateService(service, req.ProfessionalID); err != nil {
		uc.logger.Warn("CreateBooking: service id=%d rejected for professional=%d: %v", service.ID, req.ProfessionalID, err)
		return nil, err
	}

	// 3. Политика и текущее время профессионала
	policy, err := uc.loader.Policy(ctx, req.ProfessionalID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get policy for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %w", ErrInternal, err)
	}
	now := common.CivilNow(uc.timeProvider.Now(), policy)

	candidate := domain.CandidateSlot{
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: service.DurationMinutes,
	}

	// 4. Проверки, не требующие данных дня
	if err := bookingrules.ValidateNotPastDate(candidate, now); err != nil {
		uc.reject(err)
		return nil, err
	}

	if common.ExceedsAdvanceLimit(req.Date, now, policy) {
		uc.logger.Warn("CreateBooking: date=%s exceeds %d days limit", req.Date, policy.AdvanceBookingDays)
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
	}

	if err := validateBookingNotice(req.Date, req.StartTime, now, policy.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment

	// 5. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Снимок дня, записи блокируются FOR UPDATE
		snap, err := uc.loader.Snapshot(txCtx, req.ProfessionalID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to load snapshot: %v", err)
			return fmt.Errorf("%w: failed to load snapshot: %w", ErrInternal, err)
		}

		// 5.2. Правила бронирования
		if err := bookingrules.ValidateBooking(req.ProfessionalID, candidate, nil, snap, now); err != nil {
			return err
		}

		// 5.3. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ProfessionalID:  req.ProfessionalID,
			ServiceID:       service.ID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			ClientName:      req.ClientName,
			ClientPhone:     req.ClientPhone,
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrTimeConflict) {
				// Гонку поймал exclusion constraint
				return &bookingrules.BookingError{
					Kind:   bookingrules.KindTimeConflict,
					Reason: fmt.Sprintf("%s %s is already taken", req.Date, req.StartTime),
				}
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if _, ok := bookingrules.KindOf(err); ok {
			uc.reject(err)
			return nil, err
		}
		if errors.Is(err, bookingrules.ErrFormat) || errors.Is(err, bookingrules.ErrInvalidDuration) {
			uc.logger.Error("CreateBooking: stored data rejected by booking rules: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		if !errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
		}
		return nil, err
	}

	uc.metrics.ObserveValidation(operation, "ok")
	uc.logger.Info("CreateBooking: successfully created appointment id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		ProfessionalID:  result.ProfessionalID,
		ServiceID:       result.ServiceID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     service.Name,
		ClientName:      result.ClientName,
		ClientPhone:     result.ClientPhone,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

func (uc *UseCase) reject(err error) {
	kind, _ := bookingrules.KindOf(err)
	uc.metrics.ObserveValidation(operation, string(kind))
	uc.logger.Warn("CreateBooking: rejected: %v", err)
}
