package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/bookingrules"
	serviceRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/service"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/common"
)

// UseCase use case для получения доступных слотов профессионала на дату
type UseCase struct {
	loader       SnapshotLoader
	serviceRepo  ServiceRepository
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	loader SnapshotLoader,
	serviceRepo ServiceRepository,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		loader:       loader,
		serviceRepo:  serviceRepo,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Данные читаются без транзакции: результат информационный, окончательная проверка происходит при бронировании.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: professional=%d, date=%s", req.ProfessionalID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем длительность
	duration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Получаем политику бронирования и текущее время профессионала
	policy, err := uc.loader.Policy(ctx, req.ProfessionalID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get policy for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to get policy: %w", ErrInternal, err)
	}
	now := common.CivilNow(uc.timeProvider.Now(), policy)

	// 4. Ограничение advance_booking_days
	if common.ExceedsAdvanceLimit(req.Date, now, policy) {
		uc.logger.Warn("GetAvailableSlots: date=%s exceeds %d days limit", req.Date, policy.AdvanceBookingDays)
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
	}

	// 5. Читаем снимок дня
	snap, err := uc.loader.Snapshot(ctx, req.ProfessionalID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load snapshot: %v", err)
		return nil, fmt.Errorf("%w: failed to load snapshot: %w", ErrInternal, err)
	}

	// 6. Считаем слоты
	seq, err := bookingrules.AvailableSlots(req.ProfessionalID, req.Date, duration, snap, now,
		bookingrules.WithMinNotice(policy.MinBookingNoticeMinutes))
	if err != nil {
		// Ошибка формата означает битые данные в БД
		uc.logger.Error("GetAvailableSlots: engine rejected stored data for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to calculate slots: %w", ErrInternal, err)
	}

	slots, err := toSlots(seq)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build slots: %v", err)
		return nil, fmt.Errorf("%w: failed to build slots: %w", ErrInternal, err)
	}

	uc.metrics.ObserveSlots(len(slots))
	uc.logger.Info("GetAvailableSlots: %d slots for professional=%d, date=%s, duration=%d",
		len(slots), req.ProfessionalID, req.Date, duration)

	return &Response{
		ProfessionalID:  req.ProfessionalID,
		Date:            req.Date,
		ServiceID:       req.ServiceID,
		DurationMinutes: duration,
		TimeZone:        policy.TimeZone,
		Slots:           slots,
	}, nil
}

func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if req.DurationMinutes != nil {
		return *req.DurationMinutes, nil
	}

	service, err := uc.serviceRepo.GetByID(ctx, *req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", *req.ServiceID)
			return 0, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
		return 0, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	if service.ProfessionalID != req.ProfessionalID {
		uc.logger.Warn("GetAvailableSlots: service id=%d belongs to professional=%d, not %d",
			service.ID, service.ProfessionalID, req.ProfessionalID)
		return 0, ErrServiceNotFound
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", service.ID)
		return 0, ErrServiceInactive
	}
	if err := validateDuration(service.DurationMinutes); err != nil {
		uc.logger.Error("GetAvailableSlots: service id=%d has invalid duration %d", service.ID, service.DurationMinutes)
		return 0, fmt.Errorf("%w: service duration: %w", ErrInternal, err)
	}

	return service.DurationMinutes, nil
}
