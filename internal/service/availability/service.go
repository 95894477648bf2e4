package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/bookingrules"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/availability/models"
)

// Service сервис управления расписанием профессионала
type Service struct {
	availabilityRepo AvailabilityRepository
	policies         PolicyResolver
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	availabilityRepo AvailabilityRepository,
	policies PolicyResolver,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		policies:         policies,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetWeeklySchedule получает недельное расписание.
// Публичный метод, расписание нужно клиентам для отображения календаря.
func (s *Service) GetWeeklySchedule(ctx context.Context, professionalID int64) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("GetWeeklySchedule: fetching windows for professional=%d", professionalID)

	windows, err := s.availabilityRepo.GetWeeklyWindows(ctx, professionalID)
	if err != nil {
		s.logger.Error("GetWeeklySchedule: repository error for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: GetWeeklySchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWindows(professionalID, windows), nil
}

// ReplaceWeeklySchedule полностью заменяет недельное расписание.
// Пересекающиеся окна одного дня отклоняются, соседние допустимы.
func (s *Service) ReplaceWeeklySchedule(ctx context.Context, req *models.ReplaceWeeklyScheduleRequest) (*models.WeeklyScheduleResponse, error) {
	s.logger.Info("ReplaceWeeklySchedule: professional=%d, windows=%d", req.ProfessionalID, len(req.Windows))

	// 1. Валидация расписания целиком
	windows := req.ToDomainWindows()
	if err := bookingrules.ValidateWeeklyWindows(windows); err != nil {
		s.logger.Warn("ReplaceWeeklySchedule: validation failed for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Удаление старых и вставка новых окон в одной сериализуемой транзакции.
	// Две параллельные замены не могут обе зафиксироваться и оставить объединение окон.
	var saved []domain.WeeklyWindow
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.availabilityRepo.ReplaceWeeklyWindows(txCtx, req.ProfessionalID, windows)
		return err
	})
	if err != nil {
		s.logger.Error("ReplaceWeeklySchedule: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: ReplaceWeeklySchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceWeeklySchedule: stored %d windows for professional=%d", len(saved), req.ProfessionalID)
	return models.FromDomainWindows(req.ProfessionalID, saved), nil
}

// GetExceptions получает исключения профессионала за период (границы включительно)
func (s *Service) GetExceptions(ctx context.Context, req *models.GetExceptionsRequest) (*models.ExceptionListResponse, error) {
	s.logger.Info("GetExceptions: professional=%d, from=%v, to=%v", req.ProfessionalID, req.From, req.To)

	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidInput)
	}

	exceptions, err := s.availabilityRepo.GetExceptions(ctx, req.ProfessionalID, req.From, req.To)
	if err != nil {
		s.logger.Error("GetExceptions: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: GetExceptions - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainExceptionList(exceptions), nil
}

// CreateException добавляет исключение на дату.
// Блокировка не может пересекаться с другой блокировкой той же даты.
func (s *Service) CreateException(ctx context.Context, req *models.CreateExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("CreateException: professional=%d, date=%s", req.ProfessionalID, req.Date)

	candidate := req.ToDomainException()
	var created *domain.Exception

	// Проверка и вставка сериализуются, чтобы две пересекающиеся блокировки не прошли одновременно
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.availabilityRepo.GetExceptionsByDate(txCtx, req.ProfessionalID, req.Date)
		if err != nil {
			return fmt.Errorf("%w: CreateException - repository error: %w", ErrInternal, err)
		}

		if err := bookingrules.ValidateException(candidate, existing); err != nil {
			if errors.Is(err, bookingrules.ErrOverlappingExceptions) {
				return fmt.Errorf("%w: %v", ErrExceptionConflict, err)
			}
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		created, err = s.availabilityRepo.CreateException(txCtx, &candidate)
		if err != nil {
			return fmt.Errorf("%w: CreateException - repository error: %w", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrExceptionConflict):
			s.logger.Warn("CreateException: rejected for professional=%d: %v", req.ProfessionalID, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			s.logger.Error("CreateException: professional=%d: %v", req.ProfessionalID, err)
			return nil, err
		default:
			s.logger.Error("CreateException: transaction failed for professional=%d: %v", req.ProfessionalID, err)
			return nil, fmt.Errorf("%w: CreateException - transaction failed: %v", ErrInternal, err)
		}
	}

	s.logger.Info("CreateException: created exception id=%d for professional=%d", created.ID, req.ProfessionalID)
	return models.FromDomainException(created), nil
}

// DeleteException удаляет исключение профессионала
func (s *Service) DeleteException(ctx context.Context, professionalID, exceptionID int64) error {
	s.logger.Info("DeleteException: exception id=%d by professional=%d", exceptionID, professionalID)

	exception, err := s.availabilityRepo.GetExceptionByID(ctx, exceptionID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteException: exception id=%d not found", exceptionID)
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteException: repository error for exception id=%d: %v", exceptionID, err)
		return fmt.Errorf("%w: DeleteException - repository error: %v", ErrInternal, err)
	}

	if exception.ProfessionalID != professionalID {
		s.logger.Warn("DeleteException: access denied for professional=%d to exception id=%d", professionalID, exceptionID)
		return ErrAccessDenied
	}

	if err := s.availabilityRepo.DeleteException(ctx, exceptionID); err != nil {
		if errors.Is(err, availabilityRepo.ErrExceptionNotFound) {
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteException: repository error for exception id=%d: %v", exceptionID, err)
		return fmt.Errorf("%w: DeleteException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteException: deleted exception id=%d", exceptionID)
	return nil
}

// GetBookingPolicy возвращает действующую политику бронирования (с учетом значений по умолчанию)
func (s *Service) GetBookingPolicy(ctx context.Context, professionalID int64) (*models.BookingPolicyResponse, error) {
	s.logger.Info("GetBookingPolicy: professional=%d", professionalID)

	policy, err := s.policies.Policy(ctx, professionalID)
	if err != nil {
		s.logger.Error("GetBookingPolicy: failed to resolve policy for professional=%d: %v", professionalID, err)
		return nil, fmt.Errorf("%w: GetBookingPolicy - %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy), nil
}

// UpdateBookingPolicy сохраняет политику бронирования профессионала
func (s *Service) UpdateBookingPolicy(ctx context.Context, req *models.UpdateBookingPolicyRequest) (*models.BookingPolicyResponse, error) {
	s.logger.Info("UpdateBookingPolicy: professional=%d, tz=%s, notice=%d, advance=%d",
		req.ProfessionalID, req.TimeZone, req.MinBookingNoticeMinutes, req.AdvanceBookingDays)

	if err := validatePolicy(req); err != nil {
		s.logger.Warn("UpdateBookingPolicy: validation failed: %v", err)
		return nil, err
	}

	policy, err := s.availabilityRepo.UpsertPolicy(ctx, &domain.BookingPolicy{
		ProfessionalID:          req.ProfessionalID,
		TimeZone:                req.TimeZone,
		MinBookingNoticeMinutes: req.MinBookingNoticeMinutes,
		AdvanceBookingDays:      req.AdvanceBookingDays,
	})
	if err != nil {
		s.logger.Error("UpdateBookingPolicy: repository error for professional=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: UpdateBookingPolicy - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy), nil
}

func validatePolicy(req *models.UpdateBookingPolicyRequest) error {
	if req.TimeZone == "" {
		return fmt.Errorf("%w: timeZone is required", ErrInvalidInput)
	}
	if _, err := time.LoadLocation(req.TimeZone); err != nil {
		return fmt.Errorf("%w: unknown time zone %q", ErrInvalidInput, req.TimeZone)
	}
	if req.MinBookingNoticeMinutes < 0 || req.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBookingNoticeMinutes)
	}
	if req.AdvanceBookingDays < 0 || req.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}
	return nil
}
