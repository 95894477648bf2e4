package availability

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// AvailabilityRepository интерфейс репозитория расписания
type AvailabilityRepository interface {
	GetWeeklyWindows(ctx context.Context, professionalID int64) ([]domain.WeeklyWindow, error)
	ReplaceWeeklyWindows(ctx context.Context, professionalID int64, windows []domain.WeeklyWindow) ([]domain.WeeklyWindow, error)
	GetExceptions(ctx context.Context, professionalID int64, from, to *types.Date) ([]domain.Exception, error)
	GetExceptionsByDate(ctx context.Context, professionalID int64, date types.Date) ([]domain.Exception, error)
	GetExceptionByID(ctx context.Context, id int64) (*domain.Exception, error)
	CreateException(ctx context.Context, e *domain.Exception) (*domain.Exception, error)
	DeleteException(ctx context.Context, id int64) error
	UpsertPolicy(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error)
}

// PolicyResolver отдает политику профессионала с подстановкой значений по умолчанию
type PolicyResolver interface {
	Policy(ctx context.Context, professionalID int64) (*domain.BookingPolicy, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
