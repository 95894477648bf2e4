package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const (
	windowsTable    = "weekly_availability"
	exceptionsTable = "availability_exceptions"
	policyTable     = "professional_booking_policy"
)

var windowColumns = []string{
	"id",
	"professional_id",
	"day_of_week",
	"start_time",
	"end_time",
	"slot_interval_minutes",
}

var exceptionColumns = []string{
	"id",
	"professional_id",
	"exception_date",
	"start_time",
	"end_time",
	"is_blocked",
	"reason",
	"created_at",
}

// Repository репозиторий расписания профессионала:
// недельные окна, исключения по датам и политика бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeeklyWindows получает все недельные окна профессионала
func (r *Repository) GetWeeklyWindows(ctx context.Context, professionalID int64) ([]domain.WeeklyWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From(windowsTable).
		Where(squirrel.Eq{"professional_id": professionalID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyWindows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]domain.WeeklyWindow, 0)
	for rows.Next() {
		var w domain.WeeklyWindow
		if err := rows.Scan(
			&w.ID,
			&w.ProfessionalID,
			&w.DayOfWeek,
			&w.StartTime,
			&w.EndTime,
			&w.SlotIntervalMinutes,
		); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyWindows - scan row: %w", ErrScanRow, err)
		}
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyWindows - rows error: %w", ErrScanRow, err)
	}

	return windows, nil
}

// ReplaceWeeklyWindows заменяет расписание профессионала целиком.
// Должен вызываться внутри транзакции, иначе читатели могут увидеть пустое расписание.
func (r *Repository) ReplaceWeeklyWindows(ctx context.Context, professionalID int64, windows []domain.WeeklyWindow) ([]domain.WeeklyWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(windowsTable).
		Where(squirrel.Eq{"professional_id": professionalID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceWeeklyWindows - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceWeeklyWindows - execute delete: %w", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return []domain.WeeklyWindow{}, nil
	}

	insert := psqlbuilder.Insert(windowsTable).
		Columns("professional_id", "day_of_week", "start_time", "end_time", "slot_interval_minutes")
	for _, w := range windows {
		insert = insert.Values(professionalID, int(w.DayOfWeek), w.StartTime, w.EndTime, w.SlotIntervalMinutes)
	}

	query, args, err = insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceWeeklyWindows - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceWeeklyWindows - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	// PostgreSQL возвращает RETURNING в порядке VALUES
	saved := make([]domain.WeeklyWindow, 0, len(windows))
	for i := 0; rows.Next(); i++ {
		if i >= len(windows) {
			return nil, fmt.Errorf("%w: ReplaceWeeklyWindows - more ids than windows", ErrScanRow)
		}
		w := windows[i]
		w.ProfessionalID = professionalID
		if err := rows.Scan(&w.ID); err != nil {
			return nil, fmt.Errorf("%w: ReplaceWeeklyWindows - scan id: %w", ErrScanRow, err)
		}
		saved = append(saved, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReplaceWeeklyWindows - rows error: %w", ErrScanRow, err)
	}

	return saved, nil
}

// GetExceptions получает исключения профессионала за период [from, to].
// nil границы означают отсутствие ограничения.
func (r *Repository) GetExceptions(ctx context.Context, professionalID int64, from, to *types.Date) ([]domain.Exception, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(exceptionColumns...).
		From(exceptionsTable).
		Where(squirrel.Eq{"professional_id": professionalID}).
		OrderBy("exception_date ASC", "start_time ASC NULLS FIRST")

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"exception_date": *from})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"exception_date": *to})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]domain.Exception, 0)
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetExceptions - scan row: %w", ErrScanRow, err)
		}
		exceptions = append(exceptions, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - rows error: %w", ErrScanRow, err)
	}

	return exceptions, nil
}

// GetExceptionsByDate получает исключения профессионала на одну дату
func (r *Repository) GetExceptionsByDate(ctx context.Context, professionalID int64, date types.Date) ([]domain.Exception, error) {
	return r.GetExceptions(ctx, professionalID, &date, &date)
}

// GetExceptionByID получает исключение по ID
func (r *Repository) GetExceptionByID(ctx context.Context, id int64) (*domain.Exception, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns...).
		From(exceptionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByID - build select query: %v", ErrBuildQuery, err)
	}

	e, err := scanException(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByID - scan exception: %w", ErrScanRow, err)
	}

	return e, nil
}

// CreateException сохраняет исключение
func (r *Repository) CreateException(ctx context.Context, e *domain.Exception) (*domain.Exception, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(exceptionsTable).
		Columns("professional_id", "exception_date", "start_time", "end_time", "is_blocked", "reason").
		Values(e.ProfessionalID, e.Date, e.StartTime, e.EndTime, e.IsBlocked, e.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&e.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateException - execute insert: %w", ErrExecQuery, err)
	}
	e.CreatedAt = createdAt.Time

	return e, nil
}

// DeleteException удаляет исключение
func (r *Repository) DeleteException(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(exceptionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteException - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteException - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteException - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

// GetPolicy получает политику бронирования профессионала.
// Если строки нет, возвращает ErrPolicyNotFound, вызывающий подставляет значения по умолчанию.
func (r *Repository) GetPolicy(ctx context.Context, professionalID int64) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"professional_id",
		"time_zone",
		"min_booking_notice_minutes",
		"advance_booking_days",
	).
		From(policyTable).
		Where(squirrel.Eq{"professional_id": professionalID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicy - build select query: %v", ErrBuildQuery, err)
	}

	var policy domain.BookingPolicy
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ProfessionalID,
		&policy.TimeZone,
		&policy.MinBookingNoticeMinutes,
		&policy.AdvanceBookingDays,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicy - scan policy: %w", ErrScanRow, err)
	}

	return &policy, nil
}

// UpsertPolicy создает или обновляет политику бронирования профессионала
func (r *Repository) UpsertPolicy(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(policyTable).
		Columns("professional_id", "time_zone", "min_booking_notice_minutes", "advance_booking_days").
		Values(policy.ProfessionalID, policy.TimeZone, policy.MinBookingNoticeMinutes, policy.AdvanceBookingDays).
		Suffix("ON CONFLICT (professional_id) DO UPDATE SET " +
			"time_zone = EXCLUDED.time_zone, " +
			"min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes, " +
			"advance_booking_days = EXCLUDED.advance_booking_days, " +
			"updated_at = NOW()").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertPolicy - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: UpsertPolicy - execute upsert: %w", ErrExecQuery, err)
	}

	return policy, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanException(row rowScanner) (*domain.Exception, error) {
	var e domain.Exception
	var createdAt sql.NullTime

	err := row.Scan(
		&e.ID,
		&e.ProfessionalID,
		&e.Date,
		&e.StartTime,
		&e.EndTime,
		&e.IsBlocked,
		&e.Reason,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = createdAt.Time

	return &e, nil
}
