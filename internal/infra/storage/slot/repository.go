package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/pkg/dbmetrics"
	"github.com/nkrasko/BM-AppointmentService/pkg/psqlbuilder"
)

// pqUniqueViolation код ошибки нарушения уникальности PostgreSQL
const pqUniqueViolation = "23505"

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот. Уникальность контролируется по start_time:
// попытка создать второй слот с тем же началом возвращает ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, startTime, endTime time.Time) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns("start_time", "end_time", "is_available").
		Values(startTime, endTime, true).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	slot := &domain.Slot{
		StartTime:   startTime,
		EndTime:     endTime,
		IsAvailable: true,
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "start_time", "end_time", "is_available").
		From("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.Slot
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsAvailable,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return &slot, nil
}

// ListAvailable возвращает доступные слоты, отсортированные по start_time (ASC).
// Границы диапазона опциональны; диапазон с to < from отклоняется.
func (r *Repository) ListAvailable(ctx context.Context, from, to *time.Time) ([]*domain.Slot, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, ErrInvalidRange
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "start_time", "end_time", "is_available").
		From("slots").
		Where(squirrel.Eq{"is_available": true})

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *from})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_time": *to})
	}

	query, args, err := selectBuilder.OrderBy("start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// FirstAvailable возвращает ближайший доступный слот
func (r *Repository) FirstAvailable(ctx context.Context) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "start_time", "end_time", "is_available").
		From("slots").
		Where(squirrel.Eq{"is_available": true}).
		OrderBy("start_time ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FirstAvailable - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.Slot
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsAvailable,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FirstAvailable - scan slot: %v", ErrScanRow, err)
	}

	return &slot, nil
}

// SetAvailability выставляет доступность слота условным UPDATE:
// "SET is_available=$1 WHERE id=$2 AND is_available=$3". Возвращает true,
// только если строка была изменена этим вызовом - это единственная
// точка линеаризации конкурентных резервирований одного слота.
func (r *Repository) SetAvailability(ctx context.Context, id int64, available bool) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_available", available).
		Where(squirrel.Eq{"id": id, "is_available": !available}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: SetAvailability - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: SetAvailability - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: SetAvailability - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 1 {
		return true, nil
	}

	// Слот либо уже в нужном состоянии (no-op), либо не существует
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}

	return false, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var slot domain.Slot
		err := rows.Scan(
			&slot.ID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsAvailable,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
