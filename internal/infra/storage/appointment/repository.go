package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/pkg/dbmetrics"
	"github.com/nkrasko/BM-AppointmentService/pkg/psqlbuilder"
)

// колонки выборки записи вместе с денормализованными данными слота и услуги
var appointmentColumns = []string{
	"a.id",
	"a.client_id",
	"a.slot_id",
	"a.service_id",
	"a.comment",
	"a.status",
	"s.name AS service_name",
	"sl.start_time",
	"sl.end_time",
	"a.created_at",
	"a.updated_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись. Статус новой записи всегда pending.
// Запись создается только после успешного резервирования слота -
// этот инвариант обеспечивает вызывающий usecase.
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	if !appointment.Status.IsValid() {
		return nil, fmt.Errorf("%w: Create - status %q", ErrInvalidStatus, appointment.Status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns("client_id", "slot_id", "service_id", "comment", "status").
		Values(
			appointment.ClientID,
			appointment.SlotID,
			appointment.ServiceID,
			appointment.Comment,
			appointment.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appointment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return appointment, nil
}

// GetByID получает запись по ID вместе с названием услуги и временем слота
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectJoined().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := r.scanOne(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// List возвращает страницу записей по фильтру вместе с пагинацией.
// Сортировка - по времени начала слота (ASC), затем по времени создания.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter, page, perPage int) ([]*domain.Appointment, domain.Pagination, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	pagination := domain.NewPagination(page, perPage, 0)

	// Сначала считаем общее количество под тот же фильтр
	countBuilder := psqlbuilder.Select("COUNT(*)").
		From("appointments a").
		LeftJoin("slots sl ON a.slot_id = sl.id")
	countBuilder = applyFilter(countBuilder, filter)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, pagination, fmt.Errorf("%w: List - build count query: %v", ErrBuildQuery, err)
	}

	var totalItems int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&totalItems); err != nil {
		return nil, pagination, fmt.Errorf("%w: List - scan count: %v", ErrScanRow, err)
	}

	pagination = domain.NewPagination(page, perPage, totalItems)

	selectBuilder := applyFilter(r.selectJoined(), filter).
		OrderBy("sl.start_time ASC", "a.created_at ASC").
		Limit(uint64(pagination.PerPage)).
		Offset(uint64(pagination.Offset()))

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, pagination, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pagination, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := r.scanAppointments(rows)
	if err != nil {
		return nil, pagination, err
	}

	return appointments, pagination, nil
}

// UpdateStatusFrom обновляет статус записи compare-and-swap записью:
// "SET status=new WHERE id=? AND status=old". Возвращает true, только если
// строка была изменена этим вызовом. Конкурентные переходы по одной записи
// линеаризуются этим условием - второй вызов получает changed=false.
func (r *Repository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.AppointmentStatus) (bool, error) {
	if !to.IsValid() {
		return false, fmt.Errorf("%w: UpdateStatusFrom - status %q", ErrInvalidStatus, to)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusFrom - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusFrom - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusFrom - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 1 {
		return true, nil
	}

	// CAS не сработал: запись либо в другом статусе, либо отсутствует
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}

	return false, nil
}

// CountByStatus возвращает количество записей в указанном статусе
func (r *Repository) CountByStatus(ctx context.Context, status domain.AppointmentStatus) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{"status": status}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByStatus - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByStatus - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// GetPendingByOffset возвращает N-ю по порядку pending запись (нумерация с 0).
// Порядок - по времени начала слота, затем по времени создания. Это явный
// курсор просмотра необработанных заявок мастером, передаваемый через API.
func (r *Repository) GetPendingByOffset(ctx context.Context, offset int) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if offset < 0 {
		offset = 0
	}

	query, args, err := r.selectJoined().
		Where(squirrel.Eq{"a.status": domain.StatusPending}).
		OrderBy("sl.start_time ASC", "a.created_at ASC").
		Limit(1).
		Offset(uint64(offset)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingByOffset - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := r.scanOne(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPendingByOffset - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// selectJoined базовый SELECT записи с JOIN на слоты и услуги
func (r *Repository) selectJoined() squirrel.SelectBuilder {
	return psqlbuilder.Select(appointmentColumns...).
		From("appointments a").
		LeftJoin("services s ON a.service_id = s.id").
		LeftJoin("slots sl ON a.slot_id = sl.id")
}

// applyFilter накладывает условия фильтра на запрос
func applyFilter(builder squirrel.SelectBuilder, filter domain.AppointmentsFilter) squirrel.SelectBuilder {
	if filter.ClientID != nil {
		builder = builder.Where(squirrel.Eq{"a.client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"a.status": *filter.Status})
	}
	if filter.StartFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"sl.start_time": *filter.StartFrom})
	}
	if filter.StartTo != nil {
		builder = builder.Where(squirrel.LtOrEq{"sl.start_time": *filter.StartTo})
	}
	return builder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanOne сканирует одну строку результата в модель записи
func (r *Repository) scanOne(row rowScanner) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var serviceName sql.NullString
	var slotStart, slotEnd, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.ClientID,
		&appointment.SlotID,
		&appointment.ServiceID,
		&appointment.Comment,
		&appointment.Status,
		&serviceName,
		&slotStart,
		&slotEnd,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appointment.ServiceName = serviceName.String
	appointment.SlotStart = slotStart.Time
	appointment.SlotEnd = slotEnd.Time
	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return &appointment, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appointment, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
