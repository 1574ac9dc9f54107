package photo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/nkrasko/BM-AppointmentService/pkg/dbmetrics"
	"github.com/nkrasko/BM-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий фотографий, прикрепленных к записям
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория фотографий
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Attach прикрепляет фотографии к записи одним пакетным INSERT.
// Лимит количества (9) контролируется мастером записи до коммита.
func (r *Repository) Attach(ctx context.Context, appointmentID int64, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("appointment_photos").
		Columns("appointment_id", "file_id")
	for _, fileID := range fileIDs {
		insertBuilder = insertBuilder.Values(appointmentID, fileID)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Attach - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Attach - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByAppointmentID возвращает файловые идентификаторы фотографий записи
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID int64) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("file_id").
		From("appointment_photos").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	fileIDs := make([]string, 0)
	for rows.Next() {
		var fileID string
		if err := rows.Scan(&fileID); err != nil {
			return nil, fmt.Errorf("%w: GetByAppointmentID - scan row: %v", ErrScanRow, err)
		}
		fileIDs = append(fileIDs, fileID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - rows error: %v", ErrScanRow, err)
	}

	return fileIDs, nil
}
