package appointments

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter, page, perPage int) ([]*domain.Appointment, domain.Pagination, error)
	CountByStatus(ctx context.Context, status domain.AppointmentStatus) (int, error)
	GetPendingByOffset(ctx context.Context, offset int) (*domain.Appointment, error)
}

// PhotoRepository интерфейс репозитория фотографий записи
type PhotoRepository interface {
	GetByAppointmentID(ctx context.Context, appointmentID int64) ([]string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
