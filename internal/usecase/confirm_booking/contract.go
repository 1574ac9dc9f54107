package confirm_booking

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	CountByStatus(ctx context.Context, status domain.AppointmentStatus) (int, error)
}

// SlotReserver атомарно захватывает и освобождает слоты
type SlotReserver interface {
	Reserve(ctx context.Context, slotID int64) (bool, error)
	Release(ctx context.Context, slotID int64) error
}

// PhotoRepository интерфейс репозитория фотографий записи
type PhotoRepository interface {
	Attach(ctx context.Context, appointmentID int64, fileIDs []string) error
}

// Notifier интерфейс шлюза уведомлений
type Notifier interface {
	SendToMaster(ctx context.Context, kind, text string) error
}

// Metrics интерфейс счётчиков созданных записей
type Metrics interface {
	IncAppointmentCreated()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
