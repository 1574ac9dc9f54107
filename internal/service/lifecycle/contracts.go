package lifecycle

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.AppointmentStatus) (bool, error)
}

// SlotReleaser освобождает слот при отмене/отклонении записи
type SlotReleaser interface {
	Release(ctx context.Context, slotID int64) error
}

// ReminderScheduler планирует и отменяет напоминания
type ReminderScheduler interface {
	Schedule(appointment *domain.Appointment) int
	Cancel(appointmentID int64) int
}

// Notifier интерфейс шлюза уведомлений
type Notifier interface {
	SendToClient(ctx context.Context, clientID int64, kind, text string) error
	SendToMaster(ctx context.Context, kind, text string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс счётчиков переходов
type Metrics interface {
	IncTransition(toStatus string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
