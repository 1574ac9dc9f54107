package reminder

import (
	"context"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей для восстановления
// расписания напоминаний после рестарта
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentsFilter, page, perPage int) ([]*domain.Appointment, domain.Pagination, error)
}

// Notifier интерфейс шлюза уведомлений
type Notifier interface {
	SendToClient(ctx context.Context, clientID int64, kind, text string) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Metrics интерфейс счётчиков напоминаний
type Metrics interface {
	IncReminderFired(lead string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
