package get_available_slots

import (
	"context"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// ListAvailable возвращает свободные слоты в диапазоне [from, to]
	ListAvailable(ctx context.Context, from, to *time.Time) ([]*domain.Slot, error)

	// FirstAvailable возвращает ближайший свободный слот
	FirstAvailable(ctx context.Context) (*domain.Slot, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
