package wizard

import (
	"context"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/internal/usecase/confirm_booking"
)

// SlotProvider интерфейс чтения слотов. Списки всегда запрашиваются
// заново при показе шага: доступность могла измениться конкурентно.
type SlotProvider interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	ListAvailable(ctx context.Context, from, to *time.Time) ([]*domain.Slot, error)
}

// ServiceProvider интерфейс чтения каталога услуг
type ServiceProvider interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
}

// Committer выполняет коммит черновика (резервирование слота + создание записи)
type Committer interface {
	Execute(ctx context.Context, draft *domain.BookingDraft) (*confirm_booking.Response, error)
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
