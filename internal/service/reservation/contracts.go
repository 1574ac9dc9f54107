package reservation

import "context"

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	SetAvailability(ctx context.Context, id int64, available bool) (bool, error)
}

// Metrics интерфейс счётчиков резервирования
type Metrics interface {
	IncReservation(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
