package lifecycle

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("lifecycle: appointment not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса.
	// Переход никогда не игнорируется молча: мастер, действующий по
	// устаревшим данным, получает явный сигнал с текущим статусом.
	ErrInvalidTransition = errors.New("lifecycle: invalid status transition")

	// ErrInvalidStatus возвращается при неизвестном целевом статусе
	ErrInvalidStatus = errors.New("lifecycle: unknown appointment status")

	// ErrInternal возвращается при ошибках хранилища или освобождения слота
	ErrInternal = errors.New("lifecycle: internal error")
)
