package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза уведомлений
	ErrInvalidResponse = errors.New("notifier client: invalid response")

	// ErrServiceDegraded возвращается при недоступности шлюза уведомлений.
	// Уведомления best-effort: вызывающий код логирует и продолжает работу.
	ErrServiceDegraded = errors.New("notifier unavailable: graceful degradation applied")
)
