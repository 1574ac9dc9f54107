package wizard

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновик не найден или handle устарел
	ErrDraftNotFound = errors.New("wizard: booking draft not found")

	// ErrMissingData возвращается, когда текущий шаг не готов к переходу дальше
	ErrMissingData = errors.New("wizard: missing data for current step")

	// ErrInvalidDate возвращается при выборе даты в прошлом
	ErrInvalidDate = errors.New("wizard: date is in the past")

	// ErrSlotNotFound возвращается, когда выбранный слот не существует
	ErrSlotNotFound = errors.New("wizard: slot not found")

	// ErrSlotUnavailable возвращается, когда выбранный слот уже занят
	ErrSlotUnavailable = errors.New("wizard: slot is not available")

	// ErrServiceNotFound возвращается, когда выбранная услуга не существует
	ErrServiceNotFound = errors.New("wizard: service not found")

	// ErrServiceInactive возвращается при выборе отключенной услуги
	ErrServiceInactive = errors.New("wizard: service is not active")

	// ErrTooManyPhotos возвращается при превышении лимита фотографий;
	// черновик при этом не изменяется
	ErrTooManyPhotos = errors.New("wizard: photo limit exceeded")

	// ErrCommentTooLong возвращается при слишком длинном комментарии
	ErrCommentTooLong = errors.New("wizard: comment is too long")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("wizard: internal error")
)
