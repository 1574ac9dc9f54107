package schedule

import "errors"

var (
	// ErrInvalidInterval возвращается, когда конец слота не позже начала
	ErrInvalidInterval = errors.New("slot end must be after start")

	// ErrSlotInPast возвращается при попытке создать слот в прошлом
	ErrSlotInPast = errors.New("slot starts in the past")

	// ErrSlotConflict возвращается, когда слот с таким началом уже существует
	ErrSlotConflict = errors.New("slot with this start time already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
