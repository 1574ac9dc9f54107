package get_available_slots

import "errors"

var (
	// ErrInvalidDate возвращается при дате в прошлом или некорректном формате
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRange возвращается, когда from позже to
	ErrInvalidRange = errors.New("invalid time range")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
