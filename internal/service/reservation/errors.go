package reservation

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не существует
	ErrSlotNotFound = errors.New("reservation: slot not found")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("reservation: internal error")
)
