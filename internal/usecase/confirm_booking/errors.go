package confirm_booking

import "errors"

var (
	ErrMissingData = errors.New("confirm_booking.usecase: draft is not ready for confirmation")
	ErrSlotTaken   = errors.New("confirm_booking.usecase: slot already taken")
	ErrSlotGone    = errors.New("confirm_booking.usecase: slot no longer exists")
	ErrInternal    = errors.New("confirm_booking.usecase: internal error")
)
