package get_pending_appointment

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/service/appointments"
)

type AppointmentsService interface {
	GetPendingByOffset(ctx context.Context, offset int) (*appointments.PendingCursorResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
