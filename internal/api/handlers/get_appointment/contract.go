package get_appointment

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/service/appointments"
)

type AppointmentsService interface {
	GetByID(ctx context.Context, id int64) (*appointments.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
