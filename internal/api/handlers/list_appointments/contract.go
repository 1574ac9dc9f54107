package list_appointments

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/service/appointments"
)

type AppointmentsService interface {
	List(ctx context.Context, req *appointments.ListRequest) (*appointments.ListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
