package generate_slots

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/service/schedule"
)

type ScheduleService interface {
	GenerateDaySlots(ctx context.Context, req *schedule.GenerateDayRequest) (*schedule.GenerateDayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
