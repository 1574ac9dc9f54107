package create_slot

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/service/schedule"
)

type ScheduleService interface {
	CreateSlot(ctx context.Context, req *schedule.CreateSlotRequest) (*schedule.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
