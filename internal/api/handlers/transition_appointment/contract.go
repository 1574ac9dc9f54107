package transition_appointment

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/internal/service/lifecycle"
)

type LifecycleService interface {
	Transition(ctx context.Context, appointmentID int64, newStatus domain.AppointmentStatus) (*lifecycle.EffectSummary, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
