package start_booking

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/service/wizard"
)

type WizardService interface {
	StartBooking(ctx context.Context, clientID int64) (*wizard.StepChange, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
