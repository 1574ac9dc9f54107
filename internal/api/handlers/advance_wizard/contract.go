package advance_wizard

import (
	"context"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/internal/service/wizard"
)

type WizardService interface {
	Advance(ctx context.Context, clientID int64, handle string, action domain.WizardAction, input *wizard.StepInput) (*wizard.StepChange, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
