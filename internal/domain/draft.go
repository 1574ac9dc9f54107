package domain

import "time"

// WizardStep represents a step of the booking wizard
type WizardStep int

const (
	StepDate WizardStep = iota
	StepSlot
	StepService
	StepPhotos
	StepComment
	StepConfirmation
)

// stepOrder фиксированный порядок шагов мастера записи
var stepOrder = []WizardStep{
	StepDate,
	StepSlot,
	StepService,
	StepPhotos,
	StepComment,
	StepConfirmation,
}

var stepNames = map[WizardStep]string{
	StepDate:         "date",
	StepSlot:         "slot",
	StepService:      "service",
	StepPhotos:       "photos",
	StepComment:      "comment",
	StepConfirmation: "confirmation",
}

// String returns the wire name of the step
func (s WizardStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Next returns the next step in order; ok=false at the last step
func (s WizardStep) Next() (WizardStep, bool) {
	for i, step := range stepOrder {
		if step == s && i+1 < len(stepOrder) {
			return stepOrder[i+1], true
		}
	}
	return s, false
}

// Prev returns the previous step in order; ok=false at the first step
func (s WizardStep) Prev() (WizardStep, bool) {
	for i, step := range stepOrder {
		if step == s && i > 0 {
			return stepOrder[i-1], true
		}
	}
	return s, false
}

// WizardAction represents a navigation action of the booking wizard
type WizardAction int

const (
	ActionCancel WizardAction = 0
	ActionNext   WizardAction = 1
	ActionBack   WizardAction = -1
	// ActionStay применяет ввод и остается на текущем шаге,
	// например для добавления нескольких фото подряд
	ActionStay WizardAction = 2
)

// BookingDraft is the transient per-client state of an in-progress booking.
// It is never persisted; at most one draft exists per client.
type BookingDraft struct {
	Handle   string
	ClientID int64
	Step     WizardStep

	SlotDate *time.Time
	Slot     *Slot
	Service  *Service
	Photos   []string
	Comment  *string

	StartedAt time.Time
}

// IsReadyForConfirmation is the single gating invariant before commit
func (d *BookingDraft) IsReadyForConfirmation() bool {
	return d.Slot != nil && d.Service != nil
}

// ClearStepData сбрасывает данные шага, чтобы повторный вход начинался заново
func (d *BookingDraft) ClearStepData(step WizardStep) {
	switch step {
	case StepDate:
		d.SlotDate = nil
	case StepSlot:
		d.Slot = nil
	case StepService:
		d.Service = nil
	case StepPhotos:
		d.Photos = nil
	case StepComment:
		d.Comment = nil
	}
}
