package wizard

import (
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// StepInput данные, привязанные к текущему шагу мастера записи.
// Заполняется только поле текущего шага; остальные игнорируются.
type StepInput struct {
	Date      *time.Time // DATE: выбранный день
	SlotID    *int64     // SLOT: выбранный слот
	ServiceID *int64     // SERVICE: выбранная услуга
	AddPhoto  *string    // PHOTOS: file_id добавляемой фотографии
	Comment   *string    // COMMENT: текст, заменяет предыдущий
}

// RenderState свежевычисленные данные для отрисовки шага внешним
// презентационным слоем (чат-ботом). Списки никогда не кэшируются в
// черновике.
type RenderState struct {
	SlotDate       *time.Time
	AvailableSlots []*domain.Slot    // заполняется на шаге SLOT
	Services       []*domain.Service // заполняется на шаге SERVICE
	ChosenSlot     *domain.Slot
	ChosenService  *domain.Service
	PhotosCount    int
	Comment        *string
}

// StepChange результат шага мастера записи
type StepChange struct {
	Handle        string
	Step          domain.WizardStep
	Cancelled     bool
	Committed     bool
	AppointmentID int64
	Render        RenderState
}
