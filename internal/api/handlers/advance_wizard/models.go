package advance_wizard

import (
	"fmt"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/internal/service/wizard"
)

// AdvanceRequest HTTP запрос на шаг мастера записи.
// Action: 1 - вперед, -1 - назад, 0 - отмена, 2 - остаться на шаге.
type AdvanceRequest struct {
	Handle    string  `json:"handle"`
	Action    int     `json:"action"`
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD, шаг DATE
	SlotID    *int64  `json:"slot_id,omitempty"`    // шаг SLOT
	ServiceID *int64  `json:"service_id,omitempty"` // шаг SERVICE
	AddPhoto  *string `json:"add_photo,omitempty"`  // file_id, шаг PHOTOS
	Comment   *string `json:"comment,omitempty"`    // шаг COMMENT
}

// ToAction валидирует и конвертирует код действия
func (r *AdvanceRequest) ToAction() (domain.WizardAction, error) {
	switch r.Action {
	case int(domain.ActionNext):
		return domain.ActionNext, nil
	case int(domain.ActionBack):
		return domain.ActionBack, nil
	case int(domain.ActionCancel):
		return domain.ActionCancel, nil
	case int(domain.ActionStay):
		return domain.ActionStay, nil
	default:
		return 0, fmt.Errorf("unknown action code %d", r.Action)
	}
}

// ToStepInput конвертирует HTTP запрос во входные данные шага
func (r *AdvanceRequest) ToStepInput() (*wizard.StepInput, error) {
	input := &wizard.StepInput{
		SlotID:    r.SlotID,
		ServiceID: r.ServiceID,
		AddPhoto:  r.AddPhoto,
		Comment:   r.Comment,
	}
	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		input.Date = &date
	}
	return input, nil
}

// AdvanceResponse HTTP ответ на шаг мастера записи
type AdvanceResponse struct {
	Handle        string      `json:"handle"`
	Step          string      `json:"step"`
	Cancelled     bool        `json:"cancelled,omitempty"`
	Committed     bool        `json:"committed,omitempty"`
	AppointmentID int64       `json:"appointment_id,omitempty"`
	Render        RenderState `json:"render"`
}

// RenderState данные для отрисовки текущего шага
type RenderState struct {
	SlotDate       *string       `json:"slot_date,omitempty"`
	AvailableSlots []SlotView    `json:"available_slots,omitempty"`
	Services       []ServiceView `json:"services,omitempty"`
	ChosenSlot     *SlotView     `json:"chosen_slot,omitempty"`
	ChosenService  *ServiceView  `json:"chosen_service,omitempty"`
	PhotosCount    int           `json:"photos_count"`
	Comment        *string       `json:"comment,omitempty"`
}

// SlotView краткое представление слота
type SlotView struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ServiceView краткое представление услуги
type ServiceView struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

// FromStepChange конвертирует результат сервиса в HTTP ответ
func FromStepChange(change *wizard.StepChange) *AdvanceResponse {
	resp := &AdvanceResponse{
		Handle:        change.Handle,
		Step:          change.Step.String(),
		Cancelled:     change.Cancelled,
		Committed:     change.Committed,
		AppointmentID: change.AppointmentID,
		Render: RenderState{
			PhotosCount: change.Render.PhotosCount,
			Comment:     change.Render.Comment,
		},
	}
	if change.Render.SlotDate != nil {
		date := change.Render.SlotDate.Format(domain.DateFormat)
		resp.Render.SlotDate = &date
	}
	for _, s := range change.Render.AvailableSlots {
		resp.Render.AvailableSlots = append(resp.Render.AvailableSlots, slotView(s))
	}
	for _, svc := range change.Render.Services {
		resp.Render.Services = append(resp.Render.Services, serviceView(svc))
	}
	if change.Render.ChosenSlot != nil {
		v := slotView(change.Render.ChosenSlot)
		resp.Render.ChosenSlot = &v
	}
	if change.Render.ChosenService != nil {
		v := serviceView(change.Render.ChosenService)
		resp.Render.ChosenService = &v
	}
	return resp
}

func slotView(s *domain.Slot) SlotView {
	return SlotView{ID: s.ID, StartTime: s.StartTime, EndTime: s.EndTime}
}

func serviceView(s *domain.Service) ServiceView {
	return ServiceView{ID: s.ID, Name: s.Name, Price: s.Price, DurationMinutes: s.DurationMinutes}
}
