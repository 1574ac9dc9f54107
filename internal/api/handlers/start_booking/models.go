package start_booking

import (
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/internal/service/wizard"
)

// StartBookingResponse HTTP ответ на запуск мастера записи
type StartBookingResponse struct {
	Handle string      `json:"handle"`
	Step   string      `json:"step"`
	Render RenderState `json:"render"`
}

// RenderState данные для отрисовки текущего шага
type RenderState struct {
	SlotDate       *string       `json:"slot_date,omitempty"`
	AvailableSlots []SlotView    `json:"available_slots,omitempty"`
	Services       []ServiceView `json:"services,omitempty"`
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
func FromStepChange(change *wizard.StepChange) *StartBookingResponse {
	resp := &StartBookingResponse{
		Handle: change.Handle,
		Step:   change.Step.String(),
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
		resp.Render.AvailableSlots = append(resp.Render.AvailableSlots, SlotView{
			ID:        s.ID,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}
	for _, svc := range change.Render.Services {
		resp.Render.Services = append(resp.Render.Services, ServiceView{
			ID:              svc.ID,
			Name:            svc.Name,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	return resp
}
