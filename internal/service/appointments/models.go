package appointments

import (
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// ListRequest параметры выборки записей
type ListRequest struct {
	ClientID  *int64
	Status    *string
	StartFrom *time.Time
	StartTo   *time.Time
	Page      int
	PerPage   int
}

// AppointmentResponse представление записи для внешних слоев
type AppointmentResponse struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"client_id"`
	SlotID      int64     `json:"slot_id"`
	ServiceID   int64     `json:"service_id"`
	ServiceName string    `json:"service_name"`
	SlotStart   time.Time `json:"slot_start"`
	SlotEnd     time.Time `json:"slot_end"`
	Status      string    `json:"status"`
	Comment     *string   `json:"comment,omitempty"`
	Photos      []string  `json:"photos,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListResponse страница записей с метаданными пагинации
type ListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Pagination   domain.Pagination      `json:"pagination"`
}

// PendingCursorResponse запись из очереди необработанных с позицией курсора
type PendingCursorResponse struct {
	Appointment *AppointmentResponse `json:"appointment"`
	Offset      int                  `json:"offset"`
	Total       int                  `json:"total"`
}

func fromDomain(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          a.ID,
		ClientID:    a.ClientID,
		SlotID:      a.SlotID,
		ServiceID:   a.ServiceID,
		ServiceName: a.ServiceName,
		SlotStart:   a.SlotStart,
		SlotEnd:     a.SlotEnd,
		Status:      string(a.Status),
		Comment:     a.Comment,
		Photos:      a.Photos,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
