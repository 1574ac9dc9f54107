package confirm_booking

import (
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// Response результат подтверждения черновика записи
type Response struct {
	AppointmentID  int64                    `json:"appointment_id"`
	Status         domain.AppointmentStatus `json:"status"`
	SlotID         int64                    `json:"slot_id"`
	SlotStart      time.Time                `json:"slot_start"`
	SlotEnd        time.Time                `json:"slot_end"`
	ServiceID      int64                    `json:"service_id"`
	ServiceName    string                   `json:"service_name"`
	PhotosAttached int                      `json:"photos_attached"`
}
