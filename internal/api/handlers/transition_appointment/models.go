package transition_appointment

import "github.com/nkrasko/BM-AppointmentService/internal/service/lifecycle"

// TransitionRequest HTTP запрос на смену статуса записи
type TransitionRequest struct {
	Status string `json:"status"`
}

// TransitionResponse итог выполненного перехода
type TransitionResponse struct {
	AppointmentID      int64  `json:"appointment_id"`
	From               string `json:"from"`
	To                 string `json:"to"`
	SlotReleased       bool   `json:"slot_released"`
	RemindersScheduled int    `json:"reminders_scheduled"`
	RemindersCancelled int    `json:"reminders_cancelled"`
}

// FromEffectSummary конвертирует итог перехода в HTTP ответ
func FromEffectSummary(summary *lifecycle.EffectSummary) *TransitionResponse {
	return &TransitionResponse{
		AppointmentID:      summary.AppointmentID,
		From:               string(summary.From),
		To:                 string(summary.To),
		SlotReleased:       summary.SlotReleased,
		RemindersScheduled: summary.RemindersScheduled,
		RemindersCancelled: summary.RemindersCancelled,
	}
}
