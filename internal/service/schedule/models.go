package schedule

import "time"

// CreateSlotRequest запрос на создание одного слота
type CreateSlotRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// GenerateDayRequest запрос на генерацию слотов на день с фиксированным шагом
type GenerateDayRequest struct {
	Date            time.Time `json:"date"`
	WorkStart       string    `json:"work_start"`       // "10:00"
	WorkEnd         string    `json:"work_end"`         // "19:00"
	DurationMinutes int       `json:"duration_minutes"` // шаг сетки
}

// SlotResponse представление слота для внешних слоев
type SlotResponse struct {
	ID          int64     `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
}

// GenerateDayResponse результат генерации: созданные слоты и число пропущенных конфликтов
type GenerateDayResponse struct {
	Created []*SlotResponse `json:"created"`
	Skipped int             `json:"skipped"`
}
