package get_available_slots

import "time"

// Request модель запроса на получение свободных слотов.
// Date ограничивает выборку одним днем; From/To задают произвольный диапазон.
// Если указан Date, From/To игнорируются.
type Request struct {
	Date *time.Time
	From *time.Time
	To   *time.Time
}

// Response модель ответа со списком свободных слотов.
// NearestSlot подсказывает ближайший свободный слот, когда в запрошенном
// диапазоне ничего не нашлось.
type Response struct {
	Slots       []Slot `json:"slots"`
	Dates       []Date `json:"dates"`
	NearestSlot *Slot  `json:"nearest_slot,omitempty"`
}

// Slot модель свободного слота
type Slot struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Date день, на который есть хотя бы один свободный слот
type Date struct {
	Date       string `json:"date"`
	SlotsCount int    `json:"slots_count"`
}
