package lifecycle

import "github.com/nkrasko/BM-AppointmentService/internal/domain"

// EffectSummary итог выполненного перехода статуса
type EffectSummary struct {
	AppointmentID      int64
	From               domain.AppointmentStatus
	To                 domain.AppointmentStatus
	SlotReleased       bool
	RemindersScheduled int
	RemindersCancelled int
	NotifiedClient     bool
	NotifiedMaster     bool
}
