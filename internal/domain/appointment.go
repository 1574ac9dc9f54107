package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusRejected  AppointmentStatus = "rejected"
)

// ValidStatuses все допустимые статусы записи
var ValidStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

// IsValid returns true if the status is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	for _, known := range ValidStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are permitted from the status
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

// HoldsSlot returns true if an appointment in this status keeps its slot reserved
func (s AppointmentStatus) HoldsSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// allowedTransitions статическая таблица переходов статусов.
// completed достигается только из confirmed внешним батч-процессом.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusRejected, StatusCompleted},
}

// CanTransitionTo returns true if the transition from s to next is allowed
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Appointment represents a client's appointment with the master
type Appointment struct {
	ID        int64
	ClientID  int64
	SlotID    int64
	ServiceID int64
	Comment   *string
	Status    AppointmentStatus

	// Denormalized data, hydrated from joined slot and service rows
	ServiceName string
	SlotStart   time.Time
	SlotEnd     time.Time
	Photos      []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still holds its slot
func (a *Appointment) IsActive() bool {
	return a.Status.HoldsSlot()
}

// AppointmentsFilter фильтр для выборки записей
type AppointmentsFilter struct {
	ClientID  *int64             // Фильтр по клиенту (опционально)
	Status    *AppointmentStatus // Фильтр по статусу (опционально)
	StartFrom *time.Time         // Начало периода по времени слота (опционально)
	StartTo   *time.Time         // Конец периода по времени слота (опционально)
}
