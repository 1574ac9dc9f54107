package domain

import "time"

// Slot represents a bookable time interval
type Slot struct {
	ID          int64
	StartTime   time.Time
	EndTime     time.Time
	IsAvailable bool
}

// IsValid returns true if the slot interval is well-formed
func (s *Slot) IsValid() bool {
	return s.StartTime.Before(s.EndTime)
}

// IsPast returns true if the slot has already started relative to now
func (s *Slot) IsPast(now time.Time) bool {
	return !s.StartTime.After(now)
}

// Duration returns the slot length
func (s *Slot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
