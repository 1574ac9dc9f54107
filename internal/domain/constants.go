package domain

import "time"

// Booking business constants
const (
	// MaxPhotosPerAppointment максимум прикрепляемых фотографий к записи
	MaxPhotosPerAppointment = 9

	// MaxCommentLength максимальная длина комментария клиента
	MaxCommentLength = 1000

	// LongLeadTime напоминание за сутки до начала слота
	LongLeadTime = 24 * time.Hour

	// ShortLeadTime напоминание за час до начала слота
	ShortLeadTime = 1 * time.Hour

	// DefaultRebuildWindowWeeks окно восстановления напоминаний при старте
	DefaultRebuildWindowWeeks = 12

	// DefaultTimezoneOffsetHours фиксированное смещение времени мастера (MSK)
	DefaultTimezoneOffsetHours = 3

	// DefaultPerPage размер страницы списков по умолчанию
	DefaultPerPage = 10

	// MaxPerPage предельный размер страницы
	MaxPerPage = 1000
)

// Time format constants
const (
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	TimeFormat     = "15:04"            // HH:MM
	DateTimeFormat = "2006-01-02 15:04" // YYYY-MM-DD HH:MM
)
