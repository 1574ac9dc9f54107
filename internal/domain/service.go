package domain

// Service represents an entry of the master's service catalog
type Service struct {
	ID              int64
	Name            string
	Description     *string
	Price           float64
	DurationMinutes int
	IsActive        bool
}

// ServiceUpdate частичное обновление услуги (nil-поля не меняются)
type ServiceUpdate struct {
	Name            *string
	Description     *string
	Price           *float64
	DurationMinutes *int
	IsActive        *bool
}
