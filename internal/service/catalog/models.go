package catalog

import "github.com/nkrasko/BM-AppointmentService/internal/domain"

// CreateRequest запрос на создание услуги
type CreateRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

// UpdateRequest частичное обновление услуги (nil-поля не меняются)
type UpdateRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

// ServiceResponse представление услуги для внешних слоев
type ServiceResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	IsActive        bool    `json:"is_active"`
}

// ListResponse список услуг каталога
type ListResponse struct {
	Services []*ServiceResponse `json:"services"`
}

func fromDomain(s *domain.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
	}
}
