package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	serviceRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/service"
	"github.com/nkrasko/BM-AppointmentService/pkg/ptr"
)

// Service сервис управления каталогом услуг мастера
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Create создает новую услугу в каталоге
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*ServiceResponse, error) {
	if err := validateCreate(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, &domain.Service{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created service id=%d name=%q", created.ID, created.Name)
	return fromDomain(created), nil
}

// GetByID получает услугу по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*ServiceResponse, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return fromDomain(service), nil
}

// List возвращает услуги каталога.
// При activeOnly=true скрытые услуги не попадают в ответ.
func (s *Service) List(ctx context.Context, activeOnly bool) (*ListResponse, error) {
	found, err := s.serviceRepo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &ListResponse{Services: make([]*ServiceResponse, 0, len(found))}
	for _, svc := range found {
		resp.Services = append(resp.Services, fromDomain(svc))
	}
	return resp, nil
}

// Update частично обновляет услугу
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*ServiceResponse, error) {
	if err := validateUpdate(req); err != nil {
		s.logger.Warn("Update: validation failed for service id=%d: %v", id, err)
		return nil, err
	}

	update := domain.ServiceUpdate{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        req.IsActive,
	}

	if err := s.serviceRepo.Update(ctx, id, update); err != nil {
		switch {
		case errors.Is(err, serviceRepo.ErrServiceNotFound):
			s.logger.Warn("Update: service id=%d not found", id)
			return nil, ErrServiceNotFound
		case errors.Is(err, serviceRepo.ErrEmptyUpdate):
			return nil, ErrEmptyUpdate
		default:
			s.logger.Error("Update: repository error for service id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Update: updated service id=%d", id)
	return s.GetByID(ctx, id)
}

// Deactivate скрывает услугу из каталога, существующие записи не трогает
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	_, err := s.Update(ctx, id, &UpdateRequest{IsActive: ptr.Ptr(false)})
	return err
}

func validateCreate(req *CreateRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	return nil
}

func validateUpdate(req *UpdateRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if req.Price != nil && *req.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	return nil
}
