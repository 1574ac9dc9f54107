package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	appointmentRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/appointment"
)

// Service read-сторона записей: карточки, списки, курсор по необработанным
type Service struct {
	appointmentRepo AppointmentRepository
	photoRepo       PhotoRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, photoRepo PhotoRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		photoRepo:       photoRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID вместе с прикрепленными фотографиями
func (s *Service) GetByID(ctx context.Context, id int64) (*AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.hydratePhotos(ctx, appointment)

	return fromDomain(appointment), nil
}

// List возвращает страницу записей по фильтру
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	s.logger.Info("List: page=%d, per_page=%d", req.Page, req.PerPage)

	filter := domain.AppointmentsFilter{
		ClientID:  req.ClientID,
		StartFrom: req.StartFrom,
		StartTo:   req.StartTo,
	}

	if req.Status != nil {
		status := domain.AppointmentStatus(*req.Status)
		if !status.IsValid() {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, *req.Status)
		}
		filter.Status = &status
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = domain.DefaultPerPage
	}
	if perPage > domain.MaxPerPage {
		perPage = domain.MaxPerPage
	}

	found, pagination, err := s.appointmentRepo.List(ctx, filter, page, perPage)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &ListResponse{
		Appointments: make([]*AppointmentResponse, 0, len(found)),
		Pagination:   pagination,
	}
	for _, a := range found {
		resp.Appointments = append(resp.Appointments, fromDomain(a))
	}

	s.logger.Info("List: found %d appointments (total=%d)", len(found), pagination.TotalItems)
	return resp, nil
}

// GetPendingByOffset возвращает n-ю необработанную запись в порядке создания.
// Курсор для последовательного разбора очереди мастером.
func (s *Service) GetPendingByOffset(ctx context.Context, offset int) (*PendingCursorResponse, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must be non-negative", ErrInvalidInput)
	}

	total, err := s.appointmentRepo.CountByStatus(ctx, domain.StatusPending)
	if err != nil {
		s.logger.Error("GetPendingByOffset: failed to count pending: %v", err)
		return nil, fmt.Errorf("%w: GetPendingByOffset - count error: %v", ErrInternal, err)
	}

	// Очередь могла сократиться между запросами, курсор заворачивается к началу
	if total == 0 {
		return &PendingCursorResponse{Offset: 0, Total: 0}, nil
	}
	if offset >= total {
		offset = 0
	}

	appointment, err := s.appointmentRepo.GetPendingByOffset(ctx, offset)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return &PendingCursorResponse{Offset: 0, Total: total}, nil
		}
		s.logger.Error("GetPendingByOffset: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetPendingByOffset - repository error: %v", ErrInternal, err)
	}

	s.hydratePhotos(ctx, appointment)

	return &PendingCursorResponse{
		Appointment: fromDomain(appointment),
		Offset:      offset,
		Total:       total,
	}, nil
}

// hydratePhotos подгружает фотографии записи; ошибка не фатальна для карточки
func (s *Service) hydratePhotos(ctx context.Context, appointment *domain.Appointment) {
	photos, err := s.photoRepo.GetByAppointmentID(ctx, appointment.ID)
	if err != nil {
		s.logger.Warn("hydratePhotos: failed to load photos for appointment id=%d: %v", appointment.ID, err)
		return
	}
	appointment.Photos = photos
}
