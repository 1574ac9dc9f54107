package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	slotRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/slot"
)

// Service сервис управления расписанием мастера
type Service struct {
	slotRepo     SlotRepository
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(slotRepo SlotRepository, location *time.Location, logger Logger) *Service {
	return &Service{
		slotRepo:     slotRepo,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// CreateSlot создает один свободный слот.
// Уникальность по времени начала обеспечивает БД, дубликат -> ErrSlotConflict.
func (s *Service) CreateSlot(ctx context.Context, req *CreateSlotRequest) (*SlotResponse, error) {
	now := s.timeProvider.Now()

	if err := validateInterval(req.StartTime, req.EndTime, now); err != nil {
		s.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	created, err := s.slotRepo.Create(ctx, req.StartTime, req.EndTime)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotConflict) {
			s.logger.Warn("CreateSlot: conflict for start_time=%s", req.StartTime.Format(domain.DateTimeFormat))
			return nil, ErrSlotConflict
		}
		s.logger.Error("CreateSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateSlot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: created slot id=%d start=%s", created.ID, created.StartTime.Format(domain.DateTimeFormat))
	return fromDomainSlot(created), nil
}

// GenerateDaySlots создает сетку слотов на день с фиксированным шагом.
// Конфликтующие слоты пропускаются, остальные создаются.
func (s *Service) GenerateDaySlots(ctx context.Context, req *GenerateDayRequest) (*GenerateDayResponse, error) {
	if req.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	workStart, err := parseDayTime(req.Date, req.WorkStart, s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: bad work_start: %v", ErrInvalidInput, err)
	}
	workEnd, err := parseDayTime(req.Date, req.WorkEnd, s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: bad work_end: %v", ErrInvalidInput, err)
	}
	if !workStart.Before(workEnd) {
		return nil, fmt.Errorf("%w: work_end must be after work_start", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	step := time.Duration(req.DurationMinutes) * time.Minute

	resp := &GenerateDayResponse{Created: make([]*SlotResponse, 0)}

	for start := workStart; !start.Add(step).After(workEnd); start = start.Add(step) {
		if !start.After(now) {
			resp.Skipped++
			continue
		}

		created, err := s.slotRepo.Create(ctx, start, start.Add(step))
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotConflict) {
				resp.Skipped++
				continue
			}
			s.logger.Error("GenerateDaySlots: repository error at %s: %v", start.Format(domain.DateTimeFormat), err)
			return nil, fmt.Errorf("%w: GenerateDaySlots - repository error: %v", ErrInternal, err)
		}
		resp.Created = append(resp.Created, fromDomainSlot(created))
	}

	s.logger.Info("GenerateDaySlots: date=%s created=%d skipped=%d",
		req.Date.Format(domain.DateFormat), len(resp.Created), resp.Skipped)
	return resp, nil
}

func validateInterval(start, end, now time.Time) error {
	if !start.Before(end) {
		return ErrInvalidInterval
	}
	if !start.After(now) {
		return ErrSlotInPast
	}
	return nil
}

// parseDayTime совмещает дату и время вида "15:04" в зоне мастера
func parseDayTime(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(domain.TimeFormat, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

func fromDomainSlot(s *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:          s.ID,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsAvailable: s.IsAvailable,
	}
}
