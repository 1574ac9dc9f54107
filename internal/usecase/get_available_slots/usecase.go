package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	slotRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/slot"
)

// UseCase use case получения свободных слотов
type UseCase struct {
	slotRepo     SlotRepository
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slots SlotRepository, location *time.Location, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:     slots,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// Execute возвращает свободные будущие слоты.
// Слоты, начинающиеся в прошлом, отбрасываются даже если помечены свободными.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()

	// 1. Вычисляем диапазон выборки
	from, to, err := uc.resolveRange(req, now)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: range validation failed: %v", err)
		return nil, err
	}

	// 2. Читаем свободные слоты
	found, err := uc.slotRepo.ListAvailable(ctx, from, to)
	if err != nil {
		if errors.Is(err, slotRepo.ErrInvalidRange) {
			return nil, ErrInvalidRange
		}
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 3. Отбрасываем прошедшие и группируем по дням
	resp := &Response{Slots: make([]Slot, 0, len(found))}
	byDate := make(map[string]int)
	dateOrder := make([]string, 0)

	for _, s := range found {
		if !s.StartTime.After(now) {
			continue
		}
		resp.Slots = append(resp.Slots, Slot{
			ID:        s.ID,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
		day := s.StartTime.In(uc.location).Format(domain.DateFormat)
		if _, ok := byDate[day]; !ok {
			dateOrder = append(dateOrder, day)
		}
		byDate[day]++
	}

	resp.Dates = make([]Date, 0, len(dateOrder))
	for _, day := range dateOrder {
		resp.Dates = append(resp.Dates, Date{Date: day, SlotsCount: byDate[day]})
	}

	// 4. В запрошенном диапазоне пусто - подсказываем ближайший свободный слот
	if len(resp.Slots) == 0 {
		uc.attachNearest(ctx, resp, now)
	}

	uc.logger.Info("GetAvailableSlots: found %d slots across %d dates", len(resp.Slots), len(resp.Dates))
	return resp, nil
}

// attachNearest ищет ближайший свободный слот вне диапазона; отсутствие - не ошибка
func (uc *UseCase) attachNearest(ctx context.Context, resp *Response, now time.Time) {
	nearest, err := uc.slotRepo.FirstAvailable(ctx)
	if err != nil {
		if !errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("GetAvailableSlots: failed to find nearest slot: %v", err)
		}
		return
	}
	if !nearest.StartTime.After(now) {
		return
	}
	resp.NearestSlot = &Slot{
		ID:        nearest.ID,
		StartTime: nearest.StartTime,
		EndTime:   nearest.EndTime,
	}
}

// resolveRange превращает запрос в пару границ для репозитория
func (uc *UseCase) resolveRange(req *Request, now time.Time) (*time.Time, *time.Time, error) {
	if req == nil {
		return nil, nil, nil
	}

	if req.Date != nil {
		day := req.Date.In(uc.location)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, uc.location)
		end := start.Add(24*time.Hour - time.Nanosecond)
		if end.Before(now) {
			return nil, nil, ErrInvalidDate
		}
		return &start, &end, nil
	}

	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, nil, ErrInvalidRange
	}
	return req.From, req.To, nil
}
