package reservation

import (
	"context"
	"errors"
	"fmt"

	slotRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/slot"
)

// Service атомарно захватывает и освобождает слоты. Это единственная
// граница корректности, предотвращающая двойное бронирование: Reserve
// опирается на условный UPDATE в хранилище (rows-affected=1), поэтому из
// конкурентных вызовов по одному слоту ровно один получает true.
type Service struct {
	slotRepo SlotRepository
	logger   Logger
	metrics  Metrics
}

// NewService создает новый экземпляр сервиса резервирования
func NewService(slotRepo SlotRepository, logger Logger, metrics Metrics) *Service {
	return &Service{
		slotRepo: slotRepo,
		logger:   logger,
		metrics:  metrics,
	}
}

// Reserve пытается захватить слот. Возвращает true, только если слот был
// доступен в момент вызова; false - если его уже забрали.
// Запись не может быть создана без предшествующего успешного Reserve.
func (s *Service) Reserve(ctx context.Context, slotID int64) (bool, error) {
	reserved, err := s.slotRepo.SetAvailability(ctx, slotID, false)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("Reserve: slot id=%d not found", slotID)
			return false, ErrSlotNotFound
		}
		s.logger.Error("Reserve: repository error for slot id=%d: %v", slotID, err)
		return false, fmt.Errorf("%w: Reserve - repository error: %v", ErrInternal, err)
	}

	if reserved {
		s.logger.Info("Reserve: slot id=%d reserved", slotID)
		s.incReservation("won")
	} else {
		s.logger.Info("Reserve: slot id=%d already taken", slotID)
		s.incReservation("lost")
	}

	return reserved, nil
}

// Release возвращает слот в доступное состояние. Идемпотентен:
// освобождение уже свободного слота - no-op без ошибки.
func (s *Service) Release(ctx context.Context, slotID int64) error {
	changed, err := s.slotRepo.SetAvailability(ctx, slotID, true)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("Release: slot id=%d not found", slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("Release: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	if changed {
		s.logger.Info("Release: slot id=%d released", slotID)
	} else {
		s.logger.Info("Release: slot id=%d was already available", slotID)
	}

	return nil
}

func (s *Service) incReservation(outcome string) {
	if s.metrics != nil {
		s.metrics.IncReservation(outcome)
	}
}
