package confirm_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	"github.com/nkrasko/BM-AppointmentService/internal/service/reservation"
)

// UseCase use case подтверждения черновика: резерв слота + создание записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	reserver        SlotReserver
	photoRepo       PhotoRepository
	notifier        Notifier
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	reserver SlotReserver,
	photoRepo PhotoRepository,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		reserver:        reserver,
		photoRepo:       photoRepo,
		notifier:        notifier,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute подтверждает черновик: атомарно резервирует слот и создает запись.
// Слот либо достается ровно одному клиенту, либо возвращается ErrSlotTaken.
// При ошибке создания записи резерв компенсируется освобождением слота.
func (uc *UseCase) Execute(ctx context.Context, draft *domain.BookingDraft) (*Response, error) {
	// 1. Проверяем готовность черновика
	if draft == nil || !draft.IsReadyForConfirmation() {
		uc.logger.Warn("ConfirmBooking: draft is not ready for confirmation")
		return nil, ErrMissingData
	}

	slot := draft.Slot
	service := draft.Service

	uc.logger.Info("ConfirmBooking: client=%d, slot=%d (%s), service=%d",
		draft.ClientID, slot.ID, slot.StartTime.Format(domain.DateTimeFormat), service.ID)

	// 2. Атомарно захватываем слот (условный UPDATE, проигравший получает 0 строк)
	won, err := uc.reserver.Reserve(ctx, slot.ID)
	if err != nil {
		// Слот из черновика успели удалить (например, перегенерацией расписания)
		if errors.Is(err, reservation.ErrSlotNotFound) {
			uc.logger.Warn("ConfirmBooking: slot id=%d no longer exists", slot.ID)
			return nil, ErrSlotGone
		}
		uc.logger.Error("ConfirmBooking: failed to reserve slot id=%d: %v", slot.ID, err)
		return nil, fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
	}
	if !won {
		uc.logger.Warn("ConfirmBooking: slot id=%d already taken", slot.ID)
		return nil, ErrSlotTaken
	}

	// 3. Создаем запись в статусе pending
	appointment := &domain.Appointment{
		ClientID:  draft.ClientID,
		SlotID:    slot.ID,
		ServiceID: service.ID,
		Status:    domain.StatusPending,
		Comment:   draft.Comment,
		// Денормализация для списков и уведомлений
		ServiceName: service.Name,
		SlotStart:   slot.StartTime,
		SlotEnd:     slot.EndTime,
	}

	created, err := uc.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		uc.logger.Error("ConfirmBooking: failed to create appointment: %v", err)
		// Компенсация: возвращаем слот, чтобы он не завис занятым без записи
		if relErr := uc.reserver.Release(ctx, slot.ID); relErr != nil {
			uc.logger.Error("ConfirmBooking: failed to release slot id=%d after create failure: %v", slot.ID, relErr)
		}
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.IncAppointmentCreated()
	}

	// 4. Прикрепляем фотографии (best-effort, запись уже создана)
	photosAttached := 0
	if len(draft.Photos) > 0 {
		if err := uc.photoRepo.Attach(ctx, created.ID, draft.Photos); err != nil {
			uc.logger.Error("ConfirmBooking: failed to attach %d photos to appointment id=%d: %v",
				len(draft.Photos), created.ID, err)
		} else {
			photosAttached = len(draft.Photos)
		}
	}

	// 5. Уведомляем мастера о новой заявке (best-effort)
	uc.notifyMaster(ctx, created)

	uc.logger.Info("ConfirmBooking: successfully created appointment id=%d", created.ID)

	return &Response{
		AppointmentID:  created.ID,
		Status:         created.Status,
		SlotID:         created.SlotID,
		SlotStart:      created.SlotStart,
		SlotEnd:        created.SlotEnd,
		ServiceID:      created.ServiceID,
		ServiceName:    created.ServiceName,
		PhotosAttached: photosAttached,
	}, nil
}

// notifyMaster отправляет мастеру уведомление о новой заявке с числом необработанных
func (uc *UseCase) notifyMaster(ctx context.Context, appointment *domain.Appointment) {
	pendingCount, err := uc.appointmentRepo.CountByStatus(ctx, domain.StatusPending)
	if err != nil {
		uc.logger.Warn("ConfirmBooking: failed to count pending appointments: %v", err)
		pendingCount = 0
	}

	text := fmt.Sprintf(
		"Новая заявка #%d: %s, %s. Необработанных заявок: %d",
		appointment.ID,
		appointment.ServiceName,
		appointment.SlotStart.Format(domain.DateTimeFormat),
		pendingCount,
	)

	if err := uc.notifier.SendToMaster(ctx, "new_appointment", text); err != nil {
		uc.logger.Warn("ConfirmBooking: failed to notify master about appointment id=%d: %v",
			appointment.ID, err)
	}
}
