// Package wizard реализует пошаговый мастер записи:
// DATE -> SLOT -> SERVICE -> PHOTOS -> COMMENT -> CONFIRMATION.
// Шаги заданы закрытым перечислением с статической таблицей порядка;
// навигация NEXT/BACK/CANCEL, данные копятся в черновике клиента.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	serviceRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/service"
	slotRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/slot"
)

// Service мастер записи
type Service struct {
	drafts       *draftStore
	slots        SlotProvider
	services     ServiceProvider
	committer    Committer
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр мастера записи
func NewService(
	slots SlotProvider,
	services ServiceProvider,
	committer Committer,
	tzOffsetHours int,
	logger Logger,
) *Service {
	return &Service{
		drafts:       newDraftStore(),
		slots:        slots,
		services:     services,
		committer:    committer,
		timeProvider: &RealTimeProvider{},
		location:     time.FixedZone("master", tzOffsetHours*3600),
		logger:       logger,
	}
}

// StartBooking начинает новую сессию записи клиента. Существующий
// незавершенный черновик клиента перезаписывается.
func (s *Service) StartBooking(ctx context.Context, clientID int64) (*StepChange, error) {
	draft := &domain.BookingDraft{
		Handle:    uuid.NewString(),
		ClientID:  clientID,
		Step:      domain.StepDate,
		StartedAt: s.timeProvider.Now(),
	}
	s.drafts.put(draft)

	s.logger.Info("StartBooking: client=%d, handle=%s", clientID, draft.Handle)
	return s.stepChange(ctx, draft)
}

// Advance выполняет шаг мастера: обрабатывает действие NEXT/BACK/CANCEL.
// Ввод применяется только для NEXT и STAY - отмена и шаг назад срабатывают
// всегда, даже если тело запроса несет невалидное поле шага. Ошибки
// валидации локально восстановимы - черновик сохраняется, клиент может
// повторить ввод.
func (s *Service) Advance(ctx context.Context, clientID int64, handle string, action domain.WizardAction, input *StepInput) (*StepChange, error) {
	draft, ok := s.drafts.get(clientID)
	if !ok || draft.Handle != handle {
		return nil, ErrDraftNotFound
	}

	switch action {
	case domain.ActionCancel:
		s.drafts.delete(clientID)
		s.logger.Info("Advance: client=%d cancelled booking at step %s", clientID, draft.Step)
		return &StepChange{Handle: draft.Handle, Step: draft.Step, Cancelled: true}, nil

	case domain.ActionBack:
		// Поля предыдущего шага сбрасываются: повторный вход начинается
		// заново со свежими вариантами
		if prev, ok := draft.Step.Prev(); ok {
			draft.ClearStepData(prev)
			draft.Step = prev
		}
		return s.stepChange(ctx, draft)

	case domain.ActionStay:
		if input != nil {
			if err := s.applyInput(ctx, draft, input); err != nil {
				return nil, err
			}
		}
		return s.stepChange(ctx, draft)

	case domain.ActionNext:
		if input != nil {
			if err := s.applyInput(ctx, draft, input); err != nil {
				return nil, err
			}
		}

		if err := s.checkReadiness(draft); err != nil {
			s.logger.Warn("Advance: client=%d, step %s not ready: %v", clientID, draft.Step, err)
			return nil, err
		}

		if draft.Step == domain.StepConfirmation {
			return s.commit(ctx, draft)
		}

		next, _ := draft.Step.Next()
		draft.Step = next
		return s.stepChange(ctx, draft)

	default:
		return nil, fmt.Errorf("%w: unknown action %d", ErrInternal, action)
	}
}

// applyInput применяет ввод клиента к полю текущего шага
func (s *Service) applyInput(ctx context.Context, draft *domain.BookingDraft, input *StepInput) error {
	switch draft.Step {
	case domain.StepDate:
		if input.Date == nil {
			return nil
		}
		day := startOfDay(*input.Date, s.location)
		if day.Before(startOfDay(s.timeProvider.Now(), s.location)) {
			return ErrInvalidDate
		}
		draft.SlotDate = &day

	case domain.StepSlot:
		if input.SlotID == nil {
			return nil
		}
		// Слот перечитывается из хранилища: доступность могла измениться
		chosen, err := s.slots.GetByID(ctx, *input.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: applyInput - get slot: %v", ErrInternal, err)
		}
		if !chosen.IsAvailable {
			return ErrSlotUnavailable
		}
		draft.Slot = chosen

	case domain.StepService:
		if input.ServiceID == nil {
			return nil
		}
		chosen, err := s.services.GetByID(ctx, *input.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: applyInput - get service: %v", ErrInternal, err)
		}
		if !chosen.IsActive {
			return ErrServiceInactive
		}
		draft.Service = chosen

	case domain.StepPhotos:
		if input.AddPhoto == nil {
			return nil
		}
		// Лишние вложения отклоняются без изменения черновика
		if len(draft.Photos) >= domain.MaxPhotosPerAppointment {
			return ErrTooManyPhotos
		}
		draft.Photos = append(draft.Photos, *input.AddPhoto)

	case domain.StepComment:
		if input.Comment == nil {
			return nil
		}
		if len([]rune(*input.Comment)) > domain.MaxCommentLength {
			return ErrCommentTooLong
		}
		// Новый комментарий заменяет предыдущий
		draft.Comment = input.Comment
	}

	return nil
}

// checkReadiness проверяет готовность текущего шага перед переходом дальше.
// PHOTOS и COMMENT опциональны.
func (s *Service) checkReadiness(draft *domain.BookingDraft) error {
	switch draft.Step {
	case domain.StepDate:
		if draft.SlotDate == nil {
			return fmt.Errorf("%w: date is not chosen", ErrMissingData)
		}
	case domain.StepSlot:
		if draft.Slot == nil {
			return fmt.Errorf("%w: slot is not chosen", ErrMissingData)
		}
	case domain.StepService:
		if draft.Service == nil {
			return fmt.Errorf("%w: service is not chosen", ErrMissingData)
		}
	case domain.StepConfirmation:
		// Единственный гейт перед коммитом: слот и услуга выбраны
		if !draft.IsReadyForConfirmation() {
			return fmt.Errorf("%w: draft is not ready for confirmation", ErrMissingData)
		}
	}
	return nil
}

// commit передает черновик на коммит. При проигранной гонке за слот
// (SlotTaken) черновик сохраняется, чтобы клиент выбрал другой слот.
func (s *Service) commit(ctx context.Context, draft *domain.BookingDraft) (*StepChange, error) {
	resp, err := s.committer.Execute(ctx, draft)
	if err != nil {
		s.logger.Warn("commit: client=%d, commit failed: %v", draft.ClientID, err)
		return nil, err
	}

	s.drafts.delete(draft.ClientID)
	s.logger.Info("commit: client=%d, appointment id=%d created", draft.ClientID, resp.AppointmentID)

	return &StepChange{
		Handle:        draft.Handle,
		Step:          domain.StepConfirmation,
		Committed:     true,
		AppointmentID: resp.AppointmentID,
	}, nil
}

// stepChange собирает результат шага со свежими вариантами для отрисовки
func (s *Service) stepChange(ctx context.Context, draft *domain.BookingDraft) (*StepChange, error) {
	render := RenderState{
		SlotDate:      draft.SlotDate,
		ChosenSlot:    draft.Slot,
		ChosenService: draft.Service,
		PhotosCount:   len(draft.Photos),
		Comment:       draft.Comment,
	}

	switch draft.Step {
	case domain.StepSlot:
		if draft.SlotDate != nil {
			from := *draft.SlotDate
			to := endOfDay(from)
			slots, err := s.slots.ListAvailable(ctx, &from, &to)
			if err != nil {
				return nil, fmt.Errorf("%w: stepChange - list slots: %v", ErrInternal, err)
			}
			render.AvailableSlots = slots
		}

	case domain.StepService:
		services, err := s.services.List(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("%w: stepChange - list services: %v", ErrInternal, err)
		}
		render.Services = services
	}

	return &StepChange{
		Handle: draft.Handle,
		Step:   draft.Step,
		Render: render,
	}, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func endOfDay(dayStart time.Time) time.Time {
	return dayStart.Add(24*time.Hour - time.Nanosecond)
}
