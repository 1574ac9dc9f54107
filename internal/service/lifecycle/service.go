package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	appointmentRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/appointment"
)

// Тексты уведомлений (рендеринг клавиатур и форматирование списка - на
// стороне чат-бота, сюда идет только содержимое)
const (
	msgConfirmedToClient = "Ваша запись на %s подтверждена мастером"
	msgRejectedToClient  = "К сожалению, мастер отклонил вашу запись на %s"
	msgCancelledToMaster = "Клиент отменил запись на %s"
)

// Service управляет жизненным циклом записи: валидирует переходы статусов
// по таблице, выполняет запись в хранилище и побочные эффекты
// (освобождение слота, напоминания, уведомления).
type Service struct {
	appointmentRepo AppointmentRepository
	slots           SlotReleaser
	reminders       ReminderScheduler
	notifier        Notifier
	txManager       TransactionManager
	locks           *keyedMutex
	location        *time.Location
	logger          Logger
	metrics         Metrics
}

// NewService создает новый экземпляр сервиса жизненного цикла записей
func NewService(
	appointmentRepo AppointmentRepository,
	slots SlotReleaser,
	reminders ReminderScheduler,
	notifier Notifier,
	txManager TransactionManager,
	tzOffsetHours int,
	logger Logger,
	metrics Metrics,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		slots:           slots,
		reminders:       reminders,
		notifier:        notifier,
		txManager:       txManager,
		locks:           newKeyedMutex(),
		location:        time.FixedZone("master", tzOffsetHours*3600),
		logger:          logger,
		metrics:         metrics,
	}
}

// Transition - единственная точка входа для смены статуса записи.
// Переходы по одной записи сериализуются: локальная блокировка по id плюс
// compare-and-swap запись статуса гарантируют, что из конкурентных попыток
// сработает ровно одна, и слот не будет освобожден дважды.
func (s *Service) Transition(ctx context.Context, appointmentID int64, newStatus domain.AppointmentStatus) (*EffectSummary, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	unlock := s.locks.lock(appointmentID)
	defer unlock()

	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Transition: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Transition: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	from := appointment.Status
	if !from.CanTransitionTo(newStatus) {
		s.logger.Warn("Transition: appointment id=%d, transition %s -> %s is not allowed",
			appointmentID, from, newStatus)
		return nil, fmt.Errorf("%w: appointment id=%d is already %s", ErrInvalidTransition, appointmentID, from)
	}

	summary := &EffectSummary{
		AppointmentID: appointmentID,
		From:          from,
		To:            newStatus,
	}

	releaseSlot := from.HoldsSlot() && !newStatus.HoldsSlot() && newStatus != domain.StatusCompleted

	// CAS-запись статуса и освобождение слота выполняются в одной
	// сериализуемой транзакции: проигравший конкурентный переход не
	// доберется до освобождения слота.
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		changed, err := s.appointmentRepo.UpdateStatusFrom(txCtx, appointmentID, from, newStatus)
		if err != nil {
			return fmt.Errorf("%w: Transition - update status: %v", ErrInternal, err)
		}
		if !changed {
			// Статус успел измениться конкурентным переходом
			return fmt.Errorf("%w: appointment id=%d changed concurrently", ErrInvalidTransition, appointmentID)
		}

		if releaseSlot {
			if err := s.slots.Release(txCtx, appointment.SlotID); err != nil {
				return fmt.Errorf("%w: Transition - release slot id=%d: %v", ErrInternal, appointment.SlotID, err)
			}
			summary.SlotReleased = true
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Transition: appointment id=%d, %s -> %s failed: %v", appointmentID, from, newStatus, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncTransition(string(newStatus))
	}

	// Побочные эффекты вне транзакции: напоминания и уведомления
	s.applyEffects(ctx, appointment, from, newStatus, summary)

	s.logger.Info("Transition: appointment id=%d, %s -> %s (slot released=%v, reminders +%d/-%d)",
		appointmentID, from, newStatus, summary.SlotReleased,
		summary.RemindersScheduled, summary.RemindersCancelled)

	return summary, nil
}

func (s *Service) applyEffects(ctx context.Context, appointment *domain.Appointment, from, to domain.AppointmentStatus, summary *EffectSummary) {
	slotStart := appointment.SlotStart.In(s.location).Format(domain.DateTimeFormat)

	switch to {
	case domain.StatusConfirmed:
		appointment.Status = to
		summary.RemindersScheduled = s.reminders.Schedule(appointment)
		summary.NotifiedClient = s.notifyClient(ctx, appointment.ClientID,
			fmt.Sprintf(msgConfirmedToClient, slotStart))

	case domain.StatusRejected:
		if from == domain.StatusConfirmed {
			summary.RemindersCancelled = s.reminders.Cancel(appointment.ID)
		}
		summary.NotifiedClient = s.notifyClient(ctx, appointment.ClientID,
			fmt.Sprintf(msgRejectedToClient, slotStart))

	case domain.StatusCancelled:
		if from == domain.StatusConfirmed {
			summary.RemindersCancelled = s.reminders.Cancel(appointment.ID)
		}
		summary.NotifiedMaster = s.notifyMaster(ctx,
			fmt.Sprintf(msgCancelledToMaster, slotStart))

	case domain.StatusCompleted:
		// Завершение выставляется внешним батч-процессом, без эффектов
	}
}

// notifyClient отправляет уведомление клиенту; сбой логируется, но не
// отменяет уже выполненный переход
func (s *Service) notifyClient(ctx context.Context, clientID int64, text string) bool {
	if err := s.notifier.SendToClient(ctx, clientID, "appointment_update", text); err != nil {
		s.logger.Error("notifyClient: failed to notify client id=%d: %v", clientID, err)
		return false
	}
	return true
}

func (s *Service) notifyMaster(ctx context.Context, text string) bool {
	if err := s.notifier.SendToMaster(ctx, "appointment_update", text); err != nil {
		s.logger.Error("notifyMaster: failed to notify master: %v", err)
		return false
	}
	return true
}
