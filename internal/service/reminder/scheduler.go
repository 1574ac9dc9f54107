// Package reminder планирует напоминания клиентам о подтвержденных записях.
// Отдельной таблицы напоминаний нет: расписание полностью выводимо из
// состояния записей и слотов, поэтому после рестарта оно пересобирается
// запросом к хранилищу (Rebuild).
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// Lead виды напоминаний
const (
	LeadLong  = "24h"
	LeadShort = "1h"
)

const (
	msgReminder24h = "Напоминание: завтра в %s у вас запись на услугу «%s»"
	msgReminder1h  = "Напоминание: через час, в %s, у вас запись на услугу «%s»"

	// rebuildPageSize размер страницы при восстановлении расписания
	rebuildPageSize = 1000

	// notifyTimeout бюджет на отправку одного напоминания
	notifyTimeout = 10 * time.Second
)

type reminderKey struct {
	appointmentID int64
	lead          string
}

type leadSpec struct {
	name     string
	before   time.Duration
	template string
}

// Порядок фиксирован: сначала дальнее напоминание, затем ближнее
var leadSpecs = []leadSpec{
	{name: LeadLong, before: domain.LongLeadTime, template: msgReminder24h},
	{name: LeadShort, before: domain.ShortLeadTime, template: msgReminder1h},
}

// Scheduler хранит по два одноразовых таймера на подтвержденную запись,
// ключованных парой (appointment_id, вид напоминания), чтобы каждый можно
// было отменить независимо.
type Scheduler struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	timeProvider    TimeProvider
	location        *time.Location
	rebuildWindow   time.Duration
	logger          Logger
	metrics         Metrics

	mu     sync.Mutex
	timers map[reminderKey]*time.Timer
}

// NewScheduler создает новый планировщик напоминаний
func NewScheduler(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	rebuildWindowWeeks int,
	tzOffsetHours int,
	logger Logger,
	metrics Metrics,
) *Scheduler {
	if rebuildWindowWeeks <= 0 {
		rebuildWindowWeeks = domain.DefaultRebuildWindowWeeks
	}
	return &Scheduler{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		location:        time.FixedZone("master", tzOffsetHours*3600),
		rebuildWindow:   time.Duration(rebuildWindowWeeks) * 7 * 24 * time.Hour,
		logger:          logger,
		metrics:         metrics,
		timers:          make(map[reminderKey]*time.Timer),
	}
}

// Schedule планирует оба напоминания для записи и возвращает количество
// фактически поставленных таймеров. Напоминание, чье время срабатывания
// уже прошло, молча пропускается - задним числом ничего не отправляется.
// Повторное планирование перезаписывает существующие таймеры записи.
func (s *Scheduler) Schedule(appointment *domain.Appointment) int {
	now := s.timeProvider.Now()
	scheduled := 0

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, spec := range leadSpecs {
		triggerAt := appointment.SlotStart.Add(-spec.before)
		if !triggerAt.After(now) {
			continue
		}

		key := reminderKey{appointmentID: appointment.ID, lead: spec.name}
		if existing, ok := s.timers[key]; ok {
			existing.Stop()
		}

		clientID := appointment.ClientID
		text := fmt.Sprintf(spec.template,
			appointment.SlotStart.In(s.location).Format(domain.TimeFormat),
			appointment.ServiceName)
		lead := spec.name
		appointmentID := appointment.ID

		s.timers[key] = time.AfterFunc(triggerAt.Sub(now), func() {
			s.fire(appointmentID, clientID, lead, text)
		})
		scheduled++
	}

	s.logger.Info("Schedule: appointment id=%d, %d reminder(s) scheduled", appointment.ID, scheduled)
	return scheduled
}

// Cancel снимает оба напоминания записи и возвращает количество снятых.
// Идемпотентен: отмена несуществующих напоминаний - no-op.
func (s *Scheduler) Cancel(appointmentID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cancelled := 0
	for _, spec := range leadSpecs {
		key := reminderKey{appointmentID: appointmentID, lead: spec.name}
		if timer, ok := s.timers[key]; ok {
			timer.Stop()
			delete(s.timers, key)
			cancelled++
		}
	}

	if cancelled > 0 {
		s.logger.Info("Cancel: appointment id=%d, %d reminder(s) cancelled", appointmentID, cancelled)
	}
	return cancelled
}

// Rebuild восстанавливает расписание после рестарта процесса: постранично
// выбирает подтвержденные записи со слотами в ближайшем окне и заново
// выводит времена срабатывания. Возвращает количество поставленных таймеров.
func (s *Scheduler) Rebuild(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	windowEnd := now.Add(s.rebuildWindow)

	status := domain.StatusConfirmed
	filter := domain.AppointmentsFilter{
		Status:    &status,
		StartFrom: &now,
		StartTo:   &windowEnd,
	}

	total := 0
	page := 1
	for {
		appointments, pagination, err := s.appointmentRepo.List(ctx, filter, page, rebuildPageSize)
		if err != nil {
			return total, fmt.Errorf("reminder: rebuild - list confirmed appointments: %w", err)
		}

		for _, appointment := range appointments {
			total += s.Schedule(appointment)
		}

		if !pagination.HasNext() {
			break
		}
		page++
	}

	s.logger.Info("Rebuild: %d reminder(s) restored for the next %s", total, s.rebuildWindow)
	return total, nil
}

// PendingCount возвращает количество активных таймеров
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop снимает все таймеры (graceful shutdown)
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}

func (s *Scheduler) fire(appointmentID, clientID int64, lead, text string) {
	s.mu.Lock()
	delete(s.timers, reminderKey{appointmentID: appointmentID, lead: lead})
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.SendToClient(ctx, clientID, "reminder", text); err != nil {
		s.logger.Error("fire: failed to send %s reminder for appointment id=%d: %v", lead, appointmentID, err)
		return
	}

	if s.metrics != nil {
		s.metrics.IncReminderFired(lead)
	}
	s.logger.Info("fire: %s reminder sent for appointment id=%d", lead, appointmentID)
}
