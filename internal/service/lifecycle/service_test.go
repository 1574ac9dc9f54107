package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	appointmentRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeAppointmentRepo хранит записи в памяти; UpdateStatusFrom имитирует
// compare-and-swap по статусу
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[int64]*domain.Appointment
}

func newFakeAppointmentRepo(appts ...*domain.Appointment) *fakeAppointmentRepo {
	m := make(map[int64]*domain.Appointment, len(appts))
	for _, a := range appts {
		m[a.ID] = a
	}
	return &fakeAppointmentRepo{appointments: m}
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAppointmentRepo) UpdateStatusFrom(_ context.Context, id int64, from, to domain.AppointmentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

type fakeReleaser struct {
	mu       sync.Mutex
	released []int64
}

func (f *fakeReleaser) Release(_ context.Context, slotID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, slotID)
	return nil
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []int64
	cancelled []int64
}

func (f *fakeScheduler) Schedule(a *domain.Appointment) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, a.ID)
	return 2
}

func (f *fakeScheduler) Cancel(appointmentID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, appointmentID)
	return 2
}

type fakeNotifier struct {
	mu       sync.Mutex
	toClient []string
	toMaster []string
}

func (f *fakeNotifier) SendToClient(_ context.Context, _ int64, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toClient = append(f.toClient, text)
	return nil
}

func (f *fakeNotifier) SendToMaster(_ context.Context, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toMaster = append(f.toMaster, text)
	return nil
}

// passthroughTx выполняет fn напрямую, без настоящей транзакции
type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *fakeAppointmentRepo) (*Service, *fakeReleaser, *fakeScheduler, *fakeNotifier) {
	releaser := &fakeReleaser{}
	scheduler := &fakeScheduler{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, releaser, scheduler, notifier, passthroughTx{}, 3, nopLogger{}, nil)
	return svc, releaser, scheduler, notifier
}

func pendingAppointment(id, slotID int64) *domain.Appointment {
	return &domain.Appointment{
		ID:        id,
		ClientID:  100,
		SlotID:    slotID,
		ServiceID: 1,
		Status:    domain.StatusPending,
		SlotStart: time.Now().Add(48 * time.Hour),
		SlotEnd:   time.Now().Add(49 * time.Hour),
	}
}

func TestTransition_ConfirmPending(t *testing.T) {
	repo := newFakeAppointmentRepo(pendingAppointment(1, 10))
	svc, releaser, scheduler, notifier := newTestService(repo)

	summary, err := svc.Transition(context.Background(), 1, domain.StatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, summary.From)
	assert.Equal(t, domain.StatusConfirmed, summary.To)
	// Подтверждение не освобождает слот
	assert.False(t, summary.SlotReleased)
	assert.Empty(t, releaser.released)
	// Напоминания поставлены, клиент уведомлен
	assert.Equal(t, []int64{1}, scheduler.scheduled)
	assert.Equal(t, 2, summary.RemindersScheduled)
	assert.Len(t, notifier.toClient, 1)
}

func TestTransition_CancelPendingReleasesSlot(t *testing.T) {
	repo := newFakeAppointmentRepo(pendingAppointment(1, 10))
	svc, releaser, scheduler, notifier := newTestService(repo)

	summary, err := svc.Transition(context.Background(), 1, domain.StatusCancelled)
	require.NoError(t, err)

	assert.True(t, summary.SlotReleased)
	assert.Equal(t, []int64{10}, releaser.released)
	// pending не имел напоминаний - отменять нечего
	assert.Empty(t, scheduler.cancelled)
	assert.Equal(t, 0, summary.RemindersCancelled)
	// Об отмене клиентом уведомляется мастер
	assert.Len(t, notifier.toMaster, 1)
	assert.Empty(t, notifier.toClient)
}

func TestTransition_CancelConfirmedCancelsReminders(t *testing.T) {
	appt := pendingAppointment(1, 10)
	appt.Status = domain.StatusConfirmed
	repo := newFakeAppointmentRepo(appt)
	svc, releaser, scheduler, _ := newTestService(repo)

	summary, err := svc.Transition(context.Background(), 1, domain.StatusCancelled)
	require.NoError(t, err)

	assert.True(t, summary.SlotReleased)
	assert.Equal(t, []int64{10}, releaser.released)
	assert.Equal(t, []int64{1}, scheduler.cancelled)
	assert.Equal(t, 2, summary.RemindersCancelled)
}

func TestTransition_CompleteKeepsSlot(t *testing.T) {
	appt := pendingAppointment(1, 10)
	appt.Status = domain.StatusConfirmed
	repo := newFakeAppointmentRepo(appt)
	svc, releaser, _, notifier := newTestService(repo)

	summary, err := svc.Transition(context.Background(), 1, domain.StatusCompleted)
	require.NoError(t, err)

	// Завершенная запись сохраняет слот занятым - время уже прошло
	assert.False(t, summary.SlotReleased)
	assert.Empty(t, releaser.released)
	assert.Empty(t, notifier.toClient)
	assert.Empty(t, notifier.toMaster)
}

func TestTransition_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domain.AppointmentStatus
		to   domain.AppointmentStatus
	}{
		{"pending to completed", domain.StatusPending, domain.StatusCompleted},
		{"cancelled is terminal", domain.StatusCancelled, domain.StatusConfirmed},
		{"rejected is terminal", domain.StatusRejected, domain.StatusPending},
		{"completed is terminal", domain.StatusCompleted, domain.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := pendingAppointment(1, 10)
			appt.Status = tt.from
			svc, releaser, _, _ := newTestService(newFakeAppointmentRepo(appt))

			_, err := svc.Transition(context.Background(), 1, tt.to)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Empty(t, releaser.released)
		})
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	svc, _, _, _ := newTestService(newFakeAppointmentRepo(pendingAppointment(1, 10)))

	_, err := svc.Transition(context.Background(), 1, domain.AppointmentStatus("frobnicated"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransition_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService(newFakeAppointmentRepo())

	_, err := svc.Transition(context.Background(), 42, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestTransition_ConcurrentOnlyOneWins(t *testing.T) {
	const attempts = 20

	repo := newFakeAppointmentRepo(pendingAppointment(1, 10))
	svc, releaser, _, _ := newTestService(repo)

	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transition(context.Background(), 1, domain.StatusCancelled)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, succeeded)
	// Слот освобожден ровно один раз
	assert.Equal(t, []int64{10}, releaser.released)
}
