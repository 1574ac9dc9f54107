package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	serviceRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/service"
	slotRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/slot"
	confirmBooking "github.com/nkrasko/BM-AppointmentService/internal/usecase/confirm_booking"
	"github.com/nkrasko/BM-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeSlots struct {
	slots map[int64]*domain.Slot
}

func (f *fakeSlots) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlots) ListAvailable(_ context.Context, from, to *time.Time) ([]*domain.Slot, error) {
	var out []*domain.Slot
	for _, s := range f.slots {
		if !s.IsAvailable {
			continue
		}
		if from != nil && s.StartTime.Before(*from) {
			continue
		}
		if to != nil && s.StartTime.After(*to) {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

type fakeServices struct {
	services map[int64]*domain.Service
}

func (f *fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeServices) List(_ context.Context, activeOnly bool) ([]*domain.Service, error) {
	var out []*domain.Service
	for _, s := range f.services {
		if activeOnly && !s.IsActive {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

type fakeCommitter struct {
	err       error
	executed  int
	lastDraft *domain.BookingDraft
}

func (f *fakeCommitter) Execute(_ context.Context, draft *domain.BookingDraft) (*confirmBooking.Response, error) {
	f.executed++
	f.lastDraft = draft
	if f.err != nil {
		return nil, f.err
	}
	return &confirmBooking.Response{AppointmentID: 777}, nil
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestWizard(committer Committer) (*Service, *fakeSlots, *fakeServices) {
	slotStart := testNow.Add(26 * time.Hour)
	slots := &fakeSlots{slots: map[int64]*domain.Slot{
		10: {ID: 10, StartTime: slotStart, EndTime: slotStart.Add(time.Hour), IsAvailable: true},
		11: {ID: 11, StartTime: slotStart.Add(2 * time.Hour), EndTime: slotStart.Add(3 * time.Hour), IsAvailable: false},
	}}
	services := &fakeServices{services: map[int64]*domain.Service{
		1: {ID: 1, Name: "Маникюр", Price: 1500, DurationMinutes: 60, IsActive: true},
		2: {ID: 2, Name: "Архив", Price: 500, DurationMinutes: 30, IsActive: false},
	}}

	svc := NewService(slots, services, committer, 3, nopLogger{})
	svc.timeProvider = fixedTime{now: testNow}
	return svc, slots, services
}

// advance прогоняет один шаг и падает при ошибке
func advance(t *testing.T, svc *Service, handle string, action domain.WizardAction, input *StepInput) *StepChange {
	t.Helper()
	change, err := svc.Advance(context.Background(), 100, handle, action, input)
	require.NoError(t, err)
	return change
}

func TestWizard_FullFlowCommit(t *testing.T) {
	committer := &fakeCommitter{}
	svc, _, _ := newTestWizard(committer)

	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, domain.StepDate, start.Step)
	handle := start.Handle

	day := testNow.Add(26 * time.Hour)
	change := advance(t, svc, handle, domain.ActionNext, &StepInput{Date: &day})
	assert.Equal(t, domain.StepSlot, change.Step)
	// Список слотов пересчитан для выбранного дня
	require.Len(t, change.Render.AvailableSlots, 1)
	assert.Equal(t, int64(10), change.Render.AvailableSlots[0].ID)

	change = advance(t, svc, handle, domain.ActionNext, &StepInput{SlotID: ptr.Ptr(int64(10))})
	assert.Equal(t, domain.StepService, change.Step)
	// Отключенные услуги не предлагаются
	require.Len(t, change.Render.Services, 1)
	assert.Equal(t, "Маникюр", change.Render.Services[0].Name)

	change = advance(t, svc, handle, domain.ActionNext, &StepInput{ServiceID: ptr.Ptr(int64(1))})
	assert.Equal(t, domain.StepPhotos, change.Step)

	change = advance(t, svc, handle, domain.ActionNext, &StepInput{AddPhoto: ptr.Ptr("file-1")})
	assert.Equal(t, domain.StepComment, change.Step)
	assert.Equal(t, 1, change.Render.PhotosCount)

	change = advance(t, svc, handle, domain.ActionNext, &StepInput{Comment: ptr.Ptr("позвоните заранее")})
	assert.Equal(t, domain.StepConfirmation, change.Step)

	change = advance(t, svc, handle, domain.ActionNext, nil)
	assert.True(t, change.Committed)
	assert.Equal(t, int64(777), change.AppointmentID)
	assert.Equal(t, 1, committer.executed)

	// Черновик удален после коммита
	_, err = svc.Advance(context.Background(), 100, handle, domain.ActionNext, nil)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestWizard_NextWithoutDataBlocked(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), 100, start.Handle, domain.ActionNext, nil)
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestWizard_BackClearsPreviousStep(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	handle := start.Handle

	day := testNow.Add(26 * time.Hour)
	advance(t, svc, handle, domain.ActionNext, &StepInput{Date: &day})
	advance(t, svc, handle, domain.ActionNext, &StepInput{SlotID: ptr.Ptr(int64(10))})

	// Назад с шага услуги: выбранный слот сброшен
	change := advance(t, svc, handle, domain.ActionBack, nil)
	assert.Equal(t, domain.StepSlot, change.Step)
	assert.Nil(t, change.Render.ChosenSlot)

	// NEXT снова требует выбора слота
	_, err = svc.Advance(context.Background(), 100, handle, domain.ActionNext, nil)
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestWizard_BackFromFirstStepStays(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)

	change := advance(t, svc, start.Handle, domain.ActionBack, nil)
	assert.Equal(t, domain.StepDate, change.Step)
}

func TestWizard_CancelDeletesDraft(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)

	change := advance(t, svc, start.Handle, domain.ActionCancel, nil)
	assert.True(t, change.Cancelled)

	_, err = svc.Advance(context.Background(), 100, start.Handle, domain.ActionNext, nil)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestWizard_CancelIgnoresInvalidInput(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	handle := start.Handle

	day := testNow.Add(26 * time.Hour)
	advance(t, svc, handle, domain.ActionNext, &StepInput{Date: &day})

	// Отмена с невалидным полем шага в теле: недоступный слот не мешает выйти
	change := advance(t, svc, handle, domain.ActionCancel, &StepInput{SlotID: ptr.Ptr(int64(11))})
	assert.True(t, change.Cancelled)

	_, err = svc.Advance(context.Background(), 100, handle, domain.ActionNext, nil)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestWizard_BackIgnoresInvalidInput(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	handle := start.Handle

	day := testNow.Add(26 * time.Hour)
	advance(t, svc, handle, domain.ActionNext, &StepInput{Date: &day})

	change := advance(t, svc, handle, domain.ActionBack, &StepInput{SlotID: ptr.Ptr(int64(99))})
	assert.Equal(t, domain.StepDate, change.Step)
}

func TestWizard_PastDateRejected(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)

	yesterday := testNow.Add(-24 * time.Hour)
	_, err = svc.Advance(context.Background(), 100, start.Handle, domain.ActionNext, &StepInput{Date: &yesterday})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestWizard_UnavailableSlotRejected(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	handle := start.Handle

	day := testNow.Add(26 * time.Hour)
	advance(t, svc, handle, domain.ActionNext, &StepInput{Date: &day})

	_, err = svc.Advance(context.Background(), 100, handle, domain.ActionNext, &StepInput{SlotID: ptr.Ptr(int64(11))})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = svc.Advance(context.Background(), 100, handle, domain.ActionNext, &StepInput{SlotID: ptr.Ptr(int64(99))})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestWizard_InactiveServiceRejected(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	handle := start.Handle

	day := testNow.Add(26 * time.Hour)
	advance(t, svc, handle, domain.ActionNext, &StepInput{Date: &day})
	advance(t, svc, handle, domain.ActionNext, &StepInput{SlotID: ptr.Ptr(int64(10))})

	_, err = svc.Advance(context.Background(), 100, handle, domain.ActionNext, &StepInput{ServiceID: ptr.Ptr(int64(2))})
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestWizard_PhotoLimit(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	handle := start.Handle

	day := testNow.Add(26 * time.Hour)
	advance(t, svc, handle, domain.ActionNext, &StepInput{Date: &day})
	advance(t, svc, handle, domain.ActionNext, &StepInput{SlotID: ptr.Ptr(int64(10))})
	advance(t, svc, handle, domain.ActionNext, &StepInput{ServiceID: ptr.Ptr(int64(1))})

	for i := 0; i < domain.MaxPhotosPerAppointment; i++ {
		change := advance(t, svc, handle, domain.ActionStay, &StepInput{AddPhoto: ptr.Ptr("f")})
		assert.Equal(t, domain.StepPhotos, change.Step)
		assert.Equal(t, i+1, change.Render.PhotosCount)
	}

	// Десятая фотография отклоняется, черновик не меняется
	_, err = svc.Advance(context.Background(), 100, handle, domain.ActionStay, &StepInput{AddPhoto: ptr.Ptr("extra")})
	assert.ErrorIs(t, err, ErrTooManyPhotos)

	change := advance(t, svc, handle, domain.ActionNext, nil)
	assert.Equal(t, domain.StepComment, change.Step)
	assert.Equal(t, domain.MaxPhotosPerAppointment, change.Render.PhotosCount)
}

func TestWizard_CommentTooLong(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})
	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	handle := start.Handle

	day := testNow.Add(26 * time.Hour)
	advance(t, svc, handle, domain.ActionNext, &StepInput{Date: &day})
	advance(t, svc, handle, domain.ActionNext, &StepInput{SlotID: ptr.Ptr(int64(10))})
	advance(t, svc, handle, domain.ActionNext, &StepInput{ServiceID: ptr.Ptr(int64(1))})
	advance(t, svc, handle, domain.ActionNext, nil) // фото пропущены

	long := make([]rune, domain.MaxCommentLength+1)
	for i := range long {
		long[i] = 'ж'
	}
	_, err = svc.Advance(context.Background(), 100, handle, domain.ActionNext, &StepInput{Comment: ptr.Ptr(string(long))})
	assert.ErrorIs(t, err, ErrCommentTooLong)
}

func TestWizard_SlotTakenPreservesDraft(t *testing.T) {
	committer := &fakeCommitter{err: confirmBooking.ErrSlotTaken}
	svc, _, _ := newTestWizard(committer)

	start, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	handle := start.Handle

	day := testNow.Add(26 * time.Hour)
	advance(t, svc, handle, domain.ActionNext, &StepInput{Date: &day})
	advance(t, svc, handle, domain.ActionNext, &StepInput{SlotID: ptr.Ptr(int64(10))})
	advance(t, svc, handle, domain.ActionNext, &StepInput{ServiceID: ptr.Ptr(int64(1))})
	advance(t, svc, handle, domain.ActionNext, nil)
	advance(t, svc, handle, domain.ActionNext, nil)

	// Коммит проигрывает гонку за слот
	_, err = svc.Advance(context.Background(), 100, handle, domain.ActionNext, nil)
	assert.ErrorIs(t, err, confirmBooking.ErrSlotTaken)

	// Черновик жив: можно вернуться и выбрать другой слот
	change := advance(t, svc, handle, domain.ActionBack, nil)
	assert.Equal(t, domain.StepComment, change.Step)
}

func TestWizard_StartOverwritesExistingDraft(t *testing.T) {
	svc, _, _ := newTestWizard(&fakeCommitter{})

	first, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	second, err := svc.StartBooking(context.Background(), 100)
	require.NoError(t, err)
	require.NotEqual(t, first.Handle, second.Handle)

	// Старый handle больше не действует
	_, err = svc.Advance(context.Background(), 100, first.Handle, domain.ActionNext, nil)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
