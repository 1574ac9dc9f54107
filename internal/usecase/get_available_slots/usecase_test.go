package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	slotRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/slot"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeSlotRepo struct {
	slots []*domain.Slot
}

func (f *fakeSlotRepo) ListAvailable(_ context.Context, from, to *time.Time) ([]*domain.Slot, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, slotRepo.ErrInvalidRange
	}
	out := make([]*domain.Slot, 0)
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
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSlotRepo) FirstAvailable(_ context.Context) (*domain.Slot, error) {
	for _, s := range f.slots {
		if s.IsAvailable {
			return s, nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

var (
	mskLoc  = time.FixedZone("master", 3*3600)
	testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, mskLoc)
)

func slotIn(id int64, offset time.Duration) *domain.Slot {
	start := testNow.Add(offset)
	return &domain.Slot{ID: id, StartTime: start, EndTime: start.Add(time.Hour), IsAvailable: true}
}

func newTestUseCase(repo SlotRepository) *UseCase {
	uc := NewUseCase(repo, mskLoc, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func TestExecute_GroupsByDate(t *testing.T) {
	repo := &fakeSlotRepo{slots: []*domain.Slot{
		slotIn(1, 2*time.Hour),
		slotIn(2, 4*time.Hour),
		slotIn(3, 26*time.Hour),
	}}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, resp.Slots, 3)
	require.Len(t, resp.Dates, 2)
	assert.Equal(t, "2026-09-01", resp.Dates[0].Date)
	assert.Equal(t, 2, resp.Dates[0].SlotsCount)
	assert.Equal(t, "2026-09-02", resp.Dates[1].Date)
	assert.Equal(t, 1, resp.Dates[1].SlotsCount)
	assert.Nil(t, resp.NearestSlot)
}

func TestExecute_DropsPastSlots(t *testing.T) {
	repo := &fakeSlotRepo{slots: []*domain.Slot{
		slotIn(1, -2*time.Hour), // свободен, но уже начался
		slotIn(2, 2*time.Hour),
	}}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, int64(2), resp.Slots[0].ID)
}

func TestExecute_DateFilter(t *testing.T) {
	repo := &fakeSlotRepo{slots: []*domain.Slot{
		slotIn(1, 2*time.Hour),
		slotIn(2, 26*time.Hour),
	}}
	uc := newTestUseCase(repo)

	day := testNow.Add(26 * time.Hour)
	resp, err := uc.Execute(context.Background(), &Request{Date: &day})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, int64(2), resp.Slots[0].ID)
}

func TestExecute_PastDate(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{})

	yesterday := testNow.Add(-24 * time.Hour)
	_, err := uc.Execute(context.Background(), &Request{Date: &yesterday})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InvalidRange(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{})

	from := testNow.Add(24 * time.Hour)
	to := testNow
	_, err := uc.Execute(context.Background(), &Request{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_SuggestsNearestWhenEmpty(t *testing.T) {
	repo := &fakeSlotRepo{slots: []*domain.Slot{
		slotIn(1, 72*time.Hour), // единственный слот далеко за запрошенным днем
	}}
	uc := newTestUseCase(repo)

	day := testNow.Add(24 * time.Hour)
	resp, err := uc.Execute(context.Background(), &Request{Date: &day})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
	require.NotNil(t, resp.NearestSlot)
	assert.Equal(t, int64(1), resp.NearestSlot.ID)
}

func TestExecute_NoSlotsAtAll(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{})

	resp, err := uc.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Nil(t, resp.NearestSlot)
}
