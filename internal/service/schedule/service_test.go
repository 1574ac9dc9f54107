package schedule

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

// fakeSlotRepo создает слоты с автоинкрементом и конфликтует
// по заранее заданным временам начала
type fakeSlotRepo struct {
	nextID    int64
	conflicts map[string]bool
	created   []*domain.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{nextID: 1, conflicts: make(map[string]bool)}
}

func (f *fakeSlotRepo) Create(_ context.Context, start, end time.Time) (*domain.Slot, error) {
	key := start.UTC().Format(time.RFC3339)
	if f.conflicts[key] {
		return nil, slotRepo.ErrSlotConflict
	}
	f.conflicts[key] = true
	s := &domain.Slot{ID: f.nextID, StartTime: start, EndTime: end, IsAvailable: true}
	f.nextID++
	f.created = append(f.created, s)
	return s, nil
}

var (
	mskLoc  = time.FixedZone("master", 3*3600)
	testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, mskLoc)
)

func newTestService(repo SlotRepository) *Service {
	svc := NewService(repo, mskLoc, nopLogger{})
	svc.timeProvider = fixedTime{now: testNow}
	return svc
}

func TestCreateSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo)

	start := testNow.Add(24 * time.Hour)
	resp, err := svc.CreateSlot(context.Background(), &CreateSlotRequest{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.True(t, resp.IsAvailable)
}

func TestCreateSlot_Validation(t *testing.T) {
	future := testNow.Add(24 * time.Hour)
	past := testNow.Add(-time.Hour)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"end before start", future, future.Add(-time.Hour), ErrInvalidInterval},
		{"zero interval", future, future, ErrInvalidInterval},
		{"start in past", past, past.Add(time.Hour), ErrSlotInPast},
		{"start is now", testNow, testNow.Add(time.Hour), ErrSlotInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeSlotRepo())
			_, err := svc.CreateSlot(context.Background(), &CreateSlotRequest{StartTime: tt.start, EndTime: tt.end})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateSlot_Conflict(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo)

	start := testNow.Add(24 * time.Hour)
	req := &CreateSlotRequest{StartTime: start, EndTime: start.Add(time.Hour)}

	_, err := svc.CreateSlot(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateSlot(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestGenerateDaySlots(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo)

	// Завтра 10:00-19:00 с шагом 60 минут - 9 слотов
	resp, err := svc.GenerateDaySlots(context.Background(), &GenerateDayRequest{
		Date:            testNow.Add(24 * time.Hour),
		WorkStart:       "10:00",
		WorkEnd:         "19:00",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Created, 9)
	assert.Equal(t, 0, resp.Skipped)

	first := resp.Created[0]
	assert.Equal(t, 10, first.StartTime.In(mskLoc).Hour())
	assert.Equal(t, 11, first.EndTime.In(mskLoc).Hour())
	last := resp.Created[8]
	assert.Equal(t, 18, last.StartTime.In(mskLoc).Hour())
}

func TestGenerateDaySlots_PartialGridDropped(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo)

	// 90-минутный шаг в 10:00-12:00: помещается только один слот,
	// неполный хвост не создается
	resp, err := svc.GenerateDaySlots(context.Background(), &GenerateDayRequest{
		Date:            testNow.Add(24 * time.Hour),
		WorkStart:       "10:00",
		WorkEnd:         "12:00",
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Created, 1)
}

func TestGenerateDaySlots_SkipsPastAndConflicts(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := newTestService(repo)

	// Сегодня: сейчас 12:00, слоты 10:00 и 11:00 уже в прошлом, 12:00 не строго в будущем
	resp, err := svc.GenerateDaySlots(context.Background(), &GenerateDayRequest{
		Date:            testNow,
		WorkStart:       "10:00",
		WorkEnd:         "15:00",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Created, 2) // 13:00 и 14:00
	assert.Equal(t, 3, resp.Skipped)

	// Повторная генерация: все существующие пропускаются как конфликты
	resp, err = svc.GenerateDaySlots(context.Background(), &GenerateDayRequest{
		Date:            testNow,
		WorkStart:       "10:00",
		WorkEnd:         "15:00",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Created, 0)
	assert.Equal(t, 5, resp.Skipped)
}

func TestGenerateDaySlots_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  GenerateDayRequest
	}{
		{"zero duration", GenerateDayRequest{Date: testNow, WorkStart: "10:00", WorkEnd: "19:00", DurationMinutes: 0}},
		{"bad work_start", GenerateDayRequest{Date: testNow, WorkStart: "25:99", WorkEnd: "19:00", DurationMinutes: 60}},
		{"bad work_end", GenerateDayRequest{Date: testNow, WorkStart: "10:00", WorkEnd: "abc", DurationMinutes: 60}},
		{"end before start", GenerateDayRequest{Date: testNow, WorkStart: "19:00", WorkEnd: "10:00", DurationMinutes: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeSlotRepo())
			_, err := svc.GenerateDaySlots(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
