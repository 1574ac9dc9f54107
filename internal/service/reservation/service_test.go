package reservation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slotRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/slot"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeSlotRepo имитирует условный UPDATE: смена доступности срабатывает
// только при фактическом изменении значения
type fakeSlotRepo struct {
	mu        sync.Mutex
	available map[int64]bool
}

func newFakeSlotRepo(ids ...int64) *fakeSlotRepo {
	m := make(map[int64]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return &fakeSlotRepo{available: m}
}

func (f *fakeSlotRepo) SetAvailability(_ context.Context, id int64, available bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.available[id]
	if !ok {
		return false, slotRepo.ErrSlotNotFound
	}
	if current == available {
		return false, nil
	}
	f.available[id] = available
	return true, nil
}

type countingMetrics struct {
	mu   sync.Mutex
	won  int
	lost int
}

func (m *countingMetrics) IncReservation(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if outcome == "won" {
		m.won++
	} else {
		m.lost++
	}
}

func TestService_Reserve(t *testing.T) {
	repo := newFakeSlotRepo(1)
	svc := NewService(repo, nopLogger{}, nil)

	won, err := svc.Reserve(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, won)

	// Повторный захват того же слота проигрывает
	won, err = svc.Reserve(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestService_Reserve_NotFound(t *testing.T) {
	svc := NewService(newFakeSlotRepo(), nopLogger{}, nil)

	_, err := svc.Reserve(context.Background(), 99)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_Reserve_ConcurrentOnlyOneWins(t *testing.T) {
	const workers = 50

	repo := newFakeSlotRepo(7)
	metrics := &countingMetrics{}
	svc := NewService(repo, nopLogger{}, metrics)

	var wg sync.WaitGroup
	results := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := svc.Reserve(context.Background(), 7)
			assert.NoError(t, err)
			results <- won
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for won := range results {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, metrics.won)
	assert.Equal(t, workers-1, metrics.lost)
}

func TestService_Release_Idempotent(t *testing.T) {
	repo := newFakeSlotRepo(3)
	svc := NewService(repo, nopLogger{}, nil)

	won, err := svc.Reserve(context.Background(), 3)
	require.NoError(t, err)
	require.True(t, won)

	require.NoError(t, svc.Release(context.Background(), 3))
	// Повторное освобождение - no-op без ошибки
	require.NoError(t, svc.Release(context.Background(), 3))

	// Слот снова доступен для захвата
	won, err = svc.Reserve(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, won)
}
