package appointments

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
	appointmentRepo "github.com/nkrasko/BM-AppointmentService/internal/infra/storage/appointment"
	"github.com/nkrasko/BM-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
}

func newFakeAppointmentRepo(appointments ...*domain.Appointment) *fakeAppointmentRepo {
	m := make(map[int64]*domain.Appointment, len(appointments))
	for _, a := range appointments {
		m[a.ID] = a
	}
	return &fakeAppointmentRepo{appointments: m}
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, filter domain.AppointmentsFilter, page, perPage int) ([]*domain.Appointment, domain.Pagination, error) {
	matched := f.filtered(filter)
	pagination := domain.NewPagination(page, perPage, len(matched))

	start := pagination.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pagination.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], pagination, nil
}

func (f *fakeAppointmentRepo) CountByStatus(_ context.Context, status domain.AppointmentStatus) (int, error) {
	return len(f.filtered(domain.AppointmentsFilter{Status: &status})), nil
}

func (f *fakeAppointmentRepo) GetPendingByOffset(_ context.Context, offset int) (*domain.Appointment, error) {
	pending := f.filtered(domain.AppointmentsFilter{Status: ptr.Ptr(domain.StatusPending)})
	if offset < 0 || offset >= len(pending) {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *pending[offset]
	return &copied, nil
}

func (f *fakeAppointmentRepo) filtered(filter domain.AppointmentsFilter) []*domain.Appointment {
	out := make([]*domain.Appointment, 0)
	for _, a := range f.appointments {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.ClientID != nil && a.ClientID != *filter.ClientID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotStart.Before(out[j].SlotStart) })
	return out
}

type fakePhotoRepo struct {
	err    error
	photos map[int64][]string
}

func (f *fakePhotoRepo) GetByAppointmentID(_ context.Context, appointmentID int64) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.photos[appointmentID], nil
}

func appointmentAt(id int64, status domain.AppointmentStatus, start time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:          id,
		ClientID:    100,
		SlotID:      id,
		ServiceID:   1,
		Status:      status,
		ServiceName: "Маникюр",
		SlotStart:   start,
		SlotEnd:     start.Add(time.Hour),
	}
}

var baseTime = time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

func TestGetByID(t *testing.T) {
	repo := newFakeAppointmentRepo(appointmentAt(1, domain.StatusPending, baseTime))
	photos := &fakePhotoRepo{photos: map[int64][]string{1: {"file-1", "file-2"}}}
	svc := NewService(repo, photos, nopLogger{})

	got, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, []string{"file-1", "file-2"}, got.Photos)
}

func TestGetByID_PhotoErrorNotFatal(t *testing.T) {
	repo := newFakeAppointmentRepo(appointmentAt(1, domain.StatusPending, baseTime))
	photos := &fakePhotoRepo{err: errors.New("storage unavailable")}
	svc := NewService(repo, photos, nopLogger{})

	got, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got.Photos)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo(), &fakePhotoRepo{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestList(t *testing.T) {
	repo := newFakeAppointmentRepo(
		appointmentAt(1, domain.StatusPending, baseTime),
		appointmentAt(2, domain.StatusConfirmed, baseTime.Add(time.Hour)),
		appointmentAt(3, domain.StatusPending, baseTime.Add(2*time.Hour)),
	)
	svc := NewService(repo, &fakePhotoRepo{}, nopLogger{})

	resp, err := svc.List(context.Background(), &ListRequest{Status: ptr.Ptr("pending"), Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
	assert.Equal(t, int64(3), resp.Appointments[1].ID)
	assert.Equal(t, 2, resp.Pagination.TotalItems)
}

func TestList_InvalidStatus(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo(), &fakePhotoRepo{}, nopLogger{})

	_, err := svc.List(context.Background(), &ListRequest{Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestList_DefaultsApplied(t *testing.T) {
	repo := newFakeAppointmentRepo(appointmentAt(1, domain.StatusPending, baseTime))
	svc := NewService(repo, &fakePhotoRepo{}, nopLogger{})

	resp, err := svc.List(context.Background(), &ListRequest{Page: 0, PerPage: -5})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, domain.DefaultPerPage, resp.Pagination.PerPage)
}

func TestGetPendingByOffset(t *testing.T) {
	repo := newFakeAppointmentRepo(
		appointmentAt(1, domain.StatusPending, baseTime),
		appointmentAt(2, domain.StatusPending, baseTime.Add(time.Hour)),
		appointmentAt(3, domain.StatusConfirmed, baseTime.Add(2*time.Hour)),
	)
	svc := NewService(repo, &fakePhotoRepo{}, nopLogger{})

	cursor, err := svc.GetPendingByOffset(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, cursor.Appointment)
	assert.Equal(t, int64(2), cursor.Appointment.ID)
	assert.Equal(t, 1, cursor.Offset)
	assert.Equal(t, 2, cursor.Total)
}

func TestGetPendingByOffset_WrapsWhenQueueShrank(t *testing.T) {
	repo := newFakeAppointmentRepo(
		appointmentAt(1, domain.StatusPending, baseTime),
		appointmentAt(2, domain.StatusPending, baseTime.Add(time.Hour)),
	)
	svc := NewService(repo, &fakePhotoRepo{}, nopLogger{})

	// Курсор за концом очереди заворачивается к началу
	cursor, err := svc.GetPendingByOffset(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, cursor.Appointment)
	assert.Equal(t, int64(1), cursor.Appointment.ID)
	assert.Equal(t, 0, cursor.Offset)
}

func TestGetPendingByOffset_EmptyQueue(t *testing.T) {
	repo := newFakeAppointmentRepo(appointmentAt(1, domain.StatusCompleted, baseTime))
	svc := NewService(repo, &fakePhotoRepo{}, nopLogger{})

	cursor, err := svc.GetPendingByOffset(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, cursor.Appointment)
	assert.Equal(t, 0, cursor.Total)
}

func TestGetPendingByOffset_NegativeOffset(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo(), &fakePhotoRepo{}, nopLogger{})

	_, err := svc.GetPendingByOffset(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
