package wizard

import (
	"sync"

	"github.com/nkrasko/BM-AppointmentService/internal/domain"
)

// draftStore хранит черновики в памяти процесса: черновик эфемерен,
// существует максимум один на клиента и не переживает рестарт.
type draftStore struct {
	mu       sync.Mutex
	byClient map[int64]*domain.BookingDraft
}

func newDraftStore() *draftStore {
	return &draftStore{byClient: make(map[int64]*domain.BookingDraft)}
}

func (s *draftStore) get(clientID int64) (*domain.BookingDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.byClient[clientID]
	return draft, ok
}

// put кладет черновик, перезаписывая существующий: новое начало записи
// отбрасывает незавершенную сессию клиента
func (s *draftStore) put(draft *domain.BookingDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byClient[draft.ClientID] = draft
}

func (s *draftStore) delete(clientID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byClient, clientID)
}
