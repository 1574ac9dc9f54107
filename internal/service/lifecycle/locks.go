package lifecycle

import "sync"

// keyedMutex сериализует переходы по одному appointment_id внутри процесса.
// Граница корректности - compare-and-swap запись статуса в хранилище;
// локальная блокировка лишь не дает параллельным переходам одной записи
// дойти до побочных эффектов одновременно.
// Записи удаляются из карты, когда по ключу не остается держателей.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

type lockEntry struct {
	mu      sync.Mutex
	holders int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*lockEntry)}
}

// lock блокирует ключ и возвращает функцию освобождения
func (k *keyedMutex) lock(id int64) func() {
	k.mu.Lock()
	entry, ok := k.locks[id]
	if !ok {
		entry = &lockEntry{}
		k.locks[id] = entry
	}
	entry.holders++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.holders--
		if entry.holders == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
