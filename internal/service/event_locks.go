package service

import "sync"

// EventLocks serializes the capacity-sensitive critical sections per
// event: the read-seats/insert-ticket sequence and any transition out
// of CANCELLED. Unrelated events never contend. Entries are one mutex
// per event id and are kept for the process lifetime; the map is
// bounded by the number of events. The reservation and admin services
// must share one instance.
type EventLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewEventLocks() *EventLocks {
	return &EventLocks{locks: make(map[int]*sync.Mutex)}
}

func (l *EventLocks) Lock(eventID int) {
	l.mu.Lock()
	m, ok := l.locks[eventID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[eventID] = m
	}
	l.mu.Unlock()
	m.Lock()
}

func (l *EventLocks) Unlock(eventID int) {
	l.mu.Lock()
	m := l.locks[eventID]
	l.mu.Unlock()
	m.Unlock()
}
