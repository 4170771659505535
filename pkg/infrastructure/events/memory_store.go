package events

import (
	"sync"
)

// InMemoryEventStore journals inventory changes in append order and indexes
// them per stream. Subscribers are called synchronously, in subscription
// order, after the append.
type InMemoryEventStore struct {
	mutex        sync.RWMutex
	journal      []Event
	streams      map[string][]int // journal positions per stream
	counts       map[string]int   // events per type
	subscribers  map[string][]EventHandler
	errorHandler func(Event, error)
}

var _ Journal = (*InMemoryEventStore)(nil)

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]int),
		counts:      make(map[string]int),
		subscribers: make(map[string][]EventHandler),
	}
}

// OnHandlerError sets the callback told about subscriber failures. Without
// one, failures are dropped.
func (s *InMemoryEventStore) OnHandlerError(fn func(Event, error)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.errorHandler = fn
}

// AppendEvent journals event under streamID, stamping it with the next
// version of that stream
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	stamped := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], len(s.journal))
	s.journal = append(s.journal, stamped)
	s.counts[stamped.EventType]++
	handlers := append([]EventHandler(nil), s.subscribers[stamped.EventType]...)
	onError := s.errorHandler
	s.mutex.Unlock()

	for _, handler := range handlers {
		if !handler.CanHandle(stamped.EventType) {
			continue
		}
		if err := handler.Handle(stamped); err != nil && onError != nil {
			onError(stamped, err)
		}
	}
	return nil
}

// ReadEvents returns the events of streamID from version fromVersion on.
// Versions start at 1.
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	positions := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(positions) {
		return []Event{}, nil
	}
	result := make([]Event, 0, len(positions)-fromVersion+1)
	for _, pos := range positions[fromVersion-1:] {
		result = append(result, s.journal[pos])
	}
	return result, nil
}

// ReadAllEvents returns the journal from fromPosition on
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.journal) {
		return []Event{}, nil
	}
	return append([]Event(nil), s.journal[fromPosition:]...), nil
}

// Recent returns up to limit of the latest events, oldest first
func (s *InMemoryEventStore) Recent(limit int) []Event {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	start := len(s.journal) - limit
	if start < 0 || limit < 0 {
		start = 0
	}
	return append([]Event(nil), s.journal[start:]...)
}

// CountByType returns how many events of each type were appended
func (s *InMemoryEventStore) CountByType() map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	counts := make(map[string]int, len(s.counts))
	for eventType, n := range s.counts {
		counts[eventType] = n
	}
	return counts
}

// Position returns the number of events appended so far
func (s *InMemoryEventStore) Position() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.journal)
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := handlers[:0:0]
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}
	return nil
}
