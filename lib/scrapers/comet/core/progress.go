package core

import "sync"

type EventKind int

const (
	// total number of steps in the current phase
	EventStepCount EventKind = iota
	// index of the step being worked on
	EventStepIndex
	// a new phase began
	EventPhase
	// human-readable status, empty string clears a previous message
	EventStatus
	// the url currently being fetched
	EventURL
)

// Event is a progress notification pushed from the extraction worker
// to whoever is watching it.
type Event struct {
	Kind  EventKind
	Steps int
	Step  int
	Phase string
	// set for EventStatus
	Status string
	// set for EventURL
	Url string
}

// Sink receives progress events. Emit must not block the worker.
type Sink interface {
	Emit(Event)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// ChannelSink forwards events to a channel in emission order without
// ever blocking the producer. Events queue internally until the
// consumer drains them.
type ChannelSink struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool
	out    chan Event
}

func NewChannelSink() *ChannelSink {
	s := &ChannelSink{
		out: make(chan Event),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.drain()
	return s
}

// Events yields every emitted event in order. The channel closes
// after Close is called and the queue has drained.
func (s *ChannelSink) Events() <-chan Event {
	return s.out
}

func (s *ChannelSink) Emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, e)
	s.cond.Signal()
}

func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cond.Signal()
}

func (s *ChannelSink) drain() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 && s.closed {
			s.mu.Unlock()
			close(s.out)
			return
		}
		e := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.out <- e
	}
}
