// Package progress implements the in-memory broadcast hub that fans job
// lifecycle events out to live observers.
package progress

import (
	"sync"

	"github.com/google/uuid"

	"atelier-service/internal/core/domain"
)

// subscriberBuffer bounds how far an observer may lag before non-terminal
// events are dropped for it.
const subscriberBuffer = 64

// Hub maps in-flight job ids to their current observer sets. It is owned by
// the orchestrator's lifetime and injected wherever events are consumed; it
// holds no persistent state. Publishing never blocks on an observer, and a
// job's bookkeeping is dropped once its terminal event has been handed to
// every registered observer.
type Hub struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{jobs: make(map[uuid.UUID]map[*Subscription]struct{})}
}

// Subscribe registers a new observer for jobID. Safe at any point in the
// job's lifecycle; a late subscriber simply misses earlier events.
func (h *Hub) Subscribe(jobID uuid.UUID) *Subscription {
	s := &Subscription{
		hub:   h,
		jobID: jobID,
		ch:    make(chan domain.ProgressEvent, subscriberBuffer),
	}

	h.mu.Lock()
	set, ok := h.jobs[jobID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.jobs[jobID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	return s
}

// Publish fans event out to every current observer of event.JobID. A job
// with zero observers publishes into the void without error. After a
// terminal event the job's observer set is discarded.
func (h *Hub) Publish(event domain.ProgressEvent) {
	terminal := event.Terminal()

	h.mu.Lock()
	set := h.jobs[event.JobID]
	subs := make([]*Subscription, 0, len(set))
	for s := range set {
		subs = append(subs, s)
	}
	if terminal {
		delete(h.jobs, event.JobID)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.deliver(event, terminal)
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	if set, ok := h.jobs[s.jobID]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(h.jobs, s.jobID)
		}
	}
	h.mu.Unlock()
}

// Jobs reports how many jobs currently have bookkeeping. Used to verify the
// hub does not leak state across job lifetimes.
func (h *Hub) Jobs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.jobs)
}

// Subscription is one observer's handle on a job's event stream. Events
// arrive on Events() in publish order; the channel closes after a terminal
// event or Close.
type Subscription struct {
	hub   *Hub
	jobID uuid.UUID

	mu     sync.Mutex
	ch     chan domain.ProgressEvent
	closed bool
}

func (s *Subscription) Events() <-chan domain.ProgressEvent {
	return s.ch
}

func (s *Subscription) JobID() uuid.UUID {
	return s.jobID
}

// Close unregisters the observer. Idempotent; safe after the job has ended.
func (s *Subscription) Close() {
	s.hub.remove(s)

	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	s.mu.Unlock()
}

// deliver enqueues without ever blocking the publisher. A full buffer drops
// the new event, except for terminal events which evict the oldest buffered
// event until they fit, so every still-registered observer sees the job end.
func (s *Subscription) deliver(event domain.ProgressEvent, terminal bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if !terminal {
		select {
		case s.ch <- event:
		default:
		}
		return
	}

	for {
		select {
		case s.ch <- event:
			s.closed = true
			close(s.ch)
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}
