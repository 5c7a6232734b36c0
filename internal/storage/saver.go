package storage

import (
	"errors"
	"sync"
)

var errSaveFailed = errors.New("save failed")

// Saver decouples store mutations from backend writes. Save never blocks:
// the newest snapshot replaces any still-pending one and a single goroutine
// drains writes in order, so the backend always converges on the latest
// state. Write errors are dropped; the in-memory state stays the source of
// truth for the running session.
type Saver struct {
	backend Backend
	key     string

	mu         sync.Mutex
	cond       *sync.Cond
	pending    []byte
	hasPending bool
	writing    bool
	closed     bool
}

func NewSaver(backend Backend, key string) *Saver {
	s := &Saver{backend: backend, key: key}
	s.cond = sync.NewCond(&s.mu)
	go s.loop()
	return s
}

// Save queues snapshot for writing and returns immediately.
func (s *Saver) Save(snapshot []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = snapshot
	s.hasPending = true
	s.cond.Broadcast()
}

func (s *Saver) loop() {
	s.mu.Lock()
	for {
		for !s.hasPending && !s.closed {
			s.cond.Wait()
		}
		if !s.hasPending {
			s.mu.Unlock()
			return
		}
		data := s.pending
		s.pending = nil
		s.hasPending = false
		s.writing = true
		s.mu.Unlock()

		s.backend.Save(s.key, data) // best effort

		s.mu.Lock()
		s.writing = false
		s.cond.Broadcast()
	}
}

// Flush blocks until every snapshot handed to Save has been offered to the
// backend. Used at shutdown and in tests.
func (s *Saver) Flush() {
	s.mu.Lock()
	for s.hasPending || s.writing {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// Close flushes outstanding writes and stops the writer goroutine.
func (s *Saver) Close() {
	s.mu.Lock()
	for s.hasPending || s.writing {
		s.cond.Wait()
	}
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
}
