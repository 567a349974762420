package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/ghlookup/internal/apperror"
	"github.com/sakif/ghlookup/internal/lookup"
)

// STORAGE:
// Sessions live in a plain map guarded by one mutex. Each entry holds the
// visitor's *lookup.State (which has its own lock for the lookup lifecycle)
// and when it was last used.
//
// EXPIRY IS CHECKED TWICE:
//   - Get refuses (and deletes) an entry idle longer than ttl, so an
//     expired session is never handed out even between sweeps.
//   - The sweeper goroutine calls Sweep every interval to free entries
//     nobody asks for again.

type entry struct {
	state    *lookup.State
	lastSeen time.Time
}

// Store holds live sessions in memory and expires idle ones.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewStore creates a Store. Sessions idle for longer than ttl are removed by
// the sweeper every interval once Start is called.
func NewStore(ttl, interval time.Duration, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Create registers a fresh Idle state and returns its ID.
func (s *Store) Create() (string, *lookup.State) {
	id := xid.New().String()
	st := lookup.NewState()

	s.mu.Lock()
	s.sessions[id] = &entry{state: st, lastSeen: s.now()}
	s.mu.Unlock()

	return id, st
}

// Get returns the state for id and marks it as recently used.
func (s *Store) Get(id string) (*lookup.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, apperror.NotFound("session", id)
	}
	now := s.now()
	if now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, apperror.NotFound("session", id)
	}
	e.lastSeen = now
	return e.state, nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Start launches the background sweeper. Calling it twice is a no-op.
//
// GOROUTINE LIFECYCLE:
// The sweeper owns a ticker and exits when done is closed. wg lets Stop
// wait for that exit, so nothing touches the store after Stop returns.
// sync.Once guards both ends because server shutdown and tests may each
// call Stop.
func (s *Store) Start() {
	s.startOnce.Do(func() {
		s.logger.Info("starting session sweeper",
			slog.Duration("ttl", s.ttl),
			slog.Duration("interval", s.interval),
		)
		s.wg.Add(1)
		go s.sweeper()
	})
}

// Stop halts the sweeper and waits for it to exit.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

func (s *Store) sweeper() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("expired idle sessions",
					slog.Int("removed", n),
					slog.Int("remaining", s.Len()),
				)
			}
		}
	}
}
