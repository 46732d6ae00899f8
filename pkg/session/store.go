package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/wizard"
)

const (
	defaultTTL           = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// ErrNotFound is returned for unknown, expired or discarded sessions.
var ErrNotFound = errors.New("session: not found")

// Session is a snapshot of one visitor's flow.
type Session struct {
	ID        string
	CSRFToken string
	State     wizard.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

type entry struct {
	mu      sync.Mutex
	session Session
	gone    atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long an idle session lives.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often Run evicts expired sessions.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Store) {
		if interval > 0 {
			s.sweepEvery = interval
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger for lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.Named("session")
		}
	}
}

// Store is an in-memory session registry safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	ttl        time.Duration
	sweepEvery time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions:   make(map[string]*entry),
		ttl:        defaultTTL,
		sweepEvery: defaultSweepInterval,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create starts a session with an empty draft on the account step.
func (s *Store) Create() Session {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		CSRFToken: uuid.NewString(),
		State:     wizard.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = &entry{session: sess}
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session_id", sess.ID))
	return sess
}

// Get returns a snapshot of a live session.
func (s *Store) Get(id string) (Session, bool) {
	e, ok := s.lookup(id)
	if !ok {
		return Session{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone.Load() || s.expired(e.session) {
		return Session{}, false
	}
	return e.session, true
}

// Apply reduces events in order against the session state. The effect of
// the last event is returned; on error the state is left unchanged.
func (s *Store) Apply(id string, events ...wizard.Event) (Session, wizard.Effect, error) {
	var effect wizard.Effect
	sess, err := s.Update(id, func(sess *Session) error {
		next, eff, err := wizard.ReduceAll(sess.State, events...)
		if err != nil {
			return err
		}
		sess.State = next
		effect = eff
		return nil
	})
	return sess, effect, err
}

// Update runs fn with exclusive access to the session. Changes fn makes are
// kept only when it returns nil. Calling Discard from fn is allowed.
func (s *Store) Update(id string, fn func(*Session) error) (Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone.Load() || s.expired(e.session) {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	working := e.session
	if err := fn(&working); err != nil {
		return e.session, err
	}
	working.ID = e.session.ID
	working.UpdatedAt = s.now()
	e.session = working
	return working, nil
}

// Discard removes a session. Unknown ids are ignored.
func (s *Store) Discard(id string) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		// gone is atomic so Discard works while Update holds the entry lock.
		e.gone.Store(true)
		s.logger.Debug("session discarded", zap.String("session_id", id))
	}
}

// Len reports the number of stored sessions, expired ones included until the
// next sweep.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			// Busy sessions are in use, so not idle.
			continue
		}
		if s.expired(e.session) {
			e.gone.Store(true)
			delete(s.sessions, id)
			removed++
		}
		e.mu.Unlock()
	}
	if removed > 0 {
		s.logger.Debug("sessions evicted", zap.Int("count", removed))
	}
	return removed
}

// Run sweeps on an interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

func (s *Store) expired(sess Session) bool {
	return s.now().Sub(sess.UpdatedAt) > s.ttl
}
