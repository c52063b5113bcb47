package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ReconcileError reports that the store rejected the effects of an
// operation that had already been applied to the session view. The view has
// been reloaded from the store when Reloaded is true.
type ReconcileError struct {
	Op       string
	Err      error
	Reloaded bool
}

func (e *ReconcileError) Error() string {
	if e.Reloaded {
		return fmt.Sprintf("%s: %v; state reloaded from store", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v; reload failed", e.Op, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

// Result is an accepted operation. Its view fields are final; Wait reports
// whether the store confirmed the effects.
type Result struct {
	State    engine.State
	Warnings []engine.Warning
	Entry    *models.ActivityLog

	done chan struct{}
	err  error
}

// Wait blocks until the effects of the operation have been confirmed and
// returns a *ReconcileError if they were not.
func (r *Result) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Op computes an outcome from the current view.
type Op func(st engine.State, env engine.Env) (engine.Outcome, error)

// Session holds the in-memory view of one user's habits, goals and logs.
// Operations are serialized; view reads may run concurrently with them.
type Session struct {
	userID   string
	stores   repository.Stores
	loc      *time.Location
	logLimit int
	newEnv   func() engine.Env

	mu       sync.Mutex
	inflight chan struct{}

	viewMu   sync.RWMutex
	state    engine.State
	loaded   bool
	lastUsed time.Time
}

func newSession(userID string, stores repository.Stores, loc *time.Location, logLimit int, newEnv func() engine.Env) *Session {
	return &Session{
		userID:   userID,
		stores:   stores,
		loc:      loc,
		logLimit: logLimit,
		newEnv:   newEnv,
		lastUsed: time.Now(),
	}
}

// View returns a copy of the current view, loading it on first use.
func (s *Session) View(ctx context.Context) (engine.State, error) {
	s.viewMu.RLock()
	if s.loaded {
		st := s.state.Clone()
		s.viewMu.RUnlock()
		s.touch()
		return st, nil
	}
	s.viewMu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return engine.State{}, err
	}
	return s.snapshot(), nil
}

// Apply runs op against the view, swaps in its outcome and confirms the
// effects in the background. Op errors leave the view untouched.
func (s *Session) Apply(ctx context.Context, name string, op Op) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.awaitInflight(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out, err := op(s.snapshot(), s.newEnv())
	if err != nil {
		return nil, err
	}
	s.setState(out.State)

	res := &Result{
		State:    out.State.Clone(),
		Warnings: out.Warnings,
		Entry:    out.Entry,
		done:     make(chan struct{}),
	}
	for _, w := range out.Warnings {
		logger.Log.WithFields(logrus.Fields{
			"userID": s.userID,
			"op":     name,
			"code":   w.Code,
		}).Warn(w.Message)
	}

	s.inflight = res.done
	effects := out.Effects
	confirmCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(res.done)
		if err := runEffects(confirmCtx, s.stores, effects); err != nil {
			res.err = s.reconcile(confirmCtx, name, err)
		}
	}()
	return res, nil
}

// Write runs fn directly against the store and reloads the view afterwards.
// It is used for CRUD operations that carry no engine semantics.
func (s *Session) Write(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.awaitInflight(ctx); err != nil {
		return err
	}
	werr := fn(ctx)
	if err := s.reload(ctx); err != nil {
		s.invalidate()
		if werr != nil {
			return werr
		}
		return fmt.Errorf("failed to reload state: %w", err)
	}
	return werr
}

// Record appends a non-reversible log entry.
func (s *Session) Record(ctx context.Context, kind models.ActivityType, description, relatedID string) (*Result, error) {
	return s.Apply(ctx, "record activity", func(st engine.State, env engine.Env) (engine.Outcome, error) {
		return engine.RecordActivity(st, env, kind, description, relatedID), nil
	})
}

// Reload replaces the view with the store contents.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.awaitInflight(ctx); err != nil {
		return err
	}
	return s.reload(ctx)
}

func (s *Session) reconcile(ctx context.Context, name string, cause error) error {
	logger.Log.WithError(cause).WithFields(logrus.Fields{
		"userID": s.userID,
		"op":     name,
	}).Error("Store rejected effects, reloading state")

	rerr := &ReconcileError{Op: name, Err: cause}
	if err := s.reload(ctx); err != nil {
		logger.Log.WithError(err).WithField("userID", s.userID).Error("Failed to reload state")
		s.invalidate()
		return rerr
	}
	rerr.Reloaded = true
	return rerr
}

// awaitInflight waits for the previous operation's confirmation. Callers
// hold s.mu.
func (s *Session) awaitInflight(ctx context.Context) error {
	if s.inflight == nil {
		return nil
	}
	select {
	case <-s.inflight:
		s.inflight = nil
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) ensureLoaded(ctx context.Context) error {
	s.viewMu.RLock()
	loaded := s.loaded
	s.viewMu.RUnlock()
	if loaded {
		return nil
	}
	return s.reload(ctx)
}

func (s *Session) reload(ctx context.Context) error {
	habits, err := s.stores.Habits.ListHabits(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	goals, err := s.stores.Goals.ListGoals(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}
	logs, err := s.stores.Activity.ListActivityLog(ctx, s.userID, s.logLimit)
	if err != nil {
		return fmt.Errorf("failed to load activity log: %w", err)
	}
	engine.SortLogs(logs)

	s.setState(engine.State{UserID: s.userID, Habits: habits, Goals: goals, Logs: logs})
	return nil
}

func (s *Session) snapshot() engine.State {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.state.Clone()
}

func (s *Session) setState(st engine.State) {
	s.viewMu.Lock()
	s.state = st
	s.loaded = true
	s.lastUsed = time.Now()
	s.viewMu.Unlock()
}

func (s *Session) invalidate() {
	s.viewMu.Lock()
	s.state = engine.State{}
	s.loaded = false
	s.viewMu.Unlock()
}

func (s *Session) touch() {
	s.viewMu.Lock()
	s.lastUsed = time.Now()
	s.viewMu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.lastUsed
}

// SessionManager hands out one Session per user.
type SessionManager struct {
	stores   repository.Stores
	loc      *time.Location
	logLimit int

	// NewEnv builds the engine environment for each operation.
	NewEnv func() engine.Env

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager creates a manager whose sessions read at most logLimit
// log entries and compute calendar days in loc.
func NewSessionManager(stores repository.Stores, loc *time.Location, logLimit int) *SessionManager {
	if loc == nil {
		loc = time.UTC
	}
	return &SessionManager{
		stores:   stores,
		loc:      loc,
		logLimit: logLimit,
		NewEnv:   func() engine.Env { return engine.DefaultEnv(loc) },
		sessions: map[string]*Session{},
	}
}

// Get returns the session of userID, creating it if needed. Getting a
// session counts as use, so EvictIdle cannot drop it before the caller's
// next call on it.
func (m *SessionManager) Get(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = newSession(userID, m.stores, m.loc, m.logLimit, func() engine.Env { return m.NewEnv() })
		m.sessions[userID] = s
		return s
	}
	s.touch()
	return s
}

// Location returns the location calendar days are computed in.
func (m *SessionManager) Location() *time.Location { return m.loc }

// Drop forgets the session of userID.
func (m *SessionManager) Drop(userID string) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}

// EvictIdle drops sessions unused for longer than ttl that have no
// operation in progress, and returns how many were dropped.
func (m *SessionManager) EvictIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for userID, s := range m.sessions {
		if s.idleSince().After(cutoff) {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		busy := false
		if s.inflight != nil {
			select {
			case <-s.inflight:
			default:
				busy = true
			}
		}
		s.mu.Unlock()
		if busy {
			continue
		}
		delete(m.sessions, userID)
		evicted++
	}
	return evicted
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
