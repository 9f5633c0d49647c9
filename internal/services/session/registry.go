// Package session keeps dialogue sessions in process memory and
// serializes turns per session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voicedesk/agent-service/internal/domain/models"
)

// Config holds the configuration for the session registry.
type Config struct {
	// SystemPrompt seeds every new session's message history.
	SystemPrompt string
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// IdleTimeout is how long a session may go without activity before
	// the reaper removes it. Zero disables reaping.
	IdleTimeout time.Duration
	// SweepInterval is how often the reaper scans. Defaults to 5 minutes
	// when IdleTimeout is set.
	SweepInterval time.Duration
}

type entry struct {
	session *models.DialogueSession
	turnMu  sync.Mutex
}

// Registry stores sessions keyed by session ID. Each session carries a
// turn lock so only one turn is processed at a time per session.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry

	systemPrompt string
	clock        func() time.Time
	idleTimeout  time.Duration

	done   chan struct{}
	closer sync.Once
}

// NewRegistry creates a new session registry and, when an idle timeout
// is configured, starts the background reaper.
func NewRegistry(cfg *Config) *Registry {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	r := &Registry{
		entries:      make(map[string]*entry),
		systemPrompt: cfg.SystemPrompt,
		clock:        clock,
		idleTimeout:  cfg.IdleTimeout,
		done:         make(chan struct{}),
	}

	if cfg.IdleTimeout > 0 {
		interval := cfg.SweepInterval
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go r.reap(interval)
	}

	return r
}

// FetchOrCreate returns the session for the given ID, creating it with
// the configured system prompt when it does not exist.
func (r *Registry) FetchOrCreate(sessionID string) *models.DialogueSession {
	r.mu.RLock()
	e, ok := r.entries[sessionID]
	r.mu.RUnlock()
	if ok {
		return e.session
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[sessionID]; ok {
		return e.session
	}
	sess := models.NewDialogueSession(sessionID, r.systemPrompt, r.clock())
	r.entries[sessionID] = &entry{session: sess}
	log.Debug().Str("session_id", sessionID).Msg("Created dialogue session")
	return sess
}

// BeginTurn acquires the session's turn lock without blocking. It
// returns the session and true on success; callers must call EndTurn
// when the turn finishes. False means another turn is in flight.
func (r *Registry) BeginTurn(sessionID string) (*models.DialogueSession, bool) {
	sess := r.FetchOrCreate(sessionID)

	r.mu.RLock()
	e := r.entries[sessionID]
	r.mu.RUnlock()
	if e == nil {
		return nil, false
	}
	if !e.turnMu.TryLock() {
		return nil, false
	}
	return sess, true
}

// EndTurn releases the session's turn lock.
func (r *Registry) EndTurn(sessionID string) {
	r.mu.RLock()
	e := r.entries[sessionID]
	r.mu.RUnlock()
	if e != nil {
		e.turnMu.Unlock()
	}
}

// Get returns the session for the given ID, or nil when absent.
func (r *Registry) Get(sessionID string) *models.DialogueSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[sessionID]; ok {
		return e.session
	}
	return nil
}

// MarkBooked flags the session as booked so later turns short-circuit.
// Session fields are only written under the turn lock, so this waits
// out any turn in flight.
func (r *Registry) MarkBooked(sessionID string) {
	r.mu.RLock()
	e, ok := r.entries[sessionID]
	r.mu.RUnlock()
	if ok {
		e.turnMu.Lock()
		e.session.Booked = true
		e.session.LastUpdated = r.clock()
		e.turnMu.Unlock()
	}
}

// Range calls fn for each live session until fn returns false.
func (r *Registry) Range(fn func(sess *models.DialogueSession) bool) {
	r.mu.RLock()
	sessions := make([]*models.DialogueSession, 0, len(r.entries))
	for _, e := range r.entries {
		sessions = append(sessions, e.session)
	}
	r.mu.RUnlock()

	for _, sess := range sessions {
		if !fn(sess) {
			return
		}
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close stops the reaper.
func (r *Registry) Close(_ context.Context) error {
	r.closer.Do(func() { close(r.done) })
	return nil
}

func (r *Registry) reap(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep removes sessions idle past the timeout. LastUpdated is only
// written under the turn lock, so it is read there too; sessions whose
// lock is held are skipped and picked up on a later pass.
func (r *Registry) sweep() {
	cutoff := r.clock().Add(-r.idleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		if !e.turnMu.TryLock() {
			continue
		}
		idle := !e.session.LastUpdated.After(cutoff)
		e.turnMu.Unlock()
		if !idle {
			continue
		}
		delete(r.entries, id)
		log.Debug().Str("session_id", id).Msg("Reaped idle dialogue session")
	}
}
