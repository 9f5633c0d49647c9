// Package session_test provides unit tests for the session registry.
package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedesk/agent-service/internal/domain/models"
	"github.com/voicedesk/agent-service/internal/services/session"
)

const testPrompt = "You are a scheduling assistant."

// fakeClock is a mutex-guarded clock safe to advance while the reaper
// goroutine reads it.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFetchOrCreate_SeedsSystemPrompt(t *testing.T) {
	r := session.NewRegistry(&session.Config{SystemPrompt: testPrompt})
	defer r.Close(context.Background())

	sess := r.FetchOrCreate("s1")

	require.NotNil(t, sess)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, models.RoleSystem, sess.Messages[0].Role)
	assert.Equal(t, testPrompt, sess.Messages[0].Content)
}

func TestFetchOrCreate_ReturnsSameSession(t *testing.T) {
	r := session.NewRegistry(&session.Config{SystemPrompt: testPrompt})
	defer r.Close(context.Background())

	first := r.FetchOrCreate("s1")
	first.Collected.Name = "Jane"

	second := r.FetchOrCreate("s1")

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())
}

func TestBeginTurn_RejectsConcurrentTurn(t *testing.T) {
	r := session.NewRegistry(&session.Config{SystemPrompt: testPrompt})
	defer r.Close(context.Background())

	sess, ok := r.BeginTurn("s1")
	require.True(t, ok)
	require.NotNil(t, sess)

	// Second turn on the same session while the first is in flight
	_, ok = r.BeginTurn("s1")
	assert.False(t, ok)

	// A different session is unaffected
	_, ok = r.BeginTurn("s2")
	assert.True(t, ok)

	r.EndTurn("s1")
	_, ok = r.BeginTurn("s1")
	assert.True(t, ok)
}

func TestMarkBooked(t *testing.T) {
	r := session.NewRegistry(&session.Config{SystemPrompt: testPrompt})
	defer r.Close(context.Background())

	r.FetchOrCreate("s1")
	r.MarkBooked("s1")

	sess := r.Get("s1")
	require.NotNil(t, sess)
	assert.True(t, sess.Booked)
	assert.Equal(t, models.StateBooked, sess.State())
}

func TestMarkBooked_WaitsForInFlightTurn(t *testing.T) {
	r := session.NewRegistry(&session.Config{SystemPrompt: testPrompt})
	defer r.Close(context.Background())

	_, ok := r.BeginTurn("s1")
	require.True(t, ok)

	done := make(chan struct{})
	go func() {
		r.MarkBooked("s1")
		close(done)
	}()

	// Session fields are written under the turn lock, so the write
	// must block until the turn ends.
	select {
	case <-done:
		t.Fatal("MarkBooked completed while a turn was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	r.EndTurn("s1")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("MarkBooked did not complete after the turn ended")
	}
	assert.True(t, r.Get("s1").Booked)
}

func TestRange_VisitsAllSessions(t *testing.T) {
	r := session.NewRegistry(&session.Config{SystemPrompt: testPrompt})
	defer r.Close(context.Background())

	r.FetchOrCreate("s1")
	r.FetchOrCreate("s2")

	seen := 0
	r.Range(func(sess *models.DialogueSession) bool {
		seen++
		return true
	})

	assert.Equal(t, 2, seen)
}

func TestRange_StopsOnFalse(t *testing.T) {
	r := session.NewRegistry(&session.Config{SystemPrompt: testPrompt})
	defer r.Close(context.Background())

	r.FetchOrCreate("s1")
	r.FetchOrCreate("s2")

	seen := 0
	r.Range(func(sess *models.DialogueSession) bool {
		seen++
		return false
	})

	assert.Equal(t, 1, seen)
}

func TestReaper_RemovesIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Now()}

	r := session.NewRegistry(&session.Config{
		SystemPrompt:  testPrompt,
		Clock:         clock.Now,
		IdleTimeout:   50 * time.Millisecond,
		SweepInterval: 10 * time.Millisecond,
	})
	defer r.Close(context.Background())

	r.FetchOrCreate("stale")
	require.Equal(t, 1, r.Len())

	// Advance the injected clock past the idle timeout and let the
	// reaper run.
	clock.Advance(time.Minute)

	assert.Eventually(t, func() bool {
		return r.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestReaper_SkipsSessionsWithTurnInFlight(t *testing.T) {
	clock := &fakeClock{now: time.Now()}

	r := session.NewRegistry(&session.Config{
		SystemPrompt:  testPrompt,
		Clock:         clock.Now,
		IdleTimeout:   50 * time.Millisecond,
		SweepInterval: 10 * time.Millisecond,
	})
	defer r.Close(context.Background())

	_, ok := r.BeginTurn("busy")
	require.True(t, ok)

	clock.Advance(time.Minute)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, r.Len())
	r.EndTurn("busy")
}
