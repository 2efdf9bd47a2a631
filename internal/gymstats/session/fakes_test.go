package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/2beens/gymplanner/internal/notify"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward, running due timers in order on the caller goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.mu.Unlock()

		next.f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type memDayStore struct {
	mu        sync.Mutex
	summaries map[string]Summary
	err       error
}

func newMemDayStore() *memDayStore {
	return &memDayStore{summaries: make(map[string]Summary)}
}

func (s *memDayStore) RecordSession(_ context.Context, _, dayID string, summary Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.summaries[dayID] = summary
	return nil
}

func (s *memDayStore) get(dayID string) (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.summaries[dayID]
	return summary, ok
}

type fakeSender struct {
	mu   sync.Mutex
	sent []notify.Payload
	err  error
}

func (s *fakeSender) Send(_ context.Context, _, _ string, payload notify.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, payload)
	return s.err
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type memDeadlines struct {
	mu        sync.Mutex
	entries   map[string]Deadline
	scheduled map[string]bool
	saveErr   error
}

func newMemDeadlines() *memDeadlines {
	return &memDeadlines{
		entries:   make(map[string]Deadline),
		scheduled: make(map[string]bool),
	}
}

func (s *memDeadlines) Save(_ context.Context, d Deadline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.entries[d.ID()] = d
	s.scheduled[d.ID()] = true
	return nil
}

func (s *memDeadlines) Expired(_ context.Context, now time.Time) ([]Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []Deadline
	for id, d := range s.entries {
		if s.scheduled[id] && !d.Deadline.After(now) {
			expired = append(expired, d)
		}
	}
	return expired, nil
}

func (s *memDeadlines) Claim(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scheduled[id] {
		return false, nil
	}
	delete(s.scheduled, id)
	return true, nil
}

func (s *memDeadlines) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scheduled, id)
	delete(s.entries, id)
	return nil
}

func (s *memDeadlines) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type fakeEvents struct {
	mu       sync.Mutex
	started  int
	finished int
	fail     bool
}

func (e *fakeEvents) RecordTrainingStarted(context.Context, string, string, time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail {
		return 0, errors.New("events down")
	}
	e.started++
	return e.started, nil
}

func (e *fakeEvents) RecordTrainingFinished(context.Context, string, string, time.Time, time.Time, int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail {
		return 0, errors.New("events down")
	}
	e.finished++
	return e.finished, nil
}
