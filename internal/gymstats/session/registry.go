package session

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/gymplanner/internal/notify"
	"github.com/2beens/gymplanner/internal/telemetry/metrics"
	"github.com/2beens/gymplanner/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultInactivity        = 45 * time.Minute
	DefaultMinNotifyDuration = 30

	sourceTimer   = "timer"
	sourceSweeper = "sweeper"
)

type tracker struct {
	// saveMu orders the deadline writes of one tracker
	saveMu sync.Mutex

	signal     Signal
	start      time.Time
	deadline   time.Time
	timer      Timer
	generation uint64
	// persisted is false when the last deadline write failed
	persisted bool
}

func (t *tracker) record() Deadline {
	return Deadline{
		UserID:      t.signal.UserID,
		DayID:       t.signal.DayID,
		Fingerprint: t.signal.Fingerprint,
		Start:       t.start,
		Deadline:    t.deadline,
	}
}

type RegistryParams struct {
	Inactivity time.Duration
	// MinNotifyDuration in minutes; shorter sessions are stored but not notified.
	MinNotifyDuration int
	FinalizeTimeout   time.Duration

	Clock     Clock
	DayStore  DayStore
	Sender    notify.Sender
	Deadlines DeadlineStore
	Events    EventRecorder
	Metrics   *metrics.Manager
}

// Registry owns the live session trackers, at most one per (day, device).
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*tracker
	closed   bool
	wg       sync.WaitGroup

	inactivity        time.Duration
	minNotifyDuration int
	finalizeTimeout   time.Duration

	clock     Clock
	dayStore  DayStore
	sender    notify.Sender
	deadlines DeadlineStore
	events    EventRecorder
	metrics   *metrics.Manager
}

func NewRegistry(params RegistryParams) *Registry {
	if params.Inactivity <= 0 {
		params.Inactivity = DefaultInactivity
	}
	if params.MinNotifyDuration <= 0 {
		params.MinNotifyDuration = DefaultMinNotifyDuration
	}
	if params.FinalizeTimeout <= 0 {
		params.FinalizeTimeout = 10 * time.Second
	}
	if params.Clock == nil {
		params.Clock = RealClock()
	}
	if params.Sender == nil {
		params.Sender = notify.LogSender{}
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewTestManager()
	}

	return &Registry{
		trackers:          make(map[string]*tracker),
		inactivity:        params.Inactivity,
		minNotifyDuration: params.MinNotifyDuration,
		finalizeTimeout:   params.FinalizeTimeout,
		clock:             params.Clock,
		dayStore:          params.DayStore,
		sender:            params.Sender,
		deadlines:         params.Deadlines,
		events:            params.Events,
		metrics:           params.Metrics,
	}
}

// HandleActivitySignal starts or extends the session of the signalling device.
// It returns false when the changed attributes carry no activity or the registry
// is closed.
func (r *Registry) HandleActivitySignal(ctx context.Context, signal Signal, changedAttributes []string) (State, bool) {
	if !IsActivity(changedAttributes) {
		return State{}, false
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "session.registry.activity")
	defer span.End()
	span.SetAttributes(attribute.String("day-id", signal.DayID))

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return State{}, false
	}

	now := r.clock.Now()
	key := signal.key()
	t, found := r.trackers[key]
	if found {
		t.timer.Stop()
		t.generation++
	} else {
		t = &tracker{
			signal: signal,
			start:  now,
		}
		r.trackers[key] = t
		r.metrics.CounterSessionsStarted.Inc()
		r.metrics.GaugeActiveSessions.Inc()
		log.Debugf("session [%s]: recording started for [%s]", key, signal.UserID)
	}

	// the user id of the latest signal wins
	t.signal.UserID = signal.UserID
	t.deadline = now.Add(r.inactivity)
	generation := t.generation
	t.timer = r.clock.AfterFunc(r.inactivity, func() {
		r.onInactive(key, generation)
	})

	state := State{
		Recording: true,
		StartTime: t.start,
		Started:   !found,
	}
	r.mu.Unlock()

	if r.deadlines != nil {
		r.persistDeadline(ctx, key, t, generation)
	}

	if state.Started && r.events != nil {
		if _, err := r.events.RecordTrainingStarted(ctx, signal.UserID, signal.DayID, now); err != nil {
			log.Errorf("session [%s]: record training started: %s", key, err)
		}
	}

	return state, true
}

// persistDeadline writes the tracker deadline outside the registry lock. A write
// is dropped when a newer signal for the same key already took over.
func (r *Registry) persistDeadline(ctx context.Context, key string, t *tracker, generation uint64) {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	r.mu.Lock()
	if r.trackers[key] != t || t.generation != generation {
		r.mu.Unlock()
		return
	}
	d := t.record()
	r.mu.Unlock()

	err := r.deadlines.Save(ctx, d)
	if err != nil {
		log.Errorf("session [%s]: save deadline: %s", key, err)
	}

	r.mu.Lock()
	if t.generation == generation {
		t.persisted = err == nil
	}
	r.mu.Unlock()
}

// isRecording reports whether a live tracker exists for the day and device.
func (r *Registry) isRecording(dayID, fingerprint string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.trackers[Signal{DayID: dayID, Fingerprint: fingerprint}.key()]
	return ok
}

func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

func (r *Registry) onInactive(key string, generation uint64) {
	r.mu.Lock()
	t, ok := r.trackers[key]
	if !ok || t.generation != generation || r.closed {
		r.mu.Unlock()
		return
	}
	// deregister first, a signal arriving during finalization starts a fresh session
	delete(r.trackers, key)
	d := t.record()
	persisted := t.persisted
	r.wg.Add(1)
	r.mu.Unlock()

	defer r.wg.Done()
	defer r.metrics.GaugeActiveSessions.Dec()

	ctx, cancel := context.WithTimeout(context.Background(), r.finalizeTimeout)
	defer cancel()

	if r.deadlines != nil && persisted {
		claimed, err := r.deadlines.Claim(ctx, d.ID())
		if err != nil {
			log.Errorf("session [%s]: claim deadline: %s", key, err)
		} else if !claimed {
			log.Debugf("session [%s]: already finalized elsewhere", key)
			return
		}
	}

	r.finalize(ctx, d, r.clock.Now(), sourceTimer)
}

// finalize measures the session, stores it on the day and notifies the device.
// Failures are logged; the session is considered finished either way.
func (r *Registry) finalize(ctx context.Context, d Deadline, end time.Time, source string) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.registry.finalize")
	defer span.End()

	duration := Duration(d.Start, end, r.inactivity)
	span.SetAttributes(attribute.String("day-id", d.DayID))
	span.SetAttributes(attribute.Int("duration", duration))
	span.SetAttributes(attribute.String("source", source))

	summary := Summary{
		StartTime:         d.Start,
		EndTime:           end,
		DurationInMinutes: duration,
	}
	if r.dayStore != nil {
		if err := r.dayStore.RecordSession(ctx, d.UserID, d.DayID, summary); err != nil {
			log.Errorf("session [%s]: record session on day: %s", d.key(), err)
			span.RecordError(err)
		}
	}

	if duration >= r.minNotifyDuration {
		payload := notify.NewSessionSummary(d.DayID, d.Start, end, duration)
		if err := r.sender.Send(ctx, d.UserID, d.Fingerprint, payload); err != nil {
			log.Errorf("session [%s]: send notification: %s", d.key(), err)
			r.metrics.CounterNotifications.WithLabelValues("error").Inc()
		} else {
			r.metrics.CounterNotifications.WithLabelValues("sent").Inc()
		}
	}

	if r.events != nil {
		if _, err := r.events.RecordTrainingFinished(ctx, d.UserID, d.DayID, d.Start, end, duration); err != nil {
			log.Errorf("session [%s]: record training finished: %s", d.key(), err)
		}
	}

	if r.deadlines != nil {
		if err := r.deadlines.Delete(ctx, d.ID()); err != nil {
			log.Errorf("session [%s]: delete deadline: %s", d.key(), err)
		}
	}

	r.metrics.CounterSessionsFinalized.WithLabelValues(source).Inc()
	r.metrics.HistSessionDuration.Observe(float64(duration))
	log.Debugf("session [%s]: finalized by %s, %d minutes", d.key(), source, duration)
}

// isLive reports whether d belongs to a session this registry still tracks.
func (r *Registry) isLive(d Deadline) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[d.key()]
	return ok && t.start.Equal(d.Start)
}

// Close stops all timers without finalizing. Durable deadlines stay in the store
// and are picked up by the sweeper after a restart.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.metrics.GaugeActiveSessions.Sub(float64(len(r.trackers)))
	for key, t := range r.trackers {
		t.timer.Stop()
		delete(r.trackers, key)
	}
	r.mu.Unlock()

	r.wg.Wait()
}
