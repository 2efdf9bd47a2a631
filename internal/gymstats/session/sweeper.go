package session

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Sweeper finalizes sessions whose deadline passed while no process held a timer
// for them, e.g. after a restart.
type Sweeper struct {
	registry  *Registry
	deadlines DeadlineStore
	clock     Clock
	interval  time.Duration
}

func NewSweeper(registry *Registry, deadlines DeadlineStore, interval time.Duration) *Sweeper {
	return &Sweeper{
		registry:  registry,
		deadlines: deadlines,
		clock:     registry.clock,
		interval:  interval,
	}
}

// SweepOnce returns the number of sessions it finalized.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	expired, err := s.deadlines.Expired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("list expired deadlines: %w", err)
	}

	finalized := 0
	for _, d := range expired {
		if s.registry.isLive(d) {
			continue
		}

		claimed, err := s.deadlines.Claim(ctx, d.ID())
		if err != nil {
			log.Errorf("sweeper: claim [%s]: %s", d.ID(), err)
			continue
		}
		if !claimed {
			continue
		}

		s.registry.finalize(ctx, d, d.Deadline, sourceSweeper)
		finalized++
	}

	return finalized, nil
}

// Run sweeps once immediately, then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debugln("sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.SweepOnce(ctx)
	if err != nil {
		log.Errorf("sweeper: %s", err)
		return
	}
	if n > 0 {
		log.Infof("sweeper: finalized %d orphaned sessions", n)
	}
}
