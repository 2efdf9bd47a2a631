package plans

import (
	log "github.com/sirupsen/logrus"
)

// Propagator replays the structural part of an edit into later weeks of the same day slot.
type Propagator struct {
	processor *DiffProcessor
}

func NewPropagator(processor *DiffProcessor) *Propagator {
	return &Propagator{
		processor: processor,
	}
}

// Propagate applies diff, minus weight, actualRPE and estimatedMax, to the day at
// dayIndex of every week after fromWeek. It is strictly forward and overwrites whatever
// later weeks held at the targeted keys. The returned map is keyed by week index.
func (p *Propagator) Propagate(plan *Plan, fromWeek, dayIndex int, diff Diff) map[int]ApplyReport {
	structural := diff.Structural()
	if len(structural) == 0 {
		return nil
	}

	reports := make(map[int]ApplyReport)
	for w := fromWeek + 1; w < len(plan.Weeks); w++ {
		day, err := plan.Day(w, dayIndex)
		if err != nil {
			log.Warnf("propagate [plan %s]: %s", plan.ID, err)
			continue
		}
		reports[w] = p.processor.Apply(day, structural)
	}

	log.Tracef("propagate [plan %s]: %d keys from week %d day %d into %d weeks", plan.ID, len(structural), fromWeek, dayIndex, len(reports))
	return reports
}
