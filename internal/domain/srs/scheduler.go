// Package srs implements the spaced-repetition scheduling rules: the staged
// interval table driving topic-level reviews, and the two legacy per-card
// paths that older clients still read.
package srs

import (
	"time"

	"github.com/rohitid33/sprint-rail/internal/domain"
)

// DefaultIntervals is the staged review interval table, in days after the
// previous review. A card at stage s waits DefaultIntervals[s-1] days.
var DefaultIntervals = []int{1, 3, 7, 14, 30, 60}

// Scheduler advances card schedules through a staged interval table.
type Scheduler struct {
	intervals []int
}

// NewScheduler creates a Scheduler with the default interval table.
func NewScheduler() *Scheduler {
	return &Scheduler{intervals: DefaultIntervals}
}

// NewSchedulerWithIntervals creates a Scheduler with a custom table.
// The table must be non-empty; a nil or empty table falls back to the default.
func NewSchedulerWithIntervals(intervals []int) *Scheduler {
	if len(intervals) == 0 {
		intervals = DefaultIntervals
	}
	return &Scheduler{intervals: intervals}
}

// MaxStage returns the highest reachable stage, equal to the table length.
func (s *Scheduler) MaxStage() int {
	return len(s.intervals)
}

// Advance computes the next stage for a review outcome. Success moves the
// stage up, capped at MaxStage. Failure moves it down with a floor of 1:
// a card that has been scheduled once never returns to stage 0.
func (s *Scheduler) Advance(stage int, success bool) int {
	if success {
		if stage+1 > len(s.intervals) {
			return len(s.intervals)
		}
		return stage + 1
	}
	if stage-1 < 1 {
		return 1
	}
	return stage - 1
}

// IntervalDays returns the wait in days for the given stage. Stages beyond
// the table clamp to the last entry; stage values below 1 clamp to the first.
func (s *Scheduler) IntervalDays(stage int) int {
	if stage < 1 {
		return s.intervals[0]
	}
	if stage > len(s.intervals) {
		return s.intervals[len(s.intervals)-1]
	}
	return s.intervals[stage-1]
}

// Next applies a review outcome to a schedule and returns the new schedule.
// The input is not modified. The returned schedule carries the advanced
// stage, the next review date computed from the new stage's interval, and
// the appended log entry. Performance is recorded verbatim; the state
// machine does not interpret it.
func (s *Scheduler) Next(
	sched domain.ReviewSchedule,
	success bool,
	performance float64,
	now time.Time,
) domain.ReviewSchedule {
	stage := s.Advance(sched.Stage, success)
	next := now.AddDate(0, 0, s.IntervalDays(stage))

	log := make([]domain.ScheduleEntry, len(sched.Log), len(sched.Log)+1)
	copy(log, sched.Log)
	log = append(log, domain.ScheduleEntry{
		Date:        now,
		Stage:       stage,
		Success:     success,
		Performance: performance,
	})

	return domain.ReviewSchedule{
		Stage:      stage,
		NextReview: &next,
		Log:        log,
	}
}

// NewScheduled returns the initial schedule for a card entering the review
// rotation directly: stage 1 with the first review one day out. Cards
// created through the structural raw-submit path instead keep the zero
// value (stage 0, no next review) until their first topic review.
func NewScheduled(now time.Time) domain.ReviewSchedule {
	next := now.AddDate(0, 0, 1)
	return domain.ReviewSchedule{
		Stage:      1,
		NextReview: &next,
		Log:        []domain.ScheduleEntry{},
	}
}
