package order

import (
	"time"
)

// Schedule holds how long an order stays in each non-terminal status, in
// progression order. Once the whole window has elapsed the order is DELIVERED.
type Schedule []time.Duration

// DefaultSchedule splits a 30-minute delivery window into five equal stages.
func DefaultSchedule() Schedule {
	return Schedule{
		6 * time.Minute, // PENDING
		6 * time.Minute, // CONFIRMED
		6 * time.Minute, // PREPARING
		6 * time.Minute, // READY_FOR_DELIVERY
		6 * time.Minute, // OUT_FOR_DELIVERY
	}
}

// Window returns the total length of the schedule.
func (s Schedule) Window() time.Duration {
	var total time.Duration
	for _, d := range s {
		total += d
	}

	return total
}

// StatusAt computes the status an order created at createdAt should hold at
// now. It is a pure function: persisting the result is the caller's job.
//
// The stored status is never regressed, CANCELLED and DELIVERED are left
// untouched, and an elapsed time at or below zero maps to the first stage.
func (s Schedule) StatusAt(createdAt, now time.Time, stored Status) Status {
	if stored.Terminal() {
		return stored
	}

	computed := s.statusByElapsed(now.Sub(createdAt))
	if computed.rank() < stored.rank() {
		return stored
	}

	return computed
}

func (s Schedule) statusByElapsed(elapsed time.Duration) Status {
	if elapsed <= 0 {
		return progression[0]
	}

	var boundary time.Duration
	for i, stage := range s {
		boundary += stage
		if elapsed < boundary {
			if i >= len(progression)-1 {
				break
			}

			return progression[i]
		}
	}

	return StatusDelivered
}
