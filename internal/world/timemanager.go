package world

import (
	"sync/atomic"
	"time"
)

// TickDuration is one server tick: 50ms, the standard 20Hz game loop rate.
const TickDuration = 50 * time.Millisecond

// TimeManager advances world age and time-of-day on a single shared
// ticker. It sends nothing itself; UpdateTime is sent from its values
// once, when a player joins.
type TimeManager struct {
	age    atomic.Int64
	dayTime atomic.Int64

	stop chan struct{}
}

// NewTimeManager starts at world age 0, morning (time-of-day 0).
func NewTimeManager() *TimeManager {
	return &TimeManager{stop: make(chan struct{})}
}

// Run advances the clock once per tick until Stop is called. The caller
// launches this in its own goroutine.
func (t *TimeManager) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.age.Add(1)
			// A full day is 24000 ticks.
			t.dayTime.Add(1)
			if t.dayTime.Load() >= 24000 {
				t.dayTime.Store(0)
			}
		case <-t.stop:
			return
		}
	}
}

func (t *TimeManager) Stop() {
	close(t.stop)
}

// WorldAge returns ticks elapsed since the world was created.
func (t *TimeManager) WorldAge() int64 { return t.age.Load() }

// DayTime returns the current time-of-day tick, in [0, 24000).
func (t *TimeManager) DayTime() int64 { return t.dayTime.Load() }
