package mainloop

import (
	"math"
	"sort"
	"sync"
	"time"
	"vincit.fi/image-viewer/api"
)

type manualSource struct {
	id  api.SourceId
	due time.Duration
	fn  func()
}

// ManualLoop is a Scheduler with a virtual clock. Time only moves on Advance
// and callbacks run on the goroutine calling Advance or RunIdle.
type ManualLoop struct {
	mux    sync.Mutex
	now    time.Duration
	nextId api.SourceId
	timers []*manualSource
	idle   []*manualSource

	api.Scheduler
}

func NewManual() *ManualLoop {
	return &ManualLoop{}
}

func (s *ManualLoop) TimeoutAddOnce(d time.Duration, fn func()) api.SourceId {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.nextId++
	s.timers = append(s.timers, &manualSource{
		id:  s.nextId,
		due: s.now + max(d, 0),
		fn:  fn,
	})
	return s.nextId
}

func (s *ManualLoop) IdleAdd(fn func()) api.SourceId {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.nextId++
	s.idle = append(s.idle, &manualSource{
		id:  s.nextId,
		due: s.now,
		fn:  fn,
	})
	return s.nextId
}

func (s *ManualLoop) Remove(id api.SourceId) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	var removed bool
	s.timers, removed = removeSource(s.timers, id)
	if removed {
		return true
	}
	s.idle, removed = removeSource(s.idle, id)
	return removed
}

func removeSource(sources []*manualSource, id api.SourceId) ([]*manualSource, bool) {
	for i, src := range sources {
		if src.id == id {
			return append(sources[:i], sources[i+1:]...), true
		}
	}
	return sources, false
}

func (s *ManualLoop) Now() time.Duration {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.now
}

func (s *ManualLoop) Pending() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.timers) + len(s.idle)
}

// RunIdle runs idle callbacks until none are left, including ones added by
// the callbacks themselves. Returns the number of callbacks run.
func (s *ManualLoop) RunIdle() int {
	count := 0
	for {
		s.mux.Lock()
		if len(s.idle) == 0 {
			s.mux.Unlock()
			return count
		}
		src := s.idle[0]
		s.idle = s.idle[1:]
		s.mux.Unlock()

		src.fn()
		count++
	}
}

// Advance moves the clock forward by d firing every timer that becomes due in
// order of due time. Timers armed by the callbacks fire too if they fall
// inside the window. Returns the number of callbacks run.
func (s *ManualLoop) Advance(d time.Duration) int {
	count := s.RunIdle()

	s.mux.Lock()
	target := s.now + d
	s.mux.Unlock()

	for {
		s.mux.Lock()
		src := s.popDue(target)
		if src == nil {
			s.now = target
			s.mux.Unlock()
			break
		}
		s.now = src.due
		s.mux.Unlock()

		src.fn()
		count++
		count += s.RunIdle()
	}
	return count + s.RunIdle()
}

// AdvanceToNext moves the clock to the earliest pending timer and fires it.
// Returns false when no timer is pending.
func (s *ManualLoop) AdvanceToNext() bool {
	s.RunIdle()

	s.mux.Lock()
	src := s.popDue(math.MaxInt64)
	if src == nil {
		s.mux.Unlock()
		return false
	}
	s.now = src.due
	s.mux.Unlock()

	src.fn()
	s.RunIdle()
	return true
}

func (s *ManualLoop) popDue(target time.Duration) *manualSource {
	if len(s.timers) == 0 {
		return nil
	}
	// Stable keeps arming order for timers with the same due time
	sort.SliceStable(s.timers, func(i, j int) bool {
		return s.timers[i].due < s.timers[j].due
	})
	first := s.timers[0]
	if first.due > target {
		return nil
	}
	s.timers = s.timers[1:]
	return first
}
