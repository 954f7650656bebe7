package api

import "time"

// SourceId identifies a callback registered to a Scheduler. Zero is never a
// valid id.
type SourceId uint64

const NoSource SourceId = 0

// Scheduler runs callbacks one at a time on a single loop. Callbacks never
// run concurrently with each other.
type Scheduler interface {
	// TimeoutAddOnce runs fn once after d has passed.
	TimeoutAddOnce(d time.Duration, fn func()) SourceId
	// IdleAdd runs fn on the next loop iteration.
	IdleAdd(fn func()) SourceId
	// Remove cancels a callback that has not run yet.
	Remove(id SourceId) bool
}
