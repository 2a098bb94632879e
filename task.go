package resload

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/resload/device"
)

// Status is the lifecycle state of a loading task.
type Status uint32

const (
	// StatusPending means the task is queued and no worker has picked it up.
	StatusPending Status = iota

	// StatusLoading means a worker is decoding the task's requests.
	StatusLoading

	// StatusCompleted means every request has been finalized.
	StatusCompleted

	// StatusFailed is reserved; the loader never assigns it.
	StatusFailed

	// StatusCancelled means a worker observed the cancel flag and stopped
	// processing further requests.
	StatusCancelled
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoading:
		return "loading"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Status(%d)", uint32(s))
	}
}

// waitPollInterval is the sleep grain of Task.Wait and Loader.WaitAll.
const waitPollInterval = 10 * time.Millisecond

// Task is a submitted batch of resource-load requests, tracked as a unit for
// progress and cancellation.
//
// Tasks are shared between the submitter, one worker, and the completion
// pump; all accessors are safe for concurrent use. Progress reads
// (Total, Completed, Status, IsCancelled, IsCompleted) are lock-free.
type Task struct {
	id         uint64
	requests   []Request
	usesPool   bool
	targetPool Pool

	completed atomic.Int64
	status    atomic.Uint32
	cancelled atomic.Bool

	mu      sync.Mutex
	results []Result

	// Cached handle arrays, built once after completion so repeated reads
	// return the same backing slices.
	handlesOnce sync.Once
	textures    []device.Texture
	sprites     []*device.Sprite
}

func newTask(id uint64, requests []Request, usesPool bool, targetPool Pool) *Task {
	return &Task{
		id:         id,
		requests:   requests,
		usesPool:   usesPool,
		targetPool: targetPool,
		results:    make([]Result, len(requests)),
	}
}

// ID returns the unique task identifier.
func (t *Task) ID() uint64 { return t.id }

// Total returns the number of requests in the task.
func (t *Task) Total() int { return len(t.requests) }

// Completed returns the number of finalized requests.
func (t *Task) Completed() int { return int(t.completed.Load()) }

// Progress returns the finalized and total request counts.
func (t *Task) Progress() (done, total int) {
	return t.Completed(), t.Total()
}

// Status returns the task status.
func (t *Task) Status() Status { return Status(t.status.Load()) }

// IsCancelled reports whether Cancel has been called.
func (t *Task) IsCancelled() bool { return t.cancelled.Load() }

// IsCompleted reports whether every request has been finalized.
func (t *Task) IsCompleted() bool { return t.Status() == StatusCompleted }

// UsesPool reports whether finalized resources publish into a pool.
func (t *Task) UsesPool() bool { return t.usesPool }

// Cancel flags the task for cancellation. Idempotent; never blocks a worker
// already mid-request. The worker stops before the next request of this
// task; results already in flight are still drained but are not published
// into a pool.
func (t *Task) Cancel() { t.cancelled.Store(true) }

// Results returns a snapshot copy of the per-request results. Slots not yet
// finalized are zero values. The snapshot is self-consistent even while the
// completion pump is writing entries.
func (t *Task) Results() []Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Result, len(t.results))
	copy(out, t.results)
	return out
}

// Wait blocks, polling, until the task completes or is cancelled. Strictly
// for shutdown and test paths; frame loops should poll IsCompleted instead.
func (t *Task) Wait() {
	for {
		s := t.Status()
		if s == StatusCompleted || s == StatusCancelled {
			return
		}
		time.Sleep(waitPollInterval)
	}
}

// Textures returns the texture handles produced by a handle-mode task, in
// submission order with nil entries for failed requests. Returns nil until
// the task completes. The slice is built once and cached, so repeated calls
// return the same backing array.
func (t *Task) Textures() []device.Texture {
	if !t.IsCompleted() {
		return nil
	}
	t.buildHandles()
	return t.textures
}

// Sprites returns the sprite handles produced by a handle-mode task, with
// the same ordering, caching, and completion semantics as Textures.
func (t *Task) Sprites() []*device.Sprite {
	if !t.IsCompleted() {
		return nil
	}
	t.buildHandles()
	return t.sprites
}

func (t *Task) buildHandles() {
	t.handlesOnce.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i := range t.results {
			switch t.requests[i].Kind {
			case KindTexture:
				t.textures = append(t.textures, t.results[i].Texture)
			case KindSprite:
				t.sprites = append(t.sprites, t.results[i].Sprite)
			}
		}
	})
}

// setResult records the finalized result for one request. Main-thread only.
func (t *Task) setResult(index int, r Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index >= 0 && index < len(t.results) {
		t.results[index] = r
	}
}

// incrementCompleted advances the completed counter and reports whether the
// task just completed, in which case the status is set. Main-thread only.
func (t *Task) incrementCompleted() bool {
	if int(t.completed.Add(1)) >= len(t.requests) {
		t.status.Store(uint32(StatusCompleted))
		return true
	}
	return false
}

// markLoading transitions Pending to Loading when a worker pops the task.
func (t *Task) markLoading() {
	t.status.CompareAndSwap(uint32(StatusPending), uint32(StatusLoading))
}

// markCancelled records that the worker stopped on the cancel flag.
func (t *Task) markCancelled() {
	t.status.Store(uint32(StatusCancelled))
}
