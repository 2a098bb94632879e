package resload

import (
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/resload/codec"
	"github.com/gogpu/resload/device"
)

// clearSettleDelay gives workers time to advance past a mid-request decode
// before completion entries are dropped during bulk clearing.
const clearSettleDelay = 50 * time.Millisecond

// completion is one finalize unit queued from a worker to the main thread.
type completion struct {
	task   *Task
	index  int
	result Result
}

// Loader is the asynchronous resource loader: a fixed worker pool performs
// CPU-side decoding while the per-frame Update call finishes resources on
// the calling (main) thread, creating GPU and audio objects and publishing
// them into resource pools or attaching handles to the task.
//
// Submit, Cancel, and the Task accessors are safe for concurrent use.
// Update must be called from the single goroutine that owns the graphics
// and audio devices.
type Loader struct {
	requestedWorkers int
	workers          int

	fsys       fs.FS
	gfx        device.Graphics
	audio      device.Audio
	activePool func() Pool
	audioDec   AudioDecoderFunc

	maxGPUItems atomic.Int64

	queueMu   sync.Mutex
	queueCond *sync.Cond
	taskQueue []*Task
	shutdown  atomic.Bool

	tasksMu sync.Mutex
	active  map[uint64]*Task

	nextID atomic.Uint64

	compMu      sync.Mutex
	completions []completion

	wg sync.WaitGroup
}

// New creates a Loader and starts its worker pool. With no WithWorkers
// option (or zero) the pool is sized automatically from the detected
// hardware parallelism; explicit counts are clamped to [1, 16].
func New(opts ...Option) *Loader {
	l := &Loader{
		fsys:     os.DirFS("."),
		audioDec: codec.NewAudioDecoder,
		active:   make(map[uint64]*Task),
	}
	l.maxGPUItems.Store(defaultMaxGPUItemsPerFrame)
	l.queueCond = sync.NewCond(&l.queueMu)

	for _, opt := range opts {
		opt(l)
	}

	n := l.requestedWorkers
	if n == 0 {
		n = optimalWorkerCount()
	}
	if n < minWorkers {
		Logger().Warn("resload: worker count below minimum, clamping", "requested", n, "min", minWorkers)
		n = minWorkers
	} else if n > maxWorkers {
		Logger().Warn("resload: worker count above maximum, clamping", "requested", n, "max", maxWorkers)
		n = maxWorkers
	}
	l.workers = n

	l.wg.Add(n)
	for i := range n {
		go l.worker(i)
	}
	Logger().Info("resload: started worker pool", "workers", n)

	return l
}

// WorkerCount returns the number of worker goroutines.
func (l *Loader) WorkerCount() int { return l.workers }

// SetMaxGPUItemsPerFrame sets the per-frame quota of finalized GPU-bearing
// items. Values below 1 are clamped to 1.
func (l *Loader) SetMaxGPUItemsPerFrame(n int) {
	if n < 1 {
		n = 1
	}
	l.maxGPUItems.Store(int64(n))
}

// MaxGPUItemsPerFrame returns the current per-frame GPU quota.
func (l *Loader) MaxGPUItemsPerFrame() int {
	return int(l.maxGPUItems.Load())
}

// Submit queues a batch of requests as one task and returns it.
//
// In pool mode with a nil target, the currently active pool is captured at
// submit time. Returns nil for an empty batch or after Close.
func (l *Loader) Submit(requests []Request, usesPool bool, target Pool) *Task {
	if len(requests) == 0 {
		return nil
	}
	if l.shutdown.Load() {
		return nil
	}

	if usesPool && target == nil && l.activePool != nil {
		target = l.activePool()
	}

	id := l.nextID.Add(1)
	t := newTask(id, requests, usesPool, target)

	l.tasksMu.Lock()
	l.active[id] = t
	l.tasksMu.Unlock()

	l.queueMu.Lock()
	if l.shutdown.Load() {
		l.queueMu.Unlock()
		l.tasksMu.Lock()
		delete(l.active, id)
		l.tasksMu.Unlock()
		return nil
	}
	l.taskQueue = append(l.taskQueue, t)
	l.queueCond.Signal()
	l.queueMu.Unlock()

	Logger().Info("resload: submitted task", "task", id, "requests", len(requests))
	return t
}

// Task returns the active task with the given id, or nil.
func (l *Loader) Task(id uint64) *Task {
	l.tasksMu.Lock()
	defer l.tasksMu.Unlock()
	return l.active[id]
}

// Cancel flags the task with the given id for cancellation. Idempotent;
// unknown ids are ignored.
func (l *Loader) Cancel(id uint64) {
	if t := l.Task(id); t != nil {
		t.Cancel()
		Logger().Info("resload: cancelled task", "task", id)
	}
}

// WaitAll blocks, polling, until every active task has completed. Unbounded
// by design; strictly for shutdown and test paths. Cancelled tasks never
// complete, so clear them first.
func (l *Loader) WaitAll() {
	for {
		pending := false
		l.tasksMu.Lock()
		for _, t := range l.active {
			if !t.IsCompleted() {
				pending = true
				break
			}
		}
		l.tasksMu.Unlock()

		if !pending {
			return
		}
		time.Sleep(waitPollInterval)
	}
}

// ClearAll cancels every active task, drops queued tasks and pending
// completion entries, and empties the active-task map. Results of in-flight
// decodes are discarded.
func (l *Loader) ClearAll() {
	l.tasksMu.Lock()
	for _, t := range l.active {
		t.Cancel()
	}
	l.tasksMu.Unlock()

	l.queueMu.Lock()
	l.taskQueue = nil
	l.queueMu.Unlock()

	time.Sleep(clearSettleDelay)

	l.compMu.Lock()
	l.completions = nil
	l.compMu.Unlock()

	l.tasksMu.Lock()
	l.active = make(map[uint64]*Task)
	l.tasksMu.Unlock()

	Logger().Info("resload: cleared all tasks")
}

// ClearForPool clears pool-backed tasks the way ClearAll does, leaving
// handle-mode tasks untouched.
//
// Scoping is by the task's pool flag, not pool identity: when tasks backed
// by several pools coexist, all of them are cleared regardless of pool.
func (l *Loader) ClearForPool(pool Pool) {
	if pool == nil {
		return
	}

	var cancel []*Task
	l.tasksMu.Lock()
	for _, t := range l.active {
		if t.usesPool {
			cancel = append(cancel, t)
		}
	}
	l.tasksMu.Unlock()
	for _, t := range cancel {
		t.Cancel()
	}

	l.queueMu.Lock()
	kept := l.taskQueue[:0]
	for _, t := range l.taskQueue {
		if !t.usesPool {
			kept = append(kept, t)
		}
	}
	l.taskQueue = kept
	l.queueMu.Unlock()

	time.Sleep(clearSettleDelay)

	l.compMu.Lock()
	keptComp := l.completions[:0]
	for _, c := range l.completions {
		if !c.task.usesPool {
			keptComp = append(keptComp, c)
		}
	}
	l.completions = keptComp
	l.compMu.Unlock()

	l.tasksMu.Lock()
	for id, t := range l.active {
		if t.usesPool && t.IsCancelled() {
			delete(l.active, id)
		}
	}
	l.tasksMu.Unlock()

	Logger().Info("resload: cleared pool tasks")
}

// Close shuts the loader down: wakes and joins every worker, drops queued
// tasks and pending completions, and empties the active-task map. Submit
// returns nil afterwards. Idempotent.
func (l *Loader) Close() {
	l.queueMu.Lock()
	already := l.shutdown.Swap(true)
	l.queueCond.Broadcast()
	l.queueMu.Unlock()
	if already {
		return
	}

	l.wg.Wait()

	l.queueMu.Lock()
	l.taskQueue = nil
	l.queueMu.Unlock()

	l.compMu.Lock()
	l.completions = nil
	l.compMu.Unlock()

	l.tasksMu.Lock()
	l.active = make(map[uint64]*Task)
	l.tasksMu.Unlock()

	Logger().Info("resload: shut down")
}

// push queues one finalize unit for the main thread.
func (l *Loader) push(c completion) {
	l.compMu.Lock()
	l.completions = append(l.completions, c)
	l.compMu.Unlock()
}
