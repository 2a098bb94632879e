package resload

import "runtime"

// Worker-count bounds.
const (
	minWorkers = 1
	maxWorkers = 16

	// defaultMaxGPUItemsPerFrame bounds GPU-bearing finalizes per pump call.
	defaultMaxGPUItemsPerFrame = 5
)

// workerCountFor maps a detected hardware thread count to a worker count.
// The pool is I/O-heavy and shares cores with the render loop; aggressive
// sizing starves the main thread and worsens frame time.
func workerCountFor(hardwareThreads int) int {
	switch {
	case hardwareThreads <= 0:
		return 1
	case hardwareThreads <= 2:
		return 1
	case hardwareThreads <= 4:
		return 2
	default:
		return min(hardwareThreads/2, 8)
	}
}

// optimalWorkerCount derives the default worker count from the machine.
func optimalWorkerCount() int {
	n := runtime.NumCPU()
	if n <= 0 {
		Logger().Warn("resload: cannot detect CPU count, using one worker")
		return 1
	}
	count := workerCountFor(n)
	Logger().Info("resload: sized worker pool", "cpus", n, "workers", count)
	return count
}
