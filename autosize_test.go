package resload

import "testing"

func TestWorkerCountFor(t *testing.T) {
	tests := []struct {
		threads int
		want    int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 2},
		{6, 3},
		{8, 4},
		{12, 6},
		{16, 8},
		{24, 8},
		{64, 8},
	}
	for _, tt := range tests {
		if got := workerCountFor(tt.threads); got != tt.want {
			t.Errorf("workerCountFor(%d) = %d, want %d", tt.threads, got, tt.want)
		}
	}
}

func TestOptimalWorkerCountBounds(t *testing.T) {
	got := optimalWorkerCount()
	if got < minWorkers || got > 8 {
		t.Errorf("optimalWorkerCount() = %d, want within [%d, 8]", got, minWorkers)
	}
}
