package resload

import (
	"fmt"
	"testing"
	"testing/fstest"
	"time"
)

// waitForCompletions blocks until n completion entries are queued.
func waitForCompletions(t *testing.T, l *Loader, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		l.compMu.Lock()
		queued := len(l.completions)
		l.compMu.Unlock()
		if queued >= n {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("only %d of %d completions queued", queued, n)
		}
		time.Sleep(time.Millisecond)
	}
}

// Scenario: the per-frame GPU quota throttles texture finalization to two
// per pump call; completion arrives on the third call.
func TestGPUQuotaThrottling(t *testing.T) {
	fsys := fstest.MapFS{}
	var reqs []Request
	for i := range 5 {
		name := fmt.Sprintf("t%d.png", i)
		fsys[name] = &fstest.MapFile{Data: pngBytes(t, 2, 2)}
		reqs = append(reqs, Request{
			Kind: KindTexture, Name: fmt.Sprintf("t%d", i),
			Params: TextureParams{Path: name},
		})
	}
	env := newTestEnv(t, fsys, WithWorkers(1), WithMaxGPUItemsPerFrame(2))

	task := env.loader.Submit(reqs, true, env.pool)
	waitForCompletions(t, env.loader, 5)

	steps := []int{2, 4, 5}
	for i, want := range steps {
		env.loader.Update()
		if got := task.Completed(); got != want {
			t.Fatalf("after pump %d: Completed() = %d, want %d", i+1, got, want)
		}
		if want < 5 && task.IsCompleted() {
			t.Fatalf("task completed early after pump %d", i+1)
		}
	}
	if !task.IsCompleted() {
		t.Error("task not completed after third pump")
	}
	for i, r := range task.Results() {
		if !r.Success {
			t.Errorf("results[%d] failed: %s", i, r.Error)
		}
	}
}

// The pump stops at a GPU-bearing head once the quota is spent, even when
// CPU-only entries wait behind it: head-of-line order survives quota stalls.
func TestPumpPeekThenCommit(t *testing.T) {
	env := newTestEnv(t, fstest.MapFS{}, WithMaxGPUItemsPerFrame(1))
	l := env.loader

	task := newTask(99, []Request{
		{Kind: KindSprite, Params: SpriteParams{}},
		{Kind: KindSprite, Params: SpriteParams{}},
		{Kind: KindSprite, Params: SpriteParams{}},
	}, false, nil)

	// Failed results skip device work but still flow through the pump in
	// order, which is what this test observes.
	l.push(completion{task: task, index: 0, result: Result{Name: "A", RequiresGPU: true}})
	l.push(completion{task: task, index: 1, result: Result{Name: "B", RequiresGPU: true}})
	l.push(completion{task: task, index: 2, result: Result{Name: "C", RequiresGPU: false}})

	l.Update()
	results := task.Results()
	if results[0].Name != "A" {
		t.Error("first pump did not finalize the head entry")
	}
	if results[1].Name != "" || results[2].Name != "" {
		t.Errorf("entries behind the stalled GPU head were finalized: %q %q",
			results[1].Name, results[2].Name)
	}
	if got := task.Completed(); got != 1 {
		t.Errorf("Completed() = %d, want 1", got)
	}

	l.Update()
	results = task.Results()
	if results[1].Name != "B" || results[2].Name != "C" {
		t.Errorf("second pump = %q/%q, want B and the CPU entry behind it", results[1].Name, results[2].Name)
	}
	if !task.IsCompleted() {
		t.Error("task not completed after draining")
	}
}

// CPU-only entries at the head are not limited by the GPU quota.
func TestPumpCPUEntriesUnlimited(t *testing.T) {
	env := newTestEnv(t, fstest.MapFS{}, WithMaxGPUItemsPerFrame(1))
	l := env.loader

	const n = 8
	reqs := makeRequests(n)
	task := newTask(100, reqs, false, nil)
	for i := range n {
		l.push(completion{task: task, index: i, result: Result{Name: fmt.Sprintf("c%d", i)}})
	}

	l.Update()
	if got := task.Completed(); got != n {
		t.Errorf("Completed() = %d, want all %d CPU entries in one pump", got, n)
	}
}

// The counter advances for failed entries exactly like successful ones.
func TestPumpAdvancesOnFailure(t *testing.T) {
	env := newTestEnv(t, fstest.MapFS{})
	l := env.loader

	task := newTask(101, makeRequests(2), false, nil)
	l.push(completion{task: task, index: 0, result: Result{Name: "x", Success: false, Error: "decode refused"}})
	l.push(completion{task: task, index: 1, result: Result{Name: "y", Success: false, Error: "decode refused"}})

	l.Update()
	if !task.IsCompleted() {
		t.Error("task with only failures did not complete")
	}
	for i, r := range task.Results() {
		if r.Success {
			t.Errorf("results[%d].Success = true, want recorded failure", i)
		}
	}
}

// Finalize for a cancelled pool-mode task drains without publishing.
func TestPumpCancelledTaskIsPublicationInert(t *testing.T) {
	env := newTestEnv(t, fstest.MapFS{})
	l := env.loader

	task := newTask(102, []Request{
		{Kind: KindMusic, Name: "bgm", Params: MusicParams{Path: "b.ogg"}},
	}, true, env.pool)
	task.Cancel()

	l.push(completion{task: task, index: 0, result: Result{
		Name: "bgm", Kind: KindMusic, Success: true,
		AudioDecoder: &fakeAudioDecoder{rate: 44100, frames: 44100},
	}})

	l.Update()
	if got := task.Completed(); got != 1 {
		t.Errorf("Completed() = %d, want drained entry counted", got)
	}
	if env.pool.musicCount() != 0 {
		t.Error("cancelled task published into the pool")
	}
	if task.Results()[0].RegisteredToPool {
		t.Error("RegisteredToPool = true for a cancelled task")
	}
}
