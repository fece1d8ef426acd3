package parallel

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dd0wney/cluso-scan/pkg/logging"
)

func newPool(t *testing.T, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("NewWorkerPool() error = %v", err)
	}
	return pool
}

func TestWorkerPoolRunsEveryTask(t *testing.T) {
	pool := newPool(t, 4)

	var counter int64
	for i := 0; i < 100; i++ {
		if !pool.Submit(func() error {
			atomic.AddInt64(&counter, 1)
			return nil
		}) {
			t.Fatal("Submit() = false on an open pool")
		}
	}

	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 8)

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() error {
				atomic.AddInt64(&counter, 1)
				return nil
			})
		}()
	}
	wg.Wait()
	pool.Close()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestWorkerPoolCollectsErrors(t *testing.T) {
	pool := newPool(t, 2)
	boom := errors.New("boom")

	pool.Submit(func() error { return boom })
	pool.Submit(func() error { return nil })
	pool.Submit(func() error { panic("bad task") })

	err := pool.Close()
	if !errors.Is(err, boom) {
		t.Errorf("Close() error = %v, want boom", err)
	}
	var perr *PanicError
	if !errors.As(err, &perr) || perr.Value != "bad task" {
		t.Errorf("Close() error = %v, want a PanicError", err)
	}
}

func TestWorkerPoolClosed(t *testing.T) {
	pool := newPool(t, 1)
	pool.Close()

	if pool.Submit(func() error { return nil }) {
		t.Error("Submit() = true after Close")
	}
	// Close is idempotent.
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestWorkers(t *testing.T) {
	if Workers(3) != 3 {
		t.Error("Workers(3) != 3")
	}
	if Workers(0) < 1 {
		t.Error("Workers(0) should fall back to GOMAXPROCS")
	}
	pool := newPool(t, -1)
	defer pool.Close()
	if pool.Size() < 1 {
		t.Error("non-positive worker count should default")
	}
}

func TestTooManyWorkers(t *testing.T) {
	if _, err := NewWorkerPool(MaxWorkers+1, nil); !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("NewWorkerPool(MaxWorkers+1) error = %v, want ErrTooManyWorkers", err)
	}
}
