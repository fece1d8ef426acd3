package parallel

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/dd0wney/cluso-scan/pkg/logging"
)

// WorkerPool runs tasks on a fixed number of goroutines and collects their
// errors.
type WorkerPool struct {
	workers   int
	taskQueue chan func() error
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu

	errMu  sync.Mutex
	errs   []error
	logger logging.Logger
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = errors.New("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Workers returns n, or GOMAXPROCS when n is not positive.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// NewWorkerPool starts Workers(workers) goroutines.
func NewWorkerPool(workers int, logger logging.Logger) (*WorkerPool, error) {
	workers = Workers(workers)

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func() error, workers*2),
		logger:    logging.OrDefault(logger).With(logging.Component("worker-pool")),
	}

	pool.start()
	return pool, nil
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int {
	return wp.workers
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if err := wp.runTask(task); err != nil {
			wp.errMu.Lock()
			wp.errs = append(wp.errs, err)
			wp.errMu.Unlock()
		}
	}
}

// runTask turns a panic into a PanicError so one task cannot kill the worker.
func (wp *WorkerPool) runTask(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error("task panic recovered", logging.Any("panic", r))
			err = &PanicError{Value: r}
		}
	}()
	return task()
}

// Submit queues a task. It blocks while the queue is full and returns
// false once the pool is closed.
func (wp *WorkerPool) Submit(task func() error) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- task
	return true
}

// Close stops accepting tasks, waits for the queued ones and returns their
// joined errors. Later calls return the same errors.
func (wp *WorkerPool) Close() error {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()

	wp.errMu.Lock()
	defer wp.errMu.Unlock()
	return errors.Join(wp.errs...)
}
