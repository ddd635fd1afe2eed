package compute

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// CPUBackend runs tasks on a fixed number of goroutines.
type CPUBackend struct {
	workers int
	log     atomic.Pointer[slog.Logger]
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	c := &CPUBackend{workers: workers}
	c.log.Store(nopLogger())
	return c
}

func (c *CPUBackend) Name() string { return "cpu" }
func (c *CPUBackend) Workers() int { return c.workers }
func (c *CPUBackend) Cleanup()     {}

func (c *CPUBackend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = nopLogger()
	}
	c.log.Store(l)
}

func (c *CPUBackend) ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	size := chunks(n, minChunk, c.workers)
	if size >= n || c.workers == 1 {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(c.workers)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		g.Go(guard(func() { fn(start, end) }))
	}
	rethrow(g.Wait())
}

// Dispatch hands out task indices from a shared counter, so a worker that
// finishes a cheap task immediately picks up the next one.
func (c *CPUBackend) Dispatch(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := c.workers
	if workers > n {
		workers = n
	}
	c.log.Load().Debug("dispatch", "tasks", n, "workers", workers)

	var next atomic.Int64
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(guard(func() {
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				fn(i)
			}
		}))
	}
	rethrow(g.Wait())
}

// TaskPanic carries a panic raised inside a worker back to the goroutine
// that called ParallelFor or Dispatch.
type TaskPanic struct {
	Value any
}

func (p *TaskPanic) Error() string { return fmt.Sprintf("compute: task panicked: %v", p.Value) }

func guard(task func()) func() error {
	return func() (err error) {
		defer func() {
			if v := recover(); v != nil {
				err = &TaskPanic{Value: v}
			}
		}()
		task()
		return nil
	}
}

// rethrow re-raises the first worker panic on the caller's goroutine.
func rethrow(err error) {
	if err != nil {
		panic(err)
	}
}
