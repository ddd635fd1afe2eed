package compute

import (
	"fmt"
	"log/slog"
	"sort"
)

// Backend schedules data-parallel work. Every call returns only after all
// tasks have finished, which is the barrier between render phases.
type Backend interface {
	Name() string
	Workers() int
	// ParallelFor splits [0, n) into contiguous ranges of at least minChunk
	// items and runs fn once per range.
	ParallelFor(n, minChunk int, fn func(start, end int))
	// Dispatch runs fn(i) for every i in [0, n); each i is owned by exactly
	// one task.
	Dispatch(n int, fn func(i int))
	Cleanup()
}

const (
	KindCPU      = "cpu"
	KindSerial   = "serial"
	KindShuffled = "shuffled"
)

var factories = map[string]func(workers int) Backend{
	KindCPU:      func(workers int) Backend { return NewCPUBackend(workers) },
	KindSerial:   func(int) Backend { return NewSerialBackend() },
	KindShuffled: func(workers int) Backend { return NewShuffledBackend(int64(workers)) },
}

// New returns the backend registered under kind. For the cpu backend
// workers <= 0 means one per CPU; the shuffled backend uses it as its seed.
func New(kind string, workers int) (Backend, error) {
	fn, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown backend: %s (available: %v)", kind, Kinds())
	}
	return fn(workers), nil
}

func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// chunks computes the range size used to split n items over workers.
func chunks(n, minChunk, workers int) int {
	if minChunk < 1 {
		minChunk = 1
	}
	if workers < 1 {
		workers = 1
	}
	size := (n + workers - 1) / workers
	if size < minChunk {
		size = minChunk
	}
	return size
}

func nopLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }
