package compute

import "math/rand"

// SerialBackend runs every task inline on the caller's goroutine, in order.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (SerialBackend) Name() string { return "serial" }
func (SerialBackend) Workers() int { return 1 }
func (SerialBackend) Cleanup()     {}

func (SerialBackend) ParallelFor(n, _ int, fn func(start, end int)) {
	if n > 0 {
		fn(0, n)
	}
}

func (SerialBackend) Dispatch(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}

// ShuffledBackend is serial but visits tasks in a seeded random order. It
// exists to prove results do not depend on scheduling order.
type ShuffledBackend struct {
	rng *rand.Rand
}

func NewShuffledBackend(seed int64) *ShuffledBackend {
	return &ShuffledBackend{rng: rand.New(rand.NewSource(seed))}
}

func (s *ShuffledBackend) Name() string { return "shuffled" }
func (s *ShuffledBackend) Workers() int { return 1 }
func (s *ShuffledBackend) Cleanup()     {}

// ParallelFor splits [0, n) into ranges of minChunk and runs them shuffled.
func (s *ShuffledBackend) ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	size := chunks(n, minChunk, n)
	count := (n + size - 1) / size
	for _, c := range s.rng.Perm(count) {
		start := c * size
		end := start + size
		if end > n {
			end = n
		}
		fn(start, end)
	}
}

func (s *ShuffledBackend) Dispatch(n int, fn func(i int)) {
	for _, i := range s.rng.Perm(n) {
		fn(i)
	}
}
