package metrics

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultTimerCapacity is the number of samples a Timer keeps
const DefaultTimerCapacity = 10

// Timer keeps the most recent elapsed times of one method in a ring buffer
type Timer struct {
	mu      sync.Mutex
	clock   clock.Clock
	samples []time.Duration
	next    int
	size    int
}

func newTimer(capacity int, clk clock.Clock) *Timer {
	if capacity <= 0 {
		capacity = DefaultTimerCapacity
	}
	if clk == nil {
		clk = clock.New()
	}

	return &Timer{
		clock:   clk,
		samples: make([]time.Duration, capacity),
	}
}

// Observe runs call and records its wall-clock duration. The sample is
// recorded on every exit path, including errors and panics, and the result of
// call is returned unchanged.
func (t *Timer) Observe(call Call) (interface{}, error) {
	start := t.clock.Now()
	defer func() {
		t.record(t.clock.Since(start))
	}()

	return call()
}

func (t *Timer) record(d time.Duration) {
	if d < 0 {
		d = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples[t.next] = d
	t.next = (t.next + 1) % len(t.samples)
	if t.size < len(t.samples) {
		t.size++
	}
}

// Value returns the mean of the held samples. The second result is false
// when nothing has been recorded yet.
func (t *Timer) Value() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.size == 0 {
		return 0, false
	}

	var total time.Duration
	for i := 0; i < t.size; i++ {
		total += t.samples[i]
	}
	return total / time.Duration(t.size), true
}

// Samples returns a copy of the held samples, oldest first
func (t *Timer) Samples() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]time.Duration, 0, t.size)
	start := 0
	if t.size == len(t.samples) {
		start = t.next
	}
	for i := 0; i < t.size; i++ {
		out = append(out, t.samples[(start+i)%len(t.samples)])
	}
	return out
}

// Len returns the number of held samples
func (t *Timer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Capacity returns the maximum number of samples the timer keeps
func (t *Timer) Capacity() int {
	return len(t.samples)
}
