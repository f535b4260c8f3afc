package metrics

import "sync/atomic"

// Call is the unit of work observed by a Counter or a Timer
type Call func() (interface{}, error)

// Counter counts invocations of one method
type Counter struct {
	val atomic.Int64
}

// Observe increments the counter and then runs call, returning its result
// unchanged. The increment happens first and is kept when call fails or panics.
func (c *Counter) Observe(call Call) (interface{}, error) {
	c.val.Add(1)
	return call()
}

// Value returns the current count
func (c *Counter) Value() int64 {
	return c.val.Load()
}
