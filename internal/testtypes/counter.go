package testtypes

import "sync/atomic"

// Counted is created by a Counter.
type Counted struct {
	ID int64
}

// Counter counts how many times its constructor is called.
type Counter struct {
	count atomic.Int64
}

func (c *Counter) NewCounted() *Counted {
	return &Counted{ID: c.count.Add(1)}
}

func (c *Counter) Count() int64 {
	return c.count.Load()
}
