package di

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/sectrean/injex/internal/errors"
)

// instanceCache stores the singleton or scoped services created by one scope,
// and the closers for services created by that scope.
type instanceCache struct {
	entries   *xsync.MapOf[*descriptor, *resolveFuture]
	closers   []Closer
	closersMu sync.Mutex
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		entries: xsync.NewMapOf[*descriptor, *resolveFuture](),
	}
}

// load returns the future for a cached service, if it has been created or is being created.
func (c *instanceCache) load(d *descriptor) (*resolveFuture, bool) {
	return c.entries.Load(d)
}

// getOrCreate returns the cached service or calls create to create it.
//
// create is called at most once at a time per service. Concurrent callers wait for the result.
// Errors are not cached: the entry is removed so the next call tries again.
func (c *instanceCache) getOrCreate(
	ctx context.Context,
	d *descriptor,
	visitor *resolveVisitor,
	create func() (any, error),
) (val any, err error) {
	f, loaded := c.entries.LoadOrCompute(d, func() *resolveFuture {
		return newFuture(d.key, visitor)
	})
	if loaded {
		return f.wait(ctx, visitor)
	}

	defer func() {
		if r := recover(); r != nil {
			c.entries.Delete(d)
			f.complete(nil, errors.Errorf("panic creating %s: %v", d, r))
			panic(r)
		}
	}()

	val, err = create()
	if err != nil {
		c.entries.Delete(d)
	}
	f.complete(val, err)

	return val, err
}

func (c *instanceCache) addCloser(closer Closer) {
	c.closersMu.Lock()
	c.closers = append(c.closers, closer)
	c.closersMu.Unlock()
}

// close closes services in the reverse order they were created and clears the cache.
func (c *instanceCache) close(ctx context.Context) error {
	c.closersMu.Lock()
	closers := c.closers
	c.closers = nil
	c.closersMu.Unlock()

	var errs errors.MultiError
	for i := len(closers) - 1; i >= 0; i-- {
		errs = errs.Append(closers[i].Close(ctx))
	}

	c.entries.Clear()

	return errs.Join()
}

func (c *instanceCache) size() int {
	return c.entries.Size()
}
