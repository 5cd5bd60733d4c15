package di

import (
	"context"
	"slices"
)

// resolveFuture is a cache entry for a service that may still be under construction.
// It is completed exactly once by the resolution that claimed the entry.
type resolveFuture struct {
	done  chan struct{}
	key   serviceKey
	owner *resolveVisitor
	val   any
	err   error
}

func newFuture(key serviceKey, owner *resolveVisitor) *resolveFuture {
	return &resolveFuture{
		done:  make(chan struct{}),
		key:   key,
		owner: owner,
	}
}

func (f *resolveFuture) complete(val any, err error) {
	f.val, f.err = val, err
	close(f.done)
}

func (f *resolveFuture) isDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// wait returns the constructed service.
// Waiters give up when ctx is done, the construction itself carries on.
//
// If the owner of f is waiting, directly or through other resolutions, on a service
// the waiter is creating, wait returns a *CycleError instead of blocking.
func (f *resolveFuture) wait(ctx context.Context, waiter *resolveVisitor) (any, error) {
	if f.isDone() {
		return f.val, f.err
	}

	if waiter != nil {
		waiter.waitingOn.Store(f)
		defer waiter.waitingOn.Store(nil)

		if err := f.waitCycle(waiter); err != nil {
			return nil, err
		}
	}

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// waitCycle follows the futures the owners are waiting on, starting from f.
// It returns nil unless the chain leads back to a future owned by waiter.
func (f *resolveFuture) waitCycle(waiter *resolveVisitor) *CycleError {
	path := []*resolveFuture{f}

	for cur := f; ; {
		if cur.owner == waiter {
			chain := make([]string, 0, len(path)+1)
			chain = append(chain, cur.key.String())
			for _, p := range path {
				chain = append(chain, p.key.String())
			}
			return &CycleError{Chain: chain}
		}
		if cur.owner == nil {
			return nil
		}

		next := cur.owner.waitingOn.Load()
		if next == nil || next.isDone() || slices.Contains(path, next) {
			return nil
		}

		cur = next
		path = append(path, cur)
	}
}
