package testutils

import (
	"context"
	"sync"
	"testing"
)

// LogError logs err, if there is one, so error messages can be reviewed in the test output.
func LogError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Logf("error message:\n%v", err)
	}
}

type testValueKey struct{}

// ContextWithTestValue returns a context that differs from its parent, so tests can check
// the context passed to constructors is the one given to Resolve.
func ContextWithTestValue(ctx context.Context, val any) context.Context {
	return context.WithValue(ctx, testValueKey{}, val)
}

// RunParallel calls f from n goroutines and waits for them to finish.
// The goroutines are released together to make races between them more likely.
func RunParallel(n int, f func(i int)) {
	var ready, done sync.WaitGroup
	ready.Add(1)
	done.Add(n)

	for i := range n {
		go func() {
			defer done.Done()
			ready.Wait()
			f(i)
		}()
	}

	ready.Done()
	done.Wait()
}

// CollectChannel reads ch until it is closed.
func CollectChannel[V any](ch <-chan V) []V {
	var values []V //nolint:prealloc // the number of values is not known
	for v := range ch {
		values = append(values, v)
	}

	return values
}
