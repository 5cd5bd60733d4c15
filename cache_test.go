package di

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sectrean/injex/internal/testtypes"
	"github.com/sectrean/injex/internal/testutils"
)

func Test_instanceCache_getOrCreate(t *testing.T) {
	ctx := context.Background()
	d := mustDescriptor(t, testtypes.TypeEmailSender, reflect.TypeFor[*testtypes.EmailSender]())

	t.Run("created once", func(t *testing.T) {
		cache := newInstanceCache()
		var calls atomic.Int32

		results := make(chan any, 50)
		testutils.RunParallel(50, func(int) {
			val, err := cache.getOrCreate(ctx, d, newResolveVisitor(), func() (any, error) {
				calls.Add(1)
				return testtypes.NewEmailSender(), nil
			})
			assert.NoError(t, err)
			results <- val
		})
		close(results)

		vals := testutils.CollectChannel(results)
		require.Len(t, vals, 50)
		for _, val := range vals {
			assert.Same(t, vals[0], val)
		}
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 1, cache.size())
	})

	t.Run("error is not cached", func(t *testing.T) {
		cache := newInstanceCache()

		_, err := cache.getOrCreate(ctx, d, newResolveVisitor(), func() (any, error) {
			return nil, errors.New("create error")
		})
		assert.EqualError(t, err, "create error")
		assert.Equal(t, 0, cache.size())

		val, err := cache.getOrCreate(ctx, d, newResolveVisitor(), func() (any, error) {
			return testtypes.NewEmailSender(), nil
		})
		assert.NoError(t, err)
		assert.NotNil(t, val)
	})

	t.Run("panic is not cached", func(t *testing.T) {
		cache := newInstanceCache()

		assert.PanicsWithValue(t, "create panic", func() {
			_, _ = cache.getOrCreate(ctx, d, newResolveVisitor(), func() (any, error) {
				panic("create panic")
			})
		})

		_, ok := cache.load(d)
		assert.False(t, ok)
	})

	t.Run("waiter canceled", func(t *testing.T) {
		cache := newInstanceCache()
		started := make(chan struct{})
		release := make(chan struct{})
		defer close(release)

		go func() {
			_, _ = cache.getOrCreate(ctx, d, newResolveVisitor(), func() (any, error) {
				close(started)
				<-release
				return testtypes.NewEmailSender(), nil
			})
		}()
		<-started

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		val, err := cache.getOrCreate(canceled, d, newResolveVisitor(), func() (any, error) {
			panic("should not be called")
		})
		assert.Nil(t, val)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func Test_instanceCache_close(t *testing.T) {
	ctx := context.Background()

	t.Run("reverse order", func(t *testing.T) {
		log := &testtypes.CloseLog{}
		cache := newInstanceCache()

		cache.addCloser(getCloser(&testtypes.ConnA{Log: log}))
		cache.addCloser(getCloser(&testtypes.ConnB{Log: log}))
		cache.addCloser(getCloser(&testtypes.ConnC{Log: log}))
		cache.addCloser(getCloser(&testtypes.ConnD{Log: log}))

		require.NoError(t, cache.close(ctx))
		assert.Equal(t, []string{"d", "c", "b", "a"}, log.Closed())

		// Closers only run once
		require.NoError(t, cache.close(ctx))
		assert.Len(t, log.Closed(), 4)
	})

	t.Run("errors are joined", func(t *testing.T) {
		cache := newInstanceCache()

		cache.addCloser(closeFunc(func(context.Context) error { return errors.New("error 1") }))
		cache.addCloser(closeFunc(func(context.Context) error { return nil }))
		cache.addCloser(closeFunc(func(context.Context) error { return errors.New("error 2") }))

		err := cache.close(ctx)
		assert.EqualError(t, err, "error 2\nerror 1")
	})

	t.Run("clears entries", func(t *testing.T) {
		d := mustDescriptor(t, testtypes.TypeEmailSender, reflect.TypeFor[*testtypes.EmailSender]())
		cache := newInstanceCache()

		_, err := cache.getOrCreate(ctx, d, newResolveVisitor(), func() (any, error) {
			return testtypes.NewEmailSender(), nil
		})
		require.NoError(t, err)

		require.NoError(t, cache.close(ctx))
		assert.Equal(t, 0, cache.size())
	})
}

func Test_getCloser(t *testing.T) {
	log := &testtypes.CloseLog{}

	assert.NotNil(t, getCloser(&testtypes.ConnA{Log: log}))
	assert.NotNil(t, getCloser(&testtypes.ConnB{Log: log}))
	assert.NotNil(t, getCloser(&testtypes.ConnC{Log: log}))
	assert.NotNil(t, getCloser(&testtypes.ConnD{Log: log}))
	assert.Nil(t, getCloser(&testtypes.Server{Log: log}))
	assert.Nil(t, getCloser(testtypes.NewEmailSender()))
}

func Test_resolveFuture_wait(t *testing.T) {
	ctx := context.Background()
	keyX := serviceKey{Type: reflect.TypeFor[*testtypes.MySQL](), Name: DefaultName}
	keyY := serviceKey{Type: reflect.TypeFor[*testtypes.PostgreSQL](), Name: DefaultName}

	t.Run("completed", func(t *testing.T) {
		a, b := newResolveVisitor(), newResolveVisitor()
		f := newFuture(keyX, a)
		f.complete("x", nil)

		val, err := f.wait(ctx, b)
		assert.NoError(t, err)
		assert.Equal(t, "x", val)
	})

	t.Run("owners waiting on each other", func(t *testing.T) {
		a, b := newResolveVisitor(), newResolveVisitor()
		fx := newFuture(keyX, a)
		fy := newFuture(keyY, b)

		// a is creating X and waits for Y, b is creating Y
		a.waitingOn.Store(fy)

		val, err := fx.wait(ctx, b)
		assert.Nil(t, val)

		var cycleErr *CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"*testtypes.PostgreSQL", "*testtypes.MySQL", "*testtypes.PostgreSQL"}, cycleErr.Chain)
		assert.Nil(t, b.waitingOn.Load())
	})

	t.Run("owner waiting on a completed future", func(t *testing.T) {
		a, b := newResolveVisitor(), newResolveVisitor()
		fx := newFuture(keyX, a)
		fy := newFuture(keyY, b)
		fy.complete("y", nil)
		a.waitingOn.Store(fy)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := fx.wait(canceled, b)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("other resolutions waiting on each other", func(t *testing.T) {
		a, b, w := newResolveVisitor(), newResolveVisitor(), newResolveVisitor()
		fx := newFuture(keyX, a)
		fy := newFuture(keyY, b)
		a.waitingOn.Store(fy)
		b.waitingOn.Store(fx)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := fx.wait(canceled, w)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
