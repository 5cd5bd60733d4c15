package di_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sectrean/injex"
	"github.com/sectrean/injex/internal/mocks"
	"github.com/sectrean/injex/internal/testtypes"
	"github.com/sectrean/injex/internal/testutils"
)

type countedHolder struct {
	Counted *testtypes.Counted
}

func Test_Container_NewScope(t *testing.T) {
	ctx := context.Background()

	t.Run("new id", func(t *testing.T) {
		c, err := di.NewContainer()
		require.NoError(t, err)

		scope1, err := c.NewScope()
		require.NoError(t, err)
		scope2, err := c.NewScope()
		require.NoError(t, err)

		assert.NotEqual(t, c.ID(), scope1.ID())
		assert.NotEqual(t, scope1.ID(), scope2.ID())
	})

	t.Run("scoped", func(t *testing.T) {
		counter := &testtypes.Counter{}
		c, err := di.NewContainer(
			di.AddScoped[*testtypes.Counted](counter.NewCounted),
		)
		require.NoError(t, err)

		scope1, err := c.NewScope()
		require.NoError(t, err)
		scope2, err := c.NewScope()
		require.NoError(t, err)

		a1 := di.MustResolve[*testtypes.Counted](ctx, scope1)
		a2 := di.MustResolve[*testtypes.Counted](ctx, scope1)
		b := di.MustResolve[*testtypes.Counted](ctx, scope2)

		assert.Same(t, a1, a2)
		assert.NotSame(t, a1, b)
		assert.Equal(t, int64(2), counter.Count())
	})

	t.Run("root is the ambient scope", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddScoped[*testtypes.Counted]((&testtypes.Counter{}).NewCounted),
		)
		require.NoError(t, err)

		scope, err := c.NewScope()
		require.NoError(t, err)

		root1 := di.MustResolve[*testtypes.Counted](ctx, c)
		root2 := di.MustResolve[*testtypes.Counted](ctx, c)
		child := di.MustResolve[*testtypes.Counted](ctx, scope)

		assert.Same(t, root1, root2)
		assert.NotSame(t, root1, child)
	})

	t.Run("singleton shared by scopes", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddSingleton[*testtypes.Counted]((&testtypes.Counter{}).NewCounted),
		)
		require.NoError(t, err)

		scope1, err := c.NewScope()
		require.NoError(t, err)
		scope2, err := c.NewScope()
		require.NoError(t, err)

		a := di.MustResolve[*testtypes.Counted](ctx, scope1)
		b := di.MustResolve[*testtypes.Counted](ctx, scope2)
		root := di.MustResolve[*testtypes.Counted](ctx, c)

		assert.Same(t, a, b)
		assert.Same(t, a, root)
	})

	t.Run("singleton does not capture child scoped service", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddScoped[*testtypes.Counted]((&testtypes.Counter{}).NewCounted),
			di.AddSingleton[*countedHolder](func(counted *testtypes.Counted) *countedHolder {
				return &countedHolder{Counted: counted}
			}),
		)
		require.NoError(t, err)

		scope, err := c.NewScope()
		require.NoError(t, err)

		holder := di.MustResolve[*countedHolder](ctx, scope)
		child := di.MustResolve[*testtypes.Counted](ctx, scope)
		root := di.MustResolve[*testtypes.Counted](ctx, c)

		assert.NotSame(t, child, holder.Counted)
		assert.Same(t, root, holder.Counted)
	})

	t.Run("nested scope", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddSingleton[*testtypes.EmailSender](testtypes.NewEmailSender),
			di.AddScoped[*testtypes.Counted]((&testtypes.Counter{}).NewCounted),
		)
		require.NoError(t, err)

		scope, err := c.NewScope()
		require.NoError(t, err)
		nested, err := scope.NewScope()
		require.NoError(t, err)

		assert.Same(t,
			di.MustResolve[*testtypes.EmailSender](ctx, c),
			di.MustResolve[*testtypes.EmailSender](ctx, nested),
		)
		assert.NotSame(t,
			di.MustResolve[*testtypes.Counted](ctx, scope),
			di.MustResolve[*testtypes.Counted](ctx, nested),
		)
	})

	t.Run("scoped created once concurrently", func(t *testing.T) {
		counter := &testtypes.Counter{}
		c, err := di.NewContainer(
			di.AddScoped[*testtypes.Counted](counter.NewCounted),
		)
		require.NoError(t, err)

		scope, err := c.NewScope()
		require.NoError(t, err)

		testutils.RunParallel(100, func(int) {
			_ = di.MustResolve[*testtypes.Counted](ctx, scope)
		})

		assert.Equal(t, int64(1), counter.Count())
	})
}

func Test_Scope_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("closes scoped and transient services", func(t *testing.T) {
		log := &testtypes.CloseLog{}
		c, err := di.NewContainer(
			di.AddSingleton[*testtypes.ConnA](func() *testtypes.ConnA { return &testtypes.ConnA{Log: log} }),
			di.AddScoped[*testtypes.ConnB](func(*testtypes.ConnA) *testtypes.ConnB { return &testtypes.ConnB{Log: log} }),
			di.AddTransient[*testtypes.ConnC](func() *testtypes.ConnC { return &testtypes.ConnC{Log: log} }),
		)
		require.NoError(t, err)

		scope, err := c.NewScope()
		require.NoError(t, err)

		_ = di.MustResolve[*testtypes.ConnB](ctx, scope)
		_ = di.MustResolve[*testtypes.ConnC](ctx, scope)

		require.NoError(t, scope.Close(ctx))
		assert.Equal(t, []string{"c", "b"}, log.Closed())

		// Singletons are closed with the root
		require.NoError(t, c.Close(ctx))
		assert.Equal(t, []string{"c", "b", "a"}, log.Closed())
	})

	t.Run("closed scope", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddScoped[*testtypes.Counted]((&testtypes.Counter{}).NewCounted),
		)
		require.NoError(t, err)

		scope, err := c.NewScope()
		require.NoError(t, err)
		require.NoError(t, scope.Close(ctx))

		got, err := di.Resolve[*testtypes.Counted](ctx, scope)
		testutils.LogError(t, err)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, di.ErrContainerClosed)
		assert.EqualError(t, err, "di.Container.Resolve *testtypes.Counted: container closed")

		err = scope.Close(ctx)
		assert.ErrorIs(t, err, di.ErrContainerClosed)

		// The root is still open
		_, err = di.Resolve[*testtypes.Counted](ctx, c)
		assert.NoError(t, err)

		_, err = c.NewScope()
		assert.NoError(t, err)
	})

	t.Run("closer mock", func(t *testing.T) {
		closer := mocks.NewCloserMock(t)
		closer.EXPECT().
			Close(mock.Anything).
			Return(nil).
			Once()

		c, err := di.NewContainer(
			di.AddScoped[*mocks.CloserMock](func() *mocks.CloserMock { return closer }),
		)
		require.NoError(t, err)

		scope, err := c.NewScope()
		require.NoError(t, err)

		_ = di.MustResolve[*mocks.CloserMock](ctx, scope)
		_ = di.MustResolve[*mocks.CloserMock](ctx, scope)

		require.NoError(t, scope.Close(ctx))
	})

	t.Run("close error", func(t *testing.T) {
		closer := mocks.NewCloserMock(t)
		closer.EXPECT().
			Close(mock.Anything).
			Return(errors.New("close error"))

		c, err := di.NewContainer(
			di.AddTransient[*mocks.CloserMock](func() *mocks.CloserMock { return closer }),
		)
		require.NoError(t, err)

		scope, err := c.NewScope()
		require.NoError(t, err)

		_ = di.MustResolve[*mocks.CloserMock](ctx, scope)

		err = scope.Close(ctx)
		testutils.LogError(t, err)
		assert.EqualError(t, err, "di.Container.Close: close error")

		// The root did not create the service
		assert.NoError(t, c.Close(ctx))
	})
}
