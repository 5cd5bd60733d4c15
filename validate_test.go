package di_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sectrean/injex"
	"github.com/sectrean/injex/internal/testtypes"
	"github.com/sectrean/injex/internal/testutils"
)

func Test_WithDependencyValidation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddSingleton[testtypes.Database](typeMySQL),
			di.AddSingleton[testtypes.Logger](typeMemoryLogger),
			di.AddScoped[*testtypes.DataService](testtypes.NewDataService,
				di.WithOptional[testtypes.Cache](),
			),
			di.AddTransient[testtypes.Sender](testtypes.NewEmailSender),
			di.AddSingleton[*testtypes.NotificationService](testtypes.NewNotificationService),
			di.WithDependencyValidation(),
		)

		assert.NotNil(t, c)
		assert.NoError(t, err)
	})

	t.Run("applied after services", func(t *testing.T) {
		c, err := di.NewContainer(
			di.WithDependencyValidation(),
			di.AddSingleton[*testtypes.NotificationService](testtypes.NewNotificationService),
		)

		assert.NotNil(t, c)
		assert.NoError(t, err)
	})

	t.Run("missing dependencies", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddScoped[*testtypes.DataService](testtypes.NewDataService),
			di.WithDependencyValidation(),
		)
		testutils.LogError(t, err)

		assert.Nil(t, c)
		assert.EqualError(t, err, "di.NewContainer: WithDependencyValidation: service *testtypes.DataService: "+
			"dependency testtypes.Database: service not registered; "+
			"dependency testtypes.Cache: service not registered; "+
			"dependency testtypes.Logger: service not registered")
	})

	t.Run("missing named dependency", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddSingleton[testtypes.Database](typeMySQL, di.WithName("mysql")),
			di.AddSingleton[*replicator](newReplicator,
				di.WithNamed[testtypes.Database]("mysql"),
				di.WithNamed[testtypes.Database]("postgresql"),
			),
			di.WithDependencyValidation(),
		)
		testutils.LogError(t, err)

		assert.Nil(t, c)
		assert.EqualError(t, err, "di.NewContainer: WithDependencyValidation: service *di_test.replicator: "+
			`dependency testtypes.Database (name "postgresql"): service not registered`)
	})

	t.Run("slice element", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddTransient[testtypes.Sender](func(testtypes.Database) *testtypes.EmailSender {
				return testtypes.NewEmailSender()
			}),
			di.AddSingleton[*testtypes.NotificationService](testtypes.NewNotificationService),
			di.WithDependencyValidation(),
		)
		testutils.LogError(t, err)

		assert.Nil(t, c)
		assert.ErrorContains(t, err, "service testtypes.Sender: dependency testtypes.Database: service not registered")
		assert.ErrorContains(t, err, "service *testtypes.NotificationService: dependency []testtypes.Sender: "+
			"dependency testtypes.Database: service not registered")
	})

	t.Run("cycle", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddSingleton[*testtypes.ServiceC](testtypes.NewServiceC),
			di.AddSingleton[*testtypes.ServiceD](testtypes.NewServiceD),
			di.WithDependencyValidation(),
		)
		testutils.LogError(t, err)

		assert.Nil(t, c)
		assert.ErrorIs(t, err, di.ErrDependencyCycle)
		assert.EqualError(t, err, "di.NewContainer: WithDependencyValidation: "+
			"service *testtypes.ServiceC: dependency *testtypes.ServiceD: dependency *testtypes.ServiceC: "+
			"dependency cycle detected: *testtypes.ServiceC -> *testtypes.ServiceD -> *testtypes.ServiceC\n"+
			"service *testtypes.ServiceD: dependency *testtypes.ServiceC: "+
			"dependency cycle detected: *testtypes.ServiceC -> *testtypes.ServiceD -> *testtypes.ServiceC")
	})

	t.Run("cycle reported in registration order", func(t *testing.T) {
		for range 20 {
			_, err := di.NewContainer(
				di.AddSingleton[*testtypes.ServiceD](testtypes.NewServiceD),
				di.AddSingleton[*testtypes.ServiceC](testtypes.NewServiceC),
				di.WithDependencyValidation(),
			)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "WithDependencyValidation: service *testtypes.ServiceD: ")
			assert.Contains(t, err.Error(), "*testtypes.ServiceD -> *testtypes.ServiceC -> *testtypes.ServiceD")
			assert.NotContains(t, err.Error(), "*testtypes.ServiceC -> *testtypes.ServiceD -> *testtypes.ServiceC")
		}
	})

	t.Run("property cycle", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddSingleton[*testtypes.PropertyX](nil),
			di.AddSingleton[*testtypes.PropertyY](nil),
			di.WithDependencyValidation(),
		)
		testutils.LogError(t, err)

		assert.Nil(t, c)
		assert.EqualError(t, err, "di.NewContainer: WithDependencyValidation: "+
			"service *testtypes.PropertyX: dependency *testtypes.PropertyY: dependency *testtypes.PropertyX: "+
			"dependency cycle detected: *testtypes.PropertyX -> *testtypes.PropertyY -> *testtypes.PropertyX\n"+
			"service *testtypes.PropertyY: dependency *testtypes.PropertyX: "+
			"dependency cycle detected: *testtypes.PropertyX -> *testtypes.PropertyY -> *testtypes.PropertyX")
	})

	t.Run("optional missing", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddSingleton[*testtypes.ServiceC](func(di.Optional[*testtypes.ServiceD]) *testtypes.ServiceC {
				return &testtypes.ServiceC{}
			}),
			di.WithDependencyValidation(),
		)

		assert.NotNil(t, c)
		assert.NoError(t, err)
	})

	t.Run("factories are not validated", func(t *testing.T) {
		c, err := di.NewContainer(
			di.AddScopedFactory(func(ctx context.Context, s di.Scope) (testtypes.Cache, error) {
				return di.Resolve[*testtypes.RedisCache](ctx, s)
			}),
			di.WithDependencyValidation(),
		)
		require.NoError(t, err)

		_, err = di.Resolve[testtypes.Cache](context.Background(), c)
		assert.ErrorIs(t, err, di.ErrServiceNotRegistered)
	})
}
