package di

import "slices"

// A Module is a collection of container options.
// It can be used to export a re-usable group of related services.
//
// Example:
//
//	var NotificationModule = di.Module{
//		di.AddSingleton[*SMTPConfig](nil),
//		di.AddTransient[Sender](NewEmailSender, di.WithName("email")),
//		di.AddTransient[Sender](NewSMSSender, di.WithName("sms")),
//	}
type Module []ContainerOption

func (Module) applyContainer(*Container) error { return nil }
func (Module) order() optionOrder              { return orderService }

// WithModule applies the options in a [Module] when calling [NewContainer].
//
// Example:
//
//	c, err := di.NewContainer(
//		di.WithModule(NotificationModule), // var NotificationModule di.Module
//		di.AddScoped[*Handler](NewHandler), // NewHandler([]Sender) *Handler
//	)
func WithModule(m Module) ContainerOption {
	return m
}

// flattenModules replaces each Module with its options, recursively, keeping the order of services.
func flattenModules(opts []ContainerOption) []ContainerOption {
	flat := make([]ContainerOption, 0, len(opts))
	for _, opt := range opts {
		if mod, ok := opt.(Module); ok {
			flat = append(flat, flattenModules(slices.Clone(mod))...)
			continue
		}
		if opt != nil {
			flat = append(flat, opt)
		}
	}

	return flat
}
