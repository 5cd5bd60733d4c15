package di

import (
	"reflect"
	"slices"
)

// registry holds the registered services of a Container.
//
// It is populated while the root Container is created and only read afterwards,
// so it is shared with child scopes without locking.
type registry struct {
	services   map[reflect.Type][]*descriptor
	ordered    []*descriptor
	decorators map[serviceKey][]*decorator
}

func newRegistry() *registry {
	return &registry{
		services:   make(map[reflect.Type][]*descriptor),
		decorators: make(map[serviceKey][]*decorator),
	}
}

func (r *registry) add(d *descriptor) {
	r.ordered = append(r.ordered, d)
	for _, t := range d.Types() {
		r.services[t] = append(r.services[t], d)
	}
}

// lookup returns the service to use for key.
//
// The most recently registered service with the name wins. When resolving the default name
// and no service was registered without a name, the most recently registered service of the type is used.
func (r *registry) lookup(key serviceKey) *descriptor {
	svcs := r.services[key.Type]
	if len(svcs) == 0 {
		return nil
	}

	for i := len(svcs) - 1; i >= 0; i-- {
		if svcs[i].key.Name == key.Name {
			return svcs[i]
		}
	}

	if key.Name == DefaultName {
		return svcs[len(svcs)-1]
	}

	return nil
}

// lookupAll returns every service registered for t, under any name, in registration order.
func (r *registry) lookupAll(t reflect.Type) []*descriptor {
	return slices.Clone(r.services[t])
}

func (r *registry) contains(key serviceKey) bool {
	return r.lookup(key) != nil
}

// descriptors returns every registered service once, in registration order.
func (r *registry) descriptors() []*descriptor {
	return slices.Clone(r.ordered)
}

func (r *registry) addDecorator(dec *decorator) {
	r.decorators[dec.key] = append(r.decorators[dec.key], dec)
}

// decoratorsFor returns the decorators of the service registered with key, in registration order.
func (r *registry) decoratorsFor(key serviceKey) []*decorator {
	return r.decorators[key]
}
