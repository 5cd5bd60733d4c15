package di

import "sync/atomic"

// resolveVisitor tracks the services being created by one resolution.
//
// A new visitor is used for each call to Resolve, and for each service resolved by ResolveAll,
// so unrelated resolutions never see each other's services.
type resolveVisitor struct {
	visiting map[*descriptor]int
	trail    []serviceKey

	// waitingOn is the cached service this resolution is waiting for another resolution to create.
	// It is read by other goroutines.
	waitingOn atomic.Pointer[resolveFuture]
}

func newResolveVisitor() *resolveVisitor {
	return &resolveVisitor{
		visiting: make(map[*descriptor]int),
	}
}

// Enter returns false if the service is already being created by this resolution.
func (v *resolveVisitor) Enter(key serviceKey, d *descriptor) bool {
	if _, ok := v.visiting[d]; ok {
		return false
	}

	v.visiting[d] = len(v.trail)
	v.trail = append(v.trail, key)
	return true
}

func (v *resolveVisitor) Leave(d *descriptor) {
	delete(v.visiting, d)
	v.trail = v.trail[:len(v.trail)-1]
}

// Cycle returns an error describing the cycle formed by resolving key again.
func (v *resolveVisitor) Cycle(key serviceKey, d *descriptor) *CycleError {
	start := v.visiting[d]

	chain := make([]string, 0, len(v.trail)-start+1)
	for _, k := range v.trail[start:] {
		chain = append(chain, k.String())
	}
	chain = append(chain, key.String())

	return &CycleError{Chain: chain}
}
