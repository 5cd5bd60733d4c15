package di

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sectrean/injex/internal/errors"
)

// WithDependencyValidation validates registered services on [Container] creation.
//
// This will check that all dependencies are registered and that there are no dependency cycles.
// It will return an error with details if any issues are found.
//
// Dependencies of factories are not known until they run, so they are not validated.
func WithDependencyValidation() ContainerOption {
	return newContainerOption(orderValidation, func(c *Container) error {
		err := c.validateDependencies()
		if err != nil {
			return errors.Wrap(err, "WithDependencyValidation")
		}

		return nil
	})
}

func (c *Container) validateDependencies() error {
	var errs []error
	svcProblems := make(map[*descriptor]string)

	for _, d := range c.registry.descriptors() {
		prob := c.validateService(d.key, d, svcProblems, newResolveVisitor())
		if prob != "" {
			errs = append(errs, errors.Errorf("service %s: %s", d, prob))
		}
	}

	return errors.Join(errs...)
}

func (c *Container) validateService(
	key serviceKey,
	d *descriptor,
	svcProblems map[*descriptor]string,
	visitor *resolveVisitor,
) string {
	if prob, ok := svcProblems[d]; ok {
		return prob
	}

	deps := c.validationDeps(d)
	if len(deps) == 0 {
		svcProblems[d] = ""
		return ""
	}

	if !visitor.Enter(key, d) {
		return visitor.Cycle(key, d).Error()
	}
	defer visitor.Leave(d)

	var problems []string
	for _, dep := range deps {
		switch dep.kind {
		case depContext, depScope:
			continue

		case depAll:
			// An empty slice is valid, but each registered service must be valid
			for _, depSvc := range c.registry.lookupAll(dep.key.Type) {
				depKey := serviceKey{Type: dep.key.Type, Name: depSvc.key.Name}
				prob := c.validateService(depKey, depSvc, svcProblems, visitor)
				if prob != "" {
					problems = append(problems, fmt.Sprintf("dependency %s: %s", dep, prob))
				}
			}
			continue
		}

		depSvc := c.registry.lookup(dep.key)
		if depSvc == nil {
			if !dep.optional {
				problems = append(problems, fmt.Sprintf("dependency %s: %s", dep, ErrServiceNotRegistered))
			}
			continue
		}

		prob := c.validateService(dep.key, depSvc, svcProblems, visitor)
		if prob != "" {
			problems = append(problems, fmt.Sprintf("dependency %s: %s", dep, prob))
		}
	}

	if len(problems) > 0 {
		probs := strings.Join(problems, "; ")
		svcProblems[d] = probs
		return probs
	}

	svcProblems[d] = ""
	return ""
}

// validationDeps returns the constructor parameters, injected fields and decorator parameters
// known at registration.
func (c *Container) validationDeps(d *descriptor) []dependency {
	decs := c.registry.decoratorsFor(d.key)
	if len(d.properties) == 0 && len(decs) == 0 {
		return d.deps
	}

	all := slices.Clone(d.deps)
	for _, prop := range d.properties {
		all = append(all, prop.dep)
	}
	for _, dec := range decs {
		all = append(all, dec.dependencies()...)
	}
	return all
}
