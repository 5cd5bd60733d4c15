package di

import (
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/sectrean/injex/internal/errors"
)

// injectTag is the struct tag used to mark fields for property injection.
//
// The tag value is an optional service name followed by options:
//
//	Logger  Logger         `inject:""`
//	Primary Database       `inject:"mysql"`
//	Cache   Cache          `inject:",optional"`
//	Metrics Optional[Sink] `inject:""`
const injectTag = "inject"

// property is a struct field set after the service is created.
type property struct {
	field string
	index int
	dep   dependency
}

type propertyPlan struct {
	props []property
	err   error
}

// Injection plans only depend on the struct type, so they are shared by every Container.
var propertyPlans = xsync.NewMapOf[reflect.Type, propertyPlan]()

// propertiesFor returns the injected fields of t, which may be a struct or a pointer to a struct.
// Other types have no injected fields.
func propertiesFor(t reflect.Type) ([]property, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, nil
	}

	plan, _ := propertyPlans.LoadOrCompute(t, func() propertyPlan {
		props, err := analyzeProperties(t)
		return propertyPlan{props: props, err: err}
	})

	return plan.props, plan.err
}

func analyzeProperties(t reflect.Type) ([]property, error) {
	var props []property
	for i := range t.NumField() {
		f := t.Field(i)

		tag, ok := f.Tag.Lookup(injectTag)
		if !ok {
			continue
		}

		if !f.IsExported() {
			return nil, errors.Errorf("field %s of %s: inject field must be exported", f.Name, t)
		}

		dep, ok := newDependency(f.Type)
		if !ok || dep.kind == depContext {
			return nil, &MissingTypeAnnotationError{
				Target: t,
				Param:  -1,
				Field:  f.Name,
			}
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name != "" {
			if dep.kind != depService {
				return nil, errors.Errorf("field %s of %s: name not supported for %s", f.Name, t, f.Type)
			}
			dep.key.Name = name
			dep.named = true
		}

		for _, opt := range strings.Split(opts, ",") {
			switch strings.TrimSpace(opt) {
			case "":
			case "optional":
				dep.optional = true
			default:
				return nil, errors.Errorf("field %s of %s: unknown inject option %q", f.Name, t, opt)
			}
		}

		props = append(props, property{
			field: f.Name,
			index: i,
			dep:   dep,
		})
	}

	return props, nil
}
