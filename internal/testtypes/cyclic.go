package testtypes

// ServiceC and ServiceD depend on each other through their constructors.
type ServiceC struct {
	D *ServiceD
}

func NewServiceC(d *ServiceD) *ServiceC {
	return &ServiceC{D: d}
}

type ServiceD struct {
	C *ServiceC
}

func NewServiceD(c *ServiceC) *ServiceD {
	return &ServiceD{C: c}
}

// ServiceE depends on itself.
type ServiceE struct{}

func NewServiceE(*ServiceE) *ServiceE {
	return &ServiceE{}
}

// PropertyX and PropertyY depend on each other through injected properties.
type PropertyX struct {
	Y *PropertyY `inject:""`
}

type PropertyY struct {
	X *PropertyX `inject:""`
}
