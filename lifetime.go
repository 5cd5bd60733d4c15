package di

import "strconv"

// Lifetime controls how long a resolved service is kept and who shares it.
type Lifetime uint8

const (
	// Singleton services are constructed once by the root [Container].
	// Every scope gets the same instance, and it is closed with the root.
	Singleton Lifetime = iota

	// Transient services are constructed every time they are resolved.
	// They are closed with the scope that resolved them.
	Transient

	// Scoped services are constructed once per scope.
	// The root [Container] acts as a scope of its own.
	Scoped
)

var lifetimeNames = [...]string{
	Singleton: "Singleton",
	Transient: "Transient",
	Scoped:    "Scoped",
}

func (l Lifetime) String() string {
	if !l.IsValid() {
		return "Lifetime(" + strconv.Itoa(int(l)) + ")"
	}
	return lifetimeNames[l]
}

// IsValid reports whether l is one of [Singleton], [Transient] or [Scoped].
func (l Lifetime) IsValid() bool {
	return int(l) < len(lifetimeNames)
}
