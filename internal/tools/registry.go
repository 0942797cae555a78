package tools

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicateName is returned when registering a tool under a name
	// that is already taken.
	ErrDuplicateName = errors.New("tool name already registered")

	// ErrNotFound is returned when looking up a tool name that was never
	// registered.
	ErrNotFound = errors.New("tool not found")

	// ErrToolNotAvailable is returned when a tool exists in the registry
	// but the active configuration filtered it out. Callers can tell this
	// apart from ErrNotFound with errors.Is.
	ErrToolNotAvailable = errors.New("tool not available in this configuration")
)

// Registered pairs a descriptor with its handler. The handler's concrete
// type depends on the service; the dispatcher recovers it with a type
// assertion after switching on Descriptor.Service.
type Registered struct {
	Descriptor Descriptor
	Handler    any
}

// Registry maps tool names to their descriptors and handlers.
//
// A Registry is constructed at startup, fully populated before any serving
// begins, and treated as immutable afterwards. It is deliberately an
// explicit object rather than package state so tests can build isolated
// registries.
type Registry struct {
	entries map[string]Registered
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registered)}
}

// Register adds a tool under its descriptor's name.
// Returns ErrDuplicateName if the name is already present.
func (r *Registry) Register(desc Descriptor, handler any) error {
	if desc.Name == "" {
		return fmt.Errorf("descriptor has empty name")
	}
	if _, exists := r.entries[desc.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, desc.Name)
	}
	r.entries[desc.Name] = Registered{Descriptor: desc, Handler: handler}
	return nil
}

// MustRegister is Register that panics on error. Registration happens once
// at startup with static descriptors, so a failure is a programming error.
func (r *Registry) MustRegister(desc Descriptor, handler any) {
	if err := r.Register(desc, handler); err != nil {
		panic(err)
	}
}

// Lookup returns the registered tool for a name.
// Returns ErrNotFound if no tool with that name exists.
func (r *Registry) Lookup(name string) (Registered, error) {
	entry, ok := r.entries[name]
	if !ok {
		return Registered{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return entry, nil
}

// All returns every registered descriptor, sorted by name for deterministic
// iteration.
func (r *Registry) All() []Descriptor {
	descs := make([]Descriptor, 0, len(r.entries))
	for _, entry := range r.entries {
		descs = append(descs, entry.Descriptor)
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
	return descs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.entries)
}
