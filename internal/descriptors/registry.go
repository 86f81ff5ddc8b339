package descriptors

import "fmt"

// Registry is the resolver's table of every FunctionDescriptor known to a
// compilation unit: user-declared functions and methods, their wrappers,
// and host-predeclared builtins. It outlives any single analyser pass.
type Registry struct {
	byQualifiedName map[string]*FunctionDescriptor
}

func NewRegistry() *Registry {
	return &Registry{byQualifiedName: make(map[string]*FunctionDescriptor)}
}

// QualifiedName is the registry key: "<OwningClassName>.<Name>", or just
// Name when OwningClassName is empty (top-level script functions).
func QualifiedName(owningClass, name string) string {
	if owningClass == "" {
		return name
	}
	return fmt.Sprintf("%s.%s", owningClass, name)
}

// Register adds d under its own qualified name. It panics on a duplicate
// registration — the resolver registers each declaration exactly once, so
// a collision means a resolver bug, not a user error.
func (r *Registry) Register(d *FunctionDescriptor) {
	key := QualifiedName(d.OwningClassName, d.Name)
	if _, exists := r.byQualifiedName[key]; exists {
		panic(fmt.Sprintf("descriptor registry: duplicate registration for %s", key))
	}
	r.byQualifiedName[key] = d
}

// Lookup finds a descriptor by owning class and name. The bool result is
// false for a dynamic-dispatch call site the resolver could not bind.
func (r *Registry) Lookup(owningClass, name string) (*FunctionDescriptor, bool) {
	d, ok := r.byQualifiedName[QualifiedName(owningClass, name)]
	return d, ok
}

// All returns every registered descriptor, in no particular order.
func (r *Registry) All() []*FunctionDescriptor {
	out := make([]*FunctionDescriptor, 0, len(r.byQualifiedName))
	for _, d := range r.byQualifiedName {
		out = append(out, d)
	}
	return out
}
