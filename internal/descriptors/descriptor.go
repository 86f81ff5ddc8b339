// Package descriptors holds the per-function metadata records populated by
// name/type resolution and mutated by the async-propagation analyser.
//
// A FunctionDescriptor outlives any single analyser run — it belongs to the
// resolver's tables — so this package has no
// dependency on internal/analyzer or internal/ast; it is the stable
// contract both sides share.
package descriptors

import "fmt"

// AsyncState is the tri-state lattice Unknown ⊑ Sync, Unknown ⊑ Async, with
// Async the top observable element. It replaces the boxed-nullable-boolean
// the original system used for the same purpose.
type AsyncState int

const (
	// Unknown is the initial state before the analyser has proven anything.
	Unknown AsyncState = iota
	Sync
	Async
)

func (s AsyncState) String() string {
	switch s {
	case Sync:
		return "sync"
	case Async:
		return "async"
	default:
		return "unknown"
	}
}

// FunctionDescriptor is the metadata record for one function or method.
// Everything except IsAsync is fixed at registration time; IsAsync starts
// Unknown and is advanced monotonically by MarkAsync/MarkSync.
type FunctionDescriptor struct {
	Name            string
	OwningClassName string

	IsBuiltin bool

	// IsAsyncPredeclared is true for builtins and imported functions whose
	// asyncness the host fixes at registration time. The analyser treats
	// such descriptors as immutable.
	IsAsyncPredeclared bool

	isAsync AsyncState

	// AsyncArgIndices are the argument positions whose asyncness makes the
	// callee itself async. An empty set means "async unconditionally"
	// whenever IsAsync is Async.
	AsyncArgIndices map[int]struct{}

	// ParamNames maps named-argument invocations to positional indices.
	ParamNames []string
}

// New creates a descriptor with IsAsync starting Unknown.
func New(name, owningClass string) *FunctionDescriptor {
	return &FunctionDescriptor{Name: name, OwningClassName: owningClass}
}

// NewPredeclared creates a descriptor whose asyncness is fixed by the host
// at registration time (builtins, imported functions) and never revisited
// by the analyser.
func NewPredeclared(name, owningClass string, async bool, argIndices ...int) *FunctionDescriptor {
	d := &FunctionDescriptor{
		Name:               name,
		OwningClassName:    owningClass,
		IsBuiltin:          true,
		IsAsyncPredeclared: true,
	}
	if async {
		d.isAsync = Async
	} else {
		d.isAsync = Sync
	}
	if len(argIndices) > 0 {
		d.AsyncArgIndices = make(map[int]struct{}, len(argIndices))
		for _, i := range argIndices {
			d.AsyncArgIndices[i] = struct{}{}
		}
	}
	return d
}

// IsAsync reports the descriptor's current asyncness.
func (d *FunctionDescriptor) IsAsync() AsyncState { return d.isAsync }

// MarkAsync advances the descriptor to Async. It is the sole entry point
// that mutates isAsync to Async, and it is idempotent: calling it again is
// a no-op because Async is the lattice top. Calling it after MarkSync
// advances the descriptor from Sync to Async; the reverse never happens.
// It panics if the descriptor is predeclared — the host, not the analyser,
// owns that asyncness.
func (d *FunctionDescriptor) MarkAsync() {
	if d.IsAsyncPredeclared {
		panic(fmt.Sprintf("descriptor %s.%s: analyser may not mutate a predeclared descriptor", d.OwningClassName, d.Name))
	}
	d.isAsync = Async
}

// MarkSync finalises the descriptor to Sync. It is a no-op if the
// descriptor is already Async — Sync never overrides the lattice top, so
// calling MarkSync on an already-Async descriptor cannot un-mark it.
func (d *FunctionDescriptor) MarkSync() {
	if d.IsAsyncPredeclared {
		panic(fmt.Sprintf("descriptor %s.%s: analyser may not mutate a predeclared descriptor", d.OwningClassName, d.Name))
	}
	if d.isAsync == Async {
		return
	}
	d.isAsync = Sync
}

// AsyncByArg reports whether position i is listed in AsyncArgIndices.
func (d *FunctionDescriptor) AsyncByArg(i int) bool {
	if d.AsyncArgIndices == nil {
		return false
	}
	_, ok := d.AsyncArgIndices[i]
	return ok
}

// ParamIndex returns the positional index of a named parameter, or -1.
func (d *FunctionDescriptor) ParamIndex(name string) int {
	for i, n := range d.ParamNames {
		if n == name {
			return i
		}
	}
	return -1
}
