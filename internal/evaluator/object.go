// Package evaluator holds the minimal runtime surface the embeddable API
// needs once the analyser has already run. Lowering analysed AST to
// executable bytecode and running it is the code generator's job, one
// layer downstream of this module (see the analyser's own Non-goals) —
// this package does not attempt it. What remains here is the part that
// cannot be deferred: the bitstring builtins, and a thin Object/Environment
// pair a host embedding can use to exchange values with analysed script
// text without pulling in a full bytecode VM.
package evaluator

// Object is the runtime value an evaluated script expression produces.
// Scripts that do not touch bitstrings never need more than these kinds.
type Object interface {
	objectMarker()
}

// Nil is the single no-value Object, returned by a statement that
// produces nothing worth reporting back to the host.
type Nil struct{}

func (Nil) objectMarker() {}

// Int wraps a scripting-language integer value.
type Int struct{ Value int64 }

func (Int) objectMarker() {}

// Str wraps a scripting-language string value.
type Str struct{ Value string }

func (Str) objectMarker() {}

// Bytes wraps a packed bitstring, the result of PackBitstring or the
// input to UnpackBitstring.
type Bytes struct{ Value []byte }

func (Bytes) objectMarker() {}

// Environment is a single lexical scope of bound names, chained to its
// enclosing scope.
type Environment struct {
	vars    map[string]Object
	parent  *Environment
}

// NewEnvironment creates a root scope with no parent.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Object)}
}

// NewChildEnvironment creates a scope nested inside parent.
func NewChildEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]Object), parent: parent}
}

// Get resolves name in this scope or any enclosing scope.
func (e *Environment) Get(name string) (Object, bool) {
	if v, ok := e.vars[name]; ok {
		return v, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false
}

// Set binds name to value in this scope.
func (e *Environment) Set(name string, value Object) {
	e.vars[name] = value
}
