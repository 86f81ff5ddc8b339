package ast

// Type is the minimal declared/inferred type tag the resolver attaches to
// expressions. The analyser is
// not a type checker — it only ever asks three questions of a
// Type: is it the universal "any" type, is it a user-class instance, and
// (for that case) is the instance castable from the source expression.
type Type struct {
	Name string

	// IsAny marks the top element of the type lattice.
	IsAny bool

	// IsUserClass marks a type that names a user-defined class with an
	// init method — the case §4.1/§4.7 care about.
	IsUserClass bool

	// Castable is only meaningful when IsUserClass is true: true means a
	// value of the source type can be cast to this type without invoking
	// the class's init method.
	Castable bool

	// Class points at the declaration so the init-method check (§4.7) can
	// find the class's init descriptor. Nil unless IsUserClass.
	Class *ClassDecl
}

// Any is the universal "any" type.
var Any = &Type{Name: "any", IsAny: true}

// InitMethodName is the reserved name of a class's initialiser.
const InitMethodName = "init"

// ToStringMethodName is the reserved stringification method name the
// analyser forbids from transitively suspending.
const ToStringMethodName = "toString"
