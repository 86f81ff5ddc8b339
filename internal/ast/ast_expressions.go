package ast

import "github.com/asyncscript/asyncscript/internal/token"

// --- Nodes that only ever recurse into operands: no direct
// async origin of their own. ---

type BinaryExpression struct {
	BaseExpr
	Left, Right Expression
	Operator    string
}

type UnaryExpression struct {
	BaseExpr
	Operand  Expression
	Operator string
}

type TernaryExpression struct {
	BaseExpr
	Condition, Then, Else Expression
}

type CastExpression struct {
	BaseExpr
	Source Expression
	Target *Type
}

type RegexMatchExpression struct {
	BaseExpr
	Subject Expression
	Pattern string
}

type RegexSubstExpression struct {
	BaseExpr
	Subject              Expression
	Pattern, Replacement string
}

type ListLiteral struct {
	BaseExpr
	Elements []Expression
}

type MapLiteral struct {
	BaseExpr
	Keys, Values []Expression
}

// InterpolatedString holds a mix of literal fragments (as Literal nodes)
// and embedded expression holes; any hole may suspend.
type InterpolatedString struct {
	BaseExpr
	Parts []Expression
}

type ArrayGetExpression struct {
	BaseExpr
	Array, Index Expression
}

type ArrayLengthExpression struct {
	BaseExpr
	Array Expression
}

// --- Nodes with a direct or conditional async origin ---

// BinaryAutoCreateExpression models a binary expression whose left side
// auto-creates a missing instance field. When the field's type is
// statically unknown the analyser conservatively marks it may_suspend.
type BinaryAutoCreateExpression struct {
	BaseExpr
	Target      Expression
	FieldName   string
	FieldType   *Type // nil when the field's type is statically unknown
	Initialiser Expression
}

// AssignExpression is `name = value`. When the left-hand side names a
// user-class-typed binding and the right-hand side is not null, assignment
// implicitly invokes that class's init method.
type AssignExpression struct {
	BaseExpr
	Target Expression // Identifier
	Value  Expression
}

// FieldAssignExpression is `target.field = value` where Target's static
// type is a user-class instance.
type FieldAssignExpression struct {
	BaseExpr
	Target    Expression
	FieldName string
	FieldType *Type
	Value     Expression
}

// FieldAccessExpression is a field read, `target.field`, with no
// assignment. It never invokes an init method itself — only the write
// form does — but its may_suspend still propagates from Target.
type FieldAccessExpression struct {
	BaseExpr
	Target    Expression
	FieldName string
}

// ReturnStatement's implicit coercion invokes the declared return type's
// init method when the returned expression's type differs and is not
// castable.
type ReturnStatement struct {
	BaseStmt
	Value        Expression // nil for a bare `return`
	DeclaredType *Type
}

// ConvertToExpression coerces a Map/List literal into a class instance
// inside a generated init wrapper; always consults the init-method check
// and always propagates may_suspend from Source.
type ConvertToExpression struct {
	BaseExpr
	Source Expression
	Target *Type
}

// EvalExpression runs a source string at runtime; its own asyncness is
// unknowable at compile time, so it is unconditionally may_suspend.
type EvalExpression struct {
	BaseExpr
	Source Expression
}

// --- Calls ---

// CallExpression is a direct function call. Callee is resolved by the
// Call-Target Resolver. ResolvedDescriptor is set by the
// resolver phase when Callee names a host builtin or other descriptor
// with no backing FunDecl (so the Call-Target Resolver's VarDecl/closure
// chain never applies) — e.g. a bare global function reference.
type CallExpression struct {
	BaseExpr
	Callee             Expression
	Args               []Expression
	NamedArgs          map[string]Expression // non-nil for a named-args invocation
	ResolvedDescriptor interface{}            // *descriptors.FunctionDescriptor, or nil
}

// MethodCallExpression is `receiver.method(args)`. MethodDescriptor is nil
// to indicate dynamic dispatch (descriptor unknown), per the resolver
// contract.
type MethodCallExpression struct {
	BaseExpr
	Receiver         Expression
	MethodName       string
	Args             []Expression
	NamedArgs        map[string]Expression
	MethodDescriptor interface{} // *descriptors.FunctionDescriptor, or nil for dynamic dispatch
}

// InvokeInitExpression is a direct constructor invocation, `new Class(args)`
// — treated exactly as a call to the class's init descriptor.
type InvokeInitExpression struct {
	BaseExpr
	Class *ClassDecl
	Args  []Expression
}

// --- Control flow ---

type BlockStatement struct {
	BaseStmt
	Statements []Statement
}

type ExpressionStatement struct {
	BaseStmt
	Expr Expression
}

type IfStatement struct {
	BaseStmt
	Condition       Expression
	Then, Otherwise *BlockStatement // Otherwise nil when there is no else
}

// ForStatement models both a for-in loop (Iterable set) and a while loop
// (Condition set); exactly one of the two is non-nil.
type ForStatement struct {
	BaseStmt
	Condition Expression
	Iterable  Expression
	Body      *BlockStatement
}

type BreakStatement struct {
	BaseStmt
	Value Expression // optional value, may itself suspend
}

type ContinueStatement struct {
	BaseStmt
}

// SwitchStatement, SwitchCase and ConstructorPattern recurse into the
// subject, per-case patterns and results — no direct async origin beyond
// what those children carry.
type SwitchStatement struct {
	BaseStmt
	Subject Expression
	Cases   []*SwitchCase
}

type SwitchCase struct {
	Token    token.Token
	Patterns []*ConstructorPattern
	Result   *BlockStatement
}

type ConstructorPattern struct {
	Token      token.Token
	ClassName  string
	FieldBinds []Expression
}
