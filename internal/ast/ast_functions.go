package ast

import (
	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/token"
)

// Parameter is one formal parameter of a FunDecl.
type Parameter struct {
	Name     string
	TypeAnn  *Type
	Variadic bool
	Default  Expression // nil unless the parameter has a default value
}

// FunDecl is a function or method declaration. Every user-visible function
// has a real FunDecl and, when it takes variadic/named/default arguments, a
// paired Wrapper FunDecl that adapts the call into the real body.
type FunDecl struct {
	Token token.Token

	Name       string
	Params     []*Parameter
	Body       []Statement
	Descriptor *descriptors.FunctionDescriptor

	// Wrapper is the varargs/named-args adapter, or nil.
	Wrapper *FunDecl
	// IsWrapperFor points back at the real FunDecl when this FunDecl is
	// itself a wrapper.
	IsWrapperFor *FunDecl

	// Owner is the lexically enclosing FunDecl; nil only for a class's
	// top-level script body.
	Owner *FunDecl

	// Captures holds, in insertion order, every VarDecl this function
	// closes over — maintained by the Captured-Variable Chainer.
	Captures *CaptureSet
}

func (f *FunDecl) GetToken() token.Token { return f.Token }
func (f *FunDecl) TokenLiteral() string  { return f.Name }
func (f *FunDecl) statementNode()        {}
func (f *FunDecl) SetMaySuspend(bool)    {} // a FunDecl itself never suspends; its body's statements do
func (f *FunDecl) GetMaySuspend() bool   { return false }

var _ Statement = (*FunDecl)(nil)

// VarDecl is a variable declaration: a local, a parameter binding, or a
// capture-chain link.
type VarDecl struct {
	Token token.Token

	Name    string
	IsFinal bool

	Initialiser Expression
	// BoundFunDecl is set when the initialiser directly names a function
	// literal.
	BoundFunDecl *FunDecl

	// OriginVar points at the defining declaration when this VarDecl is a
	// capture-chain link. ParentVar points at the next
	// link up the chain.
	OriginVar *VarDecl
	ParentVar *VarDecl

	Owner        *FunDecl
	DeclaredType *Type
}

func (v *VarDecl) GetToken() token.Token { return v.Token }
func (v *VarDecl) TokenLiteral() string  { return v.Name }
func (v *VarDecl) statementNode()        {}
func (v *VarDecl) SetMaySuspend(bool)    {}
func (v *VarDecl) GetMaySuspend() bool   { return false }

var _ Statement = (*VarDecl)(nil)

// ClosureExpression is an inline function literal used as an expression;
// it wraps a FunDecl.
type ClosureExpression struct {
	BaseExpr
	Fun *FunDecl
}

// CaptureSet is the ordered map<VarDecl_id, VarDecl> FunDecl.captures
// requires: insertion order must survive so code generation sees a stable,
// deterministic capture-chain layout.
type CaptureSet struct {
	order []*VarDecl
	seen  map[*VarDecl]struct{}
}

func NewCaptureSet() *CaptureSet {
	return &CaptureSet{seen: make(map[*VarDecl]struct{})}
}

// Add inserts v if not already present and reports whether it was newly
// added.
func (c *CaptureSet) Add(v *VarDecl) bool {
	if _, ok := c.seen[v]; ok {
		return false
	}
	c.seen[v] = struct{}{}
	c.order = append(c.order, v)
	return true
}

func (c *CaptureSet) Contains(v *VarDecl) bool {
	_, ok := c.seen[v]
	return ok
}

// Ordered returns the captured variables in insertion order.
func (c *CaptureSet) Ordered() []*VarDecl {
	return c.order
}

func (c *CaptureSet) Len() int { return len(c.order) }
