// Package ast defines the AST node set the async-propagation analyser
// walks: a tagged sum type with plain type-switch dispatch in the
// analyser's walker, rather than a virtual-dispatch Visitor hierarchy.
package ast

import "github.com/asyncscript/asyncscript/internal/token"

// Node is the base interface for every AST node the analyser visits.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node that appears in statement position. MaySuspend is set
// by the analyser once any contained expression may suspend.
type Statement interface {
	Node
	statementNode()
	SetMaySuspend(bool)
	GetMaySuspend() bool
}

// Expression is a Node that appears in expression position. MaySuspend is
// set by the analyser once the expression itself, or a syntactic child of
// it, may suspend.
type Expression interface {
	Node
	expressionNode()
	SetMaySuspend(bool)
	GetMaySuspend() bool
	GetNodeType() *Type
}

// BaseExpr is embedded by every concrete Expression to share the
// may_suspend flag and declared/inferred type.
type BaseExpr struct {
	Token      token.Token
	MaySuspend bool
	NodeType   *Type
}

func (b *BaseExpr) GetToken() token.Token { return b.Token }
func (b *BaseExpr) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BaseExpr) expressionNode()       {}
func (b *BaseExpr) SetMaySuspend(v bool)  { b.MaySuspend = v }
func (b *BaseExpr) GetMaySuspend() bool   { return b.MaySuspend }
func (b *BaseExpr) GetNodeType() *Type    { return b.NodeType }

// BaseStmt is embedded by every concrete Statement.
type BaseStmt struct {
	Token      token.Token
	MaySuspend bool
}

func (b *BaseStmt) GetToken() token.Token { return b.Token }
func (b *BaseStmt) TokenLiteral() string  { return b.Token.Lexeme }
func (b *BaseStmt) statementNode()        {}
func (b *BaseStmt) SetMaySuspend(v bool)  { b.MaySuspend = v }
func (b *BaseStmt) GetMaySuspend() bool   { return b.MaySuspend }

// Program is the root node produced by the parser for one source file.
type Program struct {
	File    string
	Classes []*ClassDecl
}

func (p *Program) GetToken() token.Token { return token.Token{} }
func (p *Program) TokenLiteral() string  { return "" }

// ClassDecl is the compilation unit the analyser runs over: one class (or
// top-level script body, modelled as a class with an implicit name)
// declaration.
type ClassDecl struct {
	Token   token.Token
	Name    string
	Fields  []*VarDecl
	Methods []*FunDecl
	// Script is the implicit top-level-statements function synthesised for
	// bare scripts; nil for a class with only explicit methods.
	Script *FunDecl
}

func (c *ClassDecl) GetToken() token.Token { return c.Token }
func (c *ClassDecl) TokenLiteral() string  { return c.Token.Lexeme }

// Literal represents a constant value: int, float, string, bool or null.
type Literal struct {
	BaseExpr
	Kind  token.Type
	Value interface{}
}

// Identifier is a name reference; resolution links it to a VarDecl.
type Identifier struct {
	BaseExpr
	Name    string
	Binding *VarDecl // set by the resolver phase
}

// ClassPathExpression is a reference to a class by (possibly qualified)
// name, e.g. used as a type literal or static lookup target.
type ClassPathExpression struct {
	BaseExpr
	Path []string
}
