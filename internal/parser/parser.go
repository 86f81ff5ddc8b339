// Package parser turns a token stream into the ast package's node set.
// A recursive-descent/Pratt hybrid: a Parser holds cur/peek tokens and an
// operator-precedence table, diagnostics accumulate on the Parser rather
// than panicking, and ParserProcessor adapts it to the internal/pipeline
// stage contract.
package parser

import (
	"strconv"

	"github.com/asyncscript/asyncscript/internal/ast"
	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/diagnostics"
	"github.com/asyncscript/asyncscript/internal/lexer"
	"github.com/asyncscript/asyncscript/internal/pipeline"
	"github.com/asyncscript/asyncscript/internal/token"
)

const scriptClassName = "<script>"

// precedence levels, lowest to highest.
const (
	_ int = iota
	precLowest
	precTernary
	precOr
	precAnd
	precEquals
	precCompare
	precSum
	precProduct
	precPrefix
	precCall
	precIndex
)

var precedences = map[token.Type]int{
	token.QUESTION:  precTernary,
	token.OR:        precOr,
	token.AND:       precAnd,
	token.EQ:        precEquals,
	token.NEQ:       precEquals,
	token.LT:        precCompare,
	token.LTE:       precCompare,
	token.GT:        precCompare,
	token.GTE:       precCompare,
	token.PLUS:      precSum,
	token.MINUS:     precSum,
	token.STAR:      precProduct,
	token.SLASH:     precProduct,
	token.PERCENT:   precProduct,
	token.LPAREN:    precCall,
	token.DOT:       precIndex,
	token.QUESTION_DOT: precIndex,
	token.LBRACKET:  precIndex,
}

// Parser builds an *ast.Program from a token stream, accumulating
// diagnostics rather than stopping at the first error.
type Parser struct {
	stream *lexer.TokenStream
	cur    token.Token
	peek   token.Token

	filePath string
	registry *descriptors.Registry

	errors []*diagnostics.DiagnosticError
}

// New builds a Parser over stream. registry receives every user-declared
// function/method descriptor the parser registers as it encounters
// declarations.
func New(stream *lexer.TokenStream, filePath string, registry *descriptors.Registry) *Parser {
	p := &Parser{stream: stream, filePath: filePath, registry: registry}
	p.next()
	p.next()
	return p
}

func (p *Parser) Errors() []*diagnostics.DiagnosticError { return p.errors }

// newSubParser builds a Parser over a standalone source fragment, used to
// parse string-interpolation holes.
func newSubParser(src, filePath string, registry *descriptors.Registry) *Parser {
	stream := lexer.NewTokenStream(lexer.New(src))
	return New(stream, filePath, registry)
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.stream.Next()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expect(t token.Type, what string) bool {
	if p.peekIs(t) {
		p.next()
		return true
	}
	p.errorf(diagnostics.ErrP001, "expected %s, got %q", what, p.peek.Lexeme)
	return false
}

func (p *Parser) errorf(code diagnostics.ErrorCode, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewError(code, p.cur, format, args...))
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return precLowest
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return precLowest
}

// ParseProgram parses every class declaration in the token stream. Bare
// top-level statements (no enclosing `class`) are collected into an
// implicit script class.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{File: p.filePath}

	var topLevel []ast.Statement
	for !p.curIs(token.EOF) {
		if p.curIs(token.CLASS) {
			prog.Classes = append(prog.Classes, p.parseClassDecl())
		} else {
			if stmt := p.parseStatement(); stmt != nil {
				topLevel = append(topLevel, stmt)
			}
			p.next()
		}
	}

	if len(topLevel) > 0 {
		script := &ast.FunDecl{Name: scriptClassName, Body: topLevel}
		script.Descriptor = descriptors.New(scriptClassName, "")
		p.registry.Register(script.Descriptor)
		prog.Classes = append(prog.Classes, &ast.ClassDecl{Name: scriptClassName, Script: script})
	}

	return prog
}

func (p *Parser) parseClassDecl() *ast.ClassDecl {
	tok := p.cur
	if !p.expect(token.IDENT, "class name") {
		return &ast.ClassDecl{Token: tok}
	}
	class := &ast.ClassDecl{Token: tok, Name: p.cur.Lexeme}

	if !p.expect(token.LBRACE, "'{'") {
		return class
	}
	p.next()

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		switch p.cur.Type {
		case token.VAR, token.FINAL:
			if vd := p.parseVarDecl(); vd != nil {
				class.Fields = append(class.Fields, vd)
			}
			p.next()
		case token.FUN:
			if fd := p.parseFunDecl(class.Name, nil); fd != nil {
				class.Methods = append(class.Methods, fd)
			}
			p.next()
		default:
			p.errorf(diagnostics.ErrP001, "expected field or method declaration, got %q", p.cur.Lexeme)
			p.next()
		}
	}
	return class
}

func (p *Parser) atoi(lexeme string) int64 {
	n, _ := strconv.ParseInt(lexeme, 10, 64)
	return n
}

func (p *Parser) atof(lexeme string) float64 {
	f, _ := strconv.ParseFloat(lexeme, 64)
	return f
}

// ParserProcessor adapts Parser to the internal/pipeline stage contract,
// the stage between lexing and analysis.
type ParserProcessor struct {
	Registry *descriptors.Registry
}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil"))
		return ctx
	}
	registry := pp.Registry
	if registry == nil {
		registry = ctx.Registry
	}
	if registry == nil {
		registry = descriptors.NewRegistry()
	}
	parser := New(ctx.TokenStream, ctx.FilePath, registry)
	ctx.AstRoot = parser.ParseProgram()
	ctx.AstRoot.File = ctx.FilePath
	ctx.Registry = registry
	ctx.Errors = append(ctx.Errors, parser.Errors()...)
	return ctx
}
