// Package analyzer implements the compile-time async-propagation analyser:
// a whole-program fixed-point dataflow pass over a resolved AST that
// decides, for every function and call site, whether execution may
// suspend. Dispatch is a plain type switch over the ast package's tagged
// node set (no Accept(Visitor) double dispatch) and the analyser mutates
// only the may_suspend/is_async/capture fields the resolver handed it.
package analyzer

import (
	"github.com/asyncscript/asyncscript/internal/ast"
	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/diagnostics"
	"github.com/asyncscript/asyncscript/internal/token"
)

// Options are the three boolean knobs the analyser exposes.
type Options struct {
	// ForceAllAsync is the fault-injection test hook: every call site is
	// marked may_suspend and the dependency graph is short-circuited.
	ForceAllAsync bool

	// AllowAsyncInitialisersOnAutocreate makes an auto-created field of
	// user-class type consult that class's init method, so the site may
	// suspend when the init is async. When false the init method is not
	// consulted for auto-create.
	AllowAsyncInitialisersOnAutocreate bool

	// DebugTrace is not read by the Analyzer itself: whether trace lines
	// are written is decided by the Tracer passed to New.
	DebugTrace bool
}

// suspendSite is satisfied by any node the analyser can mark may_suspend:
// every ast.Expression and ast.Statement implementation.
type suspendSite interface {
	ast.Node
	SetMaySuspend(bool)
}

type depEdge struct {
	site   suspendSite
	callee *descriptors.FunctionDescriptor
}

// Analyzer runs the async-propagation pass over one compilation unit.
// It is not safe for concurrent use — one instance analyses one unit from
// start to finish with no concurrent mutation.
type Analyzer struct {
	opts     Options
	registry *descriptors.Registry
	tracer   *diagnostics.Tracer

	funcStack []*ast.FunDecl

	// deps is the Dependency Recorder's table: caller FunDecl -> pending
	// (site, callee) edges whose callee asyncness was still Unknown when
	// encountered in pass 1.
	deps map[*ast.FunDecl][]depEdge

	errors []*diagnostics.DiagnosticError
}

// New builds an Analyzer. registry is the shared descriptor table the
// compilation unit's resolver populated.
func New(registry *descriptors.Registry, opts Options, tracer *diagnostics.Tracer) *Analyzer {
	if tracer == nil {
		tracer = diagnostics.NewTracer(nil, false)
	}
	return &Analyzer{
		opts:     opts,
		registry: registry,
		tracer:   tracer,
		deps:     make(map[*ast.FunDecl][]depEdge),
	}
}

// Errors returns every diagnostic raised during the run: stringifier
// violations (ErrS001) and internal invariant violations (ErrS002).
func (a *Analyzer) Errors() []*diagnostics.DiagnosticError { return a.errors }

func (a *Analyzer) currentFunc() *ast.FunDecl {
	if len(a.funcStack) == 0 {
		return nil
	}
	return a.funcStack[len(a.funcStack)-1]
}

func (a *Analyzer) pushFunc(fd *ast.FunDecl) { a.funcStack = append(a.funcStack, fd) }
func (a *Analyzer) popFunc()                 { a.funcStack = a.funcStack[:len(a.funcStack)-1] }

// Analyze runs the two-pass driver over every class in prog: pass 1 records
// dependencies for undecided callees, the Fixed-Point Resolver closes the
// dependency graph, then pass 2 re-walks with every descriptor's asyncness
// final.
func (a *Analyzer) Analyze(prog *ast.Program) []*diagnostics.DiagnosticError {
	for _, class := range prog.Classes {
		a.analyzeClassPass(class, 1)
	}
	a.resolveFixedPoint()
	for _, class := range prog.Classes {
		a.analyzeClassPass(class, 2)
	}
	return a.errors
}

func (a *Analyzer) analyzeClassPass(class *ast.ClassDecl, pass int) {
	for _, m := range class.Methods {
		a.visitFunDeclTopLevel(m, pass)
	}
	if class.Script != nil {
		a.visitFunDeclTopLevel(class.Script, pass)
	}
}

func isNullLiteral(e ast.Expression) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit != nil && lit.Kind == token.NULL
}
