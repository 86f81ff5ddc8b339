package analyzer_test

import (
	"testing"

	"github.com/asyncscript/asyncscript/internal/analyzer"
	"github.com/asyncscript/asyncscript/internal/ast"
	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/token"
)

func newFunDecl(reg *descriptors.Registry, name, owningClass string, body []ast.Statement) *ast.FunDecl {
	fd := &ast.FunDecl{Name: name, Body: body, Captures: ast.NewCaptureSet()}
	fd.Descriptor = descriptors.New(name, owningClass)
	reg.Register(fd.Descriptor)
	return fd
}

func scriptProgram(fd *ast.FunDecl) *ast.Program {
	return &ast.Program{Classes: []*ast.ClassDecl{{Name: "<script>", Script: fd}}}
}

func intLiteral(n int64) *ast.Literal {
	return &ast.Literal{Kind: token.INT, Value: n}
}

func callByIdentifier(callee *ast.FunDecl, finalBinding bool, args ...ast.Expression) *ast.CallExpression {
	vd := &ast.VarDecl{Name: callee.Name, IsFinal: finalBinding, BoundFunDecl: callee}
	return &ast.CallExpression{Callee: &ast.Identifier{Name: callee.Name, Binding: vd}, Args: args}
}

func run(t *testing.T, reg *descriptors.Registry, opts analyzer.Options, prog *ast.Program) []*diagTokenError {
	t.Helper()
	az := analyzer.New(reg, opts, nil)
	errs := az.Analyze(prog)
	out := make([]*diagTokenError, len(errs))
	for i, e := range errs {
		out[i] = &diagTokenError{code: string(e.Code), msg: e.Message}
	}
	return out
}

type diagTokenError struct {
	code string
	msg  string
}

// Scenario: straight-line sync code has no reachable suspension anywhere.
func TestStraightLineSync(t *testing.T) {
	reg := descriptors.NewRegistry()
	ret := &ast.ReturnStatement{Value: intLiteral(1)}
	fd := newFunDecl(reg, "f", "", []ast.Statement{ret})

	errs := run(t, reg, analyzer.Options{}, scriptProgram(fd))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if fd.Descriptor.IsAsync() != descriptors.Sync {
		t.Fatalf("want Sync, got %s", fd.Descriptor.IsAsync())
	}
	if ret.MaySuspend {
		t.Fatalf("return statement should not suspend")
	}
}

// Scenario: a direct call to an unconditionally-async builtin suspends the
// call site and promotes the caller to Async.
func TestDirectAsyncBuiltin(t *testing.T) {
	reg := descriptors.NewRegistry()
	sleep := descriptors.NewPredeclared("sleep", "", true)
	reg.Register(sleep)

	call := &ast.CallExpression{ResolvedDescriptor: sleep}
	stmt := &ast.ExpressionStatement{Expr: call}
	fd := newFunDecl(reg, "f", "", []ast.Statement{stmt})

	run(t, reg, analyzer.Options{}, scriptProgram(fd))
	if !call.MaySuspend {
		t.Fatalf("call to async builtin should suspend")
	}
	if fd.Descriptor.IsAsync() != descriptors.Async {
		t.Fatalf("caller should become Async")
	}
}

// Scenario: an async-per-arg builtin only suspends when the classified
// argument might itself be async, covering both sub-cases.
func TestAsyncPerArgBuiltin(t *testing.T) {
	reg := descriptors.NewRegistry()
	mapFn := descriptors.NewPredeclared("map", "", true, 0)
	reg.Register(mapFn)

	syncCall := &ast.CallExpression{ResolvedDescriptor: mapFn, Args: []ast.Expression{intLiteral(1)}}
	syncStmt := &ast.ExpressionStatement{Expr: syncCall}
	syncFd := newFunDecl(reg, "syncCaller", "", []ast.Statement{syncStmt})

	asyncClosureFd := &ast.FunDecl{Name: "cb", Captures: ast.NewCaptureSet()}
	asyncClosureFd.Descriptor = descriptors.New("cb", "")
	asyncClosureFd.Descriptor.MarkAsync()
	asyncArg := &ast.ClosureExpression{Fun: asyncClosureFd}
	asyncCall := &ast.CallExpression{ResolvedDescriptor: mapFn, Args: []ast.Expression{asyncArg}}
	asyncStmt := &ast.ExpressionStatement{Expr: asyncCall}
	asyncFd := newFunDecl(reg, "asyncCaller", "", []ast.Statement{asyncStmt})

	prog := &ast.Program{Classes: []*ast.ClassDecl{{Name: "<script>", Methods: []*ast.FunDecl{syncFd, asyncFd}}}}
	run(t, reg, analyzer.Options{}, prog)

	if syncCall.MaySuspend {
		t.Fatalf("call with a sync argument should not suspend")
	}
	if syncFd.Descriptor.IsAsync() != descriptors.Sync {
		t.Fatalf("syncCaller should stay Sync")
	}
	if !asyncCall.MaySuspend {
		t.Fatalf("call with an async-closure argument should suspend")
	}
	if asyncFd.Descriptor.IsAsync() != descriptors.Async {
		t.Fatalf("asyncCaller should become Async")
	}
}

// Scenario: forward mutual recursion where neither side ever reaches an
// async leaf converges to Sync for both functions.
func TestMutualRecursionToSync(t *testing.T) {
	reg := descriptors.NewRegistry()
	a := &ast.FunDecl{Name: "a", Captures: ast.NewCaptureSet()}
	a.Descriptor = descriptors.New("a", "")
	reg.Register(a.Descriptor)
	b := &ast.FunDecl{Name: "b", Captures: ast.NewCaptureSet()}
	b.Descriptor = descriptors.New("b", "")
	reg.Register(b.Descriptor)

	a.Body = []ast.Statement{&ast.ExpressionStatement{Expr: callByIdentifier(b, true)}}
	b.Body = []ast.Statement{&ast.ExpressionStatement{Expr: callByIdentifier(a, true)}}

	prog := &ast.Program{Classes: []*ast.ClassDecl{{Name: "<script>", Methods: []*ast.FunDecl{a, b}}}}
	run(t, reg, analyzer.Options{}, prog)

	if a.Descriptor.IsAsync() != descriptors.Sync || b.Descriptor.IsAsync() != descriptors.Sync {
		t.Fatalf("mutually recursive sync functions should both resolve Sync, got a=%s b=%s", a.Descriptor.IsAsync(), b.Descriptor.IsAsync())
	}
}

// Scenario: forward mutual recursion where one side reaches an async leaf
// propagates Async to both functions through the fixed-point resolver.
func TestMutualRecursionToAsync(t *testing.T) {
	reg := descriptors.NewRegistry()
	sleep := descriptors.NewPredeclared("sleep", "", true)
	reg.Register(sleep)

	a := &ast.FunDecl{Name: "a", Captures: ast.NewCaptureSet()}
	a.Descriptor = descriptors.New("a", "")
	reg.Register(a.Descriptor)
	b := &ast.FunDecl{Name: "b", Captures: ast.NewCaptureSet()}
	b.Descriptor = descriptors.New("b", "")
	reg.Register(b.Descriptor)

	a.Body = []ast.Statement{&ast.ExpressionStatement{Expr: callByIdentifier(b, true)}}
	b.Body = []ast.Statement{
		&ast.ExpressionStatement{Expr: callByIdentifier(a, true)},
		&ast.ExpressionStatement{Expr: &ast.CallExpression{ResolvedDescriptor: sleep}},
	}

	prog := &ast.Program{Classes: []*ast.ClassDecl{{Name: "<script>", Methods: []*ast.FunDecl{a, b}}}}
	run(t, reg, analyzer.Options{}, prog)

	if a.Descriptor.IsAsync() != descriptors.Async || b.Descriptor.IsAsync() != descriptors.Async {
		t.Fatalf("both functions should converge to Async, got a=%s b=%s", a.Descriptor.IsAsync(), b.Descriptor.IsAsync())
	}
}

// Scenario: calling through a non-final binding cannot be resolved to a
// concrete target, so the call site falls back to worst-case async even
// though the bound value happens to be a sync function.
func TestNonFinalBindingTogglesWorstCase(t *testing.T) {
	reg := descriptors.NewRegistry()
	target := &ast.FunDecl{Name: "g", Captures: ast.NewCaptureSet()}
	target.Descriptor = descriptors.New("g", "")
	target.Descriptor.MarkSync()
	reg.Register(target.Descriptor)

	call := callByIdentifier(target, false)
	stmt := &ast.ExpressionStatement{Expr: call}
	fd := newFunDecl(reg, "caller", "", []ast.Statement{stmt})

	run(t, reg, analyzer.Options{}, scriptProgram(fd))
	if !call.MaySuspend {
		t.Fatalf("call through a non-final binding should be worst-case async")
	}
	if fd.Descriptor.IsAsync() != descriptors.Async {
		t.Fatalf("caller should become Async")
	}
}

// Scenario: a suspending call reachable from toString raises the
// stringification-violation diagnostic.
func TestStringifierViolation(t *testing.T) {
	reg := descriptors.NewRegistry()
	sleep := descriptors.NewPredeclared("sleep", "", true)
	reg.Register(sleep)

	call := &ast.CallExpression{ResolvedDescriptor: sleep}
	fd := newFunDecl(reg, ast.ToStringMethodName, "Widget", []ast.Statement{
		&ast.ReturnStatement{Value: call},
	})

	prog := &ast.Program{Classes: []*ast.ClassDecl{{Name: "Widget", Methods: []*ast.FunDecl{fd}}}}
	errs := run(t, reg, analyzer.Options{}, prog)

	found := false
	for _, e := range errs {
		if e.code == "S001" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrS001, got %v", errs)
	}
}

// force_all_async marks every encountered function Async and every call
// site may_suspend, and does not also trip the stringifier check.
func TestForceAllAsyncRoundTrip(t *testing.T) {
	reg := descriptors.NewRegistry()
	ret := &ast.ReturnStatement{Value: intLiteral(1)}
	fd := newFunDecl(reg, ast.ToStringMethodName, "Widget", []ast.Statement{ret})
	call := &ast.CallExpression{}
	fd.Body = append(fd.Body, &ast.ExpressionStatement{Expr: call})

	prog := &ast.Program{Classes: []*ast.ClassDecl{{Name: "Widget", Methods: []*ast.FunDecl{fd}}}}
	errs := run(t, reg, analyzer.Options{ForceAllAsync: true}, prog)

	if fd.Descriptor.IsAsync() != descriptors.Async {
		t.Fatalf("force_all_async should mark every function Async")
	}
	if !call.MaySuspend {
		t.Fatalf("force_all_async should mark every call site may_suspend")
	}
	for _, e := range errs {
		if e.code == "S001" {
			t.Fatalf("force_all_async should not trip the stringifier check")
		}
	}
}

// Idempotence: running the analyser twice over descriptors reset to
// Unknown yields the same lattice elements.
func TestIdempotence(t *testing.T) {
	build := func() (*descriptors.Registry, *ast.FunDecl, *ast.CallExpression) {
		reg := descriptors.NewRegistry()
		sleep := descriptors.NewPredeclared("sleep", "", true)
		reg.Register(sleep)
		call := &ast.CallExpression{ResolvedDescriptor: sleep}
		fd := newFunDecl(reg, "f", "", []ast.Statement{&ast.ExpressionStatement{Expr: call}})
		return reg, fd, call
	}

	reg1, fd1, call1 := build()
	run(t, reg1, analyzer.Options{}, scriptProgram(fd1))

	reg2, fd2, call2 := build()
	run(t, reg2, analyzer.Options{}, scriptProgram(fd2))

	if fd1.Descriptor.IsAsync() != fd2.Descriptor.IsAsync() {
		t.Fatalf("repeated runs over equivalent ASTs should agree")
	}
	if call1.MaySuspend != call2.MaySuspend {
		t.Fatalf("repeated runs over equivalent ASTs should agree on call sites")
	}
}
