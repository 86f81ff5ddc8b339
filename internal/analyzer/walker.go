package analyzer

import (
	"github.com/asyncscript/asyncscript/internal/ast"
	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/diagnostics"
)

// visitFunDeclTopLevel is the driver's entry point for one function/method
// declaration. When fd has a paired Wrapper, both bodies are walked as
// independent top-level entries — the wrapper forwards into the real
// body, so visiting both (rather than redirecting away from the real
// body entirely) is the only way every statement in the program gets
// seen exactly once per pass while still letting the wrapper's own call
// site get classified normally. Afterward, an async wrapper
// conservatively marks the real FunDecl async too.
func (a *Analyzer) visitFunDeclTopLevel(fd *ast.FunDecl, pass int) {
	a.visitFunDeclBody(fd, pass)
	if fd.Wrapper != nil {
		a.visitFunDeclBody(fd.Wrapper, pass)
		if fd.Wrapper.Descriptor.IsAsync() == descriptors.Async {
			fd.Descriptor.MarkAsync()
		}
	}
}

func (a *Analyzer) visitFunDeclBody(fd *ast.FunDecl, pass int) bool {
	a.pushFunc(fd)
	suspend := false
	for _, stmt := range fd.Body {
		if a.visitStmt(stmt, pass) {
			suspend = true
		}
	}
	a.popFunc()

	if a.opts.ForceAllAsync || suspend {
		fd.Descriptor.MarkAsync()
	}
	if pass == 2 && fd.Descriptor.IsAsync() == descriptors.Unknown {
		fd.Descriptor.MarkSync()
	}
	return suspend
}

func (a *Analyzer) visitStmt(stmt ast.Statement, pass int) bool {
	if stmt == nil {
		return false
	}
	switch s := stmt.(type) {
	case *ast.VarDecl:
		if s.Initialiser == nil {
			return false
		}
		return a.visitExpr(s.Initialiser, pass)

	case *ast.FunDecl:
		// A nested function declaration is not itself executed; only a
		// later call to it suspends. Its own body is still analysed so its
		// descriptor converges.
		a.visitFunDeclTopLevel(s, pass)
		return false

	case *ast.BlockStatement:
		suspend := false
		for _, inner := range s.Statements {
			if a.visitStmt(inner, pass) {
				suspend = true
			}
		}
		s.SetMaySuspend(suspend)
		return suspend

	case *ast.ExpressionStatement:
		suspend := a.visitExpr(s.Expr, pass)
		s.SetMaySuspend(suspend)
		return suspend

	case *ast.IfStatement:
		suspend := a.visitExpr(s.Condition, pass)
		if s.Then != nil && a.visitStmt(s.Then, pass) {
			suspend = true
		}
		if s.Otherwise != nil && a.visitStmt(s.Otherwise, pass) {
			suspend = true
		}
		s.SetMaySuspend(suspend)
		return suspend

	case *ast.ForStatement:
		suspend := false
		if s.Condition != nil && a.visitExpr(s.Condition, pass) {
			suspend = true
		}
		if s.Iterable != nil && a.visitExpr(s.Iterable, pass) {
			suspend = true
		}
		if s.Body != nil && a.visitStmt(s.Body, pass) {
			suspend = true
		}
		s.SetMaySuspend(suspend)
		return suspend

	case *ast.BreakStatement:
		suspend := false
		if s.Value != nil {
			suspend = a.visitExpr(s.Value, pass)
		}
		s.SetMaySuspend(suspend)
		return suspend

	case *ast.ContinueStatement:
		return false

	case *ast.ReturnStatement:
		suspend := false
		if s.Value != nil {
			suspend = a.visitExpr(s.Value, pass)
			if s.DeclaredType != nil && s.DeclaredType.IsUserClass && !s.DeclaredType.Castable &&
				s.Value.GetNodeType() != s.DeclaredType {
				if a.checkInitMethodAsync(pass, s, s.DeclaredType.Class) {
					suspend = true
				}
			}
		}
		s.SetMaySuspend(suspend)
		return suspend

	case *ast.SwitchStatement:
		suspend := a.visitExpr(s.Subject, pass)
		for _, c := range s.Cases {
			for _, pat := range c.Patterns {
				for _, fb := range pat.FieldBinds {
					if a.visitExpr(fb, pass) {
						suspend = true
					}
				}
			}
			if c.Result != nil && a.visitStmt(c.Result, pass) {
				suspend = true
			}
		}
		s.SetMaySuspend(suspend)
		return suspend

	default:
		a.errors = append(a.errors, diagnostics.InternalError(stmt.GetToken(), "analyzer: unhandled statement kind %T", stmt))
		return false
	}
}

func (a *Analyzer) visitExpr(expr ast.Expression, pass int) bool {
	if expr == nil {
		return false
	}
	switch e := expr.(type) {
	case *ast.Literal, *ast.Identifier, *ast.ClassPathExpression:
		return false

	case *ast.BinaryExpression:
		suspend := a.visitExpr(e.Left, pass)
		if a.visitExpr(e.Right, pass) {
			suspend = true
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.UnaryExpression:
		suspend := a.visitExpr(e.Operand, pass)
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.TernaryExpression:
		suspend := a.visitExpr(e.Condition, pass)
		if a.visitExpr(e.Then, pass) {
			suspend = true
		}
		if e.Else != nil && a.visitExpr(e.Else, pass) {
			suspend = true
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.CastExpression:
		suspend := a.visitExpr(e.Source, pass)
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.RegexMatchExpression:
		suspend := a.visitExpr(e.Subject, pass)
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.RegexSubstExpression:
		suspend := a.visitExpr(e.Subject, pass)
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.ListLiteral:
		suspend := false
		for _, el := range e.Elements {
			if a.visitExpr(el, pass) {
				suspend = true
			}
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.MapLiteral:
		suspend := false
		for i := range e.Keys {
			if a.visitExpr(e.Keys[i], pass) {
				suspend = true
			}
			if a.visitExpr(e.Values[i], pass) {
				suspend = true
			}
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.InterpolatedString:
		suspend := false
		for _, part := range e.Parts {
			if a.visitExpr(part, pass) {
				suspend = true
			}
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.ArrayGetExpression:
		suspend := a.visitExpr(e.Array, pass)
		if a.visitExpr(e.Index, pass) {
			suspend = true
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.ArrayLengthExpression:
		suspend := a.visitExpr(e.Array, pass)
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.FieldAccessExpression:
		suspend := a.visitExpr(e.Target, pass)
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.BinaryAutoCreateExpression:
		suspend := a.visitExpr(e.Target, pass)
		if e.Initialiser != nil && a.visitExpr(e.Initialiser, pass) {
			suspend = true
		}
		if e.FieldType == nil {
			suspend = true
		} else if e.FieldType.IsUserClass && a.opts.AllowAsyncInitialisersOnAutocreate {
			if a.checkInitMethodAsync(pass, e, e.FieldType.Class) {
				suspend = true
			}
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.AssignExpression:
		suspend := a.visitExpr(e.Value, pass)
		if nt := e.Target.GetNodeType(); nt != nil && nt.IsUserClass && !isNullLiteral(e.Value) {
			if a.checkInitMethodAsync(pass, e, nt.Class) {
				suspend = true
			}
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.FieldAssignExpression:
		suspend := a.visitExpr(e.Target, pass)
		if a.visitExpr(e.Value, pass) {
			suspend = true
		}
		if e.FieldType != nil && e.FieldType.IsUserClass && !isNullLiteral(e.Value) {
			if a.checkInitMethodAsync(pass, e, e.FieldType.Class) {
				suspend = true
			}
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.ConvertToExpression:
		suspend := a.visitExpr(e.Source, pass)
		if e.Target != nil && e.Target.IsUserClass {
			if a.checkInitMethodAsync(pass, e, e.Target.Class) {
				suspend = true
			}
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.EvalExpression:
		a.visitExpr(e.Source, pass)
		e.SetMaySuspend(true)
		return true

	case *ast.CallExpression:
		suspend := false
		for _, arg := range e.Args {
			if a.visitExpr(arg, pass) {
				suspend = true
			}
		}
		for _, v := range e.NamedArgs {
			if a.visitExpr(v, pass) {
				suspend = true
			}
		}
		var descriptor *descriptors.FunctionDescriptor
		if target := a.resolveCallTarget(e.Callee); target != nil {
			descriptor = target.Descriptor
			if descriptor != nil && !descriptor.IsBuiltin {
				a.chainCaptures(a.currentFunc(), target)
			}
		} else if d, ok := e.ResolvedDescriptor.(*descriptors.FunctionDescriptor); ok {
			descriptor = d
		}
		if a.classifyCallSite(pass, e, e.Args, e.NamedArgs, descriptor, nil, false) {
			suspend = true
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.MethodCallExpression:
		suspend := a.visitExpr(e.Receiver, pass)
		for _, arg := range e.Args {
			if a.visitExpr(arg, pass) {
				suspend = true
			}
		}
		for _, v := range e.NamedArgs {
			if a.visitExpr(v, pass) {
				suspend = true
			}
		}
		descriptor, _ := e.MethodDescriptor.(*descriptors.FunctionDescriptor)
		if a.classifyCallSite(pass, e, e.Args, e.NamedArgs, descriptor, e.Receiver, true) {
			suspend = true
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.InvokeInitExpression:
		suspend := false
		for _, arg := range e.Args {
			if a.visitExpr(arg, pass) {
				suspend = true
			}
		}
		var descriptor *descriptors.FunctionDescriptor
		if e.Class != nil {
			descriptor, _ = a.registry.Lookup(e.Class.Name, ast.InitMethodName)
		}
		if a.classifyCallSite(pass, e, e.Args, nil, descriptor, nil, false) {
			suspend = true
		}
		e.SetMaySuspend(suspend)
		return suspend

	case *ast.ClosureExpression:
		a.visitFunDeclTopLevel(e.Fun, pass)
		e.SetMaySuspend(false)
		return false

	default:
		a.errors = append(a.errors, diagnostics.InternalError(expr.GetToken(), "analyzer: unhandled expression kind %T", expr))
		return false
	}
}
