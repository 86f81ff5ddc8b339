package analyzer

import "github.com/asyncscript/asyncscript/internal/ast"

// chainCaptures reconciles callee's capture set into caller's: for every
// variable callee captures that caller doesn't already have, a chain of
// capture links is threaded outward through caller's Owner chain up to
// the function that actually declares the variable.
func (a *Analyzer) chainCaptures(caller, callee *ast.FunDecl) {
	if caller == nil || callee == nil || callee.Captures == nil {
		return
	}
	for _, captured := range callee.Captures.Ordered() {
		origin := captured.OriginVar
		if origin == nil {
			origin = captured
		}
		if origin.Owner == caller || a.findCapture(caller, origin) != nil {
			continue
		}
		a.linkCaptureChain(caller, origin)
	}
}

// linkCaptureChain walks fn's Owner chain outward, adding a capture link
// at every enclosing function until it reaches the function that
// declares origin, or a function whose capture set already has a link
// for it.
func (a *Analyzer) linkCaptureChain(fn *ast.FunDecl, origin *ast.VarDecl) {
	if a.findCapture(fn, origin) != nil {
		return
	}

	link := &ast.VarDecl{Name: origin.Name, OriginVar: origin, Owner: fn}
	fn.Captures.Add(link)

	if fn.Owner == nil || fn.Owner == origin.Owner {
		link.ParentVar = origin
		return
	}

	if existing := a.findCapture(fn.Owner, origin); existing != nil {
		link.ParentVar = existing
		return
	}

	a.linkCaptureChain(fn.Owner, origin)
	link.ParentVar = a.findCapture(fn.Owner, origin)
}

func (a *Analyzer) findCapture(fn *ast.FunDecl, origin *ast.VarDecl) *ast.VarDecl {
	if fn == nil {
		return nil
	}
	for _, v := range fn.Captures.Ordered() {
		if v.OriginVar == origin || v == origin {
			return v
		}
	}
	return nil
}
