package analyzer

import "github.com/asyncscript/asyncscript/internal/ast"

// resolveCallTarget resolves a call-target expression to a concrete
// FunDecl, or nil when the target cannot be statically determined. A nil
// result means the call site falls back to worst-case async treatment by
// the caller.
func (a *Analyzer) resolveCallTarget(callee ast.Expression) *ast.FunDecl {
	switch c := callee.(type) {
	case *ast.ClosureExpression:
		return c.Fun
	case *ast.Identifier:
		if c.Binding == nil {
			return nil
		}
		return a.resolveVarDeclTarget(c.Binding)
	default:
		return nil
	}
}

// resolveVarDeclTarget implements the final-binding and parent_var-chain
// resolution rules. Any non-final link anywhere
// along the chain aborts the walk to nil.
func (a *Analyzer) resolveVarDeclTarget(vd *ast.VarDecl) *ast.FunDecl {
	if !vd.IsFinal {
		return nil
	}
	if vd.BoundFunDecl != nil {
		return vd.BoundFunDecl
	}
	if vd.Initialiser != nil {
		if target := a.resolveCallTarget(vd.Initialiser); target != nil {
			return target
		}
	}

	cur := vd
	for cur.ParentVar != nil {
		cur = cur.ParentVar
		if !cur.IsFinal {
			return nil
		}
	}
	if cur != vd && cur.Initialiser != nil {
		return a.resolveCallTarget(cur.Initialiser)
	}
	return nil
}
