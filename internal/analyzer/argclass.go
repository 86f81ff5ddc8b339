package analyzer

import (
	"github.com/asyncscript/asyncscript/internal/ast"
	"github.com/asyncscript/asyncscript/internal/descriptors"
)

// classifyArgAsync decides whether an argument expression might evaluate
// to an async function or closure value, used by the Call-Site Classifier
// when a callee's AsyncArgIndices names this position.
func (a *Analyzer) classifyArgAsync(e ast.Expression) bool {
	if e == nil {
		return false
	}
	switch v := e.(type) {
	case *ast.Literal:
		return false
	case *ast.Identifier:
		if v.Binding == nil {
			return false
		}
		return a.classifyVarDeclAsync(v.Binding)
	case *ast.ClosureExpression:
		return v.Fun.Descriptor != nil && v.Fun.Descriptor.IsAsync() == descriptors.Async
	case *ast.CallExpression:
		return v.MaySuspend
	case *ast.MethodCallExpression:
		return v.MaySuspend
	default:
		if nt := e.GetNodeType(); nt != nil && nt.IsAny {
			return true
		}
		return false
	}
}

// classifyVarDeclAsync walks a VarDecl's binding chain: a non-final
// binding is conservatively treated as possibly-async since it can be
// reassigned after analysis time; a final binding defers to whatever it
// was bound from.
func (a *Analyzer) classifyVarDeclAsync(vd *ast.VarDecl) bool {
	if !vd.IsFinal {
		return true
	}
	if vd.BoundFunDecl != nil {
		return vd.BoundFunDecl.Descriptor != nil && vd.BoundFunDecl.Descriptor.IsAsync() == descriptors.Async
	}
	if vd.Initialiser != nil {
		return a.classifyArgAsync(vd.Initialiser)
	}
	if vd.OriginVar != nil {
		return a.classifyVarDeclAsync(vd.OriginVar)
	}
	if vd.DeclaredType != nil && vd.DeclaredType.IsAny {
		return true
	}
	return false
}
