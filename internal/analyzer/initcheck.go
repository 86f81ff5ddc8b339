package analyzer

import "github.com/asyncscript/asyncscript/internal/ast"

// checkInitMethodAsync consults a class's init method descriptor the same
// way the Call-Site Classifier consults a direct callee, keyed on the
// init descriptor rather than a resolved call target. It is invoked
// wherever a value is implicitly coerced into a user-class instance:
// auto-create field assignment, field/variable assignment, a return's
// implicit coercion, and ConvertTo.
func (a *Analyzer) checkInitMethodAsync(pass int, site suspendSite, class *ast.ClassDecl) bool {
	if class == nil {
		return false
	}
	descriptor, ok := a.registry.Lookup(class.Name, ast.InitMethodName)
	if !ok {
		return false
	}
	return a.classifyCallSite(pass, site, nil, nil, descriptor, nil, false)
}
