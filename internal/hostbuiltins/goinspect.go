package hostbuiltins

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"

	"github.com/asyncscript/asyncscript/internal/descriptors"
)

// GoFuncSpec names one exported Go function the host wants exposed as a
// builtin, the way a .proto service file names an RPC method.
type GoFuncSpec struct {
	Package string
	Func    string
}

// LoadGoFunctions introspects each spec's package with go/packages and
// registers a FunctionDescriptor for every function found. A function
// whose first parameter is context.Context is registered as predeclared
// async: a context-taking host call is assumed to block on something
// outside the script's control. Every other exported function is
// predeclared sync.
func LoadGoFunctions(specs []GoFuncSpec, registry *descriptors.Registry) error {
	byPkg := make(map[string][]string)
	var order []string
	for _, s := range specs {
		if _, ok := byPkg[s.Package]; !ok {
			order = append(order, s.Package)
		}
		byPkg[s.Package] = append(byPkg[s.Package], s.Func)
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes}
	pkgs, err := packages.Load(cfg, order...)
	if err != nil {
		return fmt.Errorf("hostbuiltins: loading Go packages: %w", err)
	}
	loaded := make(map[string]*packages.Package, len(pkgs))
	for _, p := range pkgs {
		for _, e := range p.Errors {
			return fmt.Errorf("hostbuiltins: %s: %s", p.PkgPath, e.Msg)
		}
		loaded[p.PkgPath] = p
	}

	for _, pkgPath := range order {
		pkg, ok := loaded[pkgPath]
		if !ok {
			return fmt.Errorf("hostbuiltins: package %q not loaded", pkgPath)
		}
		scope := pkg.Types.Scope()
		for _, name := range byPkg[pkgPath] {
			obj := scope.Lookup(name)
			if obj == nil {
				return fmt.Errorf("hostbuiltins: function %q not found in package %s", name, pkgPath)
			}
			fn, ok := obj.(*types.Func)
			if !ok {
				return fmt.Errorf("hostbuiltins: %q is not a function in package %s", name, pkgPath)
			}
			sig, ok := fn.Type().(*types.Signature)
			if !ok {
				return fmt.Errorf("hostbuiltins: could not read signature for %q", name)
			}
			registry.Register(descriptors.NewPredeclared(name, pkgPath, hasContextParam(sig)))
		}
	}
	return nil
}

func hasContextParam(sig *types.Signature) bool {
	if sig.Params().Len() == 0 {
		return false
	}
	first := sig.Params().At(0).Type().String()
	return first == "context.Context"
}
