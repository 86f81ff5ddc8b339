package analyzer

import (
	"github.com/asyncscript/asyncscript/internal/ast"
	"github.com/asyncscript/asyncscript/internal/descriptors"
)

// recordDependency adds a pass-1 edge for a callee whose asyncness was
// still Unknown at the time its call site was classified.
func (a *Analyzer) recordDependency(caller *ast.FunDecl, site suspendSite, callee *descriptors.FunctionDescriptor) {
	a.deps[caller] = append(a.deps[caller], depEdge{site: site, callee: callee})
}

// resolveFixedPoint iterates the dependency graph to convergence: any
// caller with an edge into an Async callee becomes Async itself and that
// edge's call site is marked; edges into a Sync callee are dropped; edges
// into a still-Unknown callee are kept for the next round. Iteration
// order does not affect the final lattice element reached for any
// descriptor.
// The closing pass marks every descriptor still Unknown as Sync — no
// resolvable path to a known-async leaf means the analyser's conservative
// default is the only sound answer.
func (a *Analyzer) resolveFixedPoint() {
	for {
		progress := false
		for caller, edges := range a.deps {
			var kept []depEdge
			for _, e := range edges {
				switch e.callee.IsAsync() {
				case descriptors.Async:
					caller.Descriptor.MarkAsync()
					e.site.SetMaySuspend(true)
					a.tracer.Resolved(descriptors.QualifiedName(caller.Descriptor.OwningClassName, caller.Descriptor.Name), true)
					progress = true
				case descriptors.Sync:
					progress = true
				default:
					kept = append(kept, e)
				}
			}
			a.deps[caller] = kept
		}
		if !progress {
			break
		}
	}

	for caller, edges := range a.deps {
		for _, e := range edges {
			if e.callee.IsAsync() == descriptors.Unknown {
				e.callee.MarkSync()
				a.tracer.Resolved(descriptors.QualifiedName(e.callee.OwningClassName, e.callee.Name), false)
			}
		}
		if caller.Descriptor.IsAsync() == descriptors.Unknown {
			caller.Descriptor.MarkSync()
		}
	}
	a.deps = make(map[*ast.FunDecl][]depEdge)
}
