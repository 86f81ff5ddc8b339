package analyzer

import (
	"github.com/asyncscript/asyncscript/internal/diagnostics"
	"github.com/asyncscript/asyncscript/internal/pipeline"
	"github.com/asyncscript/asyncscript/internal/projectconfig"
	"github.com/asyncscript/asyncscript/internal/token"
)

// Processor adapts Analyzer to the internal/pipeline stage contract, the
// stage after parsing.
type Processor struct {
	Options projectconfig.AnalyzerOptions
	Tracer  *diagnostics.Tracer
}

func (p *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		ctx.Errors = append(ctx.Errors, diagnostics.InternalError(token.Token{}, "analyzer: no AST to analyse"))
		return ctx
	}
	if ctx.Registry == nil {
		ctx.Errors = append(ctx.Errors, diagnostics.InternalError(token.Token{}, "analyzer: no descriptor registry"))
		return ctx
	}

	az := New(ctx.Registry, Options{
		ForceAllAsync:                      p.Options.ForceAllAsync,
		AllowAsyncInitialisersOnAutocreate: p.Options.AllowAsyncInitialisersOnAutocreate,
		DebugTrace:                         p.Options.DebugTrace,
	}, p.Tracer)
	ctx.Errors = append(ctx.Errors, az.Analyze(ctx.AstRoot)...)
	return ctx
}
