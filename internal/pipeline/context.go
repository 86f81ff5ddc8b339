package pipeline

import (
	"github.com/asyncscript/asyncscript/internal/ast"
	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/diagnostics"
	"github.com/asyncscript/asyncscript/internal/lexer"
)

// Processor is one pipeline stage: parsing or analysis. Lexing is not a
// stage; the caller places a TokenStream in the context beforehand. Each
// stage reads what earlier stages left in PipelineContext and appends its
// own diagnostics rather than stopping the pipeline, so a single run can
// report every stage's errors together.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext threads one compilation unit through Lex -> Parse ->
// Analyze.
type PipelineContext struct {
	FilePath   string
	SourceCode string

	TokenStream *lexer.TokenStream

	AstRoot *ast.Program

	// Registry holds every descriptor seen so far across files of the same
	// compilation unit — the resolver's tables outlive a single
	// PipelineContext run.
	Registry *descriptors.Registry

	Errors []*diagnostics.DiagnosticError
}
