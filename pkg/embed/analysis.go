// Package embed is the embeddable entry point a host application links
// against: construct an Analyzer once, optionally register the host's own
// async-predeclared functions, then run it over one compilation unit at a
// time. The last pipeline stage is the async-propagation analyser itself,
// not a bytecode compiler — running generated code is the downstream code
// generator's job, not this package's.
package embed

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/asyncscript/asyncscript/internal/analyzer"
	"github.com/asyncscript/asyncscript/internal/buildcache"
	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/diagnostics"
	"github.com/asyncscript/asyncscript/internal/hostbuiltins"
	"github.com/asyncscript/asyncscript/internal/lexer"
	"github.com/asyncscript/asyncscript/internal/parser"
	"github.com/asyncscript/asyncscript/internal/pipeline"
	"github.com/asyncscript/asyncscript/internal/projectconfig"
)

// Analyzer is the embeddable handle a host builds once and reuses across
// every compilation unit it submits.
type Analyzer struct {
	opts     projectconfig.AnalyzerOptions
	tracer   *diagnostics.Tracer
	registry *descriptors.Registry
}

// Option configures an Analyzer at construction time.
type Option func(*Analyzer)

// WithForceAllAsync mirrors the asyncscript.yaml analyzer.force_all_async
// knob: every call site is marked may_suspend and every analysed function
// Async; no dependency edges are recorded, so the fixed-point resolver has
// nothing to resolve.
func WithForceAllAsync(force bool) Option {
	return func(a *Analyzer) { a.opts.ForceAllAsync = force }
}

// WithAsyncInitialisersOnAutocreate mirrors
// allow_async_initialisers_on_autocreate.
func WithAsyncInitialisersOnAutocreate(allow bool) Option {
	return func(a *Analyzer) { a.opts.AllowAsyncInitialisersOnAutocreate = allow }
}

// WithDebugTrace writes one line to w each time the fixed-point resolver
// settles a descriptor, coloured when w is a real terminal.
func WithDebugTrace(w *os.File) Option {
	return func(a *Analyzer) { a.tracer = diagnostics.NewTracer(w, true) }
}

// New constructs an Analyzer with a fresh, empty descriptor registry.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		registry: descriptors.NewRegistry(),
		tracer:   diagnostics.NewTracer(os.Stderr, false),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RegisterHostProtoServices loads the host's .proto service files and adds
// one predeclared, unconditionally-async descriptor per RPC method, so a
// script call to a host service resolves immediately instead of joining
// the fixed-point resolver's undecided set.
func (a *Analyzer) RegisterHostProtoServices(protoFiles, importPaths []string) ([]*hostbuiltins.ServiceBinding, error) {
	return hostbuiltins.LoadProtoServices(protoFiles, importPaths, a.registry)
}

// RegisterHostGoFunctions introspects the host's own Go packages and adds a
// descriptor per named function, sync or async per its signature.
func (a *Analyzer) RegisterHostGoFunctions(specs []hostbuiltins.GoFuncSpec) error {
	return hostbuiltins.LoadGoFunctions(specs, a.registry)
}

// Report is one compilation unit's analysis outcome: every diagnostic
// raised by the parser or analyser, plus the asyncness of every descriptor
// in the Analyzer's shared registry after the run. That includes
// host-registered builtins and descriptors declared by units the same
// Analyzer analysed earlier, not only those of this unit.
type Report struct {
	FilePath    string
	Diagnostics []*diagnostics.DiagnosticError
	Functions   map[string]descriptors.AsyncState
}

// HasErrors reports whether analysis produced any diagnostic.
func (r *Report) HasErrors() bool { return len(r.Diagnostics) > 0 }

// MaySuspend reports whether qualifiedName (descriptors.QualifiedName
// format) was resolved Async. A name absent from Functions returns false.
func (r *Report) MaySuspend(qualifiedName string) bool {
	return r.Functions[qualifiedName] == descriptors.Async
}

// AnalyzeSource runs Lex -> Parse -> Analyze over source text attributed
// to filePath, without touching the build cache.
func (a *Analyzer) AnalyzeSource(filePath, source string) (*Report, error) {
	ctx := &pipeline.PipelineContext{
		FilePath:    filePath,
		SourceCode:  source,
		TokenStream: lexer.NewTokenStream(lexer.New(source)),
		Registry:    a.registry,
	}

	p := pipeline.New(
		&parser.ParserProcessor{Registry: a.registry},
		&analyzer.Processor{Options: a.opts, Tracer: a.tracer},
	)
	ctx = p.Run(ctx)

	functions := make(map[string]descriptors.AsyncState, len(a.registry.All()))
	for _, d := range a.registry.All() {
		functions[descriptors.QualifiedName(d.OwningClassName, d.Name)] = d.IsAsync()
	}

	return &Report{FilePath: filePath, Diagnostics: ctx.Errors, Functions: functions}, nil
}

// AnalyzeFile reads path and analyses its contents.
func (a *Analyzer) AnalyzeFile(path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("embed: reading %s: %w", path, err)
	}
	return a.AnalyzeSource(path, string(content))
}

// AnalyzeSourceCached behaves like AnalyzeSource, but checks cache first
// keyed on (unit, content hash) and, on a miss, stores the fresh result
// before returning it — letting a host skip the two-pass walk entirely for
// an unchanged unit across repeated runs, the build cache's whole purpose.
func (a *Analyzer) AnalyzeSourceCached(unit uuid.UUID, filePath, source string, cache *buildcache.Cache) (*Report, error) {
	contentHash := buildcache.ContentHash(source)
	if cached, ok, err := cache.Lookup(unit, contentHash); err != nil {
		return nil, fmt.Errorf("embed: cache lookup for %s: %w", filePath, err)
	} else if ok {
		return &Report{FilePath: filePath, Functions: cached}, nil
	}

	report, err := a.AnalyzeSource(filePath, source)
	if err != nil {
		return nil, err
	}
	if !report.HasErrors() {
		if err := cache.Store(unit, contentHash, a.registry); err != nil {
			return nil, fmt.Errorf("embed: cache store for %s: %w", filePath, err)
		}
	}
	return report, nil
}
