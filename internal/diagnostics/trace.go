package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Tracer writes the analyser's debug_trace output: the analyser emits one
// Resolved line each time the fixed-point resolver settles a descriptor;
// Step is available for free-form lines but the analyser does not call it.
// Plain fmt formatting, colourised only when the destination is a real
// terminal.
type Tracer struct {
	out    io.Writer
	color  bool
	Enable bool
}

// NewTracer builds a Tracer writing to w. Colour is enabled only when w is
// os.Stdout/os.Stderr and that fd is a genuine terminal.
func NewTracer(w io.Writer, enable bool) *Tracer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Tracer{out: w, color: color, Enable: enable}
}

const (
	ansiDim    = "\033[2m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

// Step logs one fixed-point iteration or resolution event.
func (t *Tracer) Step(format string, args ...interface{}) {
	if !t.Enable {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if t.color {
		fmt.Fprintf(t.out, "%s[async]%s %s\n", ansiDim, ansiReset, msg)
		return
	}
	fmt.Fprintf(t.out, "[async] %s\n", msg)
}

// Resolved logs a descriptor reaching its final asyncness.
func (t *Tracer) Resolved(qualifiedName string, async bool) {
	if !t.Enable {
		return
	}
	state := "sync"
	if async {
		state = "async"
	}
	if t.color {
		fmt.Fprintf(t.out, "%s[async]%s %s -> %s%s%s\n", ansiDim, ansiReset, qualifiedName, ansiYellow, state, ansiReset)
		return
	}
	fmt.Fprintf(t.out, "[async] %s -> %s\n", qualifiedName, state)
}
