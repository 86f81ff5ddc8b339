package embed_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/asyncscript/asyncscript/internal/buildcache"
	"github.com/asyncscript/asyncscript/pkg/embed"
)

const sampleSource = `
final helper = fun() {
	return 1;
};

helper();
`

func TestAnalyzeSourceReportsScriptFunctions(t *testing.T) {
	a := embed.New()
	report, err := a.AnalyzeSource("sample.as", sampleSource)
	if err != nil {
		t.Fatalf("AnalyzeSource: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", report.Diagnostics)
	}
	if len(report.Functions) == 0 {
		t.Fatal("expected at least the script's own function to be registered")
	}
}

func TestAnalyzeSourceCachedSkipsSecondPass(t *testing.T) {
	a := embed.New()
	cache, err := buildcache.Open(t.TempDir() + "/cache.sqlite")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()

	unit := uuid.New()
	first, err := a.AnalyzeSourceCached(unit, "sample.as", sampleSource, cache)
	if err != nil {
		t.Fatalf("AnalyzeSourceCached (cold): %v", err)
	}
	second, err := a.AnalyzeSourceCached(unit, "sample.as", sampleSource, cache)
	if err != nil {
		t.Fatalf("AnalyzeSourceCached (warm): %v", err)
	}
	if len(second.Functions) != len(first.Functions) {
		t.Errorf("cached report has %d functions, want %d", len(second.Functions), len(first.Functions))
	}
}
