// Command asyncscript runs the async-propagation analyser over one or more
// source files and reports, for every function, whether the resolver
// proved it Sync or Async: locate an optional project config, walk the
// given paths, print diagnostics — but stop at analysis, with no backend,
// evaluator, or VM involved.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/asyncscript/asyncscript/internal/buildcache"
	"github.com/asyncscript/asyncscript/internal/config"
	"github.com/asyncscript/asyncscript/internal/projectconfig"
	"github.com/asyncscript/asyncscript/pkg/embed"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "asyncscript %s: usage: asyncscript <file.as> [file.as ...]\n", config.Version)
		os.Exit(2)
	}

	cfg := loadProjectConfig()

	opts := []embed.Option{
		embed.WithForceAllAsync(cfg.Analyzer.ForceAllAsync),
		embed.WithAsyncInitialisersOnAutocreate(cfg.Analyzer.AllowAsyncInitialisersOnAutocreate),
	}
	if cfg.Analyzer.DebugTrace {
		opts = append(opts, embed.WithDebugTrace(os.Stderr))
	}
	analyzer := embed.New(opts...)

	if len(cfg.HostServices) > 0 {
		if _, err := analyzer.RegisterHostProtoServices(cfg.HostServices, []string{filepath.Dir(cfg.HostServices[0])}); err != nil {
			fmt.Fprintf(os.Stderr, "asyncscript: loading host services: %v\n", err)
			os.Exit(1)
		}
	}

	cache := openCacheIfConfigured(cfg)
	if cache != nil {
		defer cache.Close()
	}

	failed := false
	for _, path := range os.Args[1:] {
		if !runFile(analyzer, cache, path) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func runFile(analyzer *embed.Analyzer, cache *buildcache.Cache, path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asyncscript: %v\n", err)
		return false
	}

	var report *embed.Report
	if cache != nil {
		report, err = analyzer.AnalyzeSourceCached(uuid.NewSHA1(uuid.NameSpaceURL, []byte(path)), path, string(content), cache)
	} else {
		report, err = analyzer.AnalyzeSource(path, string(content))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "asyncscript: %v\n", err)
		return false
	}

	for _, d := range report.Diagnostics {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	for name, state := range report.Functions {
		fmt.Printf("%s: %s\n", name, state)
	}
	return !report.HasErrors()
}

func loadProjectConfig() *projectconfig.Config {
	path, err := projectconfig.FindConfig(".")
	if err != nil || path == "" {
		return projectconfig.Default()
	}
	cfg, err := projectconfig.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asyncscript: %v\n", err)
		return projectconfig.Default()
	}
	return cfg
}

func openCacheIfConfigured(cfg *projectconfig.Config) *buildcache.Cache {
	if cfg.CacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "asyncscript: creating cache dir: %v\n", err)
		return nil
	}
	cache, err := buildcache.Open(filepath.Join(cfg.CacheDir, "analysis.sqlite"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "asyncscript: opening cache: %v\n", err)
		return nil
	}
	return cache
}
