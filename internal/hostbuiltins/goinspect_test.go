package hostbuiltins_test

import (
	"testing"

	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/hostbuiltins"
)

func TestLoadGoFunctionsContextSignalsAsync(t *testing.T) {
	registry := descriptors.NewRegistry()
	specs := []hostbuiltins.GoFuncSpec{
		{Package: "strings", Func: "ToUpper"},
		{Package: "os/exec", Func: "CommandContext"},
	}
	if err := hostbuiltins.LoadGoFunctions(specs, registry); err != nil {
		t.Fatalf("LoadGoFunctions: %v", err)
	}

	sync, ok := registry.Lookup("strings", "ToUpper")
	if !ok {
		t.Fatal("expected strings.ToUpper to be registered")
	}
	if sync.IsAsync() != descriptors.Sync {
		t.Errorf("strings.ToUpper: got %v, want Sync", sync.IsAsync())
	}
	if !sync.IsAsyncPredeclared {
		t.Error("strings.ToUpper: expected IsAsyncPredeclared")
	}

	async, ok := registry.Lookup("os/exec", "CommandContext")
	if !ok {
		t.Fatal("expected os/exec.CommandContext to be registered")
	}
	if async.IsAsync() != descriptors.Async {
		t.Errorf("os/exec.CommandContext: got %v, want Async", async.IsAsync())
	}
}

func TestLoadGoFunctionsUnknownFuncErrors(t *testing.T) {
	registry := descriptors.NewRegistry()
	specs := []hostbuiltins.GoFuncSpec{{Package: "strings", Func: "DoesNotExist"}}
	if err := hostbuiltins.LoadGoFunctions(specs, registry); err == nil {
		t.Fatal("expected an error for a nonexistent function")
	}
}
