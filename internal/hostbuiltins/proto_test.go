package hostbuiltins_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/asyncscript/asyncscript/internal/descriptors"
	"github.com/asyncscript/asyncscript/internal/hostbuiltins"
)

const greeterProto = `
syntax = "proto3";
package greeter;

message HelloRequest { string name = 1; }
message HelloReply { string message = 1; }

service Greeter {
  rpc SayHello (HelloRequest) returns (HelloReply);
}
`

func writeGreeterProto(t *testing.T) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	file = filepath.Join(dir, "greeter.proto")
	if err := os.WriteFile(file, []byte(greeterProto), 0o644); err != nil {
		t.Fatalf("writing fixture proto: %v", err)
	}
	return dir, file
}

func TestLoadProtoServicesRegistersOneDescriptorPerMethod(t *testing.T) {
	dir, _ := writeGreeterProto(t)
	registry := descriptors.NewRegistry()

	bindings, err := hostbuiltins.LoadProtoServices([]string{"greeter.proto"}, []string{dir}, registry)
	if err != nil {
		t.Fatalf("LoadProtoServices: %v", err)
	}
	if len(bindings) != 1 {
		t.Fatalf("got %d bindings, want 1", len(bindings))
	}
	b := bindings[0]
	if b.MethodName != "SayHello" {
		t.Errorf("method name = %q, want SayHello", b.MethodName)
	}

	d, ok := registry.Lookup(b.ServiceName, "SayHello")
	if !ok {
		t.Fatal("expected SayHello to be registered")
	}
	if d.IsAsync() != descriptors.Async || !d.IsAsyncPredeclared {
		t.Errorf("SayHello descriptor = %+v, want predeclared async", d)
	}
}
