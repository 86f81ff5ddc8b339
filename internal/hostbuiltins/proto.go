// Package hostbuiltins loads the embedding host's own functions into the
// descriptor registry the analyser and parser share. A host function is
// declared in a .proto service file (the grpc/protoreflect path) or
// discovered by introspecting a Go package (the go/packages path); either
// way it becomes a FunctionDescriptor the Call-Site Classifier can resolve
// a bare identifier call against.
package hostbuiltins

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/asyncscript/asyncscript/internal/descriptors"
)

// Dial opens the client connection a host service's methods are invoked
// over. Kept separate from Invoke so a connection can be reused across
// many Invoke calls.
func Dial(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("hostbuiltins: dialing %s: %w", target, err)
	}
	return conn, nil
}

// ServiceBinding records a resolved RPC method descriptor together with
// the service and method names its FunctionDescriptor was registered
// under, so Invoke can dispatch a call without re-parsing the .proto file.
type ServiceBinding struct {
	ServiceName string
	MethodName  string
	Method      *desc.MethodDescriptor
}

// LoadProtoServices parses every .proto file in protoFiles and registers
// one predeclared, unconditionally-async FunctionDescriptor per RPC
// method: an RPC dispatched over grpc is the canonical suspension point,
// so unlike a user-declared function its asyncness is fixed at load time
// rather than inferred by the fixed-point resolver.
func LoadProtoServices(protoFiles, importPaths []string, registry *descriptors.Registry) ([]*ServiceBinding, error) {
	parser := protoparse.Parser{ImportPaths: importPaths}
	fds, err := parser.ParseFiles(protoFiles...)
	if err != nil {
		return nil, fmt.Errorf("hostbuiltins: parsing proto service files: %w", err)
	}

	var bindings []*ServiceBinding
	for _, fd := range fds {
		for _, svc := range fd.GetServices() {
			svcName := svc.GetFullyQualifiedName()
			for _, m := range svc.GetMethods() {
				d := descriptors.NewPredeclared(m.GetName(), svcName, true)
				registry.Register(d)
				bindings = append(bindings, &ServiceBinding{
					ServiceName: svcName,
					MethodName:  m.GetName(),
					Method:      m,
				})
			}
		}
	}
	return bindings, nil
}

// Invoke dispatches one RPC over an established connection, marshalling
// reqJSON into the method's input message and returning the dynamic
// response message. Nothing in this module calls Invoke; the analyser
// only needs the descriptor LoadProtoServices registered.
func Invoke(ctx context.Context, conn *grpc.ClientConn, b *ServiceBinding, reqJSON []byte) (*dynamic.Message, error) {
	reqMsg := dynamic.NewMessage(b.Method.GetInputType())
	if err := reqMsg.UnmarshalJSON(reqJSON); err != nil {
		return nil, fmt.Errorf("hostbuiltins: building request for %s: %w", b.MethodName, err)
	}
	respMsg := dynamic.NewMessage(b.Method.GetOutputType())

	fullMethod := fmt.Sprintf("/%s/%s", b.ServiceName, b.MethodName)
	if err := conn.Invoke(ctx, fullMethod, reqMsg, respMsg); err != nil {
		return nil, fmt.Errorf("hostbuiltins: invoking %s: %w", fullMethod, err)
	}
	return respMsg, nil
}
