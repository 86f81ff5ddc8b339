// Bitstring builtins are grounded only in funbit's public package
// documentation, not in any teacher or pack source file — no example in
// this corpus imports funbit despite it sitting in go.mod's require
// block. No FunctionDescriptor is registered for them in this module, so
// the analyser never classifies a call to one.
package evaluator

import (
	"fmt"

	"github.com/funvibe/funbit/pkg/funbit"
)

// PackBitstring builds a binary from a sequence of (value, sizeBits)
// field pairs, the way the scripting language's own bitstring literal
// <<a:8, b:16>> would be packed by a code generator that lowers to this
// builtin instead of inline bit-twiddling. Packing a bitstring never
// blocks.
func PackBitstring(fields []BitField) ([]byte, error) {
	builder := funbit.NewBuilder()
	for _, f := range fields {
		if _, err := funbit.AddInteger(builder, f.Value, funbit.WithSize(f.SizeBits)); err != nil {
			return nil, fmt.Errorf("evaluator: packing %d-bit field: %w", f.SizeBits, err)
		}
	}
	result, err := funbit.Build(builder)
	if err != nil {
		return nil, fmt.Errorf("evaluator: building bitstring: %w", err)
	}
	return result.Bytes, nil
}

// UnpackBitstring matches data against the same field shape PackBitstring
// wrote it with, returning one decoded value per field in order.
func UnpackBitstring(data []byte, shape []int) ([]int64, error) {
	matcher := funbit.NewMatcher()
	values := make([]*int64, len(shape))
	for i, sizeBits := range shape {
		values[i] = new(int64)
		funbit.Integer(matcher, values[i], funbit.WithSize(sizeBits))
	}
	if _, err := funbit.Match(matcher, data); err != nil {
		return nil, fmt.Errorf("evaluator: unpacking bitstring: %w", err)
	}
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = *v
	}
	return out, nil
}

// BitField is one packed segment: Value truncated to SizeBits, big-endian,
// matching the scripting language's default bitstring segment semantics.
type BitField struct {
	Value    int64
	SizeBits int
}
