package evaluator_test

import (
	"testing"

	"github.com/asyncscript/asyncscript/internal/evaluator"
)

func TestPackUnpackBitstringRoundTrips(t *testing.T) {
	fields := []evaluator.BitField{
		{Value: 0x12, SizeBits: 8},
		{Value: 0x1234, SizeBits: 16},
	}
	packed, err := evaluator.PackBitstring(fields)
	if err != nil {
		t.Fatalf("PackBitstring: %v", err)
	}

	got, err := evaluator.UnpackBitstring(packed, []int{8, 16})
	if err != nil {
		t.Fatalf("UnpackBitstring: %v", err)
	}
	if len(got) != 2 || got[0] != 0x12 || got[1] != 0x1234 {
		t.Errorf("got %v, want [0x12 0x1234]", got)
	}
}
