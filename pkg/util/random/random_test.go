package random

import (
	"bytes"
	"testing"
)

func TestBytes(t *testing.T) {
	a, err := Bytes(32)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	b, err := Bytes(32)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if len(a) != 32 || bytes.Equal(a, b) {
		t.Fatalf("unexpected random output")
	}
}
