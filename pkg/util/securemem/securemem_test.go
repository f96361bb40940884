package securemem

import (
	"bytes"
	"testing"
)

func TestNewWipesSource(t *testing.T) {
	src := bytes.Repeat([]byte{0x5a}, 32)
	s := New(src)
	defer s.Destroy()

	if !bytes.Equal(s.Bytes(), bytes.Repeat([]byte{0x5a}, 32)) {
		t.Fatalf("secret content mismatch")
	}
	if !bytes.Equal(src, make([]byte, 32)) {
		t.Fatalf("source buffer not wiped")
	}
}

func TestNewRandom(t *testing.T) {
	s := NewRandom(32)
	defer s.Destroy()
	if s.Size() != 32 {
		t.Fatalf("size = %d", s.Size())
	}
	if bytes.Equal(s.Bytes(), make([]byte, 32)) {
		t.Fatalf("random secret is all zero")
	}
}

func TestDestroyTwice(t *testing.T) {
	s := NewRandom(16)
	s.Destroy()
	s.Destroy()
}
