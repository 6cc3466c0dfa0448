package seed

import (
	"bytes"
	"errors"
	"testing"
)

func TestSeedShape(t *testing.T) {
	t.Parallel()

	g := New(nil)
	for i := 0; i < 100; i++ {
		s := g.Seed()
		if len(s) != Length {
			t.Fatalf("expected length %d, got %d", Length, len(s))
		}
		for _, r := range s {
			if !isAlnum(r) {
				t.Fatalf("non-alphanumeric rune %q in %s", r, s)
			}
		}
	}
}

func TestSeedDiffersBetweenCalls(t *testing.T) {
	t.Parallel()

	g := New(nil)
	if a, b := g.Seed(), g.Seed(); a == b {
		t.Fatalf("two consecutive seeds are equal: %s", a)
	}
}

func TestSeedDeterministicSource(t *testing.T) {
	t.Parallel()

	// 0..61 map straight onto the alphabet; 250 is rejected.
	raw := make([]byte, 0, 128)
	for i := 0; i < 64; i++ {
		raw = append(raw, 250, byte(i%62))
	}

	a := New(bytes.NewReader(raw)).Seed()
	b := New(bytes.NewReader(raw)).Seed()
	if a != b {
		t.Fatalf("same source produced different seeds: %s vs %s", a, b)
	}
	if a[:3] != "ABC" {
		t.Fatalf("unexpected prefix: %s", a[:3])
	}
	if a[61] != '9' || a[62] != 'A' {
		t.Fatalf("unexpected wrap-around: %s", a)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("no entropy")
}

func TestSeedPanicsOnSourceFailure(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(failingReader{}).Seed()
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
