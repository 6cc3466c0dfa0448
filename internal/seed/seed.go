package seed

import (
	"crypto/rand"
	"fmt"
	"io"

	"DailyKnowledge/internal/ports"
)

const (
	// Length is the number of characters in every seed.
	Length = 64

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// bytes at or above this bound are rejected to keep the distribution uniform.
	rejectAbove = 256 - 256%len(alphabet)
)

// Generator draws alphanumeric seeds from an entropy source.
type Generator struct {
	source io.Reader
}

var _ ports.Seeder = (*Generator)(nil)

// New wires an entropy source; nil means crypto/rand.
func New(source io.Reader) *Generator {
	if source == nil {
		source = rand.Reader
	}
	return &Generator{source: source}
}

// Seed returns Length characters from [A-Za-z0-9]. It panics when the
// entropy source fails.
func (g *Generator) Seed() string {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length)
	for len(out) < Length {
		if _, err := io.ReadFull(g.source, buf); err != nil {
			panic(fmt.Sprintf("seed: entropy source failed: %v", err))
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out)
}
