package sampler

import (
	"strings"

	"github.com/stigtools/tcrsim/internal/dna"
)

// Nucleotides returns a string of n bases drawn uniformly (with
// replacement) from {A,C,G,T}, for junction N-addition.
func (s *Sampler) Nucleotides(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(dna.Bases[s.IntN(len(dna.Bases))])
	}
	return b.String()
}

// MutateBase returns a base drawn uniformly from {A,C,G,T} \ {original},
// for quality-degradation substitution errors.
func (s *Sampler) MutateBase(original byte) byte {
	for {
		b := dna.Bases[s.IntN(len(dna.Bases))]
		if b != original {
			return b
		}
	}
}
