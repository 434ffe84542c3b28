// Package dna holds small nucleotide-string helpers shared by the
// recombination and read-simulation engine: reverse complementing and
// the base alphabet.
package dna

var complement = map[byte]byte{
	'A': 'T', 'C': 'G', 'T': 'A', 'G': 'C', 'U': 'A',
	'a': 't', 'c': 'g', 't': 'a', 'g': 'c', 'u': 'a',
	'N': 'N', 'n': 'n',
}

// ReverseComplement returns the reverse complement of a nucleotide
// string. Unrecognized characters pass through unchanged.
func ReverseComplement(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		b := seq[len(seq)-1-i]
		if c, ok := complement[b]; ok {
			out[i] = c
		} else {
			out[i] = b
		}
	}
	return string(out)
}

// Bases lists the four DNA bases in the order used for uniform draws
// and for substitution error mutation.
const Bases = "ACGT"
