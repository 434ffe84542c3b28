// Package chain constructs one recombined TCR chain: segment selection,
// chewback, N-addition, DNA/RNA assembly, and CDR3 identification.
package chain

import "github.com/stigtools/tcrsim/internal/catalog"

// JunctionCounts records the chewback and insertion draws applied
// while building a chain.
type JunctionCounts struct {
	V3  int // bases chewed from the V segment's 3' (junction-facing) end
	D5  int // bases chewed from the D segment's 5' end (present only if D used)
	D3  int // bases chewed from the D segment's 3' end (present only if D used)
	J5  int // bases chewed from the J segment's 5' (junction-facing) end
	NVD int // non-templated bases inserted between V and D (D present)
	NDJ int // non-templated bases inserted between D and J (D present)
	NVJ int // non-templated bases inserted between V and J (D absent)
}

// Chain is one recombined TCR chain, fully immutable once built.
type Chain struct {
	Locus      catalog.Locus
	V, D, J, C *catalog.Segment // D is nil for TRA/TRG chains

	Junction JunctionCounts

	DNA string
	RNA string

	CDR3       string
	Productive bool
}
