// Package reads draws short sequencing reads from population members'
// DNA or RNA bodies under single/paired/amplicon geometry.
package reads

// Space selects whether reads are drawn from a chain's DNA or RNA body.
type Space string

// Recognized spaces.
const (
	DNASpace Space = "DNA"
	RNASpace Space = "RNA"
)

// Type selects the read geometry.
type Type string

// Recognized read types.
const (
	Single   Type = "single"
	Paired   Type = "paired"
	Amplicon Type = "amplicon"
)

// Orientation records whether a read was taken from the sense strand.
type Orientation int

// Recognized orientations.
const (
	Plus Orientation = iota
	Minus
)

// Read is a single emitted read: an annotated substring of a
// population member's DNA or RNA.
type Read struct {
	Index        int
	Seq          string
	Orientation  Orientation
	Start, End   int // source coordinates within the body, half-open
	ClonotypeIdx int
	CellID       int
	ChainSide    int // 1 or 2, indicating which of the clonotype's two chains
	Mate         *Read
	InsertLength int // signed; 0 for single-end reads
}

// Comment renders the read's provenance line: clonotype id, cell id,
// chain, source coordinates, orientation, and sequence index.
func (r Read) Comment() string {
	strand := "+"
	if r.Orientation == Minus {
		strand = "-"
	}
	chain := "1"
	if r.ChainSide == 2 {
		chain = "2"
	}
	return fmtComment(r.Index, r.ClonotypeIdx, r.CellID, chain, r.Start, r.End, strand)
}
