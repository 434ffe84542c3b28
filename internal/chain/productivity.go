package chain

import "regexp"

// CDR3 anchors: the conserved cysteine codon (TGT/TGC) and the
// canonical F/W-G-X-G motif ((TTT|TTC|TGG) GGN NNN GGN), scanned
// codon-by-codon so the match stays in frame.
var (
	cysteineCodon = regexp.MustCompile(`^(?:TGT|TGC)$`)
	fgxgMotif     = regexp.MustCompile(`^(?:TTT|TTC|TGG)GG[ACGT][ACGT]{3}GG[ACGT]$`)
	stopCodon     = regexp.MustCompile(`^(?:TAA|TAG|TGA)$`)
)

// IdentifyCDR3 scans rna, codon by codon from position 0, for the first
// in-frame conserved cysteine codon and then the first in-frame
// F/W-G-X-G motif after it. The V/J segment boundaries are not
// consulted: the anchors are taken wherever they first occur in rna. It
// returns the nucleotide span between them (inclusive) and whether the
// chain is productive: rna whose length is not a multiple of 3, an
// in-frame stop codon before the cysteine, or a missing anchor makes
// the chain unproductive.
func IdentifyCDR3(rna string) (cdr3 string, productive bool) {
	if len(rna)%3 != 0 {
		return "", false
	}

	cysPos := -1
	for i := 0; i+3 <= len(rna); i += 3 {
		codon := rna[i : i+3]
		if cysPos < 0 && stopCodon.MatchString(codon) {
			return "", false
		}
		if cysPos < 0 && cysteineCodon.MatchString(codon) {
			cysPos = i
		}
	}
	if cysPos < 0 {
		return "", false
	}

	for i := cysPos + 3; i+12 <= len(rna); i += 3 {
		motif := rna[i : i+12]
		if fgxgMotif.MatchString(motif) {
			return rna[cysPos : i+12], true
		}
	}
	return "", false
}
