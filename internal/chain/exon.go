package chain

import "github.com/stigtools/tcrsim/internal/catalog"

// project concatenates seq's exonic sub-ranges in order, producing the
// RNA contribution of a segment. Exons outside [0, len(seq)) are
// clamped/dropped, which is how 3'/5' chewback (applied to seq before
// calling project) removes bases from the terminal exon.
func project(seq string, exons []catalog.Exon) string {
	if len(exons) == 0 {
		return seq
	}
	out := make([]byte, 0, len(seq))
	for _, ex := range exons {
		start, end := ex.Start, ex.End
		if start < 0 {
			start = 0
		}
		if end > len(seq) {
			end = len(seq)
		}
		if start >= end || start >= len(seq) {
			continue
		}
		out = append(out, seq[start:end]...)
	}
	return string(out)
}

// chewback3Prime trims n bases from the 3' (sequence tail) end of a
// segment's DNA and returns both the trimmed DNA and its exon-projected
// RNA. Used for V's junction-facing end.
func chewback3Prime(seg *catalog.Segment, n int) (dnaSeq, rnaSeq string) {
	dnaSeq = trimTail(seg.Sequence, n)
	return dnaSeq, project(dnaSeq, seg.Exons)
}

// chewback5Prime trims n bases from the 5' (sequence head) end of a
// segment's DNA and returns both the trimmed DNA and, with exon
// coordinates shifted left by n, its exon-projected RNA. Used for J's
// junction-facing end.
func chewback5Prime(seg *catalog.Segment, n int) (dnaSeq, rnaSeq string) {
	dnaSeq = trimHead(seg.Sequence, n)
	shifted := make([]catalog.Exon, len(seg.Exons))
	for i, ex := range seg.Exons {
		shifted[i] = catalog.Exon{Start: ex.Start - n, End: ex.End - n}
	}
	return dnaSeq, project(dnaSeq, shifted)
}

// chewbackBothEnds trims d5 bases from the head and d3 from the tail
// of a D segment's DNA. D segments are entirely coding, so the trimmed
// DNA is its own RNA contribution.
func chewbackBothEnds(seg *catalog.Segment, head, tail int) (dnaSeq, rnaSeq string) {
	dnaSeq = trimTail(trimHead(seg.Sequence, head), tail)
	return dnaSeq, dnaSeq
}

// spliced returns a C segment's full exon-spliced RNA (introns removed)
// alongside its unmodified genomic DNA.
func spliced(seg *catalog.Segment) (dnaSeq, rnaSeq string) {
	return seg.Sequence, project(seg.Sequence, seg.Exons)
}

func trimTail(s string, n int) string {
	if n <= 0 {
		return s
	}
	if n >= len(s) {
		return ""
	}
	return s[:len(s)-n]
}

func trimHead(s string, n int) string {
	if n <= 0 {
		return s
	}
	if n >= len(s) {
		return ""
	}
	return s[n:]
}
