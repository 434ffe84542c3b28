package reads

import "fmt"

// fmtComment builds the comment line encoding read provenance, kept as
// a single formatting point so internal/io's FASTQ writer and any future
// consumer agree on the layout.
func fmtComment(index, clonotype, cell int, chainSide string, start, end int, strand string) string {
	return fmt.Sprintf("clonotype=%d cell=%d chain=%s start=%d end=%d strand=%s idx=%d",
		clonotype, cell, chainSide, start, end, strand, index)
}
