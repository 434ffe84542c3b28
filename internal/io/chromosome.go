package io

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stigtools/tcrsim/internal/catalog"
	"github.com/stigtools/tcrsim/internal/dna"
)

// LoadChromosomes reads every reference chromosome file in dir, keyed
// by contig id (the file's base name without extension). Each file
// holds one contig as plain nucleotide text; a leading FASTA header
// line (">...") is tolerated and stripped, and everything else is
// concatenated with whitespace/newlines removed.
func LoadChromosomes(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("io: reading chromosome directory %s: %w", dir, err)
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		dat, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("io: reading chromosome file %s: %w", path, err)
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		out[id] = parseChromosome(dat)
	}
	return out, nil
}

// parseChromosome strips an optional FASTA header line and all
// whitespace, returning one contiguous nucleotide string.
func parseChromosome(dat []byte) string {
	text := string(dat)
	if strings.HasPrefix(text, ">") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ResolveSequences fills in each segment's Sequence field by slicing
// its genomic span out of chromosomes, reverse-complementing when the
// segment lives on the reverse strand so that every segment's Sequence
// runs 5'->3' in its own sense. It mutates segments in place and
// errors for any segment whose chromosome is missing or whose span
// runs past the end of the loaded contig.
func ResolveSequences(segments []catalog.Segment, chromosomes map[string]string) error {
	for i := range segments {
		s := &segments[i]
		contig, ok := chromosomes[s.Chromosome]
		if !ok {
			return fmt.Errorf("io: segment %s references unknown chromosome %q", s.Name, s.Chromosome)
		}
		if s.End > len(contig) {
			return fmt.Errorf("io: segment %s span [%d,%d) exceeds chromosome %q length %d", s.Name, s.Start, s.End, s.Chromosome, len(contig))
		}
		seq := contig[s.Start:s.End]
		if s.Strand == catalog.Reverse {
			seq = dna.ReverseComplement(seq)
		}
		s.Sequence = strings.ToUpper(seq)
	}
	return nil
}
