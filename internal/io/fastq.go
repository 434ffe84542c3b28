package io

import (
	"bufio"
	"fmt"
	"os"
)

// FastqRecord is one 4-line FASTQ record: an identifier (without the
// leading '@'), a comment appended after a space, the base sequence,
// and a Phred+33 quality string of the same length.
type FastqRecord struct {
	ID      string
	Comment string
	Seq     string
	Quality string
}

// WriteFastq writes records to path as standard 4-line FASTQ, one
// output file per call, streaming records through a buffered writer.
func WriteFastq(path string, records []FastqRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("io: creating fastq file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "@%s %s\n%s\n+\n%s\n", r.ID, r.Comment, r.Seq, r.Quality); err != nil {
			return fmt.Errorf("io: writing fastq record %s: %w", r.ID, err)
		}
	}
	return w.Flush()
}

// PerfectQuality returns 'J' repeated n times, the quality string of
// an un-degraded read.
func PerfectQuality(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = 'J'
	}
	return string(out)
}

// DegradedID derives a degraded read's identifier from its
// perfect-read identifier.
func DegradedID(id string) string {
	return id + "_DEGRADED"
}

// ReadQualityCorpus extracts the quality-string line (the 4th of every
// 4-line record) from an existing FASTQ file, for the "fastq" /
// "fastq-random" degradation methods' Phred+33 corpus.
func ReadQualityCorpus(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("io: opening fastq corpus %s: %w", path, err)
	}
	defer f.Close()

	var corpus []string
	sc := bufio.NewScanner(f)
	lineNum := 0
	for sc.Scan() {
		if lineNum%4 == 3 {
			corpus = append(corpus, sc.Text())
		}
		lineNum++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("io: reading fastq corpus %s: %w", path, err)
	}
	if len(corpus) == 0 {
		return nil, fmt.Errorf("io: fastq corpus %s contains no records", path)
	}
	return corpus, nil
}
