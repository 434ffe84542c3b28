// Package io loads the external tabular/YAML/chromosome inputs and
// writes the FASTQ/CSV/snapshot outputs, keeping file handling out of
// the engine packages. Everything here returns an error to its caller
// rather than aborting the process; internal/make (and ultimately
// cmd/) decides exit codes.
package io

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stigtools/tcrsim/internal/catalog"
)

// LoadSegments reads tcell_receptor.tsv: one row per germline segment
// with fields {name, locus, role, chromosome, strand, start, end,
// exon_intervals, allele_id}.
func LoadSegments(path string) ([]catalog.Segment, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("io: reading segment table %s: %w", path, err)
	}

	lines := strings.Split(string(dat), "\n")
	segments := make([]catalog.Segment, 0, len(lines))
	for lineNum, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 9 {
			return nil, fmt.Errorf("io: %s:%d: expected 9 tab-separated fields, got %d", path, lineNum+1, len(fields))
		}

		seg, err := parseSegmentRow(fields)
		if err != nil {
			return nil, fmt.Errorf("io: %s:%d: %w", path, lineNum+1, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func parseSegmentRow(fields []string) (catalog.Segment, error) {
	name, locus, role, chromosome, strand := fields[0], fields[1], fields[2], fields[3], fields[4]

	start, err := strconv.Atoi(fields[5])
	if err != nil {
		return catalog.Segment{}, fmt.Errorf("invalid start %q: %w", fields[5], err)
	}
	end, err := strconv.Atoi(fields[6])
	if err != nil {
		return catalog.Segment{}, fmt.Errorf("invalid end %q: %w", fields[6], err)
	}

	exons, err := parseExonIntervals(fields[7])
	if err != nil {
		return catalog.Segment{}, fmt.Errorf("invalid exon_intervals %q: %w", fields[7], err)
	}

	var st catalog.Strand
	switch strand {
	case "+", "-":
		st = catalog.Strand(strand)
	default:
		return catalog.Segment{}, fmt.Errorf("invalid strand %q", strand)
	}

	return catalog.Segment{
		Name:       name,
		Locus:      catalog.Locus(locus),
		Role:       catalog.Role(role),
		Chromosome: chromosome,
		Strand:     st,
		Start:      start,
		End:        end,
		Exons:      exons,
		Allele:     fields[8],
	}, nil
}

// parseExonIntervals parses a ";"-separated list of "start-end" pairs,
// in segment-local (0-based, half-open) coordinates.
func parseExonIntervals(raw string) ([]catalog.Exon, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ";")
	exons := make([]catalog.Exon, 0, len(parts))
	for _, p := range parts {
		bounds := strings.SplitN(p, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("malformed interval %q", p)
		}
		start, err := strconv.Atoi(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("malformed interval start %q: %w", bounds[0], err)
		}
		end, err := strconv.Atoi(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("malformed interval end %q: %w", bounds[1], err)
		}
		exons = append(exons, catalog.Exon{Start: start, End: end})
	}
	return exons, nil
}
