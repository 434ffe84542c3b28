package io

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/stigtools/tcrsim/internal/catalog"
	"github.com/stigtools/tcrsim/internal/repertoire"
)

// StatisticsRow is one clonotype's row in <base>.statistics.csv: locus
// pair, segment names, CDR3 sequences, and cell count.
type StatisticsRow struct {
	Clonotype repertoire.Clonotype
	CellCount int
}

// WriteStatistics writes the statistics.csv header plus one row per
// clonotype.
func WriteStatistics(path string, rows []StatisticsRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("io: creating statistics file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"locus1", "v1", "d1", "j1", "c1", "cdr31",
		"locus2", "v2", "d2", "j2", "c2", "cdr32",
		"cells",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("io: writing statistics header: %w", err)
	}

	for _, row := range rows {
		c1, c2 := row.Clonotype.Chain1, row.Clonotype.Chain2
		record := []string{
			string(c1.Locus), segName(c1.V), segName(c1.D), segName(c1.J), segName(c1.C), c1.CDR3,
			string(c2.Locus), segName(c2.V), segName(c2.D), segName(c2.J), segName(c2.C), c2.CDR3,
			strconv.Itoa(row.CellCount),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("io: writing statistics row: %w", err)
		}
	}
	return nil
}

func segName(s *catalog.Segment) string {
	if s == nil {
		return ""
	}
	return s.Name
}
