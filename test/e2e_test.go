package test

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stigtools/tcrsim/config"
	"github.com/stigtools/tcrsim/internal/logging"
	engine "github.com/stigtools/tcrsim/internal/make"
)

// fixtureWorkingDir writes a minimal but complete input set: two
// single-contig chromosomes, a segment table covering TRA (no D) and
// TRB (with D), and a recombination table whose every draw is
// deterministic (all chewback/addition mass on count zero). The V
// segments end in a cysteine codon and the J segments open with the
// F-G-X-G motif, so every chain built from it is productive.
func fixtureWorkingDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	vSeq := "AAAAAAAAAAAAAAAAAAAAAAAATGT" // 27nt, ends on the conserved cysteine
	jSeq := "TTTGGAAAAGGAAAA"             // 15nt, opens with F-G-X-G
	contig := vSeq + "CCC" + jSeq + "CCCCC" + strings.Repeat("A", 60)

	chromDir := filepath.Join(dir, "chromosomes")
	if err := os.Mkdir(chromDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, chrom := range []string{"chr7", "chr14"} {
		if err := os.WriteFile(filepath.Join(chromDir, chrom+".txt"), []byte(contig), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	segments := strings.Join([]string{
		"TRAV1\tTRA\tV\tchr14\t+\t0\t27\t0-27\t01",
		"TRAJ1\tTRA\tJ\tchr14\t+\t30\t45\t0-15\t01",
		"TRAC1\tTRA\tC\tchr14\t+\t50\t110\t0-60\t01",
		"TRBV20-1\tTRB\tV\tchr7\t+\t0\t27\t0-27\t01",
		"TRBD1\tTRB\tD\tchr7\t+\t27\t27\t\t01",
		"TRBJ1-1\tTRB\tJ\tchr7\t+\t30\t45\t0-15\t01",
		"TRBC1\tTRB\tC\tchr7\t+\t50\t110\t0-60\t01",
	}, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, "tcell_receptor.tsv"), []byte(segments), 0o644); err != nil {
		t.Fatal(err)
	}

	recombination := `segments:
  - [TRAV1, 1.0]
  - [TRAV1, TRAJ1, 1.0]
  - [TRBV20-1, 1.0]
  - [TRBV20-1, TRBD1, 1.0]
  - [TRBV20-1, TRBD1, TRBJ1-1, 1.0]
recombination:
  Vchewback: [1.0]
  D5chewback: [1.0]
  D3chewback: [1.0]
  Jchewback: [1.0]
  VDaddition: [1.0]
  DJaddition: [1.0]
  VJaddition: [1.0]
`
	if err := os.WriteFile(filepath.Join(dir, "tcell_recombination.yaml"), []byte(recombination), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func baseConfig(workingDir, outBase string) config.Config {
	return config.Config{
		WorkingDir: workingDir,
		OutputBase: outBase,
		Seed:       42,
		LogLevel:   "critical",
		Repertoire: config.RepertoireConfig{Size: 1, AlphaBetaRatio: 1.0},
		Population: config.PopulationConfig{Size: 1, Mode: "stripe"},
		Reads: config.ReadConfig{
			Space: "DNA", Type: "single",
			LengthMean: 48, LengthCutoff: 3,
			InsertMean: 80, InsertCutoff: 3,
		},
	}
}

func quietLogger() *logging.Logger {
	return logging.New(io.Discard, logging.Critical)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return records
}

func TestRepertoireOfOne_PinnedVSegment(t *testing.T) {
	dir := fixtureWorkingDir(t)
	cfg := baseConfig(dir, filepath.Join(t.TempDir(), "out"))

	if err := engine.Run(cfg, quietLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	records := readCSV(t, cfg.OutputBase+".statistics.csv")
	if len(records) != 2 {
		t.Fatalf("statistics rows = %d, want 2 (header + 1 clonotype)", len(records))
	}
	row := records[1]
	if row[0] != "TRA" || row[6] != "TRB" {
		t.Errorf("locus pair = %s/%s, want TRA/TRB", row[0], row[6])
	}
	if row[7] != "TRBV20-1" {
		t.Errorf("beta V segment = %q, want TRBV20-1 (its selection weight is 1.0)", row[7])
	}
}

func TestStripePopulation_DistributesEvenly(t *testing.T) {
	dir := fixtureWorkingDir(t)
	cfg := baseConfig(dir, filepath.Join(t.TempDir(), "out"))
	cfg.Repertoire.Size = 5
	cfg.Population.Size = 15

	if err := engine.Run(cfg, quietLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	records := readCSV(t, cfg.OutputBase+".statistics.csv")
	if len(records) != 6 {
		t.Fatalf("statistics rows = %d, want 6 (header + 5 clonotypes)", len(records))
	}
	for i, row := range records[1:] {
		if cells := row[len(row)-1]; cells != "3" {
			t.Errorf("clonotype %d cells = %s, want 3 (15 cells striped over 5 slots)", i, cells)
		}
	}
}

func TestSingleReads_ConstantLengthAndPerfectQuality(t *testing.T) {
	dir := fixtureWorkingDir(t)
	cfg := baseConfig(dir, filepath.Join(t.TempDir(), "out"))
	cfg.Reads.SequenceCount = 10

	if err := engine.Run(cfg, quietLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	dat, err := os.ReadFile(cfg.OutputBase + ".fastq")
	if err != nil {
		t.Fatalf("reading fastq: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(dat), "\n"), "\n")
	if len(lines) != 40 {
		t.Fatalf("fastq lines = %d, want 40 (10 records x 4 lines)", len(lines))
	}
	wantQual := strings.Repeat("J", 48)
	for rec := 0; rec < 10; rec++ {
		seq, qual := lines[rec*4+1], lines[rec*4+3]
		if len(seq) != 48 {
			t.Errorf("record %d read length = %d, want 48", rec, len(seq))
		}
		if qual != wantQual {
			t.Errorf("record %d quality = %q, want %q", rec, qual, wantQual)
		}
	}
}

func TestPairedReads_TwoFilesOfEqualRecordCount(t *testing.T) {
	dir := fixtureWorkingDir(t)
	cfg := baseConfig(dir, filepath.Join(t.TempDir(), "out"))
	cfg.Reads.SequenceCount = 4
	cfg.Reads.Type = "paired"
	cfg.Reads.LengthMean = 30
	cfg.Reads.InsertMean = 80

	if err := engine.Run(cfg, quietLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, side := range []string{"_R1", "_R2"} {
		dat, err := os.ReadFile(cfg.OutputBase + side + ".fastq")
		if err != nil {
			t.Fatalf("reading %s fastq: %v", side, err)
		}
		lines := strings.Split(strings.TrimRight(string(dat), "\n"), "\n")
		if len(lines) != 16 {
			t.Errorf("%s fastq lines = %d, want 16 (4 records x 4 lines)", side, len(lines))
		}
		for rec := 0; rec < 4; rec++ {
			if len(lines[rec*4+1]) != 30 {
				t.Errorf("%s record %d read length = %d, want 30", side, rec, len(lines[rec*4+1]))
			}
		}
	}
}

func TestDisplayDegradation_EmitsNoFastq(t *testing.T) {
	dir := fixtureWorkingDir(t)
	cfg := baseConfig(dir, filepath.Join(t.TempDir(), "out"))
	cfg.Reads.SequenceCount = 10
	cfg.Degrade = config.DegradeConfig{Display: true, Logistic: "0.001:0.2:0.25:24"}

	if err := engine.Run(cfg, quietLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(cfg.OutputBase + ".fastq"); !os.IsNotExist(err) {
		t.Errorf("display mode created %s.fastq, want none", cfg.OutputBase)
	}
	if _, err := os.Stat(cfg.OutputBase + ".statistics.csv"); !os.IsNotExist(err) {
		t.Errorf("display mode created %s.statistics.csv, want none", cfg.OutputBase)
	}
}

func TestDegradedOutput_TagsReadIDs(t *testing.T) {
	dir := fixtureWorkingDir(t)
	cfg := baseConfig(dir, filepath.Join(t.TempDir(), "out"))
	cfg.Reads.SequenceCount = 5
	cfg.Degrade = config.DegradeConfig{Method: "logistic", Logistic: "0.001:0.2:0.25:24"}

	if err := engine.Run(cfg, quietLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	dat, err := os.ReadFile(cfg.OutputBase + ".degraded.fastq")
	if err != nil {
		t.Fatalf("reading degraded fastq: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(dat), "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("degraded fastq lines = %d, want 20", len(lines))
	}
	for rec := 0; rec < 5; rec++ {
		id := strings.Fields(lines[rec*4])[0]
		if !strings.HasSuffix(id, "_DEGRADED") {
			t.Errorf("degraded record %d id = %q, want _DEGRADED suffix", rec, id)
		}
	}
}

func TestFixedSeed_RunsAreByteIdentical(t *testing.T) {
	dir := fixtureWorkingDir(t)

	outputs := make([][]byte, 2)
	for i := range outputs {
		cfg := baseConfig(dir, filepath.Join(t.TempDir(), "out"))
		cfg.Repertoire.Size = 3
		cfg.Population.Size = 9
		cfg.Reads.SequenceCount = 10

		if err := engine.Run(cfg, quietLogger()); err != nil {
			t.Fatalf("Run() %d error = %v", i, err)
		}
		fastq, err := os.ReadFile(cfg.OutputBase + ".fastq")
		if err != nil {
			t.Fatal(err)
		}
		stats, err := os.ReadFile(cfg.OutputBase + ".statistics.csv")
		if err != nil {
			t.Fatal(err)
		}
		outputs[i] = append(fastq, stats...)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("two runs with the same seed and inputs produced different outputs")
	}
}

func TestSnapshotRoundTrip_ReproducesStatistics(t *testing.T) {
	dir := fixtureWorkingDir(t)

	cfg1 := baseConfig(dir, filepath.Join(t.TempDir(), "out"))
	cfg1.Repertoire.Size = 3
	cfg1.Population.Size = 9
	cfg1.SnapshotOut = true
	if err := engine.Run(cfg1, quietLogger()); err != nil {
		t.Fatalf("Run() (freeze) error = %v", err)
	}

	cfg2 := baseConfig(dir, filepath.Join(t.TempDir(), "out"))
	cfg2.SnapshotPath = cfg1.OutputBase + ".population.bin"
	if err := engine.Run(cfg2, quietLogger()); err != nil {
		t.Fatalf("Run() (thaw) error = %v", err)
	}

	stats1, err := os.ReadFile(cfg1.OutputBase + ".statistics.csv")
	if err != nil {
		t.Fatal(err)
	}
	stats2, err := os.ReadFile(cfg2.OutputBase + ".statistics.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stats1, stats2) {
		t.Error("thawed run's statistics differ from the original run's")
	}
}

func TestAmpliconProbe_MatchingNoChainAborts(t *testing.T) {
	dir := fixtureWorkingDir(t)
	cfg := baseConfig(dir, filepath.Join(t.TempDir(), "out"))
	cfg.Reads.SequenceCount = 1
	cfg.Reads.Type = "amplicon"
	cfg.Reads.AmpliconProbe = "NNNNNNNNNNNNNNNN" // matches no ACGT body

	if err := engine.Run(cfg, quietLogger()); err == nil {
		t.Error("Run() expected an error for an amplicon probe matching no cell, got nil")
	}
}
