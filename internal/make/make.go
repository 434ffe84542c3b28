// Package make is the single orchestration entry point: it wires
// catalog + recombination model -> chain builder -> repertoire ->
// population distribution -> read simulation -> quality degradation ->
// FASTQ output. Each phase completes before the next begins.
package make

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/stigtools/tcrsim/config"
	"github.com/stigtools/tcrsim/internal/catalog"
	"github.com/stigtools/tcrsim/internal/chain"
	"github.com/stigtools/tcrsim/internal/degrade"
	ioutil "github.com/stigtools/tcrsim/internal/io"
	"github.com/stigtools/tcrsim/internal/logging"
	"github.com/stigtools/tcrsim/internal/population"
	"github.com/stigtools/tcrsim/internal/recomb"
	"github.com/stigtools/tcrsim/internal/repertoire"
	"github.com/stigtools/tcrsim/internal/sampler"
)

// input file names, resolved under Config.WorkingDir.
const (
	segmentsFile      = "tcell_receptor.tsv"
	recombinationFile = "tcell_recombination.yaml"
	chromosomeDir     = "chromosomes"
)

// DataError wraps a fatal condition caused by missing or malformed
// external data.
type DataError struct{ Err error }

func (e *DataError) Error() string { return e.Err.Error() }
func (e *DataError) Unwrap() error { return e.Err }

// ConfigError wraps a fatal condition caused by malformed CLI/config
// values.
type ConfigError struct{ Err error }

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Run to a distinct exit code per
// failure class: 1 for configuration errors, 2 for data errors, 3 for
// capacity errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var capErr *repertoire.CapacityError
	var cfgErr *ConfigError
	var dataErr *DataError
	switch {
	case errors.As(err, &capErr):
		return 3
	case errors.As(err, &cfgErr):
		return 1
	case errors.As(err, &dataErr):
		return 2
	default:
		return 1
	}
}

// Run executes the full engine per cfg, logging non-fatal warnings
// through log and returning a typed, non-nil error on any fatal
// condition.
func Run(cfg config.Config, log *logging.Logger) error {
	src := rand.NewPCG(seedOf(cfg), 0)
	samp := sampler.New(rand.New(src))
	samp.OnWarn(func(msg string) { log.Warnf(msg) })

	if cfg.Degrade.Display {
		return runDisplay(cfg)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	var clonotypes []repertoire.Clonotype
	var cells []int

	if cfg.SnapshotPath != "" {
		clonotypes, cells, err = thaw(cfg, cat, src, log)
		if err != nil {
			return err
		}
		log.Infof("thawed %d clonotypes from snapshot %s", len(clonotypes), cfg.SnapshotPath)
	} else {
		table, err := loadRecombinationTable(cfg, log)
		if err != nil {
			return err
		}

		builder := chain.NewBuilder(cat, table, samp)
		clonotypes, err = repertoire.Build(builder, samp, repertoire.Options{
			K:              cfg.Repertoire.Size,
			AlphaBetaRatio: cfg.Repertoire.AlphaBetaRatio,
			Uniqueness: repertoire.Uniqueness{
				TCRUnique:   cfg.Repertoire.TCRUnique,
				ChainUnique: cfg.Repertoire.ChainUnique,
				CDR3Unique:  cfg.Repertoire.CDR3Unique,
			},
			ResampleUnproductive: cfg.Repertoire.ResampleUnproductive,
			OnWarn:               func(msg string) { log.Warnf(msg) },
		})
		if err != nil {
			var capErr *repertoire.CapacityError
			if errors.As(err, &capErr) {
				return err
			}
			return &DataError{Err: err}
		}
		log.Infof("built repertoire of %d clonotypes", len(clonotypes))

		cells, err = population.Distribute(samp, cfg.PopulationParams())
		if err != nil {
			return &ConfigError{Err: err}
		}

		if cfg.SnapshotOut {
			if err := freezeSnapshot(cfg, clonotypes, cells, src); err != nil {
				return err
			}
		}
	}

	if err := writeStatistics(cfg, clonotypes, cells); err != nil {
		return err
	}

	if cfg.Reads.SequenceCount <= 0 {
		log.Infof("sequence-count is 0; no reads generated")
		return nil
	}

	return simulateAndWrite(cfg, clonotypes, cells, samp, log)
}

func seedOf(cfg config.Config) uint64 {
	if cfg.Seed != 0 {
		return uint64(cfg.Seed)
	}
	return rand.Uint64()
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	segments, err := ioutil.LoadSegments(filepath.Join(cfg.WorkingDir, segmentsFile))
	if err != nil {
		return nil, &DataError{Err: err}
	}

	chromDir := filepath.Join(cfg.WorkingDir, chromosomeDir)
	chromosomes, err := ioutil.LoadChromosomes(chromDir)
	if err != nil {
		return nil, &DataError{Err: err}
	}
	if err := ioutil.ResolveSequences(segments, chromosomes); err != nil {
		return nil, &DataError{Err: err}
	}

	cat, err := catalog.New(segments)
	if err != nil {
		return nil, &DataError{Err: err}
	}
	return cat, nil
}

func loadRecombinationTable(cfg config.Config, log *logging.Logger) (*recomb.Table, error) {
	table, err := ioutil.LoadRecombinationTable(filepath.Join(cfg.WorkingDir, recombinationFile))
	if err != nil {
		return nil, &DataError{Err: err}
	}
	for _, w := range table.Validate() {
		log.Warnf(w.Message)
	}
	return table, nil
}

func thaw(cfg config.Config, cat *catalog.Catalog, src *rand.PCG, log *logging.Logger) ([]repertoire.Clonotype, []int, error) {
	snap, err := ioutil.ReadSnapshot(cfg.SnapshotPath)
	if err != nil {
		return nil, nil, &DataError{Err: err}
	}
	clonotypes, cells, err := ioutil.Thaw(snap, cat)
	if err != nil {
		return nil, nil, &DataError{Err: err}
	}
	if err := ioutil.RestoreRNGState(src, snap.RNGState); err != nil {
		log.Warnf("could not restore snapshot RNG state: %v", err)
	}
	return clonotypes, cells, nil
}

func freezeSnapshot(cfg config.Config, clonotypes []repertoire.Clonotype, cells []int, src *rand.PCG) error {
	snap, err := ioutil.Freeze(clonotypes, cells, src)
	if err != nil {
		return &DataError{Err: err}
	}
	path := cfg.OutputBase + ".population.bin"
	if err := ioutil.WriteSnapshot(path, snap); err != nil {
		return &DataError{Err: err}
	}
	return nil
}

func writeStatistics(cfg config.Config, clonotypes []repertoire.Clonotype, cells []int) error {
	rows := make([]ioutil.StatisticsRow, len(clonotypes))
	for i, c := range clonotypes {
		count := 0
		if i < len(cells) {
			count = cells[i]
		}
		rows[i] = ioutil.StatisticsRow{Clonotype: c, CellCount: count}
	}
	path := cfg.OutputBase + ".statistics.csv"
	if err := ioutil.WriteStatistics(path, rows); err != nil {
		return &DataError{Err: err}
	}
	return nil
}

func runDisplay(cfg config.Config) error {
	params, err := cfg.DisplayLogistic()
	if err != nil {
		return &ConfigError{Err: err}
	}
	rates := degrade.Display(params, roundMean(cfg.Reads.LengthMean))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, r := range rates {
		fmt.Fprintf(w, "%d\t%.6f\n", i, r)
	}
	return w.Flush()
}

func roundMean(mean float64) int {
	n := int(mean + 0.5)
	if n < 1 {
		return 1
	}
	return n
}
