// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd).
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/stigtools/tcrsim/internal/degrade"
	"github.com/stigtools/tcrsim/internal/population"
	"github.com/stigtools/tcrsim/internal/reads"
)

// RepertoireConfig configures repertoire construction.
type RepertoireConfig struct {
	Size                 int     `mapstructure:"repertoire-size"`
	AlphaBetaRatio       float64 `mapstructure:"ab-ratio"`
	TCRUnique            bool    `mapstructure:"tcr-unique"`
	ChainUnique          bool    `mapstructure:"chain-unique"`
	CDR3Unique           bool    `mapstructure:"cdr3-unique"`
	ResampleUnproductive bool    `mapstructure:"resample-unproductive"`
}

// PopulationConfig configures how cells are distributed over clonotypes.
type PopulationConfig struct {
	Size          int     `mapstructure:"population-size"`
	Mode          string  `mapstructure:"population-distribution"`
	Sigma         float64 `mapstructure:"population-sigma"`
	ChiSquareKDF  float64 `mapstructure:"population-chisquare-kdf"`
	Cutoff        float64 `mapstructure:"population-cutoff"`
	LogisticScale float64 `mapstructure:"population-logistic-scale"`
}

// ReadConfig configures read simulation.
type ReadConfig struct {
	SequenceCount int     `mapstructure:"sequence-count"`
	Space         string  `mapstructure:"space"`
	Type          string  `mapstructure:"read-type"`
	LengthMean    float64 `mapstructure:"read-length-mean"`
	LengthSD      float64 `mapstructure:"read-length-sd"`
	LengthCutoff  float64 `mapstructure:"read-length-cutoff"`
	InsertMean    float64 `mapstructure:"insert-length-mean"`
	InsertSD      float64 `mapstructure:"insert-length-sd"`
	InsertCutoff  float64 `mapstructure:"insert-length-cutoff"`
	AmpliconProbe string  `mapstructure:"amplicon-probe"`
}

// DegradeConfig configures quality degradation.
type DegradeConfig struct {
	Method      string  `mapstructure:"degrade-method"`
	Logistic    string  `mapstructure:"degrade-logistic"` // "B:L:k:mid"
	Phred       string  `mapstructure:"degrade-phred"`
	FastqPath1  string  `mapstructure:"degrade-fastq-r1"`
	FastqPath2  string  `mapstructure:"degrade-fastq-r2"`
	Variability float64 `mapstructure:"degrade-variability"`
	Display     bool    `mapstructure:"display-degradation"`
}

// Config is the root-level settings struct: a mix of settings available
// from the command line.
type Config struct {
	WorkingDir   string `mapstructure:"working-dir"`
	OutputBase   string `mapstructure:"out"`
	SnapshotPath string `mapstructure:"snapshot"`
	SnapshotOut  bool   `mapstructure:"snapshot-out"`
	Seed         int64  `mapstructure:"seed"`
	LogLevel     string `mapstructure:"log-level"`

	Repertoire RepertoireConfig
	Population PopulationConfig
	Reads      ReadConfig
	Degrade    DegradeConfig
}

// New returns a new Config struct populated by Viper settings (bound
// command-line flags).
func New() Config {
	var c Config
	c.WorkingDir = viper.GetString("working-dir")
	c.OutputBase = viper.GetString("out")
	c.SnapshotPath = viper.GetString("snapshot")
	c.SnapshotOut = viper.GetBool("snapshot-out")
	c.Seed = viper.GetInt64("seed")
	c.LogLevel = viper.GetString("log-level")

	c.Repertoire = RepertoireConfig{
		Size:                 viper.GetInt("repertoire-size"),
		AlphaBetaRatio:       viper.GetFloat64("ab-ratio"),
		TCRUnique:            viper.GetBool("tcr-unique"),
		ChainUnique:          viper.GetBool("chain-unique"),
		CDR3Unique:           viper.GetBool("cdr3-unique"),
		ResampleUnproductive: viper.GetBool("resample-unproductive"),
	}
	c.Population = PopulationConfig{
		Size:          viper.GetInt("population-size"),
		Mode:          viper.GetString("population-distribution"),
		Sigma:         viper.GetFloat64("population-sigma"),
		ChiSquareKDF:  viper.GetFloat64("population-chisquare-kdf"),
		Cutoff:        viper.GetFloat64("population-cutoff"),
		LogisticScale: viper.GetFloat64("population-logistic-scale"),
	}
	c.Reads = ReadConfig{
		SequenceCount: viper.GetInt("sequence-count"),
		Space:         viper.GetString("space"),
		Type:          viper.GetString("read-type"),
		LengthMean:    viper.GetFloat64("read-length-mean"),
		LengthSD:      viper.GetFloat64("read-length-sd"),
		LengthCutoff:  viper.GetFloat64("read-length-cutoff"),
		InsertMean:    viper.GetFloat64("insert-length-mean"),
		InsertSD:      viper.GetFloat64("insert-length-sd"),
		InsertCutoff:  viper.GetFloat64("insert-length-cutoff"),
		AmpliconProbe: viper.GetString("amplicon-probe"),
	}
	c.Degrade = DegradeConfig{
		Method:      viper.GetString("degrade-method"),
		Logistic:    viper.GetString("degrade-logistic"),
		Phred:       viper.GetString("degrade-phred"),
		FastqPath1:  viper.GetString("degrade-fastq-r1"),
		FastqPath2:  viper.GetString("degrade-fastq-r2"),
		Variability: viper.GetFloat64("degrade-variability"),
		Display:     viper.GetBool("display-degradation"),
	}
	return c
}

// PopulationParams translates the Population section into
// population.Params, defaulting the mode to logisticcdf.
func (c Config) PopulationParams() population.Params {
	mode := population.Mode(c.Population.Mode)
	if mode == "" {
		mode = population.LogisticCDF
	}
	return population.Params{
		Mode: mode,
		N:    c.Population.Size,
		K:    c.Repertoire.Size,

		Sigma: c.Population.Sigma,

		KDF:    c.Population.ChiSquareKDF,
		Cutoff: c.Population.Cutoff,

		Scale: c.Population.LogisticScale,
	}
}

// ReadOptions translates the Reads section into reads.Options.
func (c Config) ReadOptions() reads.Options {
	return reads.Options{
		Space: reads.Space(c.Reads.Space),
		Type:  reads.Type(c.Reads.Type),
		ReadLen: reads.LengthParams{
			Mean: c.Reads.LengthMean, SD: c.Reads.LengthSD, Cutoff: c.Reads.LengthCutoff,
		},
		InsertLen: reads.LengthParams{
			Mean: c.Reads.InsertMean, SD: c.Reads.InsertSD, Cutoff: c.Reads.InsertCutoff,
		},
		Probe: c.Reads.AmpliconProbe,
	}
}

// DegradeOptions translates the Degrade section into degrade.Options.
// fastqCorpus is a pre-loaded Phred corpus for the fastq/fastq-random
// methods (loaded by the caller from DegradeConfig.FastqPath1 or
// FastqPath2, since config itself performs no file I/O); paired runs
// call this once per read side.
func (c Config) DegradeOptions(fastqCorpus []string) (degrade.Options, error) {
	opts := degrade.Options{
		Method:      degrade.Method(c.Degrade.Method),
		Phred:       c.Degrade.Phred,
		Corpus:      fastqCorpus,
		Variability: c.Degrade.Variability,
	}
	if opts.Method == degrade.Logistic {
		params, err := parseLogistic(c.Degrade.Logistic)
		if err != nil {
			return degrade.Options{}, err
		}
		opts.Logistic = params
	}
	return opts, nil
}

// DisplayLogistic parses the logistic curve parameters regardless of
// which degradation method (if any) is configured, for the
// display-degradation mode, which renders the logistic table and exits.
func (c Config) DisplayLogistic() (degrade.LogisticParams, error) {
	return parseLogistic(c.Degrade.Logistic)
}

// parseLogistic parses the colon-separated "B:L:k:mid" form of
// --degrade-logistic.
func parseLogistic(s string) (degrade.LogisticParams, error) {
	var p degrade.LogisticParams
	n, err := fmt.Sscanf(s, "%g:%g:%g:%g", &p.BaseError, &p.L, &p.K, &p.Midpoint)
	if err != nil || n != 4 {
		return p, fmt.Errorf("config: malformed --degrade-logistic %q, want \"B:L:k:mid\"", s)
	}
	return p, nil
}
