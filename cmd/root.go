// Package cmd is for command line interactions with the tcrsim
// application.
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stigtools/tcrsim/config"
	"github.com/stigtools/tcrsim/internal/logging"
	engine "github.com/stigtools/tcrsim/internal/make"
)

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "tcrsim",
	Short: "Simulate TCR sequencing reads in silico",
	Long: `tcrsim synthesizes T-cell receptor sequencing reads in silico.

Given a library of germline V/D/J/C gene segments, a recombination
probability model, and reference chromosome sequences, it builds a
clonotype repertoire by simulating V(D)J recombination, distributes a
cell population across those clonotypes, and emits sequencing reads
(single-end, paired-end, or amplicon) with optional quality degradation.`,
	Version: "0.1.0",
	Run:     runGenerate,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to
// happen once to rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	flags := rootCmd.Flags()

	flags.String("working-dir", ".", "directory containing tcell_receptor.tsv, tcell_recombination.yaml, and chromosomes/")
	flags.String("out", "tcrsim-out", "output basename")
	flags.String("snapshot", "", "path to a serialized repertoire+population snapshot to load instead of generating")
	flags.Bool("snapshot-out", false, "write <out>.population.bin after generating a fresh repertoire")
	flags.Int64("seed", 0, "PRNG seed; 0 draws from the process entropy source")
	flags.String("log-level", "info", "log level: debug, info, warn, critical")

	flags.Int("repertoire-size", 1, "number of clonotypes (K) to generate")
	flags.Float64("ab-ratio", 0.9, "probability a clonotype is alpha/beta rather than gamma/delta")
	flags.Bool("tcr-unique", false, "reject a clonotype whose chain pair has already been seen")
	flags.Bool("chain-unique", false, "reject a clonotype if either chain's RNA has already been seen (implies tcr-unique)")
	flags.Bool("cdr3-unique", false, "reject a clonotype if either chain's CDR3 has already been seen (implies chain-unique)")
	flags.Bool("resample-unproductive", false, "resample clonotypes containing an unproductive chain")

	flags.Int("population-size", 1, "number of cells (N) to distribute across the repertoire")
	flags.String("population-distribution", "logisticcdf", "population distribution: equal, stripe, unimodal, chisquare, logisticcdf")
	flags.Float64("population-sigma", 1, "unimodal: standard deviations spanned by the discrete Gaussian")
	flags.Float64("population-chisquare-kdf", 2, "chisquare: degrees of freedom")
	flags.Float64("population-cutoff", 10, "chisquare/logisticcdf: span cutoff")
	flags.Float64("population-logistic-scale", 1, "logisticcdf: logistic scale parameter")

	flags.Int("sequence-count", 0, "number of reads (M) to generate")
	flags.String("space", "DNA", "read space: DNA or RNA")
	flags.String("read-type", "single", "read type: single, paired, amplicon")
	flags.Float64("read-length-mean", 100, "read length mean")
	flags.Float64("read-length-sd", 0, "read length standard deviation")
	flags.Float64("read-length-cutoff", 3, "read length truncation, in standard deviations")
	flags.Float64("insert-length-mean", 200, "paired/amplicon insert length mean")
	flags.Float64("insert-length-sd", 0, "paired/amplicon insert length standard deviation")
	flags.Float64("insert-length-cutoff", 3, "paired/amplicon insert length truncation, in standard deviations")
	flags.String("amplicon-probe", "", "amplicon probe sequence")

	flags.String("degrade-method", "", "degradation method: logistic, phred, fastq, fastq-random (empty disables degradation)")
	flags.String("degrade-logistic", "0.001:0.2:0.25:24", "logistic params \"B:L:k:mid\"")
	flags.String("degrade-phred", "", "phred: a single Phred+33 quality string")
	flags.String("degrade-fastq-r1", "", "fastq/fastq-random: path to a FASTQ file supplying the R1 quality corpus")
	flags.String("degrade-fastq-r2", "", "fastq/fastq-random: path to a FASTQ file supplying the R2 quality corpus (paired/amplicon only)")
	flags.Float64("degrade-variability", 0, "jitter applied to every base's error rate")
	flags.Bool("display-degradation", false, "print the logistic error-rate table for a read of read-length-mean and exit")

	if err := viper.BindPFlags(flags); err != nil {
		log.Fatalf("binding flags: %v", err)
	}
}

// runGenerate is rootCmd's Run function: it builds a config.Config from
// bound viper settings and delegates to the engine.
func runGenerate(cmd *cobra.Command, args []string) {
	cfg := config.New()
	logger := logging.Stderr(logging.ParseLevel(cfg.LogLevel))

	if err := engine.Run(cfg, logger); err != nil {
		logger.Criticalf("%v", err)
		os.Exit(engine.ExitCode(err))
	}
}
