package make

import (
	"fmt"

	"github.com/stigtools/tcrsim/config"
	"github.com/stigtools/tcrsim/internal/degrade"
	ioutil "github.com/stigtools/tcrsim/internal/io"
	"github.com/stigtools/tcrsim/internal/logging"
	"github.com/stigtools/tcrsim/internal/population"
	"github.com/stigtools/tcrsim/internal/reads"
	"github.com/stigtools/tcrsim/internal/repertoire"
	"github.com/stigtools/tcrsim/internal/sampler"
)

// simulateAndWrite draws reads from the materialized
// repertoire+population and writes the perfect FASTQ(s) plus, if a
// degradation method is configured, the degraded FASTQ(s).
func simulateAndWrite(cfg config.Config, clonotypes []repertoire.Clonotype, cells []int, samp *sampler.Sampler, log *logging.Logger) error {
	members := population.NewMembers(cells)
	opts := cfg.ReadOptions()
	opts.OnWarn = func(msg string) { log.Warnf(msg) }
	sim := reads.New(clonotypes, members, samp, opts)

	records, err := sim.Run(cfg.Reads.SequenceCount)
	if err != nil {
		return &DataError{Err: err}
	}

	paired := cfg.Reads.Type != string(reads.Single)

	if err := writePerfect(cfg, records, paired); err != nil {
		return err
	}

	if cfg.Degrade.Method == "" {
		return nil
	}
	return writeDegraded(cfg, records, paired, samp)
}

func writePerfect(cfg config.Config, records []reads.Record, paired bool) error {
	if !paired {
		out := make([]ioutil.FastqRecord, len(records))
		for i, rec := range records {
			out[i] = perfectRecord(readID(rec.R1.Index, ""), rec.R1)
		}
		return writeFastqOrErr(cfg.OutputBase+".fastq", out)
	}

	r1 := make([]ioutil.FastqRecord, len(records))
	r2 := make([]ioutil.FastqRecord, len(records))
	for i, rec := range records {
		r1[i] = perfectRecord(readID(rec.R1.Index, "/1"), rec.R1)
		r2[i] = perfectRecord(readID(rec.R2.Index, "/2"), *rec.R2)
	}
	if err := writeFastqOrErr(cfg.OutputBase+"_R1.fastq", r1); err != nil {
		return err
	}
	return writeFastqOrErr(cfg.OutputBase+"_R2.fastq", r2)
}

func writeDegraded(cfg config.Config, records []reads.Record, paired bool, samp *sampler.Sampler) error {
	corpus1, corpus2, err := loadCorpora(cfg, paired)
	if err != nil {
		return err
	}

	opts1, err := cfg.DegradeOptions(corpus1)
	if err != nil {
		return &ConfigError{Err: err}
	}
	deg1, err := degrade.New(samp, opts1)
	if err != nil {
		return &ConfigError{Err: err}
	}

	if !paired {
		out := make([]ioutil.FastqRecord, len(records))
		for i, rec := range records {
			out[i] = degradedRecord(readID(rec.R1.Index, ""), rec.R1, deg1)
		}
		return writeFastqOrErr(cfg.OutputBase+".degraded.fastq", out)
	}

	opts2, err := cfg.DegradeOptions(corpus2)
	if err != nil {
		return &ConfigError{Err: err}
	}
	deg2, err := degrade.New(samp, opts2)
	if err != nil {
		return &ConfigError{Err: err}
	}

	r1 := make([]ioutil.FastqRecord, len(records))
	r2 := make([]ioutil.FastqRecord, len(records))
	for i, rec := range records {
		r1[i] = degradedRecord(readID(rec.R1.Index, "/1"), rec.R1, deg1)
		r2[i] = degradedRecord(readID(rec.R2.Index, "/2"), *rec.R2, deg2)
	}
	if err := writeFastqOrErr(cfg.OutputBase+"_R1.degraded.fastq", r1); err != nil {
		return err
	}
	return writeFastqOrErr(cfg.OutputBase+"_R2.degraded.fastq", r2)
}

// loadCorpora loads the Phred+33 corpora the "fastq"/"fastq-random"
// methods need from existing FASTQ files. Paired/amplicon runs require
// two corpora; single-end runs take exactly one.
func loadCorpora(cfg config.Config, paired bool) (corpus1, corpus2 []string, err error) {
	if cfg.Degrade.Method != "fastq" && cfg.Degrade.Method != "fastq-random" {
		return nil, nil, nil
	}
	if paired && cfg.Degrade.FastqPath2 == "" {
		return nil, nil, &ConfigError{Err: fmt.Errorf("make: paired/amplicon degradation requires two fastq corpora (--degrade-fastq-r1 and --degrade-fastq-r2)")}
	}
	if !paired && cfg.Degrade.FastqPath2 != "" {
		return nil, nil, &ConfigError{Err: fmt.Errorf("make: single-end degradation takes one fastq corpus, got two")}
	}
	corpus1, err = ioutil.ReadQualityCorpus(cfg.Degrade.FastqPath1)
	if err != nil {
		return nil, nil, &DataError{Err: err}
	}
	if paired {
		corpus2, err = ioutil.ReadQualityCorpus(cfg.Degrade.FastqPath2)
		if err != nil {
			return nil, nil, &DataError{Err: err}
		}
	}
	return corpus1, corpus2, nil
}

func perfectRecord(id string, r reads.Read) ioutil.FastqRecord {
	return ioutil.FastqRecord{ID: id, Comment: r.Comment(), Seq: r.Seq, Quality: ioutil.PerfectQuality(len(r.Seq))}
}

func degradedRecord(id string, r reads.Read, deg *degrade.Degrader) ioutil.FastqRecord {
	res := deg.Degrade(r.Seq, r.Index)
	return ioutil.FastqRecord{ID: ioutil.DegradedID(id), Comment: r.Comment(), Seq: res.Seq, Quality: res.Quality}
}

func readID(index int, suffix string) string {
	return fmt.Sprintf("read_%d%s", index, suffix)
}

func writeFastqOrErr(path string, records []ioutil.FastqRecord) error {
	if err := ioutil.WriteFastq(path, records); err != nil {
		return &DataError{Err: err}
	}
	return nil
}
