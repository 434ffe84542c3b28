// Package degrade converts perfect reads into FASTQ records with
// per-base error rates drawn from a logistic curve or a corpus of Phred
// strings. A rate-model tag (Method) selects where the baseline error
// rate comes from; mutation and quality encoding share one code path.
package degrade

import (
	"fmt"
	"math"

	"github.com/stigtools/tcrsim/internal/sampler"
)

// Method is a tagged variant distinguished by which Options fields are
// populated.
type Method string

// Recognized methods.
const (
	Logistic    Method = "logistic"
	Phred       Method = "phred"
	Fastq       Method = "fastq"
	FastqRandom Method = "fastq-random"
)

// LogisticParams are the four parameters of the logistic error curve.
type LogisticParams struct {
	BaseError float64 // B
	L         float64 // amplitude: the rate rises toward BaseError + L
	K         float64 // steepness
	Midpoint  float64 // mid
}

// ErrorRate returns the baseline logistic error rate at 0-indexed base
// position i, before jitter.
func (p LogisticParams) ErrorRate(i int) float64 {
	return p.BaseError + p.L/(1+math.Exp(-p.K*(float64(i)-p.Midpoint)))
}

// Options configures a Degrader.
type Options struct {
	Method      Method
	Logistic    LogisticParams
	Phred       string   // phred: a single Phred+33 string
	Corpus      []string // fastq/fastq-random: a loaded corpus of Phred+33 strings
	Variability float64  // v: jitter applied to every method
}

// Degrader mutates perfect reads and encodes their quality strings.
type Degrader struct {
	Sampler *sampler.Sampler
	Opts    Options
}

// New returns a Degrader. opts.Method selects which rate model feeds
// the shared mutate/encode step.
func New(s *sampler.Sampler, opts Options) (*Degrader, error) {
	switch opts.Method {
	case Logistic, Phred, Fastq, FastqRandom:
	default:
		return nil, fmt.Errorf("degrade: unrecognized method %q", opts.Method)
	}
	if (opts.Method == Fastq || opts.Method == FastqRandom) && len(opts.Corpus) == 0 {
		return nil, fmt.Errorf("degrade: method %q requires a non-empty corpus", opts.Method)
	}
	if opts.Method == Phred && opts.Phred == "" {
		return nil, fmt.Errorf("degrade: method %q requires a phred string", opts.Method)
	}
	return &Degrader{Sampler: s, Opts: opts}, nil
}

// Result is a degraded read: the mutated base string and its Phred+33
// quality string.
type Result struct {
	Seq     string
	Quality string
}

// Degrade mutates one read. For the fastq method, readIndex selects
// the corpus entry (readIndex mod len(corpus)); fastq-random draws one
// uniformly. R1 and R2 use separate Degraders, each with its own
// corpus.
func (d *Degrader) Degrade(read string, readIndex int) Result {
	phredString := d.phredStringFor(readIndex)

	out := make([]byte, len(read))
	qual := make([]byte, len(read))
	for i := 0; i < len(read); i++ {
		errorRate := d.errorRateAt(i, phredString)
		errorRate = jitter(d.Sampler, errorRate, d.Opts.Variability)

		original := read[i]
		if d.Sampler.Float64() < errorRate {
			out[i] = d.Sampler.MutateBase(original)
		} else {
			out[i] = original
		}
		qual[i] = phredChar(errorRate)
	}
	return Result{Seq: string(out), Quality: string(qual)}
}

func (d *Degrader) phredStringFor(readIndex int) string {
	switch d.Opts.Method {
	case Phred:
		return d.Opts.Phred
	case Fastq:
		return d.Opts.Corpus[readIndex%len(d.Opts.Corpus)]
	case FastqRandom:
		return d.Opts.Corpus[d.Sampler.IntN(len(d.Opts.Corpus))]
	default:
		return ""
	}
}

// errorRateAt returns the baseline error rate (before jitter) for base
// position i, either from the logistic curve or from a Phred+33
// reference string. Positions past the reference string's end reuse
// its last character, so a length-1 string applies to every position.
func (d *Degrader) errorRateAt(i int, phredString string) float64 {
	if d.Opts.Method == Logistic {
		return d.Opts.Logistic.ErrorRate(i)
	}
	idx := i
	if idx >= len(phredString) {
		idx = len(phredString) - 1
	}
	return phredCharToError(phredString[idx])
}

// jitter scales rate by (1 + U(-v,+v)) and clamps the result to [0,1].
func jitter(s *sampler.Sampler, rate, variability float64) float64 {
	if variability != 0 {
		delta := (s.Float64()*2 - 1) * variability
		rate = rate * (1 + delta)
	}
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return rate
}

// phredChar encodes an error rate as Phred+33, with the score clamped
// to [0,41].
func phredChar(errorRate float64) byte {
	if errorRate <= 0 {
		return byte(41 + 33)
	}
	score := int(math.Round(-10 * math.Log10(errorRate)))
	if score > 41 {
		score = 41
	}
	if score < 0 {
		score = 0
	}
	return byte(score + 33)
}

// phredCharToError inverts Phred+33 encoding back to an error rate.
func phredCharToError(c byte) float64 {
	score := float64(c) - 33
	return math.Pow(10, -score/10)
}

// Display returns the logistic error rate for each position of a read
// of the given length, for the display-degradation mode, which prints
// the table and exits without generating reads.
func Display(p LogisticParams, length int) []float64 {
	rates := make([]float64, length)
	for i := 0; i < length; i++ {
		rates[i] = p.ErrorRate(i)
	}
	return rates
}
