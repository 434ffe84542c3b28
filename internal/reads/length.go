package reads

import (
	"github.com/stigtools/tcrsim/internal/sampler"
)

// LengthParams is the (mean, sd, sd-cutoff) triple used for both read
// and insert length sampling.
type LengthParams struct {
	Mean   float64
	SD     float64
	Cutoff float64 // c: truncate to [mean-c*sd, mean+c*sd]
}

// SampleLength draws ell ~ N(mean, sd^2) truncated to
// [mean-c*sd, mean+c*sd] and rounded to a positive integer; if sd == 0,
// ell == mean exactly.
func SampleLength(s *sampler.Sampler, p LengthParams) int {
	if p.SD == 0 {
		return roundPositive(p.Mean)
	}
	lo := p.Mean - p.Cutoff*p.SD
	hi := p.Mean + p.Cutoff*p.SD
	for {
		x := p.Mean + s.NormFloat64()*p.SD
		if x >= lo && x <= hi {
			n := roundPositive(x)
			if n > 0 {
				return n
			}
		}
	}
}

func roundPositive(x float64) int {
	n := int(x + 0.5)
	if n < 1 {
		return 1
	}
	return n
}
