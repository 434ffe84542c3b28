// Package population maps a population of N cells onto K clonotypes
// via one of five statistical distributions.
package population

import (
	"fmt"
	"math"

	"github.com/stigtools/tcrsim/internal/sampler"
)

// Mode selects one of the five distribution rules.
type Mode string

// Recognized modes.
const (
	Equal       Mode = "equal"
	Stripe      Mode = "stripe"
	Unimodal    Mode = "unimodal"
	ChiSquare   Mode = "chisquare"
	LogisticCDF Mode = "logisticcdf" // default
)

// Params carries the mode-specific parameters; only the fields relevant
// to the chosen Mode need be set.
type Params struct {
	Mode Mode
	N    int
	K    int

	// unimodal
	Sigma float64

	// chisquare
	KDF    float64
	Cutoff float64

	// logisticcdf
	Scale float64
	// Cutoff reused for logisticcdf's [-cutoff,+cutoff] span.
}

// Distribute returns cells[k] for k in [0,K). Rounding and sampling
// slack keep sum(cells) within K of N.
func Distribute(s *sampler.Sampler, p Params) ([]int, error) {
	if p.K <= 0 {
		return nil, fmt.Errorf("population: K must be positive")
	}
	if p.N < 0 {
		return nil, fmt.Errorf("population: N must be non-negative")
	}

	switch p.Mode {
	case Equal:
		return equalDistribute(s, p.N, p.K), nil
	case Stripe:
		return stripeDistribute(p.N, p.K), nil
	case Unimodal:
		weights := gaussianWeights(p.K, p.Sigma)
		return multinomial(s, p.N, weights), nil
	case ChiSquare:
		weights := chiSquareWeights(p.K, p.KDF, p.Cutoff)
		return multinomial(s, p.N, weights), nil
	case LogisticCDF, "":
		weights := logisticCDFWeights(p.K, p.Scale, p.Cutoff)
		return multinomial(s, p.N, weights), nil
	default:
		return nil, fmt.Errorf("population: unrecognized mode %q", p.Mode)
	}
}

// equalDistribute: each cell independently chooses a clonotype uniformly.
func equalDistribute(s *sampler.Sampler, n, k int) []int {
	cells := make([]int, k)
	for i := 0; i < n; i++ {
		cells[s.IntN(k)]++
	}
	return cells
}

// stripeDistribute: cell n goes to k = n mod K, giving ceil(N/K) or
// floor(N/K) per bin.
func stripeDistribute(n, k int) []int {
	cells := make([]int, k)
	for i := 0; i < n; i++ {
		cells[i%k]++
	}
	return cells
}

// gaussianWeights builds an unnormalized discrete Gaussian over K bins
// spanning +/- sigma standard deviations, centered on the middle bin:
// bin i sits at x_i in [-sigma, +sigma] and receives the standard-normal
// density exp(-x_i^2/2).
func gaussianWeights(k int, sigma float64) []float64 {
	weights := make([]float64, k)
	if k == 1 {
		weights[0] = 1
		return weights
	}
	if sigma <= 0 {
		sigma = 1
	}
	step := (2 * sigma) / float64(k-1)
	for i := 0; i < k; i++ {
		x := -sigma + float64(i)*step
		weights[i] = math.Exp(-0.5 * x * x)
	}
	return weights
}

// chiSquareWeights evaluates the chi-square(kdf) PDF at K equally spaced
// points over [0, cutoff].
func chiSquareWeights(k int, kdf, cutoff float64) []float64 {
	weights := make([]float64, k)
	if k == 1 {
		weights[0] = 1
		return weights
	}
	if cutoff <= 0 {
		cutoff = 1
	}
	step := cutoff / float64(k-1)
	for i := 0; i < k; i++ {
		x := float64(i) * step
		weights[i] = chiSquarePDF(x, kdf)
	}
	return weights
}

func chiSquarePDF(x, kdf float64) float64 {
	if x <= 0 {
		x = 1e-9
	}
	k2 := kdf / 2
	num := math.Pow(x, k2-1) * math.Exp(-x/2)
	den := math.Pow(2, k2) * math.Gamma(k2)
	return num / den
}

// logisticCDFWeights evaluates the logistic CDF with scale s at K
// equally spaced points over [-cutoff, +cutoff].
func logisticCDFWeights(k int, scale, cutoff float64) []float64 {
	weights := make([]float64, k)
	if k == 1 {
		weights[0] = 1
		return weights
	}
	if scale <= 0 {
		scale = 1
	}
	if cutoff <= 0 {
		cutoff = 1
	}
	step := (2 * cutoff) / float64(k-1)
	for i := 0; i < k; i++ {
		x := -cutoff + float64(i)*step
		weights[i] = 1 / (1 + math.Exp(-x/scale))
	}
	return weights
}

// multinomial normalizes weights and draws N cells from the resulting
// categorical distribution.
func multinomial(s *sampler.Sampler, n int, weights []float64) []int {
	k := len(weights)
	cells := make([]int, k)
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return equalDistribute(s, n, k)
	}
	items := make([]sampler.Item[int], k)
	for i, w := range weights {
		items[i] = sampler.Item[int]{Value: i, Weight: w / sum, Defined: true}
	}
	for i := 0; i < n; i++ {
		idx, _ := sampler.Weighted(s, items)
		cells[idx]++
	}
	return cells
}
