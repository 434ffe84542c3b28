// Package repertoire pairs chains into alpha/beta or gamma/delta
// clonotypes, enforces uniqueness constraints, and materializes the
// full repertoire before population distribution begins.
package repertoire

import (
	"fmt"

	"github.com/stigtools/tcrsim/internal/catalog"
	"github.com/stigtools/tcrsim/internal/chain"
	"github.com/stigtools/tcrsim/internal/sampler"
)

// Clonotype is either one alpha + one beta chain, or one gamma + one
// delta chain.
type Clonotype struct {
	Chain1 *chain.Chain
	Chain2 *chain.Chain
}

// Uniqueness selects which rejection policies to enforce. CDR3Unique
// implies ChainUnique, which implies TCRUnique.
type Uniqueness struct {
	TCRUnique   bool
	ChainUnique bool
	CDR3Unique  bool
}

// CapacityError is raised when a repertoire slot cannot be filled
// within its retry budget.
type CapacityError struct {
	K          int
	Slot       int
	Attempts   int
	Constraint string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("repertoire: could not fill slot %d/%d within %d attempts under %s constraint",
		e.Slot, e.K, e.Attempts, e.Constraint)
}

// Options configures Build.
type Options struct {
	K              int
	AlphaBetaRatio float64 // r in [0,1]: Bernoulli(r) selects alpha/beta over gamma/delta
	Uniqueness     Uniqueness
	MaxRetries     int // per-slot retry budget, default 1000

	// ResampleUnproductive retries unproductive chains instead of
	// keeping them; retries still consume the slot's budget.
	ResampleUnproductive bool

	OnWarn func(msg string)
}

// Build constructs Options.K clonotypes.
func Build(builder *chain.Builder, s *sampler.Sampler, opts Options) ([]Clonotype, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1000
	}

	seenPairs := make(map[string]bool)
	seenChains := make(map[catalog.Locus]map[string]bool)
	seenCDR3 := make(map[string]bool)

	out := make([]Clonotype, 0, opts.K)
	for slot := 0; slot < opts.K; slot++ {
		var locus1, locus2 catalog.Locus
		if s.Float64() < opts.AlphaBetaRatio {
			locus1, locus2 = catalog.TRA, catalog.TRB
		} else {
			locus1, locus2 = catalog.TRG, catalog.TRD
		}

		attempts := 0
		for {
			attempts++
			if attempts > opts.MaxRetries {
				return nil, &CapacityError{K: opts.K, Slot: slot, Attempts: opts.MaxRetries, Constraint: constraintName(opts.Uniqueness)}
			}

			c1, err := builder.Build(locus1)
			if err != nil {
				return nil, err
			}
			c2, err := builder.Build(locus2)
			if err != nil {
				return nil, err
			}

			if opts.ResampleUnproductive && (!c1.Productive || !c2.Productive) {
				if opts.OnWarn != nil {
					opts.OnWarn("unproductive chain resampled")
				}
				continue
			}

			if rejected(c1, c2, opts.Uniqueness, seenPairs, seenChains, seenCDR3) {
				continue
			}

			recordSeen(c1, c2, seenPairs, seenChains, seenCDR3)
			out = append(out, Clonotype{Chain1: c1, Chain2: c2})
			break
		}
	}
	return out, nil
}

func constraintName(u Uniqueness) string {
	switch {
	case u.CDR3Unique:
		return "CDR3-unique"
	case u.ChainUnique:
		return "chain-unique"
	case u.TCRUnique:
		return "TCR-unique"
	default:
		return "none"
	}
}

func rejected(c1, c2 *chain.Chain, u Uniqueness, seenPairs map[string]bool, seenChains map[catalog.Locus]map[string]bool, seenCDR3 map[string]bool) bool {
	pairKey := c1.RNA + "|" + c2.RNA

	if u.CDR3Unique || u.ChainUnique {
		if seenChains[c1.Locus][c1.RNA] || seenChains[c2.Locus][c2.RNA] {
			return true
		}
	}
	if u.TCRUnique || u.ChainUnique || u.CDR3Unique {
		if seenPairs[pairKey] {
			return true
		}
	}
	if u.CDR3Unique {
		if seenCDR3[c1.CDR3] || seenCDR3[c2.CDR3] {
			return true
		}
	}
	return false
}

func recordSeen(c1, c2 *chain.Chain, seenPairs map[string]bool, seenChains map[catalog.Locus]map[string]bool, seenCDR3 map[string]bool) {
	seenPairs[c1.RNA+"|"+c2.RNA] = true
	if seenChains[c1.Locus] == nil {
		seenChains[c1.Locus] = make(map[string]bool)
	}
	if seenChains[c2.Locus] == nil {
		seenChains[c2.Locus] = make(map[string]bool)
	}
	seenChains[c1.Locus][c1.RNA] = true
	seenChains[c2.Locus][c2.RNA] = true
	seenCDR3[c1.CDR3] = true
	seenCDR3[c2.CDR3] = true
}
