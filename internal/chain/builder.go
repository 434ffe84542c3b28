package chain

import (
	"fmt"

	"github.com/stigtools/tcrsim/internal/catalog"
	"github.com/stigtools/tcrsim/internal/recomb"
	"github.com/stigtools/tcrsim/internal/sampler"
)

// Builder constructs recombined chains for a fixed Catalog and
// RecombinationModel, drawing from a shared Sampler.
type Builder struct {
	Catalog *catalog.Catalog
	Table   *recomb.Table
	Sampler *sampler.Sampler
}

// NewBuilder returns a Builder wired to the given catalog, table and
// sampler. All three are shared across every chain the run builds.
func NewBuilder(cat *catalog.Catalog, table *recomb.Table, s *sampler.Sampler) *Builder {
	return &Builder{Catalog: cat, Table: table, Sampler: s}
}

// Build runs one full recombination for the given locus. It returns a
// Chain regardless of whether the result is productive; callers
// implementing a resample policy check Chain.Productive.
func (b *Builder) Build(locus catalog.Locus) (*Chain, error) {
	vCandidates := b.Catalog.Candidates(locus, catalog.V)
	if len(vCandidates) == 0 {
		return nil, fmt.Errorf("chain: no V segments for locus %s", locus)
	}
	v, err := b.sampleSegment(vCandidates, func(s *catalog.Segment) (float64, bool) {
		return b.Table.Tuple(s.Name)
	})
	if err != nil {
		return nil, err
	}

	usesD := locus == catalog.TRB || locus == catalog.TRD

	var d *catalog.Segment
	var jCandidates []*catalog.Segment
	if usesD {
		dCandidates := catalog.DownstreamOf(b.Catalog.Candidates(locus, catalog.D), v)
		if len(dCandidates) == 0 {
			return nil, fmt.Errorf("chain: no D segments downstream of %s", v.Name)
		}
		d, err = b.sampleSegment(dCandidates, func(s *catalog.Segment) (float64, bool) {
			return b.Table.Tuple(v.Name, s.Name)
		})
		if err != nil {
			return nil, err
		}
		jCandidates = catalog.DownstreamOf(b.Catalog.Candidates(locus, catalog.J), d)
	} else {
		jCandidates = catalog.DownstreamOf(b.Catalog.Candidates(locus, catalog.J), v)
	}
	if len(jCandidates) == 0 {
		return nil, fmt.Errorf("chain: no J segments downstream of V/D for locus %s", locus)
	}

	var j *catalog.Segment
	if usesD {
		j, err = b.sampleSegment(jCandidates, func(s *catalog.Segment) (float64, bool) {
			return b.Table.Tuple(v.Name, d.Name, s.Name)
		})
	} else {
		j, err = b.sampleSegment(jCandidates, func(s *catalog.Segment) (float64, bool) {
			return b.Table.Tuple(v.Name, s.Name)
		})
	}
	if err != nil {
		return nil, err
	}

	cCandidates := b.Catalog.Candidates(locus, catalog.C)
	c, ok := catalog.NearestDownstream(cCandidates, j)
	if !ok {
		return nil, fmt.Errorf("chain: no C segment downstream of %s", j.Name)
	}

	counts := JunctionCounts{}
	counts.V3 = b.Sampler.Indexed(recomb.Vchewback, b.Table.Array(recomb.Vchewback))
	counts.J5 = b.Sampler.Indexed(recomb.Jchewback, b.Table.Array(recomb.Jchewback))

	vDNA, vRNA := chewback3Prime(v, counts.V3)
	jDNA, jRNA := chewback5Prime(j, counts.J5)
	cDNA, cRNA := spliced(c)

	var dna, rna string
	if usesD {
		counts.D5 = b.Sampler.Indexed(recomb.D5chewback, b.Table.Array(recomb.D5chewback))
		counts.D3 = b.Sampler.Indexed(recomb.D3chewback, b.Table.Array(recomb.D3chewback))
		counts.NVD = b.Sampler.Indexed(recomb.VDaddition, b.Table.Array(recomb.VDaddition))
		counts.NDJ = b.Sampler.Indexed(recomb.DJaddition, b.Table.Array(recomb.DJaddition))

		dDNA, dRNA := chewbackBothEnds(d, counts.D5, counts.D3)
		nvd := b.Sampler.Nucleotides(counts.NVD)
		ndj := b.Sampler.Nucleotides(counts.NDJ)

		dna = vDNA + nvd + dDNA + ndj + jDNA + cDNA
		rna = vRNA + nvd + dRNA + ndj + jRNA + cRNA
	} else {
		counts.NVJ = b.Sampler.Indexed(recomb.VJaddition, b.Table.Array(recomb.VJaddition))
		nvj := b.Sampler.Nucleotides(counts.NVJ)

		dna = vDNA + nvj + jDNA + cDNA
		rna = vRNA + nvj + jRNA + cRNA
	}

	ch := &Chain{
		Locus:    locus,
		V:        v,
		D:        d,
		J:        j,
		C:        c,
		Junction: counts,
		DNA:      dna,
		RNA:      rna,
	}

	cdr3, productive := IdentifyCDR3(rna)
	ch.CDR3 = cdr3
	ch.Productive = productive

	return ch, nil
}

// sampleSegment wraps sampler.Weighted for a slice of candidate
// segments, pulling the defined/residual split from weightOf.
func (b *Builder) sampleSegment(candidates []*catalog.Segment, weightOf func(*catalog.Segment) (float64, bool)) (*catalog.Segment, error) {
	items := make([]sampler.Item[*catalog.Segment], len(candidates))
	for i, c := range candidates {
		w, defined := weightOf(c)
		items[i] = sampler.Item[*catalog.Segment]{Value: c, Weight: w, Defined: defined}
	}
	chosen, ok := sampler.Weighted(b.Sampler, items)
	if !ok {
		return nil, fmt.Errorf("chain: sampler produced no candidate")
	}
	return chosen, nil
}
