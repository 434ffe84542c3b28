package reads

import (
	"fmt"
	"strings"

	"github.com/stigtools/tcrsim/internal/dna"
	"github.com/stigtools/tcrsim/internal/population"
	"github.com/stigtools/tcrsim/internal/repertoire"
	"github.com/stigtools/tcrsim/internal/sampler"
)

// Record is one emitted read event: a single read, or a read pair
// (paired/amplicon).
type Record struct {
	R1 Read
	R2 *Read
}

// Options configures a Simulator.
type Options struct {
	Space     Space
	Type      Type
	ReadLen   LengthParams
	InsertLen LengthParams
	Probe     string // amplicon only

	MaxAmpliconRetries int
	OnWarn             func(msg string)
}

// Simulator draws reads from a materialized Repertoire+Population.
type Simulator struct {
	Clonotypes []repertoire.Clonotype
	Members    *population.Members
	Sampler    *sampler.Sampler
	Opts       Options
}

// New returns a Simulator over clonotypes/members, warning once (via
// opts.OnWarn) if read-length mean exceeds insert-length mean for
// paired/amplicon runs.
func New(clonotypes []repertoire.Clonotype, members *population.Members, s *sampler.Sampler, opts Options) *Simulator {
	if opts.MaxAmpliconRetries <= 0 {
		opts.MaxAmpliconRetries = 1000
	}
	if opts.Type != Single && opts.ReadLen.Mean > opts.InsertLen.Mean && opts.OnWarn != nil {
		opts.OnWarn("read-length mean exceeds insert-length mean; reads will overlap heavily")
	}
	return &Simulator{Clonotypes: clonotypes, Members: members, Sampler: s, Opts: opts}
}

// Run draws m records, one read or read pair per iteration.
func (sim *Simulator) Run(m int) ([]Record, error) {
	out := make([]Record, 0, m)
	for i := 0; i < m; i++ {
		rec, err := sim.one(i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (sim *Simulator) one(index int) (Record, error) {
	switch sim.Opts.Type {
	case Single:
		return sim.single(index)
	case Paired:
		return sim.paired(index)
	case Amplicon:
		return sim.amplicon(index)
	default:
		return Record{}, fmt.Errorf("reads: unrecognized read type %q", sim.Opts.Type)
	}
}

// pickBody implements step 1-3: pick a cell, pick one of its two
// chains, and return that chain's body in the configured space.
func (sim *Simulator) pickBody() (body string, clonotypeIdx, cellID, side int) {
	cellID, clonotypeIdx = sim.Members.Pick(sim.Sampler)
	clono := sim.Clonotypes[clonotypeIdx]

	side = 1
	ch := clono.Chain1
	if sim.Sampler.Float64() < 0.5 {
		side = 2
		ch = clono.Chain2
	}

	if sim.Opts.Space == RNASpace {
		body = ch.RNA
	} else {
		body = ch.DNA
	}
	return body, clonotypeIdx, cellID, side
}

func (sim *Simulator) single(index int) (Record, error) {
	body, clonotypeIdx, cellID, side := sim.pickBody()

	length := SampleLength(sim.Sampler, sim.Opts.ReadLen)
	if length > len(body) {
		length = len(body)
	}
	start := sim.Sampler.IntN(len(body) - length + 1)
	seq := body[start : start+length]

	orientation := Plus
	if sim.Sampler.Float64() < 0.5 {
		orientation = Minus
		seq = dna.ReverseComplement(seq)
	}

	r := Read{
		Index: index, Seq: seq, Orientation: orientation,
		Start: start, End: start + length,
		ClonotypeIdx: clonotypeIdx, CellID: cellID, ChainSide: side,
	}
	return Record{R1: r}, nil
}

func (sim *Simulator) paired(index int) (Record, error) {
	body, clonotypeIdx, cellID, side := sim.pickBody()

	insertLen := SampleLength(sim.Sampler, sim.Opts.InsertLen)
	if insertLen > len(body) {
		insertLen = len(body)
	}
	start := sim.Sampler.IntN(len(body) - insertLen + 1)

	len1 := SampleLength(sim.Sampler, sim.Opts.ReadLen)
	if len1 > insertLen {
		len1 = insertLen
	}
	len2 := SampleLength(sim.Sampler, sim.Opts.ReadLen)
	if len2 > insertLen {
		len2 = insertLen
	}

	r1Seq := body[start : start+len1]
	r2Seq := dna.ReverseComplement(body[start+insertLen-len2 : start+insertLen])

	r1 := Read{
		Index: index, Seq: r1Seq, Orientation: Plus,
		Start: start, End: start + len1,
		ClonotypeIdx: clonotypeIdx, CellID: cellID, ChainSide: side,
		InsertLength: insertLen,
	}
	r2 := Read{
		Index: index, Seq: r2Seq, Orientation: Minus,
		Start: start + insertLen - len2, End: start + insertLen,
		ClonotypeIdx: clonotypeIdx, CellID: cellID, ChainSide: side,
		InsertLength: insertLen,
	}
	r1.Mate, r2.Mate = &r2, &r1
	return Record{R1: r1, R2: &r2}, nil
}

// amplicon aligns the probe to the picked chain's body on sense and
// antisense, retrying with a fresh cell on no match and aborting after
// MaxAmpliconRetries when the probe matches no cell in the population.
func (sim *Simulator) amplicon(index int) (Record, error) {
	probe := strings.ToUpper(sim.Opts.Probe)
	probeRC := dna.ReverseComplement(probe)

	for attempt := 0; attempt < sim.Opts.MaxAmpliconRetries; attempt++ {
		body, clonotypeIdx, cellID, side := sim.pickBody()

		start, ok := alignProbe(body, probe, probeRC)
		if !ok {
			continue
		}

		length := SampleLength(sim.Sampler, sim.Opts.ReadLen)
		if start+length > len(body) {
			length = len(body) - start
		}
		if length <= 0 {
			continue
		}

		r1Seq := body[start : start+length]
		// R2 is the exact reverse complement of R1 (see DESIGN.md on the
		// amplicon contract).
		r2Seq := dna.ReverseComplement(r1Seq)

		r1 := Read{
			Index: index, Seq: r1Seq, Orientation: Plus,
			Start: start, End: start + length,
			ClonotypeIdx: clonotypeIdx, CellID: cellID, ChainSide: side,
		}
		r2 := Read{
			Index: index, Seq: r2Seq, Orientation: Minus,
			Start: start, End: start + length,
			ClonotypeIdx: clonotypeIdx, CellID: cellID, ChainSide: side,
		}
		r1.Mate, r2.Mate = &r2, &r1
		return Record{R1: r1, R2: &r2}, nil
	}
	return Record{}, fmt.Errorf("reads: amplicon probe %q matched no chain after %d attempts", sim.Opts.Probe, sim.Opts.MaxAmpliconRetries)
}

// alignProbe returns the 3' end (the position immediately after the
// alignment) of the first probe match found on either strand.
func alignProbe(body, probe, probeRC string) (start int, ok bool) {
	if i := strings.Index(body, probe); i >= 0 {
		return i + len(probe), true
	}
	if i := strings.Index(body, probeRC); i >= 0 {
		return i + len(probeRC), true
	}
	return 0, false
}
