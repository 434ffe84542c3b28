package io

import (
	"encoding/gob"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/stigtools/tcrsim/internal/catalog"
	"github.com/stigtools/tcrsim/internal/chain"
	"github.com/stigtools/tcrsim/internal/repertoire"
)

// Snapshot is the opaque, serializable form of a materialized
// repertoire+population: chains are recorded as plain records
// referencing segments by name, never by pointer, so the snapshot has
// no back-references into a live Catalog. On thaw, segments are
// re-resolved against the Catalog the caller supplies; a mismatched
// catalog is a data error.
type Snapshot struct {
	Clonotypes []ClonotypeSnapshot
	Cells      []int // population cell counts, index-aligned with Clonotypes
	RNGState   []byte
}

// ClonotypeSnapshot is one clonotype, referencing its segments by
// stable name+allele rather than by pointer.
type ClonotypeSnapshot struct {
	Chain1, Chain2 ChainSnapshot
}

// ChainSnapshot is one chain, with its V/D/J/C segments recorded as
// name+allele pairs (D is empty for alpha/gamma chains).
type ChainSnapshot struct {
	Locus      catalog.Locus
	V          segmentRef
	D          segmentRef
	J          segmentRef
	C          segmentRef
	Junction   chain.JunctionCounts
	DNA        string
	RNA        string
	CDR3       string
	Productive bool
}

type segmentRef struct {
	Name   string
	Allele string
	Empty  bool
}

func refOf(s *catalog.Segment) segmentRef {
	if s == nil {
		return segmentRef{Empty: true}
	}
	return segmentRef{Name: s.Name, Allele: s.Allele}
}

func (r segmentRef) resolve(cat *catalog.Catalog) (*catalog.Segment, error) {
	if r.Empty {
		return nil, nil
	}
	s, ok := cat.Lookup(r.Name, r.Allele)
	if !ok {
		return nil, fmt.Errorf("io: snapshot references unknown segment %q (allele %q); catalog mismatch", r.Name, r.Allele)
	}
	return s, nil
}

// Freeze builds a Snapshot from a live repertoire, population, and the
// run's PCG source. src may be nil when the caller has no RNG state
// worth preserving.
func Freeze(clonotypes []repertoire.Clonotype, cells []int, src *rand.PCG) (Snapshot, error) {
	out := Snapshot{Cells: cells}
	if src != nil {
		state, err := src.MarshalBinary()
		if err != nil {
			return Snapshot{}, fmt.Errorf("io: marshaling RNG state: %w", err)
		}
		out.RNGState = state
	}

	for _, c := range clonotypes {
		out.Clonotypes = append(out.Clonotypes, ClonotypeSnapshot{
			Chain1: chainSnapshotOf(c.Chain1),
			Chain2: chainSnapshotOf(c.Chain2),
		})
	}
	return out, nil
}

func chainSnapshotOf(c *chain.Chain) ChainSnapshot {
	return ChainSnapshot{
		Locus: c.Locus, V: refOf(c.V), D: refOf(c.D), J: refOf(c.J), C: refOf(c.C),
		Junction: c.Junction, DNA: c.DNA, RNA: c.RNA, CDR3: c.CDR3, Productive: c.Productive,
	}
}

// Thaw rehydrates a Snapshot against cat, re-resolving every segment
// reference. It errors if any referenced segment is absent from cat.
func Thaw(snap Snapshot, cat *catalog.Catalog) ([]repertoire.Clonotype, []int, error) {
	out := make([]repertoire.Clonotype, 0, len(snap.Clonotypes))
	for _, cs := range snap.Clonotypes {
		c1, err := chainOf(cs.Chain1, cat)
		if err != nil {
			return nil, nil, err
		}
		c2, err := chainOf(cs.Chain2, cat)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, repertoire.Clonotype{Chain1: c1, Chain2: c2})
	}
	return out, snap.Cells, nil
}

func chainOf(cs ChainSnapshot, cat *catalog.Catalog) (*chain.Chain, error) {
	v, err := cs.V.resolve(cat)
	if err != nil {
		return nil, err
	}
	d, err := cs.D.resolve(cat)
	if err != nil {
		return nil, err
	}
	j, err := cs.J.resolve(cat)
	if err != nil {
		return nil, err
	}
	c, err := cs.C.resolve(cat)
	if err != nil {
		return nil, err
	}
	return &chain.Chain{
		Locus: cs.Locus, V: v, D: d, J: j, C: c,
		Junction: cs.Junction, DNA: cs.DNA, RNA: cs.RNA, CDR3: cs.CDR3, Productive: cs.Productive,
	}, nil
}

// WriteSnapshot gob-encodes snap to path.
func WriteSnapshot(path string, snap Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("io: creating snapshot file %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("io: encoding snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a Snapshot previously written by WriteSnapshot.
func ReadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("io: opening snapshot file %s: %w", path, err)
	}
	defer f.Close()

	var snap Snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("io: decoding snapshot %s: %w", path, err)
	}
	return snap, nil
}

// RestoreRNGState rehydrates src from snapshot RNG state, if present,
// so that a thawed run resumes the exact PRNG stream the snapshot was
// taken from.
func RestoreRNGState(src *rand.PCG, state []byte) error {
	if len(state) == 0 {
		return nil
	}
	if err := src.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("io: restoring RNG state: %w", err)
	}
	return nil
}
