package catalog

import "fmt"

// Catalog is an immutable index of germline segments, keyed for the
// lookups ChainBuilder needs: by locus+role, and by name for snapshot
// rehydration (see internal/io/snapshot.go).
//
// Indexed slices keep the hot sampling path in internal/chain from
// doing a linear scan of the entire segment list.
type Catalog struct {
	segments []Segment
	byName   map[string]*Segment
	byLocus  map[Locus]map[Role][]*Segment
}

// New builds a Catalog from a flat segment list, indexing by name and by
// locus/role for fast candidate enumeration. The Catalog takes ownership
// of the slice; callers should not mutate segments afterward.
func New(segments []Segment) (*Catalog, error) {
	c := &Catalog{
		segments: segments,
		byName:   make(map[string]*Segment, len(segments)),
		byLocus:  make(map[Locus]map[Role][]*Segment),
	}
	for i := range c.segments {
		s := &c.segments[i]
		if err := s.Validate(); err != nil {
			return nil, err
		}
		key := alleleKey(s.Name, s.Allele)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate segment %s", key)
		}
		c.byName[key] = s
		if c.byLocus[s.Locus] == nil {
			c.byLocus[s.Locus] = make(map[Role][]*Segment)
		}
		c.byLocus[s.Locus][s.Role] = append(c.byLocus[s.Locus][s.Role], s)
	}
	return c, nil
}

func alleleKey(name, allele string) string {
	if allele == "" {
		return name
	}
	return name + "*" + allele
}

// Lookup resolves a segment by its stable name+allele key, used when
// rehydrating a Chain from a snapshot (see spec's "Ownership" note:
// chains reference segments by name, not pointer).
func (c *Catalog) Lookup(name, allele string) (*Segment, bool) {
	s, ok := c.byName[alleleKey(name, allele)]
	return s, ok
}

// Candidates returns all segments of the given locus and role.
func (c *Catalog) Candidates(locus Locus, role Role) []*Segment {
	return c.byLocus[locus][role]
}

// DownstreamOf filters candidates to those positioned strictly downstream
// of ref on the same chromosome and strand: for forward-strand segments,
// a higher start position; for reverse-strand segments, a lower start
// position (coordinates run 5'->3' against the strand's own sense).
func DownstreamOf(candidates []*Segment, ref *Segment) []*Segment {
	out := make([]*Segment, 0, len(candidates))
	for _, s := range candidates {
		if s.Chromosome != ref.Chromosome || s.Strand != ref.Strand {
			continue
		}
		if ref.Strand == Forward && s.Start > ref.Start {
			out = append(out, s)
		} else if ref.Strand == Reverse && s.Start < ref.Start {
			out = append(out, s)
		}
	}
	return out
}

// NearestDownstream returns the single candidate closest to ref among
// those strictly downstream of it, breaking ties by declaration order.
// Used for C-segment selection, where the nearest constant region wins.
func NearestDownstream(candidates []*Segment, ref *Segment) (*Segment, bool) {
	down := DownstreamOf(candidates, ref)
	if len(down) == 0 {
		return nil, false
	}
	best := down[0]
	for _, s := range down[1:] {
		if ref.Strand == Forward && s.Start < best.Start {
			best = s
		} else if ref.Strand == Reverse && s.Start > best.Start {
			best = s
		}
	}
	return best, true
}

// All returns every segment in the catalog, in load order.
func (c *Catalog) All() []Segment {
	return c.segments
}
