package catalog

import "testing"

func seg(name string, locus Locus, role Role, strand Strand, start, end int) Segment {
	return Segment{Name: name, Locus: locus, Role: role, Chromosome: "7", Strand: strand, Start: start, End: end}
}

func TestNew_IndexesByLocusAndName(t *testing.T) {
	segments := []Segment{
		seg("TRBV20-1", TRB, V, Forward, 0, 100),
		seg("TRBD1", TRB, D, Forward, 150, 160),
		seg("TRBJ1-1", TRB, J, Forward, 200, 230),
	}
	cat, err := New(segments)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := cat.Candidates(TRB, V); len(got) != 1 || got[0].Name != "TRBV20-1" {
		t.Errorf("Candidates(TRB, V) = %v, want [TRBV20-1]", got)
	}
	if _, ok := cat.Lookup("TRBV20-1", ""); !ok {
		t.Error("Lookup(TRBV20-1) not found")
	}
	if len(cat.All()) != 3 {
		t.Errorf("All() len = %d, want 3", len(cat.All()))
	}
}

func TestNew_RejectsDuplicateSegment(t *testing.T) {
	segments := []Segment{
		seg("TRBV20-1", TRB, V, Forward, 0, 100),
		seg("TRBV20-1", TRB, V, Forward, 0, 100),
	}
	if _, err := New(segments); err == nil {
		t.Error("New() expected error for duplicate segment, got nil")
	}
}

func TestDownstreamOf_RespectsStrand(t *testing.T) {
	v := seg("TRBV20-1", TRB, V, Forward, 100, 200)
	candidates := []*Segment{
		ptr(seg("TRBD1", TRB, D, Forward, 50, 60)),   // upstream, excluded
		ptr(seg("TRBD2", TRB, D, Forward, 300, 310)), // downstream, included
	}
	down := DownstreamOf(candidates, &v)
	if len(down) != 1 || down[0].Name != "TRBD2" {
		t.Errorf("DownstreamOf() = %v, want [TRBD2]", down)
	}
}

func TestDownstreamOf_ReverseStrand(t *testing.T) {
	v := seg("TRAV1", TRA, V, Reverse, 500, 600)
	candidates := []*Segment{
		ptr(seg("TRAJ1", TRA, J, Reverse, 700, 710)), // upstream on reverse strand, excluded
		ptr(seg("TRAJ2", TRA, J, Reverse, 100, 110)), // downstream on reverse strand, included
	}
	down := DownstreamOf(candidates, &v)
	if len(down) != 1 || down[0].Name != "TRAJ2" {
		t.Errorf("DownstreamOf() = %v, want [TRAJ2]", down)
	}
}

func TestNearestDownstream_PicksClosest(t *testing.T) {
	j := seg("TRBJ1-1", TRB, J, Forward, 200, 230)
	candidates := []*Segment{
		ptr(seg("TRBC2", TRB, C, Forward, 500, 600)),
		ptr(seg("TRBC1", TRB, C, Forward, 300, 400)),
	}
	best, ok := NearestDownstream(candidates, &j)
	if !ok || best.Name != "TRBC1" {
		t.Errorf("NearestDownstream() = %v, want TRBC1", best)
	}
}

func TestSegment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		segment Segment
		wantErr bool
	}{
		{"valid", Segment{Name: "ok", Start: 0, End: 10, Exons: []Exon{{0, 5}, {5, 10}}}, false},
		{"negative start", Segment{Name: "bad", Start: -1, End: 10}, true},
		{"end before start", Segment{Name: "bad", Start: 10, End: 5}, true},
		{"overlapping exons", Segment{Name: "bad", Start: 0, End: 10, Exons: []Exon{{0, 6}, {5, 10}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.segment.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func ptr(s Segment) *Segment { return &s }
