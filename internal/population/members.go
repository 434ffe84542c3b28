package population

import (
	"sort"

	"github.com/stigtools/tcrsim/internal/sampler"
)

// Members indexes a Population (cells[k] counts) for uniform
// cell-level sampling: picking cells uniformly makes clonotype
// weighting implicit.
type Members struct {
	cumulative []int
	total      int
}

// NewMembers builds a Members index over cells, the output of Distribute.
func NewMembers(cells []int) *Members {
	m := &Members{cumulative: make([]int, len(cells))}
	running := 0
	for i, c := range cells {
		running += c
		m.cumulative[i] = running
	}
	m.total = running
	return m
}

// Total returns the number of materialized cells (== sum(cells)).
func (m *Members) Total() int {
	return m.total
}

// Pick draws a cell uniformly at random and returns its synthetic cell
// id (its rank in [0, Total())) and the clonotype index it belongs to.
func (m *Members) Pick(s *sampler.Sampler) (cellID, clonotypeIndex int) {
	if m.total == 0 {
		return -1, -1
	}
	cellID = s.IntN(m.total)
	clonotypeIndex = sort.Search(len(m.cumulative), func(i int) bool {
		return m.cumulative[i] > cellID
	})
	return cellID, clonotypeIndex
}
