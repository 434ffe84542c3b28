// Package recomb holds the recombination probability model: segment-selection
// tuples and the seven chewback/addition arrays, loaded once from
// tcell_recombination.yaml and treated as immutable thereafter.
package recomb

import (
	"sort"
	"strings"
)

// Array names for the seven length-indexed probability distributions.
const (
	Vchewback  = "Vchewback"
	D5chewback = "D5chewback"
	D3chewback = "D3chewback"
	Jchewback  = "Jchewback"
	VDaddition = "VDaddition"
	DJaddition = "DJaddition"
	VJaddition = "VJaddition"
)

// Table is the immutable recombination probability model: a map from
// ordered segment-name tuples (length 1, 2, or 3) to an absolute
// probability, plus the seven named arrays.
type Table struct {
	// tuples maps a "|"-joined ordered segment-name key to a probability.
	tuples map[string]float64
	arrays map[string][]float64
}

// NewTable constructs a Table from parsed tuple entries and named arrays.
// It does not validate; call Validate separately so callers can choose
// whether warnings are fatal.
func NewTable(tuples map[string]float64, arrays map[string][]float64) *Table {
	return &Table{tuples: tuples, arrays: arrays}
}

// TupleKey builds the lookup key for an ordered tuple of segment names.
func TupleKey(names ...string) string {
	return strings.Join(names, "|")
}

// Tuple returns the probability recorded for the given ordered tuple,
// and whether it was present at all.
func (t *Table) Tuple(names ...string) (float64, bool) {
	p, ok := t.tuples[TupleKey(names...)]
	return p, ok
}

// Array returns the named chewback/addition distribution, or nil if
// absent.
func (t *Table) Array(name string) []float64 {
	return t.arrays[name]
}

// Warning describes a non-fatal condition raised while validating or
// using the table.
type Warning struct {
	Message string
}

// Validate checks the table's invariants: every tuple probability is
// in [0,1]; at any fixed prefix the sum of defined tuples is <= 1
// (excess is reported as a Warning, not an error, since it is clipped
// at sample time); every array should sum to 1 (a shortfall is
// reported as a Warning since the deficit is assigned to the last
// index).
func (t *Table) Validate() []Warning {
	var warnings []Warning

	byPrefix := make(map[string]float64)
	for key, p := range t.tuples {
		if p < 0 || p > 1 {
			warnings = append(warnings, Warning{Message: "tuple " + key + " has probability outside [0,1]"})
		}
		prefix := prefixOf(key)
		byPrefix[prefix] += p
	}
	prefixes := make([]string, 0, len(byPrefix))
	for prefix := range byPrefix {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		if byPrefix[prefix] > 1.0+1e-9 {
			warnings = append(warnings, Warning{Message: "probability sum for prefix \"" + prefix + "\" exceeds 1; will be clipped"})
		}
	}

	for _, name := range []string{Vchewback, D5chewback, D3chewback, Jchewback, VDaddition, DJaddition, VJaddition} {
		arr := t.arrays[name]
		if arr == nil {
			continue
		}
		sum := 0.0
		for _, v := range arr {
			sum += v
		}
		if sum < 1.0-1e-9 {
			warnings = append(warnings, Warning{Message: "array " + name + " sums to less than 1; residual assigned to last index"})
		}
	}
	return warnings
}

// prefixOf returns all but the last element of a tuple key, i.e. the
// conditioning prefix (V, or V,D) that a probability sum is constrained
// against.
func prefixOf(key string) string {
	parts := strings.Split(key, "|")
	if len(parts) <= 1 {
		return ""
	}
	return strings.Join(parts[:len(parts)-1], "|")
}
