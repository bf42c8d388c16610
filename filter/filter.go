package filter

import (
	"math"
	"sort"

	"github.com/regimelab/gomix/timeseries"
)

// Rule decides whether a finite covariate value keeps its row.
type Rule interface {
	keep(v float64) bool
}

// Range keeps values inside [Min, Max]. With Min > Max the interval wraps
// around, keeping values >= Min or <= Max.
type Range struct {
	Min, Max float64
}

func (r Range) keep(v float64) bool {
	if r.Min <= r.Max {
		return v >= r.Min && v <= r.Max
	}
	return v >= r.Min || v <= r.Max
}

// Func adapts an arbitrary predicate to a Rule.
type Func func(v float64) bool

func (f Func) keep(v float64) bool { return f(v) }

// Partition is an index split of the table rows. The three slices are
// disjoint, ordered, and together cover every row.
type Partition struct {
	// Good rows pass every rule.
	Good []int
	// Bad rows are finite in all rule columns but fail at least one rule.
	Bad []int
	// Ugly rows have a missing (NaN) value in at least one rule column.
	Ugly []int
}

// Apply evaluates the rules against their named columns and partitions the
// row indices. A rule naming an absent column is an error.
func Apply(tbl *timeseries.Table, rules map[string]Rule) (*Partition, error) {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([][]float64, len(names))
	for i, name := range names {
		col, err := tbl.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	part := &Partition{}
	for row := 0; row < tbl.Rows(); row++ {
		missing, failed := false, false
		for i, name := range names {
			v := cols[i][row]
			if math.IsNaN(v) {
				missing = true
				break
			}
			if !rules[name].keep(v) {
				failed = true
			}
		}
		switch {
		case missing:
			part.Ugly = append(part.Ugly, row)
		case failed:
			part.Bad = append(part.Bad, row)
		default:
			part.Good = append(part.Good, row)
		}
	}
	return part, nil
}
