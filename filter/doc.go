// Package filter partitions observation rows by covariate rules before
// estimation.
//
// Apply splits the row indices of a table into three groups: good rows
// pass every rule, bad rows are finite but fail at least one rule, and
// ugly rows have a missing value in a rule column. Only the good rows are
// handed to the mixture fit.
//
//	part, _ := filter.Apply(tbl, map[string]filter.Rule{
//	    "dd": filter.Range{Min: 43, Max: 223}, // down-valley wind sector
//	    "ff": filter.Func(func(v float64) bool { return v > 1 }),
//	})
//	kept, _ := tbl.Select(part.Good)
//
// Range rules with Min > Max wrap around, which covers circular covariates
// such as wind direction crossing north.
package filter
