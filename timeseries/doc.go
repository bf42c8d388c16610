// Package timeseries provides column-oriented containers for station
// observation data and CSV import.
//
// A Table holds named, length-aligned float columns plus optional
// timestamps. Missing observations are represented as NaN and left to the
// filter package to exclude; the estimation core never sees them.
//
//	tbl, _ := timeseries.ReadCSV(f, timeseries.DefaultCSVOptions())
//	y, _ := tbl.Column("ff")
//	X, _ := tbl.DesignMatrix(true, "rh", "dd")
package timeseries
